package storage

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Store, used by tests and dry runs.
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) List(pattern string) ([]Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lowered := strings.ToLower(pattern)
	var out []Object
	for name := range m.blobs {
		ok, err := filepath.Match(lowered, strings.ToLower(name))
		if err != nil {
			return nil, fmt.Errorf("match pattern %q: %w", pattern, err)
		}
		if ok {
			out = append(out, Object{Name: name, URL: "mem://" + name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) Read(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[name]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", name, ErrNotExist)
	}
	return bytes.Clone(data), nil
}

func (m *Memory) Write(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = bytes.Clone(data)
	return nil
}

func (m *Memory) Exists(name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[name]
	return ok, nil
}

func (m *Memory) Append(name string) (io.WriteCloser, error) {
	return &memoryAppender{store: m, name: name}, nil
}

type memoryAppender struct {
	store *Memory
	name  string
}

func (a *memoryAppender) Write(p []byte) (int, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	a.store.blobs[a.name] = append(a.store.blobs[a.name], p...)
	return len(p), nil
}

func (a *memoryAppender) Close() error { return nil }
