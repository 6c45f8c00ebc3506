package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"setlist/internal/storage"
)

// Decode parses a dataset. Empty input is an empty dataset.
func Decode(data []byte) ([]Song, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var songs []Song
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	for i := range songs {
		songs[i].sanitize()
	}
	return songs, nil
}

// Encode renders a dataset as indented JSON. A nil dataset encodes as [].
func Encode(songs []Song) ([]byte, error) {
	if songs == nil {
		songs = []Song{}
	}
	data, err := json.MarshalIndent(songs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal dataset: %w", err)
	}
	return data, nil
}

// Load reads the named dataset. A missing blob yields an empty dataset and
// found=false.
func Load(store storage.Store, name string) (songs []Song, found bool, err error) {
	data, err := store.Read(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", name, err)
	}
	songs, err = Decode(data)
	if err != nil {
		return nil, true, fmt.Errorf("%s: %w", name, err)
	}
	return songs, true, nil
}

// Save replaces the named dataset in full.
func Save(store storage.Store, name string, songs []Song) error {
	data, err := Encode(songs)
	if err != nil {
		return err
	}
	if err := store.Write(name, data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// LoadLatest reads the newest finalized snapshot of base. name is empty when
// no snapshot exists.
func LoadLatest(store storage.Store, base string) (songs []Song, name string, err error) {
	name, ok, err := storage.LatestVersionName(store, base)
	if err != nil {
		return nil, "", fmt.Errorf("locate latest snapshot: %w", err)
	}
	if !ok {
		return nil, "", nil
	}
	songs, _, err = Load(store, name)
	if err != nil {
		return nil, name, err
	}
	return songs, name, nil
}

// Finalize writes songs as the next versioned snapshot of base and returns
// the snapshot name.
func Finalize(store storage.Store, base string, songs []Song) (string, error) {
	if len(songs) == 0 {
		return "", errors.New("refusing to finalize an empty dataset")
	}
	name, err := storage.NextVersionName(store, base)
	if err != nil {
		return "", fmt.Errorf("next snapshot name: %w", err)
	}
	if err := Save(store, name, songs); err != nil {
		return "", err
	}
	return name, nil
}

// Index maps join keys to positions. Later duplicates win.
func Index(songs []Song) map[string]int {
	idx := make(map[string]int, len(songs))
	for i := range songs {
		idx[songs[i].Key()] = i
	}
	return idx
}
