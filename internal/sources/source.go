package sources

import (
	"context"
	"fmt"
)

// Status classifies a lookup outcome.
type Status int

const (
	// StatusEmpty means the source answered but had nothing usable.
	StatusEmpty Status = iota
	// StatusFound means the source returned at least one signal.
	StatusFound
	// StatusFailed means the source could not be queried or its answer could
	// not be understood.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusFailed:
		return "failed"
	default:
		return "empty"
	}
}

// Query identifies the song to look up. ID is the source-specific identifier
// recorded by an earlier pass; when set, adapters that support it skip the
// text search.
type Query struct {
	Title  string
	Artist string
	ID     string
}

// Outcome is the result of one adapter lookup. Genres are raw labels as the
// source reported them; the caller folds them through the taxonomy.
type Outcome struct {
	Source string
	Status Status
	Reason string

	ID     string
	Title  string
	Artist string
	Genres []string
	Year   string
	URL    string
}

// Contributed reports whether the outcome carries data worth crediting in
// provenance. A bare identifier does not count.
func (o Outcome) Contributed() bool {
	return len(o.Genres) > 0 || o.Year != "" || o.URL != ""
}

// Empty builds a StatusEmpty outcome.
func Empty(source, reason string) Outcome {
	return Outcome{Source: source, Status: StatusEmpty, Reason: reason}
}

// Failed builds a StatusFailed outcome.
func Failed(source string, format string, args ...any) Outcome {
	return Outcome{Source: source, Status: StatusFailed, Reason: fmt.Sprintf(format, args...)}
}

// Source is one metadata provider.
type Source interface {
	Name() string
	Lookup(ctx context.Context, q Query) Outcome
}
