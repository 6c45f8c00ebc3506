package logging

import (
	"io"
	"log/slog"
)

// NewEventLogHandler returns a handler that appends one JSON object per record
// to w, with "ts", "level" and "msg" keys. It backs the diagnostic event log
// kept next to the catalogue. Records below minLevel are dropped.
func NewEventLogHandler(w io.Writer, minLevel slog.Level) slog.Handler {
	if w == nil {
		return discardHandler{}
	}
	return newJSONHandler(w, minLevel, false)
}
