package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// newJSONHandler writes one object per line with the short keys the event
// log uses: ts (UTC, second precision), level (lowercase) and msg. Durations
// are written rounded to the millisecond as strings such as "1.25s" so a
// batch_step line can be read without converting nanoseconds.
func newJSONHandler(w io.Writer, lvl slog.Leveler, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: eventAttr,
	})
}

// The slog source key is renamed to caller so it cannot be confused with the
// metadata source field.
func eventAttr(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) == 0 {
		switch {
		case attr.Key == slog.TimeKey && attr.Value.Kind() == slog.KindTime:
			return slog.String("ts", attr.Value.Time().UTC().Format(time.RFC3339))
		case attr.Key == slog.LevelKey:
			return slog.String("level", strings.ToLower(attr.Value.String()))
		case attr.Key == slog.SourceKey:
			if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
				return slog.String("caller", fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
			}
		}
	}
	if attr.Value.Kind() == slog.KindDuration {
		attr.Value = slog.StringValue(attr.Value.Duration().Round(time.Millisecond).String())
	}
	return attr
}
