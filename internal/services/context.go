package services

import "context"

type contextKey string

const (
	stageKey contextKey = "stage"
	songKey  contextKey = "song_key"
)

// WithStage annotates context with the pipeline operation name (scan, enrich, ...).
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithSongKey annotates context with the join key of the song being processed.
func WithSongKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, songKey, key)
}

// SongKeyFromContext returns the song join key if present.
func SongKeyFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(songKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
