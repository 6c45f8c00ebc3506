// Package services defines shared utilities consumed by the pipeline
// operations and the metadata source adapters.
//
// Key responsibilities:
//   - Context helpers that stamp operation names, and song
//     join keys for logging.
//   - Structured error markers plus the Wrap helper. Configuration errors are
//     the only fatal class; everything else degrades to a no-op.
package services
