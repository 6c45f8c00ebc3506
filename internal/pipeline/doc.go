// Package pipeline assembles the catalogue folder, the state database, the
// metadata sources and the batch runner from configuration and exposes the
// top-level operations the CLI invokes: scan, enrich, finalize, export,
// override application and cleanup.
package pipeline
