// Package state persists process-wide pipeline properties in SQLite: the
// enrichment cursor, the scheduler's active flag, and a short history of
// batch runs.
//
// Each CLI invocation is short-lived, so anything that must survive between
// invocations lives here rather than in memory.
package state
