// Package storage is the folder-scoped blob store the pipeline reads inputs
// from and writes artifacts to. Blobs are addressed by bare file name.
//
// Writes replace content atomically (temp file plus rename), so a crash
// mid-write never leaves a half-written catalogue behind. The package also
// owns the "<base>_v<N>.json" snapshot naming used by finalize.
package storage
