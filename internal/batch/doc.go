// Package batch advances enrichment through the working dataset a fixed-size
// slice at a time.
//
// Step is a pure transition from (dataset, cursor) to (dataset', cursor').
// Runner wraps it with persistence: the dataset lives in the catalogue
// folder, the cursor in the state database, and a file lock keeps two
// processes from stepping at once.
package batch
