// Package catalog owns the song record model and the whole-dataset
// operations built on it: scanning the presentation folder into a working
// dataset, merging enrichment results, reading the manual song table, and
// producing review exports.
//
// Datasets are always read and written in full. A write replaces the named
// blob atomically, so the last successful write is always a complete,
// parseable array.
package catalog
