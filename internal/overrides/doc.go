// Package overrides applies hand-written genre corrections to the working
// dataset.
//
// Fuzzy entries are free text and may carry typos or display-only suffixes on
// the artist, so they are resolved in stages: exact join key, same title
// (with artist text that leaked into the title cut off), artist edit
// distance among same-title songs, and finally a global title+artist edit
// distance. The acceptance thresholds decide which songs are corrected
// automatically and which are reported for review; they are fixed.
//
// CSV entries are trusted and only match by exact join key.
package overrides
