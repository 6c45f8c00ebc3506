// Package textnorm canonicalizes filename fragments into display titles and
// artist names, and derives the diacritic- and case-insensitive join key that
// identifies a song across pipeline runs.
//
// Everything here is pure and deterministic.
package textnorm
