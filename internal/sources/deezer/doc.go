// Package deezer looks songs up in the Deezer public API. A matched track
// contributes the genres Deezer associates with its artist.
package deezer
