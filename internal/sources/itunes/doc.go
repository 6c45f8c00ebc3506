// Package itunes looks songs up in the iTunes Search API. It is consulted
// only while no genres are known and contributes the matched track's primary
// genre.
package itunes
