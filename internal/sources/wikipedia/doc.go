// Package wikipedia searches the encyclopedia for a song's article. It always
// runs: the article URL is kept as a reference, and the first plausible year
// in the article's introduction fills in a release year nobody else found.
package wikipedia
