// Package genre collapses free-text genre and tag labels from any metadata
// source into a small fixed vocabulary, and derives decade (epoch) labels
// from release years.
package genre
