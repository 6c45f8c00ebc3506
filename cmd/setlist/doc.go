// Package main hosts the setlist CLI entrypoint and command graph.
//
// Every command loads configuration once, builds an internal/pipeline value
// for the invocation and renders its result. Keep the heavy lifting in the
// internal packages and surface it here through dedicated commands or flags.
package main
