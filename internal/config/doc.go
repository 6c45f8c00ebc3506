// Package config loads, normalizes, and validates setlist configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SETLIST_CONTACT_EMAIL and SETLIST_CATALOG_DIR. The Config type centralizes
// the catalogue folder, artifact names, metadata source endpoints, and
// scheduler cadence so the CLI discovers everything in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
