// Package storage persists cache entries as JSON files so a CLI run can reuse the
// schedule ID map and fetched pages from an earlier run.
//
// Each key maps to one file named after the SHA-256 of the key. A file holds the
// value and its expiry; expired or unreadable files are treated as misses.
// The default location is ~/.cache/acorn-sports/.
package storage
