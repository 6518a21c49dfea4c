// Package game provides the normalized schedule model shared by every source parser.
//
// Games carry a deterministic ID built from the sport slug, the ISO start date and the
// cleaned opponent name, so the same fixture scraped twice (from either source) always
// produces the same ID and the same /sports/{slug}/games/{id} path. The package also
// holds the small text helpers the parsers agree on: opponent cleaning, result
// classification, season-aware date parsing and 12-hour clock handling.
package game
