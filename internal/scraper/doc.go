// Package scraper turns the athletics site's two schedule formats into the normalized
// game model.
//
// The primary source is the fixed-width text export, which carries results and the
// full season history. Columns are located by the character offsets of the header
// labels, because opponent and location names contain spaces. The fallback source is
// the JSON-LD embedded in the HTML schedule page, which only lists upcoming events.
// Opponent logos are scraped from the same HTML page by a pluggable LogoExtractor and
// backfilled onto games by normalized opponent name.
package scraper
