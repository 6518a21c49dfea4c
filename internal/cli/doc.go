// Package cli implements the command-line interface for acorn-sports.
//
// The cli package provides the Cobra-based commands for listing sports, printing a
// sport's schedule or a single game, aggregating upcoming games, discovering schedule
// export IDs, exporting iCalendar feeds and serving the HTTP API. It wires config,
// caches, the fetch layer and the scraping services into an App shared by every command.
package cli
