package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/acorn-hc/acorn-sports/internal/game"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate     SortOrder = "date"
	SortByOpponent SortOrder = "opponent"
	SortByVenue    SortOrder = "venue"
)

func parseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(s)); order {
	case SortByDate, SortByOpponent, SortByVenue:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort: %s (must be 'date', 'opponent' or 'venue')", s)
}

// sortGames sorts games based on the specified sort order
func sortGames(games []game.Game, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(games, func(i, j int) bool {
			return compareByDate(games[i], games[j])
		})
	case SortByOpponent:
		sort.SliceStable(games, func(i, j int) bool {
			oi, oj := strings.ToLower(games[i].Opponent), strings.ToLower(games[j].Opponent)
			if oi != oj {
				return oi < oj
			}
			// If opponents are equal, sort by date
			return compareByDate(games[i], games[j])
		})
	case SortByVenue:
		sort.SliceStable(games, func(i, j int) bool {
			// Home games first
			if games[i].IsHome != games[j].IsHome {
				return games[i].IsHome
			}
			return compareByDate(games[i], games[j])
		})
	}
}

// compareByDate reports whether game i starts before game j.
// Games without a parseable time come last on their day.
func compareByDate(i, j game.Game) bool {
	if i.StartDate != j.StartDate {
		return i.StartDate < j.StartDate
	}
	return game.ClockMinutes(i.Time) < game.ClockMinutes(j.Time)
}
