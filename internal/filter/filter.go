// Package filter narrows game lists by date range, program, opponent and venue.
//
// Filters are built from CLI flags or API query parameters and applied after a
// schedule or the upcoming feed has been assembled:
//
//	f := filter.New()
//	f.WeekendsOnly = true
//	f.Sports = []string{"baseball"}
//	games = f.Apply(games)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/game"
)

// Venue restricts games by home/away
type Venue string

const (
	VenueAny  Venue = ""
	VenueHome Venue = "home"
	VenueAway Venue = "away"
)

// ParseVenue accepts "", "any", "home" or "away"
func ParseVenue(s string) (Venue, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return VenueAny, nil
	case "home":
		return VenueHome, nil
	case "away":
		return VenueAway, nil
	default:
		return VenueAny, fmt.Errorf("invalid venue %q (use home or away)", s)
	}
}

// Filter represents game filtering criteria
type Filter struct {
	// Inclusive, compared against the calendar date only
	DateFrom *time.Time `json:"dateFrom,omitempty"`
	DateTo   *time.Time `json:"dateTo,omitempty"`

	// Sport slugs, exact match ignoring case
	Sports []string `json:"sports,omitempty"`

	// Opponent substrings, case-insensitive, matched on the cleaned name
	Opponents []string `json:"opponents,omitempty"`

	Venue        Venue `json:"venue,omitempty"`
	WeekendsOnly bool  `json:"weekendsOnly,omitempty"`
}

// New returns an empty filter
func New() *Filter {
	return &Filter{}
}

// IsEmpty reports whether the filter would match every game
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Sports) == 0 &&
		len(f.Opponents) == 0 &&
		f.Venue == VenueAny &&
		!f.WeekendsOnly
}

// Matches checks if a game passes all active criteria.
// Games whose StartDate cannot be parsed are excluded by any date-based criterion.
func (f *Filter) Matches(g game.Game) bool {
	if f.IsEmpty() {
		return true
	}

	if f.DateFrom != nil || f.DateTo != nil || f.WeekendsOnly {
		day, err := time.Parse(game.ISODate, g.StartDate)
		if err != nil {
			return false
		}
		if f.DateFrom != nil && day.Before(dateOnly(*f.DateFrom)) {
			return false
		}
		if f.DateTo != nil && day.After(dateOnly(*f.DateTo)) {
			return false
		}
		if f.WeekendsOnly {
			if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
				return false
			}
		}
	}

	switch f.Venue {
	case VenueHome:
		if !g.IsHome {
			return false
		}
	case VenueAway:
		if g.IsHome {
			return false
		}
	}

	if len(f.Sports) > 0 {
		matched := false
		for _, slug := range f.Sports {
			if strings.EqualFold(g.SportSlug, slug) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Opponents) > 0 {
		name := strings.ToLower(game.CleanOpponent(g.Opponent))
		matched := false
		for _, opp := range f.Opponents {
			if strings.Contains(name, strings.ToLower(opp)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply returns the games that match, preserving their order.
// An empty filter returns the input unchanged.
func (f *Filter) Apply(games []game.Game) []game.Game {
	if f.IsEmpty() {
		return games
	}
	filtered := []game.Game{}
	for _, g := range games {
		if f.Matches(g) {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

// ApplyUpcoming is Apply for the upcoming feed
func (f *Filter) ApplyUpcoming(games []game.UpcomingGame) []game.UpcomingGame {
	if f.IsEmpty() {
		return games
	}
	filtered := []game.UpcomingGame{}
	for _, g := range games {
		if f.Matches(g.Game) {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

// String returns a human-readable description of the active criteria.
// Format: "From: Mar 1, 2026 | To: Mar 15, 2026 | Sports: baseball | Weekends only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if f.DateFrom != nil {
		parts = append(parts, "From: "+f.DateFrom.Format("Jan 2, 2006"))
	}
	if f.DateTo != nil {
		parts = append(parts, "To: "+f.DateTo.Format("Jan 2, 2006"))
	}
	if len(f.Sports) > 0 {
		parts = append(parts, "Sports: "+strings.Join(f.Sports, ", "))
	}
	if len(f.Opponents) > 0 {
		parts = append(parts, "Opponents: "+strings.Join(f.Opponents, ", "))
	}
	switch f.Venue {
	case VenueHome:
		parts = append(parts, "Home only")
	case VenueAway:
		parts = append(parts, "Away only")
	}
	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}
	return strings.Join(parts, " | ")
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
