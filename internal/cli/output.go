package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/acorn-hc/acorn-sports/internal/game"
	"github.com/acorn-hc/acorn-sports/internal/sports"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// GameDetail is a single game with its program
type GameDetail struct {
	Game  game.Game        `json:"game"`
	Sport sports.SportLink `json:"sport"`
	Path  string           `json:"path"`
}

// ScheduleIDs is the resolved slug to export ID map
type ScheduleIDs map[string]int

// WriteOutput writes result in the specified format
func WriteOutput(w io.Writer, result interface{}, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result interface{}, verbose bool) error {
	switch r := result.(type) {
	case []sports.Category:
		writeCategories(w, r)
	case game.SportSchedule:
		writeSchedule(w, r, verbose)
	case GameDetail:
		writeGameDetail(w, r)
	case []game.UpcomingGame:
		writeUpcoming(w, r, verbose)
	case ScheduleIDs:
		writeIDs(w, r)
	default:
		return fmt.Errorf("no text rendering for %T", result)
	}
	return nil
}

func writeCategories(w io.Writer, categories []sports.Category) {
	for _, c := range categories {
		fmt.Fprintf(w, "\n%s (%d):\n", c.Label, len(c.Sports))
		for _, s := range c.Sports {
			fmt.Fprintf(w, "  %-28s %s\n", s.Slug, s.Label)
		}
	}
}

func writeSchedule(w io.Writer, s game.SportSchedule, verbose bool) {
	header := s.SportTitle
	if s.Season != "" {
		header = s.Season + " " + header
	}
	fmt.Fprintf(w, "%s (%s)\n", header, s.DataSource)
	if s.OverallRecord != nil {
		fmt.Fprintf(w, "Overall: %s\n", *s.OverallRecord)
	}
	if s.ConferenceRecord != nil {
		fmt.Fprintf(w, "Conference: %s\n", *s.ConferenceRecord)
	}

	if len(s.Games) == 0 {
		fmt.Fprintln(w, "No games found.")
		return
	}

	fmt.Fprintln(w)
	for _, g := range s.Games {
		writeGameLine(w, g, "")
		if verbose {
			writeGameExtras(w, g)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d games\n", len(s.Games))
}

func writeGameLine(w io.Writer, g game.Game, label string) {
	venue := "at"
	if g.IsHome {
		venue = "vs"
	}
	if label != "" {
		label += " "
	}
	line := fmt.Sprintf("%s %-8s %s%s %s", g.StartDate, g.Time, label, venue, g.Opponent)
	if g.Result != nil {
		line += "  " + *g.Result
	}
	fmt.Fprintln(w, line)
}

func writeGameExtras(w io.Writer, g game.Game) {
	fmt.Fprintf(w, "     ID: %s\n", g.ID)
	if g.Location != "" {
		fmt.Fprintf(w, "     Location: %s\n", g.Location)
	}
	if g.Tournament != nil {
		fmt.Fprintf(w, "     Tournament: %s\n", *g.Tournament)
	}
	if g.OpponentLogo != nil {
		fmt.Fprintf(w, "     Logo: %s\n", *g.OpponentLogo)
	}
}

func writeGameDetail(w io.Writer, d GameDetail) {
	writeGameLine(w, d.Game, d.Sport.Label)
	writeGameExtras(w, d.Game)
	fmt.Fprintf(w, "     Path: %s\n", d.Path)
}

func writeUpcoming(w io.Writer, games []game.UpcomingGame, verbose bool) {
	if len(games) == 0 {
		fmt.Fprintln(w, "No upcoming games found.")
		return
	}
	for _, g := range games {
		writeGameLine(w, g.Game, g.SportLabel)
		if verbose {
			writeGameExtras(w, g.Game)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d upcoming games\n", len(games))
}

func writeIDs(w io.Writer, ids ScheduleIDs) {
	if len(ids) == 0 {
		fmt.Fprintln(w, "No schedule IDs resolved.")
		return
	}
	slugs := make([]string, 0, len(ids))
	for slug := range ids {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	for _, slug := range slugs {
		fmt.Fprintf(w, "%-28s %d\n", slug, ids[slug])
	}
	fmt.Fprintf(w, "\nTotal: %d sports\n", len(ids))
}
