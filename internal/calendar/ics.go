// Package calendar renders schedules as iCalendar feeds.
package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/game"
)

// GameDuration is the assumed length of a timed game
const GameDuration = 2 * time.Hour

// Options configures feed generation
type Options struct {
	// Name is the calendar display name
	Name string
	// SiteURL prefixes game paths in each event URL and provides the UID domain
	SiteURL string
	// Location interprets game wall-clock times
	Location *time.Location
	// Now stamps DTSTAMP; defaults to time.Now
	Now func() time.Time
}

// Entry is one game with the label shown in its summary
type Entry struct {
	Game       game.Game
	SportLabel string
}

// FromSchedule turns a sport schedule into calendar entries
func FromSchedule(s game.SportSchedule) []Entry {
	entries := make([]Entry, 0, len(s.Games))
	for _, g := range s.Games {
		entries = append(entries, Entry{Game: g, SportLabel: s.SportTitle})
	}
	return entries
}

// FromUpcoming turns the cross-sport upcoming list into calendar entries
func FromUpcoming(games []game.UpcomingGame) []Entry {
	entries := make([]Entry, 0, len(games))
	for _, g := range games {
		entries = append(entries, Entry{Game: g.Game, SportLabel: g.SportLabel})
	}
	return entries
}

// GenerateICS generates an iCalendar (.ics) feed for entries
func GenerateICS(entries []Entry, opts Options) string {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	domain := uidDomain(opts.SiteURL)
	stamp := formatICSTime(opts.Now())

	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Acorn Sports//acorn-sports//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	if opts.Name != "" {
		ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(opts.Name)))
	}

	for _, e := range entries {
		writeEvent(&ics, e, opts, domain, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, e Entry, opts Options, domain, stamp string) {
	g := e.Game
	day, err := time.ParseInLocation(game.ISODate, g.StartDate, opts.Location)
	if err != nil {
		return
	}

	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:%s@%s\r\n", g.ID, domain))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))

	if minutes := game.ClockMinutes(g.Time); minutes < 24*60 {
		start := time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, opts.Location)
		ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(start)))
		ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(start.Add(GameDuration))))
	} else {
		// no published time; all-day event
		ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", day.Format("20060102")))
		ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", day.AddDate(0, 0, 1).Format("20060102")))
	}

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(Summary(e))))
	if desc := description(g); desc != "" {
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(desc)))
	}
	if g.Location != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(g.Location)))
	}
	if opts.SiteURL != "" {
		ics.WriteString(fmt.Sprintf("URL:%s%s\r\n", strings.TrimRight(opts.SiteURL, "/"), game.GamePath(g.SportSlug, g.ID)))
	}
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// Summary renders "Baseball vs Swarthmore" for home games and "Baseball at Swarthmore"
// otherwise
func Summary(e Entry) string {
	sep := "at"
	if e.Game.IsHome {
		sep = "vs"
	}
	if e.SportLabel == "" {
		return fmt.Sprintf("%s %s", sep, e.Game.Opponent)
	}
	return fmt.Sprintf("%s %s %s", e.SportLabel, sep, e.Game.Opponent)
}

func description(g game.Game) string {
	var lines []string
	if g.Tournament != nil {
		lines = append(lines, *g.Tournament)
	}
	if g.Result != nil {
		lines = append(lines, "Result: "+*g.Result)
	}
	if g.Time == game.TBD {
		lines = append(lines, "Time TBD")
	}
	return strings.Join(lines, "\n")
}

func uidDomain(siteURL string) string {
	if u, err := url.Parse(siteURL); err == nil && u.Host != "" {
		return u.Host
	}
	return "acorn-sports"
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
