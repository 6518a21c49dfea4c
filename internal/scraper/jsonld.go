package scraper

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/acorn-hc/acorn-sports/internal/game"
	"github.com/tidwall/gjson"
)

const sportsEventType = "SportsEvent"

var startLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04Z07:00",
}

// ExtractJSONLD returns every JSON-LD entry embedded in the page, with top-level
// arrays flattened. Malformed blocks are skipped.
func ExtractJSONLD(html string) ([]gjson.Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var entries []gjson.Result
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" || !gjson.Valid(raw) {
			return
		}
		parsed := gjson.Parse(raw)
		if parsed.IsArray() {
			entries = append(entries, parsed.Array()...)
			return
		}
		entries = append(entries, parsed)
	})
	return entries, nil
}

// ParseJSONLD parses the JSON-LD fallback for sportSlug.
// Only events starting now or later are returned, sorted by start.
func (p *Parser) ParseJSONLD(html, sportSlug string) (game.SportSchedule, error) {
	entries, err := ExtractJSONLD(html)
	if err != nil {
		return game.SportSchedule{}, err
	}

	title, ok := p.sportLabel(sportSlug)
	if !ok {
		title = sportSlug
	}
	schedule := game.EmptySchedule(title, game.SourceFallback)

	now := p.now()
	today := game.Today(now, p.loc)

	type dated struct {
		game  game.Game
		start time.Time
	}
	var upcoming []dated

	for _, e := range entries {
		if !e.IsObject() || e.Map()["@type"].String() != sportsEventType {
			continue
		}

		g, start, hasClock, ok := p.jsonLDGame(e, sportSlug)
		if !ok {
			continue
		}
		if hasClock {
			if start.Before(now) {
				continue
			}
		} else if g.StartDate < today {
			continue
		}
		upcoming = append(upcoming, dated{game: g, start: start})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].start.Before(upcoming[j].start)
	})
	for _, d := range upcoming {
		schedule.Games = append(schedule.Games, d.game)
	}
	return schedule, nil
}

func (p *Parser) jsonLDGame(e gjson.Result, sportSlug string) (g game.Game, start time.Time, hasClock, ok bool) {
	homeName := e.Get("homeTeam.name").String()
	awayName := e.Get("awayTeam.name").String()

	isHome := homeName != "" && strings.Contains(strings.ToLower(homeName), strings.ToLower(p.home))
	opponent := homeName
	if isHome {
		opponent = awayName
	}
	if strings.TrimSpace(opponent) == "" {
		opponent = game.TBD
	}

	start, hasClock, ok = p.parseStart(e.Get("startDate").String())
	if !ok {
		return game.Game{}, time.Time{}, false, false
	}

	isoDate := start.Format(game.ISODate)
	clock := game.TBD
	if hasClock {
		clock = game.FormatClock(start.Hour(), start.Minute())
	}

	return game.Game{
		ID:        game.GenerateID(sportSlug, isoDate, opponent),
		SportSlug: sportSlug,
		Opponent:  game.CleanOpponent(opponent),
		StartDate: isoDate,
		Time:      clock,
		IsHome:    isHome,
		Location:  e.Get("location.name").String(),
	}, start, hasClock, true
}

// parseStart reads a JSON-LD startDate. Values without an offset are wall times in
// the home timezone. Date-only values report hasClock=false.
func (p *Parser) parseStart(value string) (start time.Time, hasClock, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, false
	}
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, value, p.loc); err == nil {
			return t, true, true
		}
	}
	if t, err := time.ParseInLocation(game.ISODate, value, p.loc); err == nil {
		return t, false, true
	}
	return time.Time{}, false, false
}
