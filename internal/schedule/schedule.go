// Package schedule produces one sport's normalized schedule from whichever upstream
// source currently has data.
package schedule

import (
	"context"
	"errors"
	"net/url"

	"github.com/acorn-hc/acorn-sports/internal/fetch"
	"github.com/acorn-hc/acorn-sports/internal/game"
	"github.com/acorn-hc/acorn-sports/internal/logger"
	"github.com/acorn-hc/acorn-sports/internal/metrics"
	"github.com/acorn-hc/acorn-sports/internal/scraper"
	"github.com/acorn-hc/acorn-sports/internal/sports"
)

// IDResolver looks up the text export ID for a sport
type IDResolver interface {
	ScheduleID(ctx context.Context, slug string) (int, bool)
	ProbeURL(id int) string
}

// Service orchestrates the primary text export, the JSON-LD fallback and logo enrichment
type Service struct {
	fetcher  fetch.Fetcher
	resolver IDResolver
	parser   *scraper.Parser
	logos    scraper.LogoExtractor
	sports   *sports.Registry
	metrics  *metrics.Metrics
}

// New creates a Service
func New(f fetch.Fetcher, r IDResolver, p *scraper.Parser, logos scraper.LogoExtractor, reg *sports.Registry, m *metrics.Metrics) *Service {
	return &Service{
		fetcher:  f,
		resolver: r,
		parser:   p,
		logos:    logos,
		sports:   reg,
		metrics:  m,
	}
}

// Sports returns the registry the service serves
func (s *Service) Sports() *sports.Registry {
	return s.sports
}

// GetSchedule returns the schedule for slug. It never fails: when neither source has
// data the result is an empty fallback schedule.
func (s *Service) GetSchedule(ctx context.Context, slug string) game.SportSchedule {
	link, ok := s.sports.BySlug(slug)
	if !ok {
		return game.EmptySchedule(slug, game.SourceFallback)
	}
	fields := logger.Fields{"sport": slug}

	page, pageErr := s.fetcher.Fetch(ctx, link.SchedulePageURL())
	var logos map[string]string
	if pageErr == nil {
		logos = s.extractLogos(page, slug)
	} else {
		fields["page_error"] = pageErr.Error()
	}

	if schedule, err := s.primary(ctx, slug); err == nil && len(schedule.Games) > 0 {
		scraper.ApplyLogos(schedule.Games, logos)
		return s.served(slug, schedule)
	} else if err != nil {
		fields["primary_error"] = err.Error()
	}
	logger.Info("Primary schedule unavailable, using fallback", fields)

	if pageErr != nil {
		page, pageErr = s.fetcher.Fetch(ctx, link.SchedulePageURL())
		if pageErr == nil {
			logos = s.extractLogos(page, slug)
		}
	}
	if pageErr == nil {
		schedule, err := s.parser.ParseJSONLD(page, slug)
		if err == nil {
			scraper.ApplyLogos(schedule.Games, logos)
			return s.served(slug, schedule)
		}
		fields["fallback_error"] = err.Error()
	} else {
		fields["fallback_error"] = pageErr.Error()
	}

	logger.Warn("No schedule source available", fields)
	return s.served(slug, game.EmptySchedule(link.Label, game.SourceFallback))
}

var errNoScheduleID = errors.New("no schedule ID for sport")

func (s *Service) primary(ctx context.Context, slug string) (game.SportSchedule, error) {
	id, ok := s.resolver.ScheduleID(ctx, slug)
	if !ok {
		return game.SportSchedule{}, errNoScheduleID
	}
	text, err := s.fetcher.Fetch(ctx, s.resolver.ProbeURL(id))
	if err != nil {
		return game.SportSchedule{}, err
	}
	return s.parser.ParseText(text, slug), nil
}

// extractLogos is best-effort; a failing extractor yields no logos
func (s *Service) extractLogos(page, slug string) (logos map[string]string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Logo extraction failed", logger.Fields{"sport": slug, "panic": r})
			logos = nil
		}
	}()
	return s.logos.Extract(page)
}

func (s *Service) served(slug string, schedule game.SportSchedule) game.SportSchedule {
	s.metrics.RecordSchedule(slug, string(schedule.DataSource))
	return schedule
}

// FindGame looks up a single game by its ID within slug's current schedule.
// gameID may be URL-escaped.
func (s *Service) FindGame(ctx context.Context, slug, gameID string) (game.Game, sports.SportLink, bool) {
	link, ok := s.sports.BySlug(slug)
	if !ok {
		return game.Game{}, sports.SportLink{}, false
	}
	if unescaped, err := url.PathUnescape(gameID); err == nil {
		gameID = unescaped
	}
	for _, g := range s.GetSchedule(ctx, slug).Games {
		if g.ID == gameID {
			return g, link, true
		}
	}
	return game.Game{}, link, false
}
