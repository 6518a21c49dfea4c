// Package upcoming merges every sport's schedule into one chronological list of
// games that have not happened yet.
package upcoming

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/cache"
	"github.com/acorn-hc/acorn-sports/internal/fanout"
	"github.com/acorn-hc/acorn-sports/internal/filter"
	"github.com/acorn-hc/acorn-sports/internal/game"
	"github.com/acorn-hc/acorn-sports/internal/logger"
	"github.com/acorn-hc/acorn-sports/internal/metrics"
	"github.com/acorn-hc/acorn-sports/internal/sports"
)

// CacheKey is the cache entry holding the full sorted list
const CacheKey = "upcoming-games"

const (
	DefaultLimit = 10
	DefaultTTL   = 10 * time.Minute
)

// ScheduleSource is the per-sport schedule lookup the aggregator fans out over
type ScheduleSource interface {
	GetSchedule(ctx context.Context, slug string) game.SportSchedule
	Sports() *sports.Registry
}

// Options configures an Aggregator
type Options struct {
	TTL         time.Duration
	Location    *time.Location
	Now         func() time.Time
	Concurrency int // 0 means unbounded
	Metrics     *metrics.Metrics
}

// Aggregator builds the cross-sport upcoming list
type Aggregator struct {
	source ScheduleSource
	cache  *cache.Cache[[]game.UpcomingGame]
	opts   Options
}

// New creates an Aggregator
func New(src ScheduleSource, c *cache.Cache[[]game.UpcomingGame], opts Options) *Aggregator {
	if opts.TTL == 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Aggregator{source: src, cache: c, opts: opts}
}

// GetUpcomingGames returns at most limit upcoming games across all sports.
// A limit of zero or less means DefaultLimit.
func (a *Aggregator) GetUpcomingGames(ctx context.Context, limit int) []game.UpcomingGame {
	return a.GetFilteredGames(ctx, nil, limit)
}

// GetFilteredGames applies f to the full upcoming list before the limit is taken.
// A nil filter matches everything.
func (a *Aggregator) GetFilteredGames(ctx context.Context, f *filter.Filter, limit int) []game.UpcomingGame {
	if limit <= 0 {
		limit = DefaultLimit
	}
	all, _ := a.cache.GetOrCompute(ctx, CacheKey, a.opts.TTL, a.collect)
	if f != nil {
		all = f.ApplyUpcoming(all)
	}
	if limit > len(all) {
		limit = len(all)
	}
	out := make([]game.UpcomingGame, limit)
	copy(out, all[:limit])
	return out
}

// Refresh recomputes the full list and overwrites the cached copy.
// An interrupted refresh leaves the cache untouched and returns nil.
func (a *Aggregator) Refresh(ctx context.Context) []game.UpcomingGame {
	all, err := a.collect(ctx)
	if err != nil {
		logger.Warn("Upcoming games refresh interrupted", logger.Fields{"error": err.Error()})
		return nil
	}
	a.cache.Set(ctx, CacheKey, all, a.opts.TTL)
	return all
}

func (a *Aggregator) collect(ctx context.Context) ([]game.UpcomingGame, error) {
	links := a.source.Sports().All()
	today := game.Today(a.opts.Now(), a.opts.Location)

	results := fanout.Map(ctx, links, a.opts.Concurrency, func(ctx context.Context, link sports.SportLink) (game.SportSchedule, error) {
		return a.source.GetSchedule(ctx, link.Slug), nil
	})

	// schedules fetched under a cancelled context degrade to empty ones
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	schedules, indexes := fanout.Successes(results)
	games := []game.UpcomingGame{}
	for i, schedule := range schedules {
		label := links[indexes[i]].Label
		for _, g := range schedule.Games {
			if g.StartDate >= today {
				games = append(games, game.UpcomingGame{Game: g, SportLabel: label})
			}
		}
	}

	slices.SortStableFunc(games, Compare)

	a.opts.Metrics.SetUpcomingGames(len(games))
	logger.Debug("Collected upcoming games", logger.Fields{
		"sports": len(links),
		"games":  len(games),
		"today":  today,
	})
	return games, nil
}

// Compare orders games by date, time of day, sport label and opponent.
// Games without a parseable time sort after timed games on the same day.
func Compare(a, b game.UpcomingGame) int {
	if c := strings.Compare(a.StartDate, b.StartDate); c != 0 {
		return c
	}
	if c := cmp.Compare(game.ClockMinutes(a.Time), game.ClockMinutes(b.Time)); c != 0 {
		return c
	}
	if c := strings.Compare(a.SportLabel, b.SportLabel); c != 0 {
		return c
	}
	return strings.Compare(a.Opponent, b.Opponent)
}
