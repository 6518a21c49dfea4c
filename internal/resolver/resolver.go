// Package resolver discovers the numeric schedule IDs behind each sport's text export.
//
// The athletics site exposes no index of IDs, so a fixed range is probed and each
// response title is matched back to a sport in the registry.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/cache"
	"github.com/acorn-hc/acorn-sports/internal/fanout"
	"github.com/acorn-hc/acorn-sports/internal/fetch"
	"github.com/acorn-hc/acorn-sports/internal/logger"
	"github.com/acorn-hc/acorn-sports/internal/metrics"
	"github.com/acorn-hc/acorn-sports/internal/scraper"
	"github.com/acorn-hc/acorn-sports/internal/sports"
)

// CacheKey is the cache entry holding the slug to ID map
const CacheKey = "schedule-ids"

const (
	DefaultMinID       = 370
	DefaultMaxID       = 410
	DefaultConcurrency = 40
	DefaultTTL         = 24 * time.Hour
)

var errNoResponses = errors.New("no schedule probe succeeded")

// errorMarkers identify bodies served for IDs that do not exist
var errorMarkers = []string{"Error:", "Schedule not found"}

// Options configures a Resolver
type Options struct {
	TxtURL      string
	MinID       int
	MaxID       int
	Concurrency int
	TTL         time.Duration
	Metrics     *metrics.Metrics
}

// Resolver maps sport slugs to schedule IDs
type Resolver struct {
	fetcher fetch.Fetcher
	sports  *sports.Registry
	cache   *cache.Cache[map[string]int]
	opts    Options
}

// New creates a Resolver. Zero values in opts take the package defaults.
func New(f fetch.Fetcher, reg *sports.Registry, c *cache.Cache[map[string]int], opts Options) *Resolver {
	if opts.MinID == 0 && opts.MaxID == 0 {
		opts.MinID, opts.MaxID = DefaultMinID, DefaultMaxID
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.TTL == 0 {
		opts.TTL = DefaultTTL
	}
	return &Resolver{fetcher: f, sports: reg, cache: c, opts: opts}
}

// Resolve returns the slug to schedule ID map, probing upstream when the cached
// map is missing or stale. It never fails; an unreachable upstream yields an
// empty map that is not cached.
func (r *Resolver) Resolve(ctx context.Context) map[string]int {
	ids, err := r.cache.GetOrCompute(ctx, CacheKey, r.opts.TTL, r.scan)
	if err != nil {
		logger.Warn("Schedule ID scan failed", logger.Fields{
			"min":   r.opts.MinID,
			"max":   r.opts.MaxID,
			"error": err.Error(),
		})
		return map[string]int{}
	}
	return ids
}

// Refresh rescans upstream and overwrites the cached map. A failed scan leaves
// the cached entry in place and returns it.
func (r *Resolver) Refresh(ctx context.Context) map[string]int {
	ids, err := r.scan(ctx)
	if err != nil {
		logger.Warn("Schedule ID refresh failed", logger.Fields{"error": err.Error()})
		if cached, ok := r.cache.Get(ctx, CacheKey); ok {
			return cached
		}
		return map[string]int{}
	}
	r.cache.Set(ctx, CacheKey, ids, r.opts.TTL)
	return ids
}

// ScheduleID looks up the schedule ID for slug
func (r *Resolver) ScheduleID(ctx context.Context, slug string) (int, bool) {
	id, ok := r.Resolve(ctx)[slug]
	return id, ok
}

// ProbeURL returns the text export URL for a schedule ID
func (r *Resolver) ProbeURL(id int) string {
	return fmt.Sprintf("%s?schedule=%d", r.opts.TxtURL, id)
}

type probe struct {
	id   int
	text string
}

func (r *Resolver) scan(ctx context.Context) (map[string]int, error) {
	var ids []int
	for id := r.opts.MinID; id <= r.opts.MaxID; id++ {
		ids = append(ids, id)
	}

	start := time.Now()
	results := fanout.Map(ctx, ids, r.opts.Concurrency, func(ctx context.Context, id int) (probe, error) {
		text, err := r.fetcher.Fetch(ctx, r.ProbeURL(id))
		if err != nil {
			logger.Debug("Schedule probe failed", logger.Fields{"id": id, "error": err.Error()})
			return probe{}, err
		}
		return probe{id: id, text: text}, nil
	})

	// a cancelled scan is partial and must not be cached
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("schedule scan interrupted: %w", err)
	}

	probes, _ := fanout.Successes(results)
	if len(ids) > 0 && len(probes) == 0 {
		return nil, errNoResponses
	}

	found := make(map[string]int)
	for _, p := range probes {
		if isErrorPage(p.text) {
			continue
		}
		slug, ok := MatchTitle(r.sports, scraper.SportNameFromTitle(scraper.TitleLine(p.text)))
		if !ok {
			continue
		}
		// the highest ID is assumed to be the active season
		if existing, seen := found[slug]; !seen || p.id > existing {
			found[slug] = p.id
		}
	}

	r.opts.Metrics.SetScheduleIDs(len(found))
	logger.Info("Resolved schedule IDs", logger.Fields{
		"probed":   len(ids),
		"answered": len(probes),
		"matched":  len(found),
		"duration": time.Since(start).String(),
	})
	return found, nil
}

func isErrorPage(text string) bool {
	for _, marker := range errorMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// MatchTitle maps a sport name from a text export title to a registry slug.
// Exact matches win over apostrophe-normalized ones, which win over substring
// containment in either direction. Earlier registry entries win ties.
func MatchTitle(reg *sports.Registry, name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", false
	}
	all := reg.All()

	for _, s := range all {
		if strings.ToLower(s.Label) == name {
			return s.Slug, true
		}
	}

	norm := normalizeApostrophes(name)
	for _, s := range all {
		if normalizeApostrophes(strings.ToLower(s.Label)) == norm {
			return s.Slug, true
		}
	}

	for _, s := range all {
		label := normalizeApostrophes(strings.ToLower(s.Label))
		if strings.Contains(label, norm) || strings.Contains(norm, label) {
			return s.Slug, true
		}
	}
	return "", false
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'")

func normalizeApostrophes(s string) string {
	return apostrophes.Replace(s)
}
