package cli

import (
	"context"
	"fmt"

	"github.com/acorn-hc/acorn-sports/internal/cache"
	"github.com/acorn-hc/acorn-sports/internal/capacity"
	"github.com/acorn-hc/acorn-sports/internal/config"
	"github.com/acorn-hc/acorn-sports/internal/fetch"
	"github.com/acorn-hc/acorn-sports/internal/game"
	"github.com/acorn-hc/acorn-sports/internal/logger"
	"github.com/acorn-hc/acorn-sports/internal/metrics"
	"github.com/acorn-hc/acorn-sports/internal/resolver"
	"github.com/acorn-hc/acorn-sports/internal/schedule"
	"github.com/acorn-hc/acorn-sports/internal/scraper"
	"github.com/acorn-hc/acorn-sports/internal/sports"
	"github.com/acorn-hc/acorn-sports/internal/storage"
	"github.com/acorn-hc/acorn-sports/internal/upcoming"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// App is the wired set of services every command runs against
type App struct {
	Config    *config.Config
	Registry  *sports.Registry
	Resolver  *resolver.Resolver
	Schedules *schedule.Service
	Upcoming  *upcoming.Aggregator
	Capacity  capacity.Lookup
	Prom      *prometheus.Registry

	closers []func()
}

// Deps overrides collaborators that would otherwise be built from config
type Deps struct {
	// Fetcher replaces the upstream HTTP client
	Fetcher fetch.Fetcher
	// Capacity replaces the database-backed capacity client
	Capacity capacity.Lookup
}

type stores struct {
	ids      cache.Store[map[string]int]
	upcoming cache.Store[[]game.UpcomingGame]
	pages    cache.Store[string]
	capacity cache.Store[capacity.Snapshot]
}

// NewApp wires services from cfg
func NewApp(ctx context.Context, cfg *config.Config, deps Deps) (*App, error) {
	app := &App{Config: cfg, Prom: prometheus.NewRegistry()}
	app.Prom.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(app.Prom)

	st, err := app.openStores(ctx)
	if err != nil {
		return nil, err
	}

	upstream := deps.Fetcher
	if upstream == nil {
		upstream = fetch.New(fetch.Options{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.HTTPTimeout,
			RetryMax:  cfg.HTTPRetryMax,
			Metrics:   m,
		})
	}
	pages := fetch.NewCachingFetcher(upstream, cache.New[string]("pages", st.pages, m), cfg.PageCacheTTL)

	loc := cfg.Location()
	app.Registry = sports.NewRegistry(cfg.BaseURL)
	app.Resolver = resolver.New(upstream, app.Registry, cache.New[map[string]int]("schedule-ids", st.ids, m), resolver.Options{
		TxtURL:      cfg.ScheduleTxtURL(),
		MinID:       cfg.ScanIDMin,
		MaxID:       cfg.ScanIDMax,
		Concurrency: cfg.ProbeConcurrency,
		TTL:         cfg.IDMapTTL,
		Metrics:     m,
	})

	parser := scraper.NewParser(app.Registry, scraper.Options{
		HomeInstitution: cfg.HomeInstitution,
		Location:        loc,
	})
	logos := scraper.NewLogoExtractor(cfg.LogoStrategy, cfg.BaseURL)
	app.Schedules = schedule.New(pages, app.Resolver, parser, logos, app.Registry, m)

	app.Upcoming = upcoming.New(app.Schedules, cache.New[[]game.UpcomingGame]("upcoming", st.upcoming, m), upcoming.Options{
		TTL:      cfg.UpcomingTTL,
		Location: loc,
		Metrics:  m,
	})

	app.Capacity = deps.Capacity
	if app.Capacity == nil && cfg.DatabaseURL != "" {
		pool, err := capacity.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, pool.Close)
		app.Capacity = capacity.NewClient(pool, cache.New[capacity.Snapshot]("capacity", st.capacity, m), cfg.CapacityTTL)
	}

	return app, nil
}

func (a *App) openStores(ctx context.Context) (stores, error) {
	switch a.Config.CacheBackend {
	case "file":
		return a.openFileStores()
	case "redis":
		return a.openRedisStores(ctx)
	default:
		return stores{
			ids:      cache.NewMemoryStore[map[string]int](),
			upcoming: cache.NewMemoryStore[[]game.UpcomingGame](),
			pages:    cache.NewMemoryStore[string](),
			capacity: cache.NewMemoryStore[capacity.Snapshot](),
		}, nil
	}
}

// openRedisStores shares every cache between processes through one client
func (a *App) openRedisStores(ctx context.Context) (stores, error) {
	opts, err := redis.ParseURL(a.Config.RedisURL)
	if err != nil {
		return stores{}, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return stores{}, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })
	logger.Info("Using Redis cache", logger.Fields{"addr": opts.Addr, "db": opts.DB})

	return stores{
		ids:      cache.NewRedisStore[map[string]int](client),
		upcoming: cache.NewRedisStore[[]game.UpcomingGame](client),
		pages:    cache.NewRedisStore[string](client),
		capacity: cache.NewRedisStore[capacity.Snapshot](client),
	}, nil
}

// openFileStores persists the ID map, upcoming list and pages between runs.
// Capacity snapshots stay in memory since their TTL is seconds.
func (a *App) openFileStores() (stores, error) {
	dir := a.Config.CacheDir
	ids, err := storage.New[map[string]int](dir, "schedule-ids")
	if err != nil {
		return stores{}, err
	}
	up, err := storage.New[[]game.UpcomingGame](dir, "upcoming")
	if err != nil {
		return stores{}, err
	}
	pages, err := storage.New[string](dir, "pages")
	if err != nil {
		return stores{}, err
	}

	// pages accumulate one file per URL
	if removed, err := pages.Prune(); err != nil {
		logger.Warn("Failed to prune page cache", logger.Fields{"error": err.Error()})
	} else if removed > 0 {
		logger.Debug("Pruned expired pages", logger.Fields{"removed": removed})
	}
	logger.Info("Using file cache", logger.Fields{"dir": dir})

	return stores{
		ids:      ids,
		upcoming: up,
		pages:    pages,
		capacity: cache.NewMemoryStore[capacity.Snapshot](),
	}, nil
}

// Close releases database and cache connections
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
