// Package api serves schedules, upcoming games and capacity snapshots over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/capacity"
	"github.com/acorn-hc/acorn-sports/internal/filter"
	"github.com/acorn-hc/acorn-sports/internal/game"
	"github.com/acorn-hc/acorn-sports/internal/logger"
	"github.com/acorn-hc/acorn-sports/internal/sports"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UserHeader carries the caller's user ID from the session layer in front of the API
const UserHeader = "X-User-ID"

// Schedules is the schedule lookup the API serves
type Schedules interface {
	GetSchedule(ctx context.Context, slug string) game.SportSchedule
	FindGame(ctx context.Context, slug, gameID string) (game.Game, sports.SportLink, bool)
	Sports() *sports.Registry
}

// Upcoming is the cross-sport upcoming list
type Upcoming interface {
	GetFilteredGames(ctx context.Context, f *filter.Filter, limit int) []game.UpcomingGame
}

// Config wires the router's collaborators
type Config struct {
	Schedules Schedules
	Upcoming  Upcoming
	// Capacity is optional; without it the capacity route answers 503
	Capacity capacity.Lookup
	// Gatherer backs /metrics; nil omits the route
	Gatherer prometheus.Gatherer
	// SiteURL and Location feed the iCalendar export
	SiteURL  string
	Location *time.Location
	// Now anchors relative date ranges; defaults to time.Now
	Now func() time.Time

	CORSOrigins    []string
	RequestTimeout time.Duration
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	cfg Config
}

// NewRouter builds the HTTP routes
func NewRouter(cfg Config) http.Handler {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	h := &Handler{cfg: cfg}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", UserHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.HealthCheck)
	r.Get("/sports", h.ListSports)
	r.Route("/sports/{slug}", func(r chi.Router) {
		r.Get("/schedule", h.GetSchedule)
		r.Get("/schedule.ics", h.GetScheduleICS)
		r.Get("/games/{gameID}", h.GetGame)
	})
	r.Get("/upcoming", h.GetUpcoming)
	r.Get("/upcoming.ics", h.GetUpcomingICS)
	r.Get("/events/{id}/capacity", h.GetCapacity)

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Info("HTTP request", logger.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"request_id": chimiddleware.GetReqID(r.Context()),
		})
	})
}
