package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/calendar"
	"github.com/acorn-hc/acorn-sports/internal/filter"
	"github.com/acorn-hc/acorn-sports/internal/game"
	"github.com/acorn-hc/acorn-sports/internal/logger"
	"github.com/acorn-hc/acorn-sports/internal/sports"
	"github.com/go-chi/chi/v5"
)

// MaxLimit caps the upcoming list size a client may request
const MaxLimit = 200

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// GameResponse is a single game with its program and canonical path
type GameResponse struct {
	Game  game.Game        `json:"game"`
	Sport sports.SportLink `json:"sport"`
	Path  string           `json:"path"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "acorn-sports",
	})
}

// ListSports returns the sport categories
func (h *Handler) ListSports(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.cfg.Schedules.Sports().Categories(),
	})
}

// GetSchedule returns one sport's schedule
// Query params: opponent, venue, weekends, dates
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if _, ok := h.cfg.Schedules.Sports().BySlug(slug); !ok {
		respondError(w, http.StatusNotFound, "unknown sport: "+slug, nil)
		return
	}
	f, err := h.parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	schedule := h.cfg.Schedules.GetSchedule(r.Context(), slug)
	schedule.Games = f.Apply(schedule.Games)
	respondJSON(w, http.StatusOK, schedule)
}

// GetScheduleICS returns one sport's schedule as an iCalendar feed
func (h *Handler) GetScheduleICS(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	link, ok := h.cfg.Schedules.Sports().BySlug(slug)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown sport: "+slug, nil)
		return
	}
	schedule := h.cfg.Schedules.GetSchedule(r.Context(), slug)
	respondICS(w, slug, calendar.GenerateICS(calendar.FromSchedule(schedule), h.calendarOptions(link.Label)))
}

// GetGame returns a single game by ID
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	gameID := chi.URLParam(r, "gameID")

	g, link, ok := h.cfg.Schedules.FindGame(r.Context(), slug, gameID)
	if !ok {
		respondError(w, http.StatusNotFound, "game not found", nil)
		return
	}
	respondJSON(w, http.StatusOK, GameResponse{
		Game:  g,
		Sport: link,
		Path:  game.GamePath(slug, g.ID),
	})
}

// GetUpcoming returns upcoming games across all sports
// Query params: limit, sport, opponent, venue, weekends, dates
func (h *Handler) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	f, err := h.parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	games := h.cfg.Upcoming.GetFilteredGames(r.Context(), f, parseLimit(r))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"count": len(games),
	})
}

// GetUpcomingICS returns upcoming games as an iCalendar feed
func (h *Handler) GetUpcomingICS(w http.ResponseWriter, r *http.Request) {
	f, err := h.parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	games := h.cfg.Upcoming.GetFilteredGames(r.Context(), f, parseLimit(r))
	respondICS(w, "upcoming", calendar.GenerateICS(calendar.FromUpcoming(games), h.calendarOptions("Upcoming Games")))
}

// GetCapacity returns the capacity snapshot for an event.
// The caller's status is included only when the user header is present.
func (h *Handler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Capacity == nil {
		respondError(w, http.StatusServiceUnavailable, "capacity lookups are not configured", nil)
		return
	}
	eventID := chi.URLParam(r, "id")

	var userID *string
	if u := r.Header.Get(UserHeader); u != "" {
		userID = &u
	}

	snapshot, err := h.cfg.Capacity.Snapshot(r.Context(), eventID, userID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "failed to load capacity", err)
		return
	}
	if snapshot == nil {
		respondError(w, http.StatusNotFound, "event not found", nil)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) calendarOptions(name string) calendar.Options {
	return calendar.Options{
		Name:     name,
		SiteURL:  h.cfg.SiteURL,
		Location: h.cfg.Location,
	}
}

// parseFilter builds a game filter from query params. sport and opponent may repeat
// or hold comma-separated values.
func (h *Handler) parseFilter(r *http.Request) (*filter.Filter, error) {
	q := r.URL.Query()
	f := filter.New()
	f.Sports = splitValues(q["sport"])
	f.Opponents = splitValues(q["opponent"])

	venue, err := filter.ParseVenue(q.Get("venue"))
	if err != nil {
		return nil, err
	}
	f.Venue = venue

	if v := q.Get("weekends"); v != "" {
		weekends, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid weekends value %q", v)
		}
		f.WeekendsOnly = weekends
	}

	if dates := q.Get("dates"); dates != "" {
		now := h.cfg.Now()
		if h.cfg.Location != nil {
			now = now.In(h.cfg.Location)
		}
		from, to, err := filter.ParseDateRange(dates, now)
		if err != nil {
			return nil, err
		}
		f.DateFrom, f.DateTo = from, to
	}
	return f, nil
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseLimit reads the limit query param; absent or invalid values mean the default
func parseLimit(r *http.Request) int {
	value, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || value < 0 {
		return 0
	}
	if value > MaxLimit {
		return MaxLimit
	}
	return value
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", nil, err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		logger.Error(message, logger.Fields{"status": status}, err)
	}
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

func respondICS(w http.ResponseWriter, name, body string) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
