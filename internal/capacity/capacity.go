// Package capacity reads event capacity snapshots from the registrations database.
package capacity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/cache"
	"github.com/acorn-hc/acorn-sports/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTTL is how long anonymous snapshots are reused
const DefaultTTL = 5 * time.Second

// Status is a caller's registration state for an event
type Status string

const (
	StatusGoing    Status = "going"
	StatusWaitlist Status = "waitlist"
)

// Snapshot is the seat accounting for one event
type Snapshot struct {
	Capacity         int     `json:"capacity"`
	SeatsRemaining   int     `json:"seatsRemaining"`
	GoingCount       int     `json:"goingCount"`
	WaitlistCount    int     `json:"waitlistCount"`
	IsFull           bool    `json:"isFull"`
	UserStatus       *Status `json:"userStatus"`
	WaitlistPosition *int    `json:"waitlistPosition"`
}

// Lookup fetches capacity snapshots
type Lookup interface {
	Snapshot(ctx context.Context, eventID string, userID *string) (*Snapshot, error)
}

// Querier is the subset of pgxpool.Pool the client needs
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const snapshotQuery = `
	SELECT capacity, seats_remaining, going_count, waitlist_count, is_full,
		user_status, waitlist_position
	FROM get_event_capacity_snapshot($1, $2)
`

// Client calls the get_event_capacity_snapshot stored procedure
type Client struct {
	db    Querier
	cache *cache.Cache[Snapshot]
	ttl   time.Duration
}

// NewClient creates a Client. Anonymous snapshots are cached in c for ttl; a nil
// cache disables caching.
func NewClient(db Querier, c *cache.Cache[Snapshot], ttl time.Duration) *Client {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Client{db: db, cache: c, ttl: ttl}
}

// Connect opens a pgx pool for databaseURL and verifies it
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Snapshot returns the snapshot for eventID, or nil when the event is unknown.
// Anonymous callers (userID nil) never see a status or waitlist position.
func (c *Client) Snapshot(ctx context.Context, eventID string, userID *string) (*Snapshot, error) {
	if userID == nil && c.cache != nil {
		if s, ok := c.cache.Get(ctx, "capacity:"+eventID); ok {
			return &s, nil
		}
	}

	s, err := c.query(ctx, eventID, userID)
	if err != nil || s == nil {
		return s, err
	}

	if userID == nil {
		s.UserStatus = nil
		s.WaitlistPosition = nil
		if c.cache != nil {
			c.cache.Set(ctx, "capacity:"+eventID, *s, c.ttl)
		}
	}
	return s, nil
}

func (c *Client) query(ctx context.Context, eventID string, userID *string) (*Snapshot, error) {
	var (
		s        Snapshot
		status   *string
		position *int
	)
	err := c.db.QueryRow(ctx, snapshotQuery, eventID, userID).Scan(
		&s.Capacity, &s.SeatsRemaining, &s.GoingCount, &s.WaitlistCount, &s.IsFull,
		&status, &position,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to load event capacity snapshot", logger.Fields{"event_id": eventID}, err)
		return nil, fmt.Errorf("failed to load capacity snapshot: %w", err)
	}

	s.UserStatus = parseStatus(status)
	s.WaitlistPosition = position
	return &s, nil
}

// parseStatus keeps only the statuses callers are allowed to see
func parseStatus(raw *string) *Status {
	if raw == nil {
		return nil
	}
	switch st := Status(*raw); st {
	case StatusGoing, StatusWaitlist:
		return &st
	}
	return nil
}
