package upcoming

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/cache"
	"github.com/acorn-hc/acorn-sports/internal/filter"
	"github.com/acorn-hc/acorn-sports/internal/game"
	"github.com/acorn-hc/acorn-sports/internal/sports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	reg       *sports.Registry
	schedules map[string][]game.Game

	mu    sync.Mutex
	calls int
}

func (f *fakeSource) GetSchedule(_ context.Context, slug string) game.SportSchedule {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	s := game.EmptySchedule(slug, game.SourcePrimary)
	s.Games = append(s.Games, f.schedules[slug]...)
	return s
}

func (f *fakeSource) Sports() *sports.Registry { return f.reg }

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newFakeSource() *fakeSource {
	reg := sports.NewCustomRegistry("Test",
		sports.SportLink{Label: "Baseball", Slug: "baseball"},
		sports.SportLink{Label: "Men's Tennis", Slug: "mten"},
		sports.SportLink{Label: "Softball", Slug: "softball"},
	)
	return &fakeSource{
		reg: reg,
		schedules: map[string][]game.Game{
			"baseball": {
				{ID: "b-past", Opponent: "Ursinus", StartDate: "2026-03-01", Time: "1:00 PM"},
				{ID: "b-1", Opponent: "Swarthmore", StartDate: "2026-03-04", Time: "3:00 PM"},
				{ID: "b-2", Opponent: "Dickinson", StartDate: "2026-03-05", Time: game.TBD},
			},
			"mten": {
				{ID: "t-1", Opponent: "Johns Hopkins", StartDate: "2026-03-04", Time: "1:00 PM"},
				{ID: "t-2", Opponent: "Muhlenberg", StartDate: "2026-03-05", Time: "10:00 AM"},
			},
			"softball": {
				{ID: "s-1", Opponent: "Bryn Mawr", StartDate: "2026-03-04", Time: "3:00 PM"},
				{ID: "s-2", Opponent: "Arcadia", StartDate: "2026-03-04", Time: "3:00 PM"},
			},
		},
	}
}

func newAggregator(src ScheduleSource) *Aggregator {
	now := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)
	c := cache.New[[]game.UpcomingGame]("upcoming", cache.NewMemoryStore[[]game.UpcomingGame](), nil)
	return New(src, c, Options{Now: func() time.Time { return now }})
}

func ids(games []game.UpcomingGame) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.ID
	}
	return out
}

func TestGetUpcomingGames_Ordering(t *testing.T) {
	agg := newAggregator(newFakeSource())

	games := agg.GetUpcomingGames(context.Background(), 50)

	assert.Equal(t, []string{"t-1", "b-1", "s-2", "s-1", "t-2", "b-2"}, ids(games))
	assert.Equal(t, "Men's Tennis", games[0].SportLabel)
	assert.Equal(t, "Baseball", games[1].SportLabel)
}

func TestGetUpcomingGames_Limit(t *testing.T) {
	agg := newAggregator(newFakeSource())

	assert.Len(t, agg.GetUpcomingGames(context.Background(), 2), 2)
	assert.Len(t, agg.GetUpcomingGames(context.Background(), 0), 6, "default limit exceeds available games")
	assert.Len(t, agg.GetUpcomingGames(context.Background(), -1), 6)
}

func TestGetFilteredGames(t *testing.T) {
	agg := newAggregator(newFakeSource())
	f := &filter.Filter{Opponents: []string{"hopkins", "arcadia"}}

	assert.Equal(t, []string{"t-1", "s-2"}, ids(agg.GetFilteredGames(context.Background(), f, 10)))
	assert.Equal(t, []string{"t-1"}, ids(agg.GetFilteredGames(context.Background(), f, 1)))
	assert.Len(t, agg.GetFilteredGames(context.Background(), nil, 10), 6)
}

func TestGetUpcomingGames_Cached(t *testing.T) {
	src := newFakeSource()
	agg := newAggregator(src)

	first := agg.GetUpcomingGames(context.Background(), 3)
	calls := src.callCount()
	second := agg.GetUpcomingGames(context.Background(), 10)

	assert.Equal(t, 3, calls)
	assert.Equal(t, calls, src.callCount(), "second call served from cache")
	assert.Equal(t, ids(first), ids(second)[:3])

	// results are copies
	first[0].Opponent = "changed"
	assert.NotEqual(t, "changed", agg.GetUpcomingGames(context.Background(), 1)[0].Opponent)
}

func TestGetUpcomingGames_CancelledIsNotCached(t *testing.T) {
	src := newFakeSource()
	agg := newAggregator(src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, agg.GetUpcomingGames(ctx, 10))

	games := agg.GetUpcomingGames(context.Background(), 10)
	assert.Len(t, games, 6, "recomputed once the caller's context is live")
}

func TestRefresh_CancelledKeepsCache(t *testing.T) {
	src := newFakeSource()
	agg := newAggregator(src)
	agg.GetUpcomingGames(context.Background(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Nil(t, agg.Refresh(ctx))
	assert.Len(t, agg.GetUpcomingGames(context.Background(), 10), 6)
}

func TestRefresh(t *testing.T) {
	src := newFakeSource()
	agg := newAggregator(src)
	agg.GetUpcomingGames(context.Background(), 1)

	src.schedules["softball"] = nil
	refreshed := agg.Refresh(context.Background())

	assert.Len(t, refreshed, 4)
	assert.Equal(t, 6, src.callCount())
	assert.Len(t, agg.GetUpcomingGames(context.Background(), 10), 4)
}

func TestGetUpcomingGames_Empty(t *testing.T) {
	src := &fakeSource{reg: sports.NewCustomRegistry("Empty")}
	agg := newAggregator(src)

	games := agg.GetUpcomingGames(context.Background(), 5)
	require.NotNil(t, games)
	assert.Empty(t, games)
}

func TestCompare(t *testing.T) {
	mk := func(date, clock, label, opp string) game.UpcomingGame {
		return game.UpcomingGame{Game: game.Game{StartDate: date, Time: clock, Opponent: opp}, SportLabel: label}
	}

	tests := []struct {
		name string
		a, b game.UpcomingGame
		want int
	}{
		{"earlier date", mk("2026-03-04", "9:00 PM", "Z", "Z"), mk("2026-03-05", "9:00 AM", "A", "A"), -1},
		{"earlier time", mk("2026-03-04", "1:00 PM", "Men's Tennis", "X"), mk("2026-03-04", "3:00 PM", "Baseball", "X"), -1},
		{"noon before pm", mk("2026-03-04", "12:00 PM", "A", "A"), mk("2026-03-04", "1:00 PM", "A", "A"), -1},
		{"midnight first", mk("2026-03-04", "12:00 AM", "A", "A"), mk("2026-03-04", "1:00 AM", "A", "A"), -1},
		{"tbd last", mk("2026-03-04", game.TBD, "A", "A"), mk("2026-03-04", "11:00 PM", "B", "B"), 1},
		{"label breaks tie", mk("2026-03-04", "3:00 PM", "Baseball", "Z"), mk("2026-03-04", "3:00 PM", "Softball", "A"), -1},
		{"opponent breaks tie", mk("2026-03-04", "3:00 PM", "Softball", "Bryn Mawr"), mk("2026-03-04", "3:00 PM", "Softball", "Arcadia"), 1},
		{"equal", mk("2026-03-04", "3:00 PM", "A", "A"), mk("2026-03-04", "3:00 PM", "A", "A"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}
}
