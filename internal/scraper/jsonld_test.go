package scraper

import (
	"testing"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONLD(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	p := testParser(t, time.Date(2025, 11, 20, 12, 0, 0, 0, loc))

	schedule, err := p.ParseJSONLD(loadFixture(t, "schedule.html"), "mens-basketball")
	require.NoError(t, err)

	assert.Equal(t, "Men's Basketball", schedule.SportTitle)
	assert.Equal(t, game.SourceFallback, schedule.DataSource)
	assert.Equal(t, "", schedule.Season)
	assert.Nil(t, schedule.OverallRecord)
	assert.Nil(t, schedule.ConferenceRecord)

	require.Len(t, schedule.Games, 3, "past, undated and non-event entries are dropped")

	swat := schedule.Games[0]
	assert.Equal(t, "mens-basketball-2025-12-03-swarthmore", swat.ID)
	assert.Equal(t, "Swarthmore", swat.Opponent)
	assert.Equal(t, "2025-12-03", swat.StartDate)
	assert.Equal(t, "6:00 PM", swat.Time)
	assert.True(t, swat.IsHome)
	assert.Equal(t, "Calvin Gooding Arena", swat.Location)
	assert.Nil(t, swat.Result)
	assert.Nil(t, swat.IsWin)

	tba := schedule.Games[1]
	assert.Equal(t, game.TBD, tba.Opponent)
	assert.Equal(t, "2:00 PM", tba.Time)
	assert.Equal(t, "mens-basketball-2025-12-20-tbd", tba.ID)

	away := schedule.Games[2]
	assert.Equal(t, "Johns Hopkins", away.Opponent)
	assert.False(t, away.IsHome)
	assert.Equal(t, "2026-01-10", away.StartDate)
	assert.Equal(t, game.TBD, away.Time)
}

func TestParseJSONLD_NoScripts(t *testing.T) {
	p := testParser(t, time.Now())

	schedule, err := p.ParseJSONLD("<html><body>nothing here</body></html>", "baseball")
	require.NoError(t, err)

	assert.Equal(t, "Baseball", schedule.SportTitle)
	assert.NotNil(t, schedule.Games)
	assert.Empty(t, schedule.Games)
}

func TestParseJSONLD_TodayDateOnlyIsKept(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	p := testParser(t, time.Date(2026, 3, 4, 21, 0, 0, 0, loc))

	page := `<script type="application/ld+json">{"@type":"SportsEvent","startDate":"2026-03-04",
		"homeTeam":{"name":"Ursinus"},"awayTeam":{"name":"Haverford"}}</script>`

	schedule, err := p.ParseJSONLD(page, "baseball")
	require.NoError(t, err)
	require.Len(t, schedule.Games, 1)
	assert.Equal(t, "Ursinus", schedule.Games[0].Opponent)
}

func TestExtractJSONLD_FlattensArrays(t *testing.T) {
	entries, err := ExtractJSONLD(loadFixture(t, "schedule.html"))
	require.NoError(t, err)

	// one organization plus five events; the malformed block is skipped
	assert.Len(t, entries, 6)
}
