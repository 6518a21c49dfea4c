package scraper

import (
	"os"
	"testing"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/game"
	"github.com/acorn-hc/acorn-sports/internal/sports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParser(t *testing.T, now time.Time) *Parser {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return NewParser(sports.NewRegistry(sports.DefaultBaseURL), Options{
		Location: loc,
		Now:      func() time.Time { return now },
	})
}

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func TestParseText(t *testing.T) {
	p := testParser(t, time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC))
	schedule := p.ParseText(loadFixture(t, "mens_basketball.txt"), "mens-basketball")

	assert.Equal(t, "Men's Basketball", schedule.SportTitle)
	assert.Equal(t, "2025-26", schedule.Season)
	assert.Equal(t, game.SourcePrimary, schedule.DataSource)
	require.NotNil(t, schedule.OverallRecord)
	assert.Equal(t, "12-5", *schedule.OverallRecord)
	require.NotNil(t, schedule.ConferenceRecord)
	assert.Equal(t, "6-2", *schedule.ConferenceRecord)

	require.Len(t, schedule.Games, 4, "rows without a date or opponent are skipped")

	first := schedule.Games[0]
	assert.Equal(t, "mens-basketball-2025-11-08-rutgers-camden", first.ID)
	assert.Equal(t, "Rutgers-Camden", first.Opponent)
	assert.Equal(t, "2025-11-08", first.StartDate)
	assert.Equal(t, "7:00 PM", first.Time)
	assert.True(t, first.IsHome)
	assert.Equal(t, "Haverford, Pa.", first.Location)
	assert.Nil(t, first.Tournament)
	require.NotNil(t, first.Result)
	assert.Equal(t, "W 111-79", *first.Result)
	require.NotNil(t, first.IsWin)
	assert.True(t, *first.IsWin)
	assert.Nil(t, first.OpponentLogo)

	second := schedule.Games[1]
	assert.Equal(t, "St. John's", second.Opponent)
	assert.False(t, second.IsHome)
	require.NotNil(t, second.Tournament)
	assert.Equal(t, "Ursinus Tip-Off", *second.Tournament)
	require.NotNil(t, second.IsWin)
	assert.False(t, *second.IsWin)

	third := schedule.Games[2]
	assert.Equal(t, "Swarthmore", third.Opponent)
	assert.Equal(t, game.TBD, third.Time)
	assert.False(t, third.IsHome, "neutral site is not home")
	assert.Nil(t, third.Result)
	assert.Nil(t, third.IsWin)

	// January belongs to the second year of the season
	assert.Equal(t, "2026-01-10", schedule.Games[3].StartDate)
}

func TestParseText_NoHeader(t *testing.T) {
	p := testParser(t, time.Now())
	text := "Haverford College Athletics\n2025 Baseball Schedule\n\nOverall 3-1\n"

	schedule := p.ParseText(text, "baseball")

	assert.Equal(t, "Baseball", schedule.SportTitle)
	assert.Equal(t, "2025", schedule.Season)
	assert.NotNil(t, schedule.Games)
	assert.Empty(t, schedule.Games)
	require.NotNil(t, schedule.OverallRecord)
	assert.Equal(t, "3-1", *schedule.OverallRecord)
	assert.Nil(t, schedule.ConferenceRecord)
}

func TestParseText_UnknownSlugUsesTitle(t *testing.T) {
	p := testParser(t, time.Now())
	text := "Header\n2025-26 Ice Hockey Schedule\nDate   Opponent\nJan 3  Bryn Mawr\n"

	schedule := p.ParseText(text, "ice-hockey")

	assert.Equal(t, "Ice Hockey", schedule.SportTitle)
	require.Len(t, schedule.Games, 1)
	assert.Equal(t, "Bryn Mawr", schedule.Games[0].Opponent)
	assert.Equal(t, "2026-01-03", schedule.Games[0].StartDate)
	assert.Equal(t, game.TBD, schedule.Games[0].Time)
	assert.Equal(t, "", schedule.Games[0].Location)
}

func TestParseText_ShortRows(t *testing.T) {
	p := testParser(t, time.Now())
	text := "x\n2025-26 Baseball Schedule\n" +
		"Date          Time        At       Opponent                      Result\n" +
		"Mar 4 (Wed)   3:00 PM     Away     Ursinus\n"

	schedule := p.ParseText(text, "baseball")

	require.Len(t, schedule.Games, 1)
	g := schedule.Games[0]
	assert.Equal(t, "Ursinus", g.Opponent)
	assert.Nil(t, g.Result)
	assert.Nil(t, g.IsWin)
	assert.Equal(t, "2026-03-04", g.StartDate)
}

func TestSportNameFromTitle(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"2025-26 Men's Basketball Schedule", "Men's Basketball"},
		{"2025 Baseball Schedule", "Baseball"},
		{"202526 Field Hockey schedule", "Field Hockey"},
		{"Softball", "Softball"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, SportNameFromTitle(tt.title))
		})
	}
}

func TestTitleLine(t *testing.T) {
	assert.Equal(t, "2025 Baseball Schedule", TitleLine("Athletics\r\n  2025 Baseball Schedule  \r\n"))
	assert.Equal(t, "Only line", TitleLine("Only line"))
	assert.Equal(t, "", TitleLine(""))
}

func TestColumnLayout_AtIsStandalone(t *testing.T) {
	// "At" inside "Date" or "Location" must not be taken as the At column
	cols := columnLayout("Date   Time   At   Opponent   Location")
	starts := map[string]int{}
	for _, c := range cols {
		starts[c.label] = c.start
	}

	assert.Equal(t, 0, starts["Date"])
	assert.Equal(t, 14, starts["At"])
	assert.Equal(t, 19, starts["Opponent"])
	_, hasResult := starts["Result"]
	assert.False(t, hasResult)
}
