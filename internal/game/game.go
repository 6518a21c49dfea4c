package game

import (
	"regexp"
	"strings"
)

// DataSource records which upstream format produced a schedule
type DataSource string

const (
	SourcePrimary  DataSource = "primary"
	SourceFallback DataSource = "fallback"
)

// TBD is shown when a game has no published time
const TBD = "TBD"

// Game is one fixture on a sport's schedule
type Game struct {
	ID           string  `json:"id"`
	SportSlug    string  `json:"sportSlug"`
	Opponent     string  `json:"opponent"`
	OpponentLogo *string `json:"opponentLogo"`
	StartDate    string  `json:"startDate"` // yyyy-mm-dd
	Time         string  `json:"time"`      // "1:00 PM" or TBD
	IsHome       bool    `json:"isHome"`
	Location     string  `json:"location"`
	Tournament   *string `json:"tournament"`
	Result       *string `json:"result"` // "W 111-79"
	IsWin        *bool   `json:"isWin"`  // nil until played
}

// UpcomingGame is a Game annotated with its program label
type UpcomingGame struct {
	Game
	SportLabel string `json:"sportLabel"`
}

// SportSchedule is the normalized schedule for one program
type SportSchedule struct {
	SportTitle       string     `json:"sportTitle"`
	Season           string     `json:"season"`
	OverallRecord    *string    `json:"overallRecord"`
	ConferenceRecord *string    `json:"conferenceRecord"`
	Games            []Game     `json:"games"`
	DataSource       DataSource `json:"dataSource"`
}

// EmptySchedule returns a well-formed schedule with no games
func EmptySchedule(title string, source DataSource) SportSchedule {
	return SportSchedule{
		SportTitle: title,
		Games:      []Game{},
		DataSource: source,
	}
}

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	nonKeyChars  = regexp.MustCompile(`[^a-z0-9]`)
	rankPrefix   = regexp.MustCompile(`^#\d+\s+`)
	rvPrefix     = regexp.MustCompile(`(?i)^\(RV\)\s+`)
)

// Slugify lowercases name and collapses every run of non-alphanumerics into a dash
func Slugify(name string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(s, "-")
}

// GenerateID creates the deterministic ID for a game.
// The opponent is cleaned first so a ranking change between scrapes keeps the ID stable.
func GenerateID(sportSlug, isoDate, opponent string) string {
	return sportSlug + "-" + isoDate + "-" + Slugify(CleanOpponent(opponent))
}

// GamePath returns the stable URL path for a game
func GamePath(sportSlug, gameID string) string {
	return "/sports/" + sportSlug + "/games/" + gameID
}

// CleanOpponent strips ranking markers like "#8 " and "(RV) "
func CleanOpponent(name string) string {
	name = strings.TrimSpace(name)
	name = rankPrefix.ReplaceAllString(name, "")
	name = rvPrefix.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// OpponentKey normalizes an opponent name for logo matching.
// "St. John's" and "st johns" produce the same key.
func OpponentKey(name string) string {
	return nonKeyChars.ReplaceAllString(strings.ToLower(name), "")
}

// ClassifyResult derives the win flag from the leading character of a result
func ClassifyResult(result string) *bool {
	var win bool
	switch {
	case strings.HasPrefix(result, "W"):
		win = true
	case strings.HasPrefix(result, "L"):
		win = false
	default:
		return nil
	}
	return &win
}

// StringPtr returns nil for empty strings
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
