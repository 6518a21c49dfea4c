package game

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ISODate is the layout used for Game.StartDate
const ISODate = "2006-01-02"

var (
	rowDate     = regexp.MustCompile(`^([A-Z][a-z]{2})\s+(\d{1,2})`)
	seasonToken = regexp.MustCompile(`^(\d{4})`)
)

var months = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// SeasonStartYear returns the first year of a season string like "2025-26".
// Returns 0 if the season has no leading year.
func SeasonStartYear(season string) int {
	m := seasonToken.FindStringSubmatch(season)
	if m == nil {
		return 0
	}
	year, _ := strconv.Atoi(m[1])
	return year
}

// ParseScheduleDate converts a schedule cell like "Nov 8 (Sat)" into yyyy-mm-dd.
//
// August through December belong to the season's first year and January through July
// to the following year. Without a season the current calendar year is used. Cells
// that do not start with a month and day map to January 1st of currentYear.
func ParseScheduleDate(cell, season string, currentYear int) string {
	m := rowDate.FindStringSubmatch(cell)
	if m == nil {
		return fmt.Sprintf("%04d-01-01", currentYear)
	}

	month, ok := months[m[1]]
	if !ok {
		month = time.January
	}
	day, _ := strconv.Atoi(m[2])

	year := currentYear
	if start := SeasonStartYear(season); start > 0 {
		if month >= time.August {
			year = start
		} else {
			year = start + 1
		}
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// Today returns the current date in loc as yyyy-mm-dd
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(ISODate)
}
