package game

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var clockPattern = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(AM|PM)`)

// FormatClock renders a 24-hour clock reading as "h:mm AM"
func FormatClock(hour, minute int) string {
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, minute, meridiem)
}

// ClockMinutes parses a 12-hour display time into minutes after midnight.
// Unparseable values (including TBD) return math.MaxInt so they sort last.
func ClockMinutes(display string) int {
	m := clockPattern.FindStringSubmatch(display)
	if m == nil {
		return math.MaxInt
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	hours %= 12
	if strings.ToUpper(m[3]) == "PM" {
		hours += 12
	}
	return hours*60 + minutes
}
