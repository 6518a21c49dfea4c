package scraper

import (
	"regexp"
	"sort"
	"strings"

	"github.com/acorn-hc/acorn-sports/internal/game"
)

var (
	seasonPrefix   = regexp.MustCompile(`^(\d{4}-?\d{0,2})`)
	seasonStrip    = regexp.MustCompile(`^\d{4}-?\d{0,2}\s+`)
	scheduleSuffix = regexp.MustCompile(`(?i)\s+Schedule$`)
	wideGap        = regexp.MustCompile(`\s{2,}`)
)

// headerLabels are the column labels of the text export, in display order
var headerLabels = []string{"Date", "Time", "At", "Opponent", "Location", "Tournament", "Result"}

// SportNameFromTitle strips the season token and trailing "Schedule" from a
// title line like "2025-26 Men's Basketball Schedule"
func SportNameFromTitle(title string) string {
	name := seasonStrip.ReplaceAllString(strings.TrimSpace(title), "")
	name = scheduleSuffix.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// TitleLine returns the title line of a text export: the second line, or the first
// non-empty line when the export has fewer lines
func TitleLine(text string) string {
	lines := splitLines(text)
	if len(lines) > 1 && strings.TrimSpace(lines[1]) != "" {
		return strings.TrimSpace(lines[1])
	}
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			return t
		}
	}
	return ""
}

// ParseText parses the fixed-width text export for sportSlug
func (p *Parser) ParseText(text, sportSlug string) game.SportSchedule {
	lines := splitLines(text)

	title := TitleLine(text)
	season := ""
	if m := seasonPrefix.FindStringSubmatch(title); m != nil {
		season = m[1]
	}
	sportTitle, ok := p.sportLabel(sportSlug)
	if !ok {
		sportTitle = SportNameFromTitle(title)
	}

	schedule := game.SportSchedule{
		SportTitle: sportTitle,
		Season:     season,
		Games:      []game.Game{},
		DataSource: game.SourcePrimary,
	}

	headerIdx := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Overall") {
			schedule.OverallRecord = recordValue(trimmed, "Overall")
		}
		if strings.HasPrefix(trimmed, "Conference") {
			schedule.ConferenceRecord = recordValue(trimmed, "Conference")
		}
		if headerIdx < 0 && strings.HasPrefix(strings.TrimLeft(line, " \t"), "Date") {
			headerIdx = i
		}
	}
	if headerIdx < 0 {
		return schedule
	}

	cols := columnLayout(lines[headerIdx])
	currentYear := p.now().In(p.loc).Year()

	for _, line := range lines[headerIdx+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row := cols.slice(line)

		dateCell := row["Date"]
		opponent := row["Opponent"]
		if dateCell == "" || opponent == "" {
			continue
		}

		isoDate := game.ParseScheduleDate(dateCell, season, currentYear)
		result := row["Result"]
		timeCell := row["Time"]
		if timeCell == "" {
			timeCell = game.TBD
		}

		schedule.Games = append(schedule.Games, game.Game{
			ID:         game.GenerateID(sportSlug, isoDate, opponent),
			SportSlug:  sportSlug,
			Opponent:   game.CleanOpponent(opponent),
			StartDate:  isoDate,
			Time:       timeCell,
			IsHome:     strings.EqualFold(row["At"], "home"),
			Location:   row["Location"],
			Tournament: game.StringPtr(row["Tournament"]),
			Result:     game.StringPtr(result),
			IsWin:      game.ClassifyResult(result),
		})
	}

	return schedule
}

// recordValue extracts "12-5" from "Overall 12-5    Pct .706"
func recordValue(line, label string) *string {
	rest := strings.TrimSpace(strings.TrimPrefix(line, label))
	value := wideGap.Split(rest, 2)[0]
	return game.StringPtr(strings.TrimSpace(value))
}

type column struct {
	label string
	start int
}

type layout []column

// columnLayout finds the character offset of every header label present
func columnLayout(header string) layout {
	var cols layout
	from := 0
	for _, label := range headerLabels {
		idx := labelOffset(header, label, from)
		if idx < 0 {
			continue
		}
		cols = append(cols, column{label: label, start: idx})
		from = idx + len(label)
	}
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].start < cols[j].start })
	return cols
}

// labelOffset finds label as a standalone word at or after from
func labelOffset(header, label string, from int) int {
	for from <= len(header) {
		idx := strings.Index(header[from:], label)
		if idx < 0 {
			return -1
		}
		idx += from
		end := idx + len(label)
		before := idx == 0 || header[idx-1] == ' ' || header[idx-1] == '\t'
		after := end == len(header) || header[end] == ' ' || header[end] == '\t'
		if before && after {
			return idx
		}
		from = idx + 1
	}
	return -1
}

// slice cuts line into trimmed cells. Offsets count characters, not bytes.
func (l layout) slice(line string) map[string]string {
	runes := []rune(line)
	cells := make(map[string]string, len(l))
	for i, c := range l {
		end := len(runes)
		if i+1 < len(l) {
			end = l[i+1].start
		}
		cells[c.label] = cut(runes, c.start, end)
	}
	return cells
}

func cut(runes []rune, start, end int) string {
	if start >= len(runes) {
		return ""
	}
	if end > len(runes) {
		end = len(runes)
	}
	if end < start {
		return ""
	}
	return strings.TrimSpace(string(runes[start:end]))
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return lines
}
