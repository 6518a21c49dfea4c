package scraper

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/acorn-hc/acorn-sports/internal/game"
)

var logoBlock = regexp.MustCompile(`(?i)data-src="(/images/[^"]+\?[^"]*)"[^>]*alt="([^"]*)"[\s\S]*?sidearm-schedule-game-opponent-name[\s\S]*?(?:<a[^>]*>([^<]+)</a>|<span[^>]*>([^<]+)</span>)`)

// LogoExtractor maps normalized opponent names to absolute logo URLs
type LogoExtractor interface {
	Extract(page string) map[string]string
}

// RegexLogoExtractor reads logos with a single pattern over the raw page markup.
// It matches the image attributes of each game block followed by the opponent name.
type RegexLogoExtractor struct {
	BaseURL string
}

// Extract implements LogoExtractor. The first logo seen for a name wins.
func (r RegexLogoExtractor) Extract(page string) map[string]string {
	logos := make(map[string]string)
	for _, m := range logoBlock.FindAllStringSubmatch(page, -1) {
		path := m[1]
		name := m[3]
		if name == "" {
			name = m[4]
		}
		addLogo(logos, r.BaseURL, path, name)
	}
	return logos
}

// DOMLogoExtractor walks the schedule markup with goquery instead of a pattern
type DOMLogoExtractor struct {
	BaseURL string
}

// Extract implements LogoExtractor. Unparseable pages yield an empty map.
func (d DOMLogoExtractor) Extract(page string) map[string]string {
	logos := make(map[string]string)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return logos
	}

	doc.Find(".sidearm-schedule-game").Each(func(_ int, s *goquery.Selection) {
		path, ok := s.Find(`img[data-src^="/images/"]`).First().Attr("data-src")
		if !ok || !strings.Contains(path, "?") {
			return
		}
		nameSel := s.Find(".sidearm-schedule-game-opponent-name").First()
		name := nameSel.Find("a").First().Text()
		if strings.TrimSpace(name) == "" {
			name = nameSel.Find("span").First().Text()
		}
		addLogo(logos, d.BaseURL, path, name)
	})
	return logos
}

func addLogo(logos map[string]string, baseURL, path, name string) {
	name = strings.TrimSpace(html.UnescapeString(name))
	path = html.UnescapeString(path)
	if name == "" || path == "" {
		return
	}
	key := game.OpponentKey(name)
	if key == "" {
		return
	}
	if _, exists := logos[key]; !exists {
		logos[key] = strings.TrimRight(baseURL, "/") + path
	}
}

// NewLogoExtractor returns the extractor for strategy ("regex" or "dom")
func NewLogoExtractor(strategy, baseURL string) LogoExtractor {
	if strategy == "dom" {
		return DOMLogoExtractor{BaseURL: baseURL}
	}
	return RegexLogoExtractor{BaseURL: baseURL}
}

// ApplyLogos fills missing opponent logos in place. Games that already have a logo
// are left alone and a nil map is a no-op.
func ApplyLogos(games []game.Game, logos map[string]string) {
	if len(logos) == 0 {
		return
	}
	for i := range games {
		if games[i].OpponentLogo != nil {
			continue
		}
		if url, ok := logos[game.OpponentKey(games[i].Opponent)]; ok {
			games[i].OpponentLogo = &url
		}
	}
}
