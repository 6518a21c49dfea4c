package scraper

import (
	"time"

	"github.com/acorn-hc/acorn-sports/internal/sports"
)

// DefaultHomeInstitution is matched against JSON-LD team names to decide home games
const DefaultHomeInstitution = "haverford"

// Options configures a Parser
type Options struct {
	// HomeInstitution is matched case-insensitively inside the home team name
	HomeInstitution string
	// Location is the home timezone used for "today"
	Location *time.Location
	// Now overrides the clock (tests)
	Now func() time.Time
}

// Parser parses both upstream schedule formats
type Parser struct {
	sports *sports.Registry
	home   string
	loc    *time.Location
	now    func() time.Time
}

// NewParser creates a Parser that labels schedules from reg
func NewParser(reg *sports.Registry, opts Options) *Parser {
	if opts.HomeInstitution == "" {
		opts.HomeInstitution = DefaultHomeInstitution
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Parser{
		sports: reg,
		home:   opts.HomeInstitution,
		loc:    opts.Location,
		now:    opts.Now,
	}
}

func (p *Parser) sportLabel(slug string) (string, bool) {
	if link, ok := p.sports.BySlug(slug); ok {
		return link.Label, true
	}
	return "", false
}
