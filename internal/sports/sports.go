package sports

import "strings"

// DefaultBaseURL is the athletics site all schedule pages hang off.
const DefaultBaseURL = "https://haverfordathletics.com"

// SportLink identifies one program on the athletics site
type SportLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
	Slug  string `json:"slug"`
}

// Category groups programs the way the site navigation does
type Category struct {
	Label  string      `json:"label"`
	Sports []SportLink `json:"sports"`
}

// Registry is an immutable lookup table of programs
type Registry struct {
	categories []Category
	all        []SportLink
	bySlug     map[string]SportLink
}

type entry struct {
	label string
	slug  string
}

var catalog = []struct {
	label   string
	entries []entry
}{
	{
		label: "Men's Sports",
		entries: []entry{
			{"Baseball", "baseball"},
			{"Men's Basketball", "mens-basketball"},
			{"Men's Cross Country", "mens-cross-country"},
			{"Men's Fencing", "mens-fencing"},
			{"Men's Lacrosse", "mens-lacrosse"},
			{"Men's Soccer", "msoc"},
			{"Men's Squash", "mens-squash"},
			{"Men's Tennis", "mten"},
			{"Men's Indoor Track & Field", "mens-indoor-track"},
			{"Men's Outdoor Track & Field", "mens-track-and-field"},
		},
	},
	{
		label: "Women's Sports",
		entries: []entry{
			{"Women's Basketball", "womens-basketball"},
			{"Women's Cross Country", "womens-cross-country"},
			{"Women's Fencing", "womens-fencing"},
			{"Field Hockey", "field-hockey"},
			{"Women's Lacrosse", "womens-lacrosse"},
			{"Women's Soccer", "wsoc"},
			{"Softball", "softball"},
			{"Women's Squash", "womens-squash"},
			{"Women's Tennis", "wten"},
			{"Women's Indoor Track & Field", "womens-indoor-track"},
			{"Women's Outdoor Track & Field", "womens-track-and-field"},
			{"Women's Volleyball", "womens-volleyball"},
		},
	},
	{
		label:   "Co-Ed",
		entries: []entry{{"Cricket", "cricket"}},
	},
}

// NewRegistry builds the program registry rooted at baseURL
func NewRegistry(baseURL string) *Registry {
	base := strings.TrimRight(baseURL, "/") + "/sports"

	r := &Registry{bySlug: make(map[string]SportLink)}
	for _, c := range catalog {
		cat := Category{Label: c.label, Sports: make([]SportLink, 0, len(c.entries))}
		for _, e := range c.entries {
			link := SportLink{Label: e.label, Href: base + "/" + e.slug, Slug: e.slug}
			cat.Sports = append(cat.Sports, link)
			r.all = append(r.all, link)
			r.bySlug[e.slug] = link
		}
		r.categories = append(r.categories, cat)
	}
	return r
}

// NewCustomRegistry builds a single-category registry from explicit links.
// Used by tests and by deployments that only track a subset of programs.
func NewCustomRegistry(label string, links ...SportLink) *Registry {
	r := &Registry{bySlug: make(map[string]SportLink)}
	cat := Category{Label: label}
	for _, l := range links {
		cat.Sports = append(cat.Sports, l)
		r.all = append(r.all, l)
		r.bySlug[l.Slug] = l
	}
	r.categories = []Category{cat}
	return r
}

// Categories returns the navigation groups. The returned slice must not be modified.
func (r *Registry) Categories() []Category {
	return r.categories
}

// All returns every program in registry order
func (r *Registry) All() []SportLink {
	out := make([]SportLink, len(r.all))
	copy(out, r.all)
	return out
}

// BySlug looks a program up by its URL slug
func (r *Registry) BySlug(slug string) (SportLink, bool) {
	link, ok := r.bySlug[slug]
	return link, ok
}

// Slugs returns every slug in registry order
func (r *Registry) Slugs() []string {
	slugs := make([]string, 0, len(r.all))
	for _, s := range r.all {
		slugs = append(slugs, s.Slug)
	}
	return slugs
}

// SchedulePageURL returns the HTML schedule page for a program
func (l SportLink) SchedulePageURL() string {
	return l.Href + "/schedule"
}
