package sports

import "testing"

func TestNewRegistry(t *testing.T) {
	r := NewRegistry("https://example.edu/")

	if got := len(r.Categories()); got != 3 {
		t.Fatalf("Categories() len = %d, want 3", got)
	}
	if got := len(r.All()); got != 23 {
		t.Errorf("All() len = %d, want 23", got)
	}

	link, ok := r.BySlug("msoc")
	if !ok {
		t.Fatal("BySlug(msoc) not found")
	}
	if link.Label != "Men's Soccer" {
		t.Errorf("Label = %q, want Men's Soccer", link.Label)
	}
	if link.Href != "https://example.edu/sports/msoc" {
		t.Errorf("Href = %q", link.Href)
	}
	if link.SchedulePageURL() != "https://example.edu/sports/msoc/schedule" {
		t.Errorf("SchedulePageURL() = %q", link.SchedulePageURL())
	}
}

func TestRegistry_UnknownSlug(t *testing.T) {
	r := NewRegistry(DefaultBaseURL)
	if _, ok := r.BySlug("not-a-real-sport"); ok {
		t.Error("BySlug(not-a-real-sport) should not be found")
	}
}

func TestRegistry_SlugsUnique(t *testing.T) {
	r := NewRegistry(DefaultBaseURL)
	seen := make(map[string]bool)
	for _, s := range r.Slugs() {
		if seen[s] {
			t.Errorf("duplicate slug %q", s)
		}
		seen[s] = true
	}
}

func TestRegistry_AllReturnsCopy(t *testing.T) {
	r := NewRegistry(DefaultBaseURL)
	all := r.All()
	all[0].Label = "changed"
	if r.All()[0].Label == "changed" {
		t.Error("All() should return a copy")
	}
}

func TestNewCustomRegistry(t *testing.T) {
	r := NewCustomRegistry("Test", SportLink{Label: "Baseball", Slug: "baseball", Href: "http://x/sports/baseball"})
	if len(r.All()) != 1 {
		t.Fatalf("All() len = %d, want 1", len(r.All()))
	}
	if _, ok := r.BySlug("baseball"); !ok {
		t.Error("BySlug(baseball) not found")
	}
}
