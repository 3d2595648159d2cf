package sink

import (
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/orgmorph/pkg/chart"
	"github.com/matzehuels/orgmorph/pkg/layout"
	"github.com/matzehuels/orgmorph/pkg/layout/hierarchy"
	"github.com/matzehuels/orgmorph/pkg/layout/squads"
	"github.com/matzehuels/orgmorph/pkg/org"
)

func testOrg() *org.Organization {
	return &org.Organization{
		Version:  org.SchemaVersion,
		Director: org.Director{ID: "d", FirstName: "Marie", LastName: "Dubois", Title: "R&D"},
		People: []org.Person{
			{ID: "m", FirstName: "Paul", LastName: "Martin", Craft: org.CraftCloud, Seniority: 4, ManagerID: "d", IsManager: true, ManagerTimePercent: 50, SquadID: "s1"},
			{ID: "a", FirstName: "Léa", LastName: "Roux", Craft: org.CraftCloud, Seniority: 2, ManagerID: "m", SquadID: "s1", IsLeadDev: true, IsScrumMaster: true},
			{ID: "b", FirstName: "Hugo", LastName: "Petit", Craft: org.CraftCloud, Seniority: 3, ManagerID: "m", SquadID: "s1"},
		},
		Squads: []org.Squad{{ID: "s1", Name: "Squad Alpha"}, {ID: "s2", Name: "Squad Beta"}},
		Train:  org.Train{ID: "t", Name: "Cantal"},
		RTE:    org.RTE{ID: "r", FirstName: "Sophie", LastName: "Laurent"},
	}
}

func hierarchicalChart() chart.Chart {
	o := testOrg()
	return chart.Hierarchical(o, hierarchy.Compute(o.Director, o.People), layout.DefaultViewport)
}

func functionalChart() chart.Chart {
	o := testOrg()
	res := squads.Compute(o.Squads, o.People, squads.Options{Strategy: squads.BySquad})
	return chart.Functional(o, res, squads.BySquad, layout.DefaultViewport)
}

func TestRenderSVGCards(t *testing.T) {
	c := hierarchicalChart()
	svg := string(RenderSVG(c))

	if !strings.HasPrefix(svg, "<svg ") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatal("output is not a complete SVG document")
	}
	if got := strings.Count(svg, `<g class="card `); got != len(c.Nodes) {
		t.Errorf("cards = %d, want %d", got, len(c.Nodes))
	}
	if got := strings.Count(svg, `class="connector"`); got != len(c.Connectors) {
		t.Errorf("connectors = %d, want %d", got, len(c.Connectors))
	}
	for _, want := range []string{`id="card-m"`, "Manager Cloud", "50%", ">PM<", "craft-cloud", "R&amp;D"} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(svg, "badge-seniority") {
		t.Error("seniority badge rendered without WithSeniority")
	}
	if strings.Contains(svg, "squad-name") {
		t.Error("hierarchical chart rendered squad frames")
	}
}

func TestRenderSVGBadges(t *testing.T) {
	svg := string(RenderSVG(hierarchicalChart(), WithSeniority()))

	if got := strings.Count(svg, `class="badge-role"`); got != 2 {
		t.Errorf("role badges = %d, want 2", got)
	}
	// Director carries no seniority.
	if got := strings.Count(svg, `class="badge-seniority"`); got != 3 {
		t.Errorf("seniority badges = %d, want 3", got)
	}
}

func TestRenderSVGFunctional(t *testing.T) {
	c := functionalChart()
	svg := string(RenderSVG(c, WithAnimation(), WithTitle("Cantal")))

	for _, want := range []string{
		`id="squad-s1"`, "3 membres",
		`id="squad-s2"`, "0 membres",
		"Train Cantal", "<title>Cantal</title>",
		"@keyframes card-enter", "cubic-bezier(0.43, 0.13, 0.23, 0.96)",
		`id="card-r"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if got := strings.Count(svg, "animation-delay"); got != len(c.Nodes) {
		t.Errorf("animation delays = %d, want %d", got, len(c.Nodes))
	}
}

func TestRenderSVGZoom(t *testing.T) {
	c := hierarchicalChart()
	svg := string(RenderSVG(c, WithZoom(0.5)))
	if want := fmt.Sprintf(`width="%.0f"`, c.Width/2); !strings.Contains(svg, want) {
		t.Errorf("zoomed SVG missing %s", want)
	}

	// Non-positive zoom falls back to 1.
	svg = string(RenderSVG(c, WithZoom(0)))
	if want := fmt.Sprintf(`width="%.0f"`, c.Width); !strings.Contains(svg, want) {
		t.Errorf("unzoomed SVG missing %s", want)
	}
}

func TestMemberCount(t *testing.T) {
	tests := map[int]string{0: "0 membres", 1: "1 membre", 2: "2 membres"}
	for n, want := range tests {
		if got := memberCount(n); got != want {
			t.Errorf("memberCount(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Alexandre", 5); got != "Alex…" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("Léa", 5); got != "Léa" {
		t.Errorf("truncate() = %q", got)
	}
}
