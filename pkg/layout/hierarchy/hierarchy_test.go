package hierarchy

import (
	"fmt"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/orgmorph/pkg/layout"
	"github.com/matzehuels/orgmorph/pkg/org"
)

var director = org.Director{ID: "D", FirstName: "Marie", LastName: "Dubois"}

func manager(id string, c org.Craft) org.Person {
	return org.Person{ID: id, FirstName: id, LastName: "M", Craft: c, Seniority: 4, ManagerID: "D", IsManager: true}
}

func dev(id, managerID string) org.Person {
	return org.Person{ID: id, FirstName: id, LastName: "D", Craft: org.CraftCloud, Seniority: 2, ManagerID: managerID}
}

func TestComputeScenario(t *testing.T) {
	people := []org.Person{
		manager("M1", org.CraftCloud),
		manager("M2", org.CraftMobile),
		dev("d1", "M1"),
		dev("d2", "M1"),
		dev("d3", "M1"),
	}
	res := Compute(director, people)

	wantPos := map[string]layout.Point{
		"D":  {X: 480, Y: 50},
		"M1": {X: 320, Y: 230},
		"M2": {X: 640, Y: 230},
		"d1": {X: 320, Y: 410},
		"d2": {X: 320, Y: 492},
		"d3": {X: 320, Y: 574},
	}
	if !reflect.DeepEqual(res.Positions, wantPos) {
		t.Errorf("Positions = %v, want %v", res.Positions, wantPos)
	}

	wantSegs := []layout.Segment{
		{X1: 600, Y1: 120, X2: 600, Y2: 200},
		{X1: 440, Y1: 200, X2: 760, Y2: 200},
		{X1: 440, Y1: 200, X2: 440, Y2: 230},
		{X1: 760, Y1: 200, X2: 760, Y2: 230},
		{X1: 440, Y1: 300, X2: 440, Y2: 644},
	}
	if !reflect.DeepEqual(res.Connectors, wantSegs) {
		t.Errorf("Connectors = %v, want %v", res.Connectors, wantSegs)
	}

	if want := (layout.Dimensions{Width: 980, Height: 744}); res.Dimensions != want {
		t.Errorf("Dimensions = %v, want %v", res.Dimensions, want)
	}
	if res.ViewportWidth != 1200 {
		t.Errorf("ViewportWidth = %v, want 1200", res.ViewportWidth)
	}
}

func TestComputeEmpty(t *testing.T) {
	res := Compute(org.Director{}, nil)
	if len(res.Positions) != 0 || len(res.Connectors) != 0 {
		t.Errorf("got %d positions, %d connectors", len(res.Positions), len(res.Connectors))
	}
	if want := (layout.Dimensions{Width: layout.Padding, Height: layout.Padding}); res.Dimensions != want {
		t.Errorf("Dimensions = %v, want %v", res.Dimensions, want)
	}
}

func TestComputeDirectorOnly(t *testing.T) {
	res := Compute(director, nil)
	if len(res.Positions) != 1 {
		t.Fatalf("Positions = %v", res.Positions)
	}
	if len(res.Connectors) != 0 {
		t.Errorf("Connectors = %v, want none without managers", res.Connectors)
	}
}

func TestComputeWithoutDirectorID(t *testing.T) {
	res := Compute(org.Director{}, []org.Person{manager("M1", org.CraftInfra), dev("d1", "M1")})
	if _, ok := res.Positions[""]; ok {
		t.Error("empty director id positioned")
	}
	if len(res.Connectors) != 1 {
		t.Errorf("Connectors = %v, want only the manager trunk", res.Connectors)
	}
}

func TestComputeUnassigned(t *testing.T) {
	people := []org.Person{
		manager("M1", org.CraftCloud),
		dev("a", "M1"),
		dev("ghost-report", "nobody"),
		dev("no-manager", ""),
		dev("reports-to-dev", "a"),
	}
	res := Compute(director, people)

	want := []string{"ghost-report", "no-manager", "reports-to-dev"}
	if !slices.Equal(res.Unassigned, want) {
		t.Errorf("Unassigned = %v, want %v", res.Unassigned, want)
	}
	for _, id := range want {
		if _, ok := res.Positions[id]; ok {
			t.Errorf("%s positioned", id)
		}
	}
}

func TestComputeCraftOrder(t *testing.T) {
	people := []org.Person{
		manager("test", org.CraftTestAuto),
		manager("mob1", org.CraftMobile),
		manager("infra", org.CraftInfra),
		manager("cloud1", org.CraftCloud),
		manager("emb", org.CraftEmbedded),
		manager("mob2", org.CraftMobile),
		manager("cloud2", org.CraftCloud),
	}
	res := Compute(director, people)

	// "Embarqué" sorts between "Cloud" and "Infra" byte-wise.
	order := []string{"cloud1", "cloud2", "emb", "infra", "mob1", "mob2", "test"}
	for i := 1; i < len(order); i++ {
		prev, cur := res.Positions[order[i-1]], res.Positions[order[i]]
		if cur.X <= prev.X {
			t.Errorf("%s.x = %v not right of %s.x = %v", order[i], cur.X, order[i-1], prev.X)
		}
	}

	gap := res.Positions["cloud2"].X - res.Positions["cloud1"].X
	if gap != layout.CardWidth+layout.ManagerGroupSpacing {
		t.Errorf("same-craft step = %v", gap)
	}
	gap = res.Positions["emb"].X - res.Positions["cloud2"].X
	if gap != layout.CardWidth+layout.CraftGroupSpacing {
		t.Errorf("cross-craft step = %v", gap)
	}

	// 7 managers, 5 crafts: 7*240 + 2*40 + 4*80 = 2080, wider than the minimum.
	if res.ViewportWidth != 2080+layout.Margin {
		t.Errorf("ViewportWidth = %v, want %v", res.ViewportWidth, 2080+layout.Margin)
	}
	if got := res.Positions["cloud1"].X; got != layout.Margin/2 {
		t.Errorf("first manager x = %v, want %v", got, layout.Margin/2)
	}
}

func TestComputeInvariants(t *testing.T) {
	people := org.Mock(org.MockOptions{}).People
	res := Compute(director, people)

	managersY := layout.DirectorY + layout.LevelHeight
	devsY := managersY + layout.LevelHeight
	step := layout.CardHeight + layout.CardSpacingY

	for _, p := range people {
		pos, ok := res.Positions[p.ID]
		if !ok {
			t.Errorf("%s not positioned", p.ID)
			continue
		}
		if p.IsManager && pos.Y != managersY {
			t.Errorf("manager %s y = %v", p.ID, pos.Y)
		}
		if !p.IsManager {
			k := (pos.Y - devsY) / step
			if k < 0 || k != float64(int(k)) {
				t.Errorf("developer %s y = %v off the developer grid", p.ID, pos.Y)
			}
			if pos.X != res.Positions[p.ManagerID].X {
				t.Errorf("developer %s not in its manager's column", p.ID)
			}
		}
		if pos.X+layout.CardWidth > res.Dimensions.Width || pos.Y+layout.CardHeight > res.Dimensions.Height {
			t.Errorf("%s outside dimensions", p.ID)
		}
	}
	for _, s := range res.Connectors {
		if s.X1 != s.X2 && s.Y1 != s.Y2 {
			t.Errorf("diagonal connector %v", s)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	people := org.Mock(org.MockOptions{}).People
	a := Compute(director, people)
	for i := range 5 {
		b := Compute(director, people)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("run %d differs", i)
		}
	}
}

func ExampleCompute() {
	people := []org.Person{
		{ID: "m1", Craft: org.CraftCloud, IsManager: true, ManagerID: "d"},
		{ID: "a", Craft: org.CraftCloud, ManagerID: "m1"},
	}
	res := Compute(org.Director{ID: "d"}, people)
	fmt.Println(res.Positions["d"], res.Positions["m1"], res.Positions["a"])
	fmt.Println(len(res.Connectors), res.Dimensions)
	// Output:
	// {480 50} {480 230} {480 410}
	// 4 {820 580}
}
