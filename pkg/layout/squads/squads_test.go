package squads

import (
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/orgmorph/pkg/layout"
	"github.com/matzehuels/orgmorph/pkg/org"
)

func makeSquads(n int) []org.Squad {
	out := make([]org.Squad, n)
	for i := range out {
		out[i] = org.Squad{ID: fmt.Sprintf("s%d", i), Name: fmt.Sprintf("Squad %d", i)}
	}
	return out
}

func member(id, squadID string) org.Person {
	return org.Person{ID: id, FirstName: id, LastName: "X", Craft: org.CraftCloud, Seniority: 2, SquadID: squadID}
}

func TestModeSwitch(t *testing.T) {
	tests := []struct {
		squads int
		want   Mode
	}{
		{0, ModeRow},
		{7, ModeRow},
		{8, ModeRow},
		{9, ModeGrid},
		{10, ModeGrid},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.squads), func(t *testing.T) {
			res := Compute(makeSquads(tt.squads), nil, Options{})
			if res.Mode != tt.want {
				t.Errorf("Mode = %v, want %v", res.Mode, tt.want)
			}
			if len(res.Groups) != tt.squads || len(res.Frames) != tt.squads {
				t.Errorf("groups = %d, frames = %d, want %d", len(res.Groups), len(res.Frames), tt.squads)
			}
		})
	}
}

func TestRowThresholdOption(t *testing.T) {
	res := Compute(makeSquads(5), nil, Options{RowThreshold: 4})
	if res.Mode != ModeGrid {
		t.Errorf("Mode = %v, want grid", res.Mode)
	}
}

func TestGridColumns(t *testing.T) {
	tests := []struct {
		width float64
		want  int
	}{
		{1200, 3},
		{1440, 4},
		{352, 1},
		{100, 1},
		{-50, 1},
	}
	for _, tt := range tests {
		if got := GridColumns(tt.width); got != tt.want {
			t.Errorf("GridColumns(%v) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestGroupPeople(t *testing.T) {
	squads := makeSquads(3)
	people := []org.Person{
		member("a", "s1"),
		member("b", ""),
		member("c", "s0"),
		member("d", "s1"),
		member("e", "gone"),
	}
	groups, ungrouped := GroupPeople(squads, people)

	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	ids := func(ps []org.Person) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}
	if got := ids(groups[0].Members); !slices.Equal(got, []string{"c"}) {
		t.Errorf("s0 = %v", got)
	}
	if got := ids(groups[1].Members); !slices.Equal(got, []string{"a", "d"}) {
		t.Errorf("s1 = %v", got)
	}
	if len(groups[2].Members) != 0 {
		t.Errorf("s2 = %v, want empty", ids(groups[2].Members))
	}
	if got := ids(ungrouped); !slices.Equal(got, []string{"b", "e"}) {
		t.Errorf("ungrouped = %v", got)
	}
	if groups[1].Offset != 1 || groups[2].Offset != 3 {
		t.Errorf("offsets = %d, %d", groups[1].Offset, groups[2].Offset)
	}
}

func TestComputeRowPlacement(t *testing.T) {
	squads := makeSquads(2)
	people := []org.Person{member("a", "s0"), member("b", "s0"), member("c", "s1")}
	res := Compute(squads, people, Options{Strategy: BySquad})

	top := TrainHeader + ContainerPadding
	wantPos := map[string]layout.Point{
		"a": {X: 44, Y: top + 76},
		"b": {X: 44, Y: top + 76 + 82},
		"c": {X: 44 + 304, Y: top + 76},
	}
	for id, want := range wantPos {
		if got := res.Positions[id]; got != want {
			t.Errorf("Positions[%s] = %v, want %v", id, got, want)
		}
	}

	// Both frames stretch to the taller one: 2*20 + 56 + 2*70 + 12.
	for _, f := range res.Frames {
		if f.Width != ColumnWidth || f.Height != 248 {
			t.Errorf("frame %s = %vx%v", f.SquadID, f.Width, f.Height)
		}
	}
	if want := (layout.Dimensions{Width: 48 + 2*280 + 24, Height: top + 248 + 24}); res.Dimensions != want {
		t.Errorf("Dimensions = %v, want %v", res.Dimensions, want)
	}
	if res.Delays["c"] != 0.1 || res.Delays["a"] != 0 {
		t.Errorf("Delays = %v", res.Delays)
	}
}

func TestComputeGridPlacement(t *testing.T) {
	squads := makeSquads(9)
	var people []org.Person
	for i := range 9 {
		people = append(people, member(fmt.Sprintf("p%d", i), fmt.Sprintf("s%d", i)))
	}
	res := Compute(squads, people, Options{ViewportWidth: 1200})

	if res.Mode != ModeGrid || res.Columns != 3 {
		t.Fatalf("Mode = %v, Columns = %d", res.Mode, res.Columns)
	}
	colWidth := (1200 - 48 - 2*24) / 3.0
	if res.Frames[1].Width != colWidth {
		t.Errorf("column width = %v, want %v", res.Frames[1].Width, colWidth)
	}
	if res.Frames[3].X != ContainerPadding || res.Frames[3].Y <= res.Frames[0].Y {
		t.Errorf("fourth frame = %+v, want start of second row", res.Frames[3])
	}
	if got := res.Positions["p4"].X; got != ContainerPadding+colWidth+Gap+SquadPadding {
		t.Errorf("p4.x = %v", got)
	}
	if res.Dimensions.Width != 1200 {
		t.Errorf("Dimensions.Width = %v, want 1200", res.Dimensions.Width)
	}
}

func TestComputeEmpty(t *testing.T) {
	res := Compute(nil, []org.Person{member("a", "s0")}, Options{})
	if len(res.Positions) != 0 || len(res.Ungrouped) != 1 {
		t.Errorf("positions = %d, ungrouped = %d", len(res.Positions), len(res.Ungrouped))
	}
	if want := (layout.Dimensions{Width: 48 + layout.CardWidth, Height: TrainHeader + 48}); res.Dimensions != want {
		t.Errorf("Dimensions = %v, want %v", res.Dimensions, want)
	}
}

func TestDelay(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		global   int
		group    int
		want     float64
	}{
		{"by squad", BySquad, 10, 3, 0.3},
		{"by card", ByCard, 10, 3, 0.2},
		{"slow first", SlowThenFast, 0, 0, 0},
		{"slow second", SlowThenFast, 5, 1, 0.3},
		{"fast third", SlowThenFast, 9, 2, 0.6},
		{"fast fifth", SlowThenFast, 20, 4, 0.8},
		{"unknown", "zigzag", 20, 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Delay(tt.strategy, tt.global, tt.group, 0)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Delay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDelayGlobalIndex(t *testing.T) {
	squads := makeSquads(2)
	people := []org.Person{member("a", "s0"), member("b", "s0"), member("c", "s1"), member("d", "s1")}
	res := Compute(squads, people, Options{Strategy: ByCard})
	if got := res.Delays["d"]; math.Abs(got-0.06) > 1e-9 {
		t.Errorf("Delays[d] = %v, want 0.06", got)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"by-squad", BySquad, false},
		{"BY_CARD", ByCard, false},
		{"slow_then_fast", SlowThenFast, false},
		{"", DefaultStrategy, false},
		{"zigzag", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseStrategy(%q) = %v, %v", tt.in, got, err)
		}
	}
}
