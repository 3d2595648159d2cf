package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/orgmorph/pkg/cache"
	"github.com/matzehuels/orgmorph/pkg/chart"
	"github.com/matzehuels/orgmorph/pkg/layout"
	"github.com/matzehuels/orgmorph/pkg/layout/squads"
	"github.com/matzehuels/orgmorph/pkg/org"
)

func testOrg() *org.Organization {
	return &org.Organization{
		Version:  org.SchemaVersion,
		Director: org.Director{ID: "d", FirstName: "Marie", LastName: "Dubois", Title: "Directrice"},
		People: []org.Person{
			{ID: "m1", FirstName: "Paul", LastName: "Martin", Craft: org.CraftCloud, Seniority: 4, ManagerID: "d", IsManager: true, ManagerTimePercent: 50, SquadID: "s1"},
			{ID: "m2", FirstName: "Élodie", LastName: "Bernard", Craft: org.CraftMobile, Seniority: 3, ManagerID: "d", IsManager: true},
			{ID: "a", FirstName: "Léa", LastName: "Roux", Craft: org.CraftCloud, Seniority: 2, ManagerID: "m1", SquadID: "s1"},
			{ID: "b", FirstName: "Hugo", LastName: "Petit", Craft: org.CraftMobile, Seniority: 1, ManagerID: "m2", SquadID: "s2"},
			{ID: "c", FirstName: "Nina", LastName: "Leroy", Craft: org.CraftInfra, Seniority: 3, ManagerID: "gone"},
		},
		Squads: []org.Squad{
			{ID: "s1", Name: "Squad Alpha", TrainID: "t", MemberIDs: []string{"m1", "a"}},
			{ID: "s2", Name: "Squad Beta", TrainID: "t", MemberIDs: []string{"b"}},
		},
		Train: org.Train{ID: "t", Name: "Cantal"},
		RTE:   org.RTE{ID: "r", FirstName: "Sophie", LastName: "Laurent"},
	}
}

// countingCache is an in-memory cache that records reads and writes.
type countingCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	hits int
	sets int
}

func newCountingCache() *countingCache {
	return &countingCache{data: make(map[string][]byte)}
}

func (c *countingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	data, ok := c.data[key]
	if ok {
		c.hits++
	}
	return data, ok, nil
}

func (c *countingCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = data
	return nil
}

func (c *countingCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *countingCache) Close() error { return nil }

// =============================================================================
// Validation
// =============================================================================

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateDiagram(t *testing.T) {
	tests := []struct {
		diagram string
		wantErr bool
	}{
		{"cards", false},
		{"tree", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateDiagram(tt.diagram)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDiagram(%q) error = %v, wantErr %v", tt.diagram, err, tt.wantErr)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"svg", []string{"svg"}},
		{"svg, PNG ,svg", []string{"svg", "png"}},
		{" , ", nil},
		{"", nil},
	}

	for _, tt := range tests {
		if got := ParseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// Options
// =============================================================================

func TestSetLayoutDefaults(t *testing.T) {
	var opts Options
	opts.SetLayoutDefaults()

	if opts.View != chart.ViewHierarchical {
		t.Errorf("View = %q, want %q", opts.View, chart.ViewHierarchical)
	}
	if opts.Viewport() != layout.DefaultViewport {
		t.Errorf("Viewport = %+v, want %+v", opts.Viewport(), layout.DefaultViewport)
	}
	if opts.Strategy != string(squads.DefaultStrategy) {
		t.Errorf("Strategy = %q", opts.Strategy)
	}
	if opts.RowThreshold != squads.DefaultRowThreshold {
		t.Errorf("RowThreshold = %d", opts.RowThreshold)
	}
	if opts.CacheTTL != cache.LayoutTTL {
		t.Errorf("CacheTTL = %v", opts.CacheTTL)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	var opts Options
	opts.SetRenderDefaults()

	if opts.Diagram != DiagramCards {
		t.Errorf("Diagram = %q, want %q", opts.Diagram, DiagramCards)
	}
	if !reflect.DeepEqual(opts.Formats, []string{FormatSVG}) {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Zoom != layout.DefaultZoom {
		t.Errorf("Zoom = %v", opts.Zoom)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v", opts.Scale)
	}

	// Existing values are kept
	opts = Options{Formats: []string{"png"}, Scale: 3, Diagram: DiagramTree}
	opts.SetRenderDefaults()
	if opts.Scale != 3 || opts.Formats[0] != "png" || !opts.IsTree() {
		t.Errorf("explicit values overwritten: %+v", opts)
	}
}

func TestValidateForLayout(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"functional", Options{View: chart.ViewFunctional, Strategy: "by_card"}, false},
		{"bad view", Options{View: "matrix"}, true},
		{"bad strategy", Options{Strategy: "random"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForLayout() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	opts := Options{View: chart.ViewFunctional, Strategy: "by_card"}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatal(err)
	}
	if opts.Strategy != string(squads.ByCard) {
		t.Errorf("Strategy not normalized: %q", opts.Strategy)
	}
}

func TestValidateForRender(t *testing.T) {
	opts := Options{Formats: []string{"svg", "gif"}}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("gif should be rejected")
	}
	opts = Options{Diagram: "tower"}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("unknown diagram should be rejected")
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	h := Options{View: chart.ViewHierarchical, Strategy: "by-card", RowThreshold: 3}
	f := Options{View: chart.ViewFunctional, Strategy: "by-card", RowThreshold: 3}

	if k := h.LayoutKeyOpts(); k.Strategy != "" || k.RowThreshold != 0 {
		t.Errorf("hierarchical key carries squad settings: %+v", k)
	}
	if k := f.LayoutKeyOpts(); k.Strategy != "by-card" || k.RowThreshold != 3 {
		t.Errorf("functional key = %+v", k)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 4, Zoom: 1}
	if k := opts.ArtifactKeyOpts(FormatSVG); k.Scale != 0 {
		t.Errorf("svg key should ignore scale: %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatPNG); k.Scale != 4 {
		t.Errorf("png key should carry scale: %+v", k)
	}
}

// =============================================================================
// Load and Layout
// =============================================================================

type staticSource struct{ o *org.Organization }

func (s staticSource) Initialize(context.Context) (*org.Organization, error) { return s.o, nil }

func TestLoad(t *testing.T) {
	ctx := context.Background()
	o := testOrg()

	got, err := Load(ctx, staticSource{o}, Options{})
	if err != nil || got != o {
		t.Fatalf("Load from source = %v, %v", got, err)
	}

	if _, err := Load(ctx, nil, Options{}); err == nil {
		t.Error("Load without source or input should fail")
	}

	if _, err := Load(ctx, nil, Options{Input: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Error("Load of missing file should fail")
	}
}

func TestLoadInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "org.json")
	data := `{"version":"1.0","director":{"id":"d","firstName":"Marie","lastName":"Dubois"},"developers":[],"squads":[]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	o, err := Load(context.Background(), nil, Options{Input: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if o.Director.LastName != "Dubois" {
		t.Errorf("Director = %+v", o.Director)
	}
}

func TestGenerateLayoutHierarchical(t *testing.T) {
	c, err := GenerateLayout(testOrg(), Options{})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}
	if !c.IsHierarchical() {
		t.Errorf("View = %q", c.View)
	}
	if _, ok := c.Node("d"); !ok {
		t.Error("director card missing")
	}
	if len(c.Unassigned) != 1 || c.Unassigned[0] != "c" {
		t.Errorf("Unassigned = %v, want [c]", c.Unassigned)
	}
	if _, ok := c.Node("c"); ok {
		t.Error("unassigned developer should not be drawn")
	}
}

func TestGenerateLayoutFunctional(t *testing.T) {
	c, err := GenerateLayout(testOrg(), Options{View: chart.ViewFunctional})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}
	if !c.IsFunctional() {
		t.Errorf("View = %q", c.View)
	}
	if c.Strategy != string(squads.DefaultStrategy) {
		t.Errorf("Strategy = %q", c.Strategy)
	}
	if len(c.Groups) != 2 {
		t.Errorf("Groups = %d, want 2", len(c.Groups))
	}
	if !(c.Zoom > 0) {
		t.Errorf("Zoom = %v", c.Zoom)
	}
}

// =============================================================================
// Render
// =============================================================================

func TestRenderCards(t *testing.T) {
	ctx := context.Background()
	o := testOrg()
	c, err := GenerateLayout(o, Options{View: chart.ViewFunctional})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(ctx, c, o, Options{
		Formats:   []string{FormatSVG, FormatJSON, FormatDOT},
		Seniority: true,
		Animate:   true,
		Title:     "Train Cantal",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	svg := string(artifacts[FormatSVG])
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "Train Cantal") {
		t.Errorf("svg output incomplete: %.200s", svg)
	}

	back, err := chart.Unmarshal(artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if back.View != c.View || len(back.Nodes) != len(c.Nodes) {
		t.Errorf("json round trip changed the chart")
	}

	if !bytes.HasPrefix(artifacts[FormatDOT], []byte("digraph G {")) {
		t.Errorf("dot output = %.50s", artifacts[FormatDOT])
	}
}

func TestRenderNeedsOrganisation(t *testing.T) {
	ctx := context.Background()
	c, err := GenerateLayout(testOrg(), Options{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Render(ctx, c, nil, Options{Formats: []string{FormatDOT}}); err == nil {
		t.Error("dot without organisation should fail")
	}
	if _, err := Render(ctx, c, nil, Options{Diagram: DiagramTree, Formats: []string{FormatDOT}}); err == nil {
		t.Error("tree without organisation should fail")
	}
	if _, err := Render(ctx, c, nil, Options{Formats: []string{FormatSVG}}); err != nil {
		t.Errorf("svg cards do not need the organisation: %v", err)
	}
}

func TestRenderTreeDOT(t *testing.T) {
	o := testOrg()
	artifacts, err := Render(context.Background(), chart.Chart{}, o, Options{Diagram: DiagramTree, Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(artifacts[FormatDOT]), "digraph G {") {
		t.Errorf("tree dot = %.50s", artifacts[FormatDOT])
	}

	if _, err := Render(context.Background(), chart.Chart{}, o, Options{Diagram: DiagramTree, Formats: []string{FormatJSON}}); err == nil {
		t.Error("json is not a tree format")
	}
}

func TestRenderFromChartData(t *testing.T) {
	o := testOrg()
	c, err := GenerateLayout(o, Options{})
	if err != nil {
		t.Fatal(err)
	}
	data, err := chart.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := RenderFromChartData(context.Background(), data, o, Options{})
	if err != nil {
		t.Fatalf("RenderFromChartData: %v", err)
	}
	if len(artifacts[FormatSVG]) == 0 {
		t.Error("svg artifact empty")
	}

	if _, err := RenderFromChartData(context.Background(), []byte("{"), o, Options{}); err == nil {
		t.Error("invalid chart data should fail")
	}
}

// =============================================================================
// Runner
// =============================================================================

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	c := newCountingCache()
	r := NewRunner(c, nil, nil)
	defer r.Close()

	opts := Options{View: chart.ViewFunctional, Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, testOrg(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if first.Stats.People != 5 || first.Stats.Squads != 2 {
		t.Errorf("Stats = %+v", first.Stats)
	}
	if first.OrgHash == "" {
		t.Error("OrgHash should be set")
	}
	if len(first.Artifacts) != 2 {
		t.Errorf("Artifacts = %d, want 2", len(first.Artifacts))
	}

	second, err := r.Execute(ctx, testOrg(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}
}

func TestRunnerCacheKeysFollowInputs(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newCountingCache(), nil, nil)

	opts := Options{Formats: []string{FormatSVG}}
	if _, err := r.Execute(ctx, testOrg(), opts); err != nil {
		t.Fatal(err)
	}

	changed := testOrg()
	changed.People[2].Seniority = 4
	res, err := r.Execute(ctx, changed, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("changed organisation should miss the layout cache")
	}

	opts.Seniority = true
	res, err = r.Execute(ctx, changed, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("render option change should only miss artifacts: %+v", res.CacheInfo)
	}
}

func TestRunnerRefresh(t *testing.T) {
	ctx := context.Background()
	c := newCountingCache()
	r := NewRunner(c, nil, nil)

	opts := Options{Formats: []string{FormatJSON}}
	if _, err := r.Execute(ctx, testOrg(), opts); err != nil {
		t.Fatal(err)
	}
	opts.Refresh = true
	res, err := r.Execute(ctx, testOrg(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("refresh should bypass the cache: %+v", res.CacheInfo)
	}
	if c.sets != 4 {
		t.Errorf("sets = %d, want 4 (refresh still writes)", c.sets)
	}
}

func TestRunnerFileCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)

	if _, err := r.ComputeLayout(ctx, testOrg(), Options{}); err != nil {
		t.Fatal(err)
	}
	_, hit, err := r.ComputeLayoutWithCacheInfo(ctx, testOrg(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("file cache should serve the second layout")
	}
}

func TestRunnerNilOrganisation(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), nil, Options{}); err == nil {
		t.Error("Execute(nil) should fail")
	}
}

func TestOrgHash(t *testing.T) {
	a, err := OrgHash(testOrg())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := OrgHash(testOrg())
	if a != b {
		t.Error("hash should be stable")
	}
	changed := testOrg()
	changed.Squads[0].Name = "Squad Gamma"
	if c, _ := OrgHash(changed); c == a {
		t.Error("hash should change with content")
	}
}
