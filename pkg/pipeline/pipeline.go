// Package pipeline provides the core chart pipeline for orgmorph.
//
// This package implements the complete load → layout → render pipeline used
// by every CLI command that produces a chart. By centralizing this logic,
// the layout and render commands and the browser agree on defaults and
// share one cache.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read the organisation from a snapshot file or a roster store
//  2. Layout: Compute card positions for the requested view
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    View:    chart.ViewFunctional,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, o, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Layout only
//	c, err := runner.ComputeLayout(ctx, o, opts)
//
//	// Render an existing chart
//	artifacts, err := runner.Render(ctx, c, o, opts)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgmorph/pkg/cache"
	"github.com/matzehuels/orgmorph/pkg/chart"
	"github.com/matzehuels/orgmorph/pkg/layout"
	"github.com/matzehuels/orgmorph/pkg/layout/squads"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultView is the view rendered when none is requested.
	DefaultView = chart.ViewHierarchical
)

// Diagram kinds.
const (
	// DiagramCards draws positioned cards from the layout engine.
	DiagramCards = "cards"
	// DiagramTree draws the management tree with Graphviz.
	DiagramTree = "tree"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidDiagrams is the set of supported diagram kinds.
var ValidDiagrams = map[string]bool{
	DiagramCards: true,
	DiagramTree:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the chart pipeline.
type Options struct {
	// Load options
	Input string `json:"input,omitempty"` // Snapshot JSON file; empty reads the store

	// Layout options
	View           string  `json:"view,omitempty"`
	ViewportWidth  float64 `json:"viewport_width,omitempty"`
	ViewportHeight float64 `json:"viewport_height,omitempty"`
	Strategy       string  `json:"strategy,omitempty"`
	RowThreshold   int     `json:"row_threshold,omitempty"`

	// Render options
	Diagram   string   `json:"diagram,omitempty"`
	Formats   []string `json:"formats,omitempty"`
	Seniority bool     `json:"seniority,omitempty"`
	Animate   bool     `json:"animate,omitempty"`
	Zoom      float64  `json:"zoom,omitempty"`  // Output scale of SVG cards; 0 means 1
	Scale     float64  `json:"scale,omitempty"` // PNG resolution multiplier
	Title     string   `json:"title,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"` // Tree labels with seniority and roles

	// Runtime options (not serialized)
	Refresh  bool          `json:"-"` // Skip cache reads
	CacheTTL time.Duration `json:"-"`
	Logger   *log.Logger   `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Chart is the computed layout.
	Chart chart.Chart

	// OrgHash is the content hash of the organisation snapshot.
	OrgHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	People     int
	Squads     int
	Unassigned int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the chart came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDiagram checks that a diagram kind is valid.
func ValidateDiagram(diagram string) error {
	if !ValidDiagrams[diagram] {
		return fmt.Errorf("invalid diagram: %q (must be one of: cards, tree)", diagram)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.View == "" {
		o.View = DefaultView
	}
	if !(o.ViewportWidth > 0) {
		o.ViewportWidth = layout.DefaultViewport.Width
	}
	if !(o.ViewportHeight > 0) {
		o.ViewportHeight = layout.DefaultViewport.Height
	}
	if o.Strategy == "" {
		o.Strategy = string(squads.DefaultStrategy)
	}
	if o.RowThreshold <= 0 {
		o.RowThreshold = squads.DefaultRowThreshold
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = cache.LayoutTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if _, err := chart.ParseView(o.View); err != nil {
		return err
	}
	strategy, err := squads.ParseStrategy(o.Strategy)
	if err != nil {
		return err
	}
	o.Strategy = string(strategy)
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.Diagram == "" {
		o.Diagram = DiagramCards
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if !(o.Zoom > 0) {
		o.Zoom = layout.DefaultZoom
	}
	if !(o.Scale > 0) {
		o.Scale = DefaultScale
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = cache.ArtifactTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateDiagram(o.Diagram); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// IsTree returns true if the Graphviz management tree is requested.
func (o *Options) IsTree() bool {
	return o.Diagram == DiagramTree
}

// Viewport returns the layout viewport.
func (o *Options) Viewport() layout.Viewport {
	return layout.Viewport{Width: o.ViewportWidth, Height: o.ViewportHeight}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		View:           o.View,
		ViewportWidth:  o.ViewportWidth,
		ViewportHeight: o.ViewportHeight,
	}
	// The hierarchical layout ignores squad settings.
	if o.View == chart.ViewFunctional {
		k.Strategy = o.Strategy
		k.RowThreshold = o.RowThreshold
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:    format,
		Diagram:   o.Diagram,
		Seniority: o.Seniority,
		Animate:   o.Animate,
		Detailed:  o.Detailed,
		Zoom:      o.Zoom,
		Title:     o.Title,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
