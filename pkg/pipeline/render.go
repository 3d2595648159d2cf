package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/orgmorph/pkg/chart"
	"github.com/matzehuels/orgmorph/pkg/org"
	"github.com/matzehuels/orgmorph/pkg/render/nodelink"
	"github.com/matzehuels/orgmorph/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. The chart
// drives card diagrams; o is needed for the tree diagram and DOT output and
// may be nil otherwise.
func Render(ctx context.Context, c chart.Chart, o *org.Organization, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if opts.IsTree() {
		return renderTree(ctx, o, opts)
	}
	return renderCards(ctx, c, o, opts)
}

// renderCards generates card chart outputs.
func renderCards(ctx context.Context, c chart.Chart, o *org.Organization, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(c, opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(c, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, c, sink.WithScale(opts.Scale), sink.WithPNGSVGOptions(svgOpts...))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, c, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = chart.Marshal(c)
		case FormatDOT:
			data, err = dotBytes(o, opts)
		default:
			return nil, fmt.Errorf("unsupported card format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderTree generates Graphviz outputs of the management tree.
func renderTree(ctx context.Context, o *org.Organization, opts Options) (map[string][]byte, error) {
	if o == nil {
		return nil, fmt.Errorf("tree diagram needs the organisation")
	}
	dot := nodelink.ToDOT(o, nodelink.Options{Detailed: opts.Detailed, Clusters: true})
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatDOT:
			data = []byte(dot)
		default:
			return nil, fmt.Errorf("unsupported tree format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func dotBytes(o *org.Organization, opts Options) ([]byte, error) {
	if o == nil {
		return nil, fmt.Errorf("dot output needs the organisation")
	}
	return []byte(nodelink.ToDOT(o, nodelink.Options{Detailed: opts.Detailed, Clusters: true})), nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(c chart.Chart, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithZoom(opts.Zoom)}

	if opts.Seniority {
		svgOpts = append(svgOpts, sink.WithSeniority())
	}
	// Animation delays only exist in the functional view.
	if opts.Animate && c.IsFunctional() {
		svgOpts = append(svgOpts, sink.WithAnimation())
	}

	title := opts.Title
	if title == "" {
		title = c.Title
	}
	if title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(title))
	}

	return svgOpts
}

// RenderFromChartData renders output from serialized chart data.
// This is useful when the chart was computed elsewhere (e.g., cached).
func RenderFromChartData(ctx context.Context, data []byte, o *org.Organization, opts Options) (map[string][]byte, error) {
	c, err := chart.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parse chart: %w", err)
	}
	return Render(ctx, c, o, opts)
}
