// Package render provides chart rendering for org charts.
//
// # Overview
//
// This package contains the rendering pipeline that turns computed charts
// into visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Card charts for both views (in [sink] subpackage)
//   - Graphviz diagrams of the management tree (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). These are used by both
// the card and node-link renderers.
//
//	svg := sink.RenderSVG(c, sink.WithSeniority())
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the director → manager → developer tree
// with Graphviz, managers clustered by craft.
//
//	dot := nodelink.ToDOT(o, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [sink]: github.com/matzehuels/orgmorph/pkg/render/sink
// [nodelink]: github.com/matzehuels/orgmorph/pkg/render/nodelink
package render
