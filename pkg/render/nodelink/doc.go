// Package nodelink renders the management tree as a Graphviz diagram.
//
// [ToDOT] emits the director, managers and developers as boxes linked
// top-down, optionally clustered by craft. [RenderSVG] lays the graph out
// with the embedded Graphviz library; [RenderPDF] and [RenderPNG] convert
// that SVG with rsvg-convert.
//
//	dot := nodelink.ToDOT(o, nodelink.Options{Clusters: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package nodelink
