// Package sink renders computed charts as card diagrams.
//
// [RenderSVG] draws one card per chart node: an accent bar in the craft
// colour, an initials avatar, the name and subtitle, and the L/T/S role
// badges. The functional view also gets squad frames with member counts
// and the train header band.
//
//	svg := sink.RenderSVG(c,
//	    sink.WithSeniority(),
//	    sink.WithAnimation(),
//	)
//
// [RenderPNG] and [RenderPDF] convert the SVG through rsvg-convert and
// accept the SVG options via [WithPNGSVGOptions] and [WithPDFSVGOptions].
package sink
