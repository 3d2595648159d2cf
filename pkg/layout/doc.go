// Package layout holds the geometry shared by the chart layouts and the
// auto-fit zoom calculator.
//
// # Overview
//
// Two layouts position the same set of people:
//
//   - [github.com/matzehuels/orgmorph/pkg/layout/hierarchy] places the
//     director, the managers grouped by craft and the developers in one
//     column under their manager, joined by orthogonal connectors.
//   - [github.com/matzehuels/orgmorph/pkg/layout/squads] groups people into
//     squad frames arranged in a single row or an auto-fit grid.
//
// Both are pure functions of their input: no errors, no shared state, safe for
// concurrent use. Both report the [Dimensions] of the drawing, which
// [AutoFitZoom] turns into a scale factor for a given [Viewport].
//
// # Card Geometry
//
// Every person is drawn as a [CardWidth] × [CardHeight] card. Positions are
// the top-left corner of the card in an unscaled coordinate space whose
// origin is the top-left of the drawing.
package layout
