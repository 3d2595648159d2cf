// Package hierarchy computes the three-level management tree layout.
//
// The tree shape is fixed: the director on top, managers on the second row
// grouped by craft (crafts in byte-wise label order, managers in input order
// within a craft), and each manager's developers stacked in a single column
// under the manager card.
//
//	                 ┌──────────┐
//	                 │ Director │
//	                 └────┬─────┘
//	        ┌─────────────┴──────────┐   rail
//	   ┌────┴───┐   ┌───────┐   ┌────┴───┐
//	   │ Cloud  │   │ Cloud │   │ Mobile │
//	   └────┬───┘   └───────┘   └────┬───┘
//	   ┌────┴───┐               ┌────┴───┐
//	   │  dev   │               │  dev   │
//	   └────────┘               └────────┘
//
// Compute is a pure function of its input and never fails. Developers whose
// manager is not in the person set are left unpositioned and listed in
// [Result.Unassigned].
package hierarchy

import (
	"github.com/matzehuels/orgmorph/pkg/layout"
	"github.com/matzehuels/orgmorph/pkg/org"
)

// Result is the output of [Compute].
type Result struct {
	Positions  map[string]layout.Point
	Connectors []layout.Segment
	Dimensions layout.Dimensions

	// ViewportWidth is the width the rows were centred in.
	ViewportWidth float64
	// Unassigned lists developers without a positioned manager, in input order.
	Unassigned []string
}

// CraftGroup is one craft's run of managers on the manager row.
type CraftGroup struct {
	Craft    org.Craft
	Managers []org.Person
	Width    float64
}

// Compute lays out director and people.
func Compute(director org.Director, people []org.Person) Result {
	idx := org.NewIndex(people)
	groups := CraftGroups(idx)
	total := RowWidth(groups)
	vw := max(layout.MinViewport, total+layout.Margin)

	res := Result{
		Positions:     make(map[string]layout.Point, len(people)+1),
		ViewportWidth: vw,
	}

	if director.ID != "" {
		res.Positions[director.ID] = layout.Point{X: vw/2 - layout.CardWidth/2, Y: layout.DirectorY}
	}

	managersY := layout.DirectorY + layout.LevelHeight
	x := (vw - total) / 2
	for gi, g := range groups {
		if gi > 0 {
			x += layout.CraftGroupSpacing
		}
		for mi, m := range g.Managers {
			if mi > 0 {
				x += layout.ManagerGroupSpacing
			}
			res.Positions[m.ID] = layout.Point{X: x, Y: managersY}
			x += layout.CardWidth
		}
	}

	devsY := managersY + layout.LevelHeight
	step := layout.CardHeight + layout.CardSpacingY
	for _, m := range idx.Managers {
		mp := res.Positions[m.ID]
		for i, d := range idx.Reports(m.ID) {
			res.Positions[d.ID] = layout.Point{X: mp.X, Y: devsY + float64(i)*step}
		}
	}
	for _, d := range idx.Orphans() {
		res.Unassigned = append(res.Unassigned, d.ID)
	}

	res.Connectors = connectors(director, idx, res.Positions, managersY)
	res.Dimensions = layout.Bounds(res.Positions)
	return res
}

// CraftGroups groups the managers of idx by craft, crafts sorted by label.
func CraftGroups(idx *org.Index) []CraftGroup {
	crafts := idx.ManagerCrafts()
	groups := make([]CraftGroup, 0, len(crafts))
	for _, c := range crafts {
		ms := idx.ManagersByCraft(c)
		n := float64(len(ms))
		groups = append(groups, CraftGroup{
			Craft:    c,
			Managers: ms,
			Width:    n*layout.CardWidth + (n-1)*layout.ManagerGroupSpacing,
		})
	}
	return groups
}

// RowWidth is the width of the manager row: every group footprint plus the
// spacing between adjacent groups.
func RowWidth(groups []CraftGroup) float64 {
	var total float64
	for i, g := range groups {
		if i > 0 {
			total += layout.CraftGroupSpacing
		}
		total += g.Width
	}
	return total
}

func connectors(director org.Director, idx *org.Index, pos map[string]layout.Point, managersY float64) []layout.Segment {
	var segs []layout.Segment

	if dp, ok := pos[director.ID]; ok && director.ID != "" && len(idx.Managers) > 0 {
		railY := managersY - layout.RailOffset
		cx := dp.X + layout.CardWidth/2
		segs = append(segs, layout.Segment{X1: cx, Y1: dp.Y + layout.CardHeight, X2: cx, Y2: railY})

		minX, maxX := pos[idx.Managers[0].ID].X, pos[idx.Managers[0].ID].X
		for _, m := range idx.Managers[1:] {
			minX = min(minX, pos[m.ID].X)
			maxX = max(maxX, pos[m.ID].X)
		}
		segs = append(segs, layout.Segment{
			X1: minX + layout.CardWidth/2, Y1: railY,
			X2: maxX + layout.CardWidth/2, Y2: railY,
		})

		for _, m := range idx.Managers {
			mx := pos[m.ID].X + layout.CardWidth/2
			segs = append(segs, layout.Segment{X1: mx, Y1: railY, X2: mx, Y2: managersY})
		}
	}

	for _, m := range idx.Managers {
		reports := idx.Reports(m.ID)
		if len(reports) == 0 {
			continue
		}
		mp := pos[m.ID]
		last := pos[reports[len(reports)-1].ID]
		cx := mp.X + layout.CardWidth/2
		segs = append(segs, layout.Segment{X1: cx, Y1: mp.Y + layout.CardHeight, X2: cx, Y2: last.Y + layout.CardHeight})
	}
	return segs
}
