// Package squads computes the functional view: people grouped into squad
// frames under a train header.
//
// Up to [DefaultRowThreshold] squads are laid out in a single non-wrapping
// row of fixed-width frames. Beyond that, frames flow into an auto-fit grid
// whose column count depends on the viewport width. Inside a frame, members
// stack vertically under the squad header.
//
// Each positioned card also gets a stagger delay (see [Delay]) so that a
// renderer can animate the transition from the hierarchical view.
package squads

import (
	"math"

	"github.com/matzehuels/orgmorph/pkg/layout"
	"github.com/matzehuels/orgmorph/pkg/org"
)

// Frame geometry, in unscaled pixels.
const (
	SquadPadding     = 20.0
	SquadHeader      = 56.0
	TrainHeader      = 72.0
	Gap              = 24.0
	ContainerPadding = 24.0
	ColumnWidth      = 280.0
)

// DefaultRowThreshold is the largest squad count still laid out as one row.
const DefaultRowThreshold = 8

// Mode is the arrangement of squad frames.
type Mode string

const (
	ModeRow  Mode = "row"
	ModeGrid Mode = "grid"
)

// Options configures [Compute]. Zero values are replaced by defaults.
type Options struct {
	RowThreshold  int
	ViewportWidth float64
	Strategy      Strategy
}

// SetDefaults fills unset options.
func (o *Options) SetDefaults() {
	if o.RowThreshold <= 0 {
		o.RowThreshold = DefaultRowThreshold
	}
	if !(o.ViewportWidth > 0) || math.IsInf(o.ViewportWidth, 0) {
		o.ViewportWidth = layout.DefaultViewport.Width
	}
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
}

// Group is a squad and its members, in people input order.
type Group struct {
	Squad   org.Squad
	Members []org.Person
	// Offset is the number of members in all previous groups.
	Offset int
}

// Frame is the box drawn around a squad.
type Frame struct {
	SquadID     string `json:"squad_id" bson:"squad_id"`
	Name        string `json:"name" bson:"name"`
	layout.Rect `bson:",inline"`
}

// Result is the output of [Compute].
type Result struct {
	Groups    []Group
	Ungrouped []org.Person
	Mode      Mode
	Columns   int

	Positions  map[string]layout.Point
	Delays     map[string]float64
	Frames     []Frame
	Dimensions layout.Dimensions
}

// GroupPeople assigns people to squads by their SquadID. Every squad yields a
// group, empty or not. People without a known squad are returned separately.
func GroupPeople(squads []org.Squad, people []org.Person) ([]Group, []org.Person) {
	bySquad := make(map[string]int, len(squads))
	groups := make([]Group, len(squads))
	for i, s := range squads {
		groups[i].Squad = s
		if _, dup := bySquad[s.ID]; !dup {
			bySquad[s.ID] = i
		}
	}

	var ungrouped []org.Person
	for _, p := range people {
		i, ok := bySquad[p.SquadID]
		if p.SquadID == "" || !ok {
			ungrouped = append(ungrouped, p)
			continue
		}
		groups[i].Members = append(groups[i].Members, p)
	}

	offset := 0
	for i := range groups {
		groups[i].Offset = offset
		offset += len(groups[i].Members)
	}
	return groups, ungrouped
}

// ModeFor returns the arrangement for n squads.
func ModeFor(n, rowThreshold int) Mode {
	if rowThreshold <= 0 {
		rowThreshold = DefaultRowThreshold
	}
	if n <= rowThreshold {
		return ModeRow
	}
	return ModeGrid
}

// GridColumns returns how many minimum-width columns fit in viewportWidth.
func GridColumns(viewportWidth float64) int {
	avail := viewportWidth - 2*ContainerPadding
	cols := int(math.Floor((avail + Gap) / (ColumnWidth + Gap)))
	return max(1, cols)
}

// FrameHeight is the height of a frame holding n members.
func FrameHeight(n int) float64 {
	h := 2*SquadPadding + SquadHeader
	if n > 0 {
		h += float64(n)*layout.CardHeight + float64(n-1)*layout.CardSpacingY
	}
	return h
}

// Compute lays out squads and people.
func Compute(squads []org.Squad, people []org.Person, opts Options) Result {
	opts.SetDefaults()
	groups, ungrouped := GroupPeople(squads, people)

	res := Result{
		Groups:    groups,
		Ungrouped: ungrouped,
		Mode:      ModeFor(len(groups), opts.RowThreshold),
		Positions: make(map[string]layout.Point),
		Delays:    make(map[string]float64),
	}

	colWidth := ColumnWidth
	if res.Mode == ModeRow {
		res.Columns = max(1, len(groups))
	} else {
		res.Columns = GridColumns(opts.ViewportWidth)
		avail := opts.ViewportWidth - 2*ContainerPadding
		colWidth = max(ColumnWidth, (avail-float64(res.Columns-1)*Gap)/float64(res.Columns))
	}

	top := TrainHeader + ContainerPadding
	for start := 0; start < len(groups); start += res.Columns {
		end := min(start+res.Columns, len(groups))
		rowHeight := 0.0
		for _, g := range groups[start:end] {
			rowHeight = max(rowHeight, FrameHeight(len(g.Members)))
		}
		for col, g := range groups[start:end] {
			gi := start + col
			frame := Frame{
				SquadID: g.Squad.ID,
				Name:    g.Squad.Name,
				Rect: layout.Rect{
					X:      ContainerPadding + float64(col)*(colWidth+Gap),
					Y:      top,
					Width:  colWidth,
					Height: rowHeight,
				},
			}
			res.Frames = append(res.Frames, frame)

			y := frame.Y + SquadPadding + SquadHeader
			for i, p := range g.Members {
				res.Positions[p.ID] = layout.Point{X: frame.X + SquadPadding, Y: y}
				res.Delays[p.ID] = Delay(opts.Strategy, g.Offset+i, gi, i)
				y += layout.CardHeight + layout.CardSpacingY
			}
		}
		top += rowHeight + Gap
	}

	res.Dimensions = dimensions(res, colWidth)
	return res
}

func dimensions(res Result, colWidth float64) layout.Dimensions {
	cols := res.Columns
	if len(res.Groups) == 0 {
		cols = 0
	} else if len(res.Groups) < cols {
		cols = len(res.Groups)
	}
	// The train header always holds the RTE card.
	width := 2*ContainerPadding + layout.CardWidth
	if cols > 0 {
		width = max(width, 2*ContainerPadding+float64(cols)*colWidth+float64(cols-1)*Gap)
	}

	height := TrainHeader + 2*ContainerPadding
	if n := len(res.Frames); n > 0 {
		last := res.Frames[n-1]
		height = last.Y + last.Height + ContainerPadding
	}
	return layout.Dimensions{Width: width, Height: height}
}
