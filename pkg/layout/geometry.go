package layout

// Card and spacing constants, in unscaled pixels.
const (
	CardWidth   = 240.0
	CardHeight  = 70.0
	LevelHeight = 180.0

	ManagerGroupSpacing = 40.0
	CraftGroupSpacing   = 80.0
	CardSpacingY        = 12.0

	DirectorY   = 50.0
	Padding     = 100.0
	MinViewport = 1200.0
	Margin      = 200.0
	RailOffset  = 30.0
)

// Point is the top-left corner of a card.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Segment is an axis-aligned connector line.
type Segment struct {
	X1 float64 `json:"x1" bson:"x1"`
	Y1 float64 `json:"y1" bson:"y1"`
	X2 float64 `json:"x2" bson:"x2"`
	Y2 float64 `json:"y2" bson:"y2"`
}

// Horizontal reports whether the segment runs along the x axis.
func (s Segment) Horizontal() bool { return s.Y1 == s.Y2 }

// Dimensions is the size of a drawing.
type Dimensions struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Viewport is the visible area the drawing is fitted into.
type Viewport struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// DefaultViewport is used when the caller does not know the screen size.
var DefaultViewport = Viewport{Width: 1440, Height: 900}

// Rect is a positioned box, used for squad frames.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Bounds returns the dimensions enclosing every card at positions, plus
// [Padding]. An empty map yields {Padding, Padding}.
func Bounds(positions map[string]Point) Dimensions {
	var maxX, maxY float64
	for _, p := range positions {
		maxX = max(maxX, p.X+CardWidth)
		maxY = max(maxY, p.Y+CardHeight)
	}
	return Dimensions{Width: maxX + Padding, Height: maxY + Padding}
}
