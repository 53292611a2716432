package mindmap

import "math"

// Card and layout metrics, in canvas pixels.
const (
	NodeWidth      = 220.0
	RankGap        = 350.0
	CardPadding    = 10.0
	ButtonSize     = 24.0
	ButtonGap      = 5.0
	BaseHeight     = 80.0
	LineHeight     = 18.0
	MinNodeHeight  = 120.0
	RowSpacing     = 40.0
	ContentMargin  = 100.0
	MinCurveOffset = 50.0
	ArrowLength    = 8.0
	ArrowAngle     = math.Pi / 6
)

// Point is a position on the canvas.
type Point struct {
	X, Y float64
}

// Size is a canvas extent.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r. All four edges are inclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// ButtonRects holds the hit and draw rectangles of a card's buttons.
type ButtonRects struct {
	Edit   Rect
	Delete Rect
}

// Buttons returns the button rectangles for n. Delete sits in the top-right
// corner inside the card padding, edit directly to its left.
func Buttons(n Node) ButtonRects {
	b := n.Bounds()
	del := Rect{
		X:      b.Right() - CardPadding - ButtonSize,
		Y:      b.Y + CardPadding,
		Width:  ButtonSize,
		Height: ButtonSize,
	}
	edit := del
	edit.X = del.X - ButtonGap - ButtonSize
	return ButtonRects{Edit: edit, Delete: del}
}

// ToCanvas converts a pointer position in client coordinates to canvas
// coordinates, given the client position of the canvas origin.
func ToCanvas(client, origin Point) Point {
	return Point{X: client.X - origin.X, Y: client.Y - origin.Y}
}
