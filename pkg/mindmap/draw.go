package mindmap

import (
	"math"
	"unicode/utf8"
)

// DefaultPlaceholder is drawn when no entity passes the filter.
const DefaultPlaceholder = "No entities match the selected filters."

const (
	edgeWidth   = 2.0
	borderWidth = 1.0

	editGlyph       = "✎"
	deleteGlyph     = "🗑"
	editFallback    = "E"
	deleteFallback  = "X"
	buttonGlyphSize = 14.0
)

var cardShadow = &Shadow{Color: CardShadow, Blur: 10, OffsetY: 2}

// Draw clears c and paints every edge, then every card in node order, so
// later nodes are on top.
func Draw(c Canvas, g *Graph) {
	c.Clear(Background)

	idx := g.index()
	for _, e := range g.Edges {
		from, ok := idx[e.From]
		if !ok {
			continue
		}
		to, ok := idx[e.To]
		if !ok {
			continue
		}
		drawEdge(c, g.Nodes[from], g.Nodes[to])
	}
	for _, n := range g.Nodes {
		drawCard(c, n)
	}
}

// DrawPlaceholder clears c and centers msg on it.
func DrawPlaceholder(c Canvas, msg string) {
	c.Clear(Background)
	s := c.Size()
	c.Text(msg, Point{X: s.Width / 2, Y: s.Height / 2}, TextStyle{
		Size:  16,
		Color: PlaceholderText,
		Align: AlignCenter,
	})
}

// EdgePath returns the curve from the right middle of from to the left
// middle of to. Control points pull horizontally by half the horizontal
// distance, at least MinCurveOffset.
func EdgePath(from, to Node) (p0, c1, c2, p1 Point) {
	p0 = Point{X: from.X + from.Width/2, Y: from.Y}
	p1 = Point{X: to.X - to.Width/2, Y: to.Y}
	offset := math.Max(math.Abs(p1.X-p0.X)*0.5, MinCurveOffset)
	c1 = Point{X: p0.X + offset, Y: p0.Y}
	c2 = Point{X: p1.X - offset, Y: p1.Y}
	return p0, c1, c2, p1
}

// Arrowhead returns the triangle at tip pointing away from control.
func Arrowhead(control, tip Point) []Point {
	angle := math.Atan2(tip.Y-control.Y, tip.X-control.X)
	return []Point{
		tip,
		{X: tip.X - ArrowLength*math.Cos(angle-ArrowAngle), Y: tip.Y - ArrowLength*math.Sin(angle-ArrowAngle)},
		{X: tip.X - ArrowLength*math.Cos(angle+ArrowAngle), Y: tip.Y - ArrowLength*math.Sin(angle+ArrowAngle)},
	}
}

func drawEdge(c Canvas, from, to Node) {
	p0, c1, c2, p1 := EdgePath(from, to)
	c.Bezier(p0, c1, c2, p1, EdgeColor, edgeWidth)
	c.FillPolygon(Arrowhead(c2, p1), EdgeColor)
}

func drawCard(c Canvas, n Node) {
	b := n.Bounds()
	c.FillRect(b, CardFill, cardShadow)
	c.StrokeRect(b, CardBorder, borderWidth)

	left := b.X + CardPadding
	if n.Type != nil {
		c.Text(n.Type.Name, Point{X: left, Y: b.Y + 20}, TextStyle{Size: 12, Style: Italic, Color: TextSecondary})
	}
	c.Text(n.Label, Point{X: left, Y: b.Y + 45}, TextStyle{Size: 16, Style: Bold, Color: TextPrimary})
	c.Line(Point{X: left, Y: b.Y + 50}, Point{X: b.Right() - CardPadding, Y: b.Y + 50}, CardBorder, borderWidth)

	if n.Type != nil {
		y := b.Y + 70
		for _, a := range n.Type.PreviewAttributes() {
			var raw string
			if n.Entity != nil {
				raw = n.Entity.Value(a.Name)
			}
			c.Text(a.Name+": "+a.Preview(raw), Point{X: left, Y: y}, TextStyle{Size: 12, Color: TextSecondary})
			y += LineHeight
		}
	}

	btn := Buttons(n)
	drawButton(c, btn.Edit, editGlyph, editFallback)
	drawButton(c, btn.Delete, deleteGlyph, deleteFallback)
}

func drawButton(c Canvas, r Rect, glyph, fallback string) {
	c.FillRect(r, ButtonFill, nil)
	c.StrokeRect(r, CardBorder, borderWidth)

	style := TextStyle{Size: buttonGlyphSize, Color: TextSecondary, Align: AlignCenter}
	if gc, ok := c.(GlyphChecker); ok {
		if ch, _ := utf8.DecodeRuneInString(glyph); !gc.HasGlyph(ch, style) {
			glyph = fallback
		}
	}
	center := r.Center()
	c.Text(glyph, Point{X: center.X, Y: center.Y + buttonGlyphSize/3}, style)
}
