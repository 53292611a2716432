package mindmap

import "image/color"

// FontStyle selects a face within the sans-serif family.
type FontStyle int

// Font styles.
const (
	Regular FontStyle = iota
	Bold
	Italic
)

// Align is the horizontal anchor of a text run.
type Align int

// Text alignments.
const (
	AlignLeft Align = iota
	AlignCenter
)

// TextStyle describes how a text run is drawn.
type TextStyle struct {
	Size  float64
	Style FontStyle
	Color color.Color
	Align Align
}

// Shadow is a drop shadow painted beneath a filled shape.
type Shadow struct {
	Color   color.Color
	Blur    float64
	OffsetX float64
	OffsetY float64
}

// Canvas is a drawing surface. Implementations are not expected to be safe
// for concurrent use.
type Canvas interface {
	// Size returns the current surface size.
	Size() Size
	// Resize changes the surface size, discarding its content.
	Resize(s Size)
	// Clear fills the whole surface with bg.
	Clear(bg color.Color)
	// FillRect fills r, painting shadow first when it is non-nil.
	FillRect(r Rect, fill color.Color, shadow *Shadow)
	StrokeRect(r Rect, stroke color.Color, width float64)
	Line(from, to Point, stroke color.Color, width float64)
	// Bezier strokes a cubic curve from p0 to p1 with control points c1, c2.
	Bezier(p0, c1, c2, p1 Point, stroke color.Color, width float64)
	FillPolygon(points []Point, fill color.Color)
	// Text draws s with its baseline at at.Y. at.X is the left edge or the
	// center, depending on style.Align.
	Text(s string, at Point, style TextStyle)
}

// GlyphChecker is implemented by canvases whose fonts may lack some runes.
type GlyphChecker interface {
	HasGlyph(r rune, style TextStyle) bool
}

// Palette.
var (
	Background      = color.RGBA{0xff, 0xff, 0xff, 0xff}
	CardFill        = color.RGBA{0xff, 0xff, 0xff, 0xff}
	CardBorder      = color.RGBA{0xdd, 0xdf, 0xe2, 0xff}
	CardShadow      = color.NRGBA{0, 0, 0, 0x1a}
	ButtonFill      = color.RGBA{0xf0, 0xf2, 0xf5, 0xff}
	EdgeColor       = color.RGBA{0x18, 0x77, 0xf2, 0xff}
	TextPrimary     = color.RGBA{0x1c, 0x1e, 0x21, 0xff}
	TextSecondary   = color.RGBA{0x60, 0x67, 0x70, 0xff}
	PlaceholderText = color.RGBA{0x66, 0x66, 0x66, 0xff}
)
