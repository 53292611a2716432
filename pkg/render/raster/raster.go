// Package raster implements a mindmap canvas backed by an in-memory image.
//
// Drawing goes through fogleman/gg with the embedded Go fonts, so PNG output
// needs no external tools. Drop shadows are blurred with
// disintegration/imaging.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/entitymap/pkg/errors"
	"github.com/matzehuels/entitymap/pkg/fonts"
	"github.com/matzehuels/entitymap/pkg/mindmap"
)

const (
	// MaxScale is the highest pixel density a canvas accepts.
	MaxScale = 4
	// MaxPixels bounds the device pixels of one image (about 256 MB RGBA).
	MaxPixels = 64 << 20
)

// Option configures a Canvas.
type Option func(*Canvas)

// WithScale renders at s device pixels per canvas pixel. Values below 1 are
// ignored and values above [MaxScale] are clamped.
func WithScale(s float64) Option {
	return func(c *Canvas) {
		if s >= 1 {
			c.scale = min(s, MaxScale)
		}
	}
}

// Canvas draws onto an RGBA image.
type Canvas struct {
	dc    *gg.Context
	size  mindmap.Size
	scale float64
	faces map[faceKey]font.Face
	err   error
}

type faceKey struct {
	style fonts.Style
	size  float64
}

var _ mindmap.Canvas = (*Canvas)(nil)
var _ mindmap.GlyphChecker = (*Canvas)(nil)

// New returns a canvas of the given logical size.
func New(size mindmap.Size, opts ...Option) *Canvas {
	c := &Canvas{scale: 1, faces: map[faceKey]font.Face{}}
	for _, opt := range opts {
		opt(c)
	}
	c.Resize(size)
	return c
}

func (c *Canvas) Size() mindmap.Size { return c.size }

// Resize reallocates the image. A size over [MaxPixels] records an
// INVALID_INPUT error and leaves a 1x1 image to draw on. NaN sizes count as
// over the limit.
func (c *Canvas) Resize(s mindmap.Size) {
	c.size = s
	w := max(1, math.Ceil(s.Width*c.scale))
	h := max(1, math.Ceil(s.Height*c.scale))
	if !(w*h <= MaxPixels) {
		if c.err == nil {
			c.err = errors.New(errors.ErrCodeInvalidInput,
				"image of %.0fx%.0f pixels exceeds the %d pixel limit", w, h, MaxPixels)
		}
		w, h = 1, 1
	}
	c.dc = gg.NewContext(int(w), int(h))
	c.dc.Scale(c.scale, c.scale)
}

func (c *Canvas) Clear(bg color.Color) {
	c.dc.SetColor(bg)
	c.dc.Clear()
}

func (c *Canvas) FillRect(r mindmap.Rect, fill color.Color, shadow *mindmap.Shadow) {
	if shadow != nil {
		c.drawShadow(r, shadow)
	}
	c.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	c.dc.SetColor(fill)
	c.dc.Fill()
}

// drawShadow paints r offset by the shadow and blurred on a scratch image.
func (c *Canvas) drawShadow(r mindmap.Rect, s *mindmap.Shadow) {
	pad := math.Ceil(2 * s.Blur * c.scale)
	w := int(math.Ceil(r.Width*c.scale) + 2*pad)
	h := int(math.Ceil(r.Height*c.scale) + 2*pad)
	if w <= 0 || h <= 0 {
		return
	}
	scratch := gg.NewContext(w, h)
	scratch.DrawRectangle(pad, pad, r.Width*c.scale, r.Height*c.scale)
	scratch.SetColor(s.Color)
	scratch.Fill()

	var img image.Image = scratch.Image()
	if s.Blur > 0 {
		img = imaging.Blur(img, s.Blur*c.scale/2)
	}

	// The scratch image is in device pixels, so draw it outside the
	// logical transform.
	c.dc.Push()
	c.dc.Identity()
	x := int(math.Round((r.X+s.OffsetX)*c.scale - pad))
	y := int(math.Round((r.Y+s.OffsetY)*c.scale - pad))
	c.dc.DrawImage(img, x, y)
	c.dc.Pop()
}

func (c *Canvas) StrokeRect(r mindmap.Rect, stroke color.Color, width float64) {
	c.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	c.stroke(stroke, width)
}

func (c *Canvas) Line(from, to mindmap.Point, stroke color.Color, width float64) {
	c.dc.DrawLine(from.X, from.Y, to.X, to.Y)
	c.stroke(stroke, width)
}

func (c *Canvas) Bezier(p0, c1, c2, p1 mindmap.Point, stroke color.Color, width float64) {
	c.dc.NewSubPath()
	c.dc.MoveTo(p0.X, p0.Y)
	c.dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p1.X, p1.Y)
	c.stroke(stroke, width)
}

func (c *Canvas) FillPolygon(points []mindmap.Point, fill color.Color) {
	if len(points) < 3 {
		return
	}
	c.dc.NewSubPath()
	c.dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.ClosePath()
	c.dc.SetColor(fill)
	c.dc.Fill()
}

func (c *Canvas) Text(s string, at mindmap.Point, style mindmap.TextStyle) {
	face, err := c.face(fontStyle(style.Style), style.Size)
	if err != nil {
		c.err = err
		return
	}
	c.dc.SetFontFace(face)
	c.dc.SetColor(style.Color)
	ax := 0.0
	if style.Align == mindmap.AlignCenter {
		ax = 0.5
	}
	c.dc.DrawStringAnchored(s, at.X, at.Y, ax, 0)
}

func (c *Canvas) face(style fonts.Style, size float64) (font.Face, error) {
	key := faceKey{style, size}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	f, err := fonts.Face(style, size)
	if err != nil {
		return nil, err
	}
	c.faces[key] = f
	return f, nil
}

// HasGlyph reports whether the embedded fonts can draw r.
func (c *Canvas) HasGlyph(r rune, style mindmap.TextStyle) bool {
	return fonts.HasGlyph(fontStyle(style.Style), r)
}

func (c *Canvas) stroke(col color.Color, width float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.Stroke()
}

func fontStyle(s mindmap.FontStyle) fonts.Style {
	switch s {
	case mindmap.Bold:
		return fonts.Bold
	case mindmap.Italic:
		return fonts.Italic
	default:
		return fonts.Regular
	}
}

// Image returns the drawn image.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

// Err returns the first error met while drawing, such as a font that failed
// to load.
func (c *Canvas) Err() error { return c.err }

// PNG encodes the canvas.
func (c *Canvas) PNG() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	var buf bytes.Buffer
	if err := c.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
