// Package vector implements a mindmap canvas that records SVG elements.
package vector

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"strings"

	"github.com/matzehuels/entitymap/pkg/fonts"
	"github.com/matzehuels/entitymap/pkg/mindmap"
)

// Canvas accumulates SVG markup.
type Canvas struct {
	size mindmap.Size
	body bytes.Buffer
	// shadows holds one filter definition per distinct shadow.
	shadows map[mindmap.Shadow]string
	defs    bytes.Buffer
}

var _ mindmap.Canvas = (*Canvas)(nil)

// New returns an empty canvas of the given size.
func New(size mindmap.Size) *Canvas {
	c := &Canvas{}
	c.Resize(size)
	return c
}

func (c *Canvas) Size() mindmap.Size { return c.size }

func (c *Canvas) Resize(s mindmap.Size) {
	c.size = s
	c.body.Reset()
	c.defs.Reset()
	c.shadows = make(map[mindmap.Shadow]string)
}

func (c *Canvas) Clear(bg color.Color) {
	c.body.Reset()
	fmt.Fprintf(&c.body, `  <rect x="0" y="0" width="%s" height="%s"%s/>`+"\n",
		num(c.size.Width), num(c.size.Height), fillAttr(bg))
}

func (c *Canvas) FillRect(r mindmap.Rect, fill color.Color, shadow *mindmap.Shadow) {
	filter := ""
	if shadow != nil {
		filter = fmt.Sprintf(` filter="url(#%s)"`, c.shadowID(*shadow))
	}
	fmt.Fprintf(&c.body, `  <rect x="%s" y="%s" width="%s" height="%s"%s%s/>`+"\n",
		num(r.X), num(r.Y), num(r.Width), num(r.Height), fillAttr(fill), filter)
}

func (c *Canvas) shadowID(s mindmap.Shadow) string {
	if id, ok := c.shadows[s]; ok {
		return id
	}
	id := fmt.Sprintf("shadow%d", len(c.shadows))
	c.shadows[s] = id
	hex, opacity := rgb(s.Color)
	fmt.Fprintf(&c.defs, `    <filter id="%s" x="-20%%" y="-20%%" width="140%%" height="140%%">`+
		`<feDropShadow dx="%s" dy="%s" stdDeviation="%s" flood-color="%s" flood-opacity="%s"/></filter>`+"\n",
		id, num(s.OffsetX), num(s.OffsetY), num(s.Blur/2), hex, num(opacity))
	return id
}

func (c *Canvas) StrokeRect(r mindmap.Rect, stroke color.Color, width float64) {
	fmt.Fprintf(&c.body, `  <rect x="%s" y="%s" width="%s" height="%s" fill="none"%s/>`+"\n",
		num(r.X), num(r.Y), num(r.Width), num(r.Height), strokeAttr(stroke, width))
}

func (c *Canvas) Line(from, to mindmap.Point, stroke color.Color, width float64) {
	fmt.Fprintf(&c.body, `  <line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`+"\n",
		num(from.X), num(from.Y), num(to.X), num(to.Y), strokeAttr(stroke, width))
}

func (c *Canvas) Bezier(p0, c1, c2, p1 mindmap.Point, stroke color.Color, width float64) {
	fmt.Fprintf(&c.body, `  <path d="M %s %s C %s %s, %s %s, %s %s" fill="none"%s/>`+"\n",
		num(p0.X), num(p0.Y), num(c1.X), num(c1.Y), num(c2.X), num(c2.Y), num(p1.X), num(p1.Y),
		strokeAttr(stroke, width))
}

func (c *Canvas) FillPolygon(points []mindmap.Point, fill color.Color) {
	if len(points) < 3 {
		return
	}
	pts := make([]string, len(points))
	for i, p := range points {
		pts[i] = num(p.X) + "," + num(p.Y)
	}
	fmt.Fprintf(&c.body, `  <polygon points="%s"%s/>`+"\n", strings.Join(pts, " "), fillAttr(fill))
}

func (c *Canvas) Text(s string, at mindmap.Point, style mindmap.TextStyle) {
	var attrs strings.Builder
	fmt.Fprintf(&attrs, ` font-size="%s"`, num(style.Size))
	switch style.Style {
	case mindmap.Bold:
		attrs.WriteString(` font-weight="bold"`)
	case mindmap.Italic:
		attrs.WriteString(` font-style="italic"`)
	}
	if style.Align == mindmap.AlignCenter {
		attrs.WriteString(` text-anchor="middle"`)
	}
	fmt.Fprintf(&c.body, `  <text x="%s" y="%s"%s%s>`, num(at.X), num(at.Y), attrs.String(), fillAttr(style.Color))
	_ = xml.EscapeText(&c.body, []byte(s))
	c.body.WriteString("</text>\n")
}

// SVG returns the complete document.
func (c *Canvas) SVG() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s" font-family="%s">`+"\n",
		num(c.size.Width), num(c.size.Height), num(c.size.Width), num(c.size.Height), escapeAttr(fonts.FontFamily))
	if c.defs.Len() > 0 {
		buf.WriteString("  <defs>\n")
		buf.Write(c.defs.Bytes())
		buf.WriteString("  </defs>\n")
	}
	buf.Write(c.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func fillAttr(col color.Color) string {
	hex, opacity := rgb(col)
	if opacity < 1 {
		return fmt.Sprintf(` fill="%s" fill-opacity="%s"`, hex, num(opacity))
	}
	return fmt.Sprintf(` fill="%s"`, hex)
}

func strokeAttr(col color.Color, width float64) string {
	hex, opacity := rgb(col)
	s := fmt.Sprintf(` stroke="%s" stroke-width="%s"`, hex, num(width))
	if opacity < 1 {
		s += fmt.Sprintf(` stroke-opacity="%s"`, num(opacity))
	}
	return s
}

// rgb returns the color as #rrggbb plus its opacity in [0,1].
func rgb(col color.Color) (string, float64) {
	if col == nil {
		return "none", 1
	}
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B), float64(n.A) / 255
}

// num formats a coordinate with at most two decimals.
func num(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func escapeAttr(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
