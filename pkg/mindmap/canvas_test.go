package mindmap

import (
	"fmt"
	"image/color"
)

// recorder is a Canvas that logs every call.
type recorder struct {
	size    Size
	ops     []string
	texts   []string
	noGlyph bool
}

func newRecorder(w, h float64) *recorder { return &recorder{size: Size{Width: w, Height: h}} }

func (r *recorder) Size() Size      { return r.size }
func (r *recorder) Resize(s Size)   { r.size = s; r.ops = append(r.ops, "resize") }
func (r *recorder) Clear(color.Color) { r.ops = append(r.ops, "clear") }

func (r *recorder) FillRect(rect Rect, _ color.Color, shadow *Shadow) {
	r.ops = append(r.ops, fmt.Sprintf("fill %v shadow=%t", rect, shadow != nil))
}

func (r *recorder) StrokeRect(rect Rect, _ color.Color, _ float64) {
	r.ops = append(r.ops, fmt.Sprintf("stroke %v", rect))
}

func (r *recorder) Line(Point, Point, color.Color, float64) { r.ops = append(r.ops, "line") }

func (r *recorder) Bezier(Point, Point, Point, Point, color.Color, float64) {
	r.ops = append(r.ops, "bezier")
}

func (r *recorder) FillPolygon([]Point, color.Color) { r.ops = append(r.ops, "polygon") }

func (r *recorder) Text(s string, _ Point, _ TextStyle) {
	r.ops = append(r.ops, "text")
	r.texts = append(r.texts, s)
}

func (r *recorder) HasGlyph(ch rune, _ TextStyle) bool {
	return !r.noGlyph || ch < 0x80
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, op := range r.ops {
		if len(op) >= len(prefix) && op[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
