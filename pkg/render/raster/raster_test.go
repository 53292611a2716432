package raster

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/matzehuels/entitymap/pkg/errors"

	"github.com/matzehuels/entitymap/pkg/mindmap"
	"github.com/matzehuels/entitymap/pkg/model"
)

func sample() model.Data {
	return model.Data{
		Types: []model.Type{{ID: "t", Name: "Topic", Attributes: []model.Attribute{
			{Name: "Price", Kind: model.KindCurrency},
			{Name: "Next", Kind: model.KindLink},
		}}},
		Entities: []model.Entity{
			{ID: "a", Name: "Alpha", TypeID: "t", Attributes: map[string]string{"Price": "3", "Next": "b"}},
			{ID: "b", Name: "Beta", TypeID: "t"},
		},
	}
}

func TestRenderPNG(t *testing.T) {
	c := New(mindmap.Size{Width: 400, Height: 300})
	scene, err := mindmap.Render(context.Background(), c, mindmap.Input{Data: sample()}, mindmap.Callbacks{})
	if err != nil {
		t.Fatal(err)
	}

	data, err := c.PNG()
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if float64(b.Dx()) != scene.Size.Width || float64(b.Dy()) != scene.Size.Height {
		t.Errorf("image %v, scene %v", b, scene.Size)
	}

	// The card border of the first node is drawn.
	n := scene.Graph.Nodes[0].Bounds()
	x := int(n.X + n.Width/2)
	drawn := false
	for y := int(n.Y) - 1; y <= int(n.Y)+1; y++ {
		if r, g, bl, _ := img.At(x, y).RGBA(); r>>8 != 0xff || g>>8 != 0xff || bl>>8 != 0xff {
			drawn = true
		}
	}
	if !drawn {
		t.Error("expected border pixels at card top edge")
	}
}

func TestScale(t *testing.T) {
	c := New(mindmap.Size{Width: 100, Height: 50}, WithScale(2))
	c.Clear(color.White)
	if b := c.Image().Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("bounds = %v, want 200x100", b)
	}
	if c.Size() != (mindmap.Size{Width: 100, Height: 50}) {
		t.Errorf("logical size = %v", c.Size())
	}
}

func TestScaleClamped(t *testing.T) {
	c := New(mindmap.Size{Width: 10, Height: 10}, WithScale(100))
	if b := c.Image().Bounds(); b.Dx() != 10*MaxScale {
		t.Errorf("width = %d, want %d", b.Dx(), 10*MaxScale)
	}
}

func TestPixelLimit(t *testing.T) {
	tests := []struct {
		name  string
		size  mindmap.Size
		scale float64
		ok    bool
	}{
		{"viewport", mindmap.Size{Width: 1200, Height: 800}, 2, true},
		{"wide", mindmap.Size{Width: 20000, Height: 16000}, 1, false},
		{"dense", mindmap.Size{Width: 4000, Height: 4100}, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.size, WithScale(tt.scale))
			_, err := c.PNG()
			if tt.ok {
				if err != nil {
					t.Fatalf("PNG: %v", err)
				}
				return
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("err = %v, want INVALID_INPUT", err)
			}
			if b := c.Image().Bounds(); b.Dx() != 1 || b.Dy() != 1 {
				t.Errorf("oversized canvas allocated %v", b)
			}
		})
	}
}

func TestGrowPastPixelLimit(t *testing.T) {
	c := New(mindmap.Size{Width: 100, Height: 100})
	c.Resize(mindmap.Size{Width: 30000, Height: 30000})
	if !errors.Is(c.Err(), errors.ErrCodeInvalidInput) {
		t.Errorf("Err = %v, want INVALID_INPUT", c.Err())
	}
}

func TestConcurrentText(t *testing.T) {
	style := mindmap.TextStyle{Size: 16, Style: mindmap.Bold, Color: color.Black}
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := New(mindmap.Size{Width: 300, Height: 100})
			for range 50 {
				c.Text("Hello world entity name", mindmap.Point{X: 10, Y: 50}, style)
			}
			if _, err := c.PNG(); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
}

func TestHasGlyph(t *testing.T) {
	c := New(mindmap.Size{Width: 10, Height: 10})
	style := mindmap.TextStyle{Size: 12}
	if !c.HasGlyph('E', style) {
		t.Error("expected 'E'")
	}
	if c.HasGlyph('🗑', style) {
		t.Error("emoji should fall back")
	}
}
