package vector

import (
	"context"
	"encoding/xml"
	"image/color"
	"strings"
	"testing"

	"github.com/matzehuels/entitymap/pkg/mindmap"
	"github.com/matzehuels/entitymap/pkg/model"
)

func TestRenderSVG(t *testing.T) {
	data := model.Data{
		Types: []model.Type{{ID: "t", Name: "Topic", Attributes: []model.Attribute{
			{Name: "Note", Kind: model.KindText},
			{Name: "Next", Kind: model.KindLink},
		}}},
		Entities: []model.Entity{
			{ID: "a", Name: "Cats & Dogs", TypeID: "t", Attributes: map[string]string{"Next": "b"}},
			{ID: "b", Name: "<Beta>", TypeID: "t"},
		},
	}
	c := New(mindmap.Size{Width: 400, Height: 300})
	scene, err := mindmap.Render(context.Background(), c, mindmap.Input{Data: data}, mindmap.Callbacks{})
	if err != nil {
		t.Fatal(err)
	}
	out := string(c.SVG())

	for _, want := range []string{
		`width="` + num(scene.Size.Width) + `"`,
		"Cats &amp; Dogs",
		"&lt;Beta&gt;",
		"<feDropShadow",
		`stroke="#1877f2"`,
		"<polygon",
		"Note: -",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if strings.Count(out, "<filter ") != 1 {
		t.Errorf("expected a single shared shadow filter")
	}

	var doc struct{ XMLName xml.Name }
	if err := xml.Unmarshal([]byte(out), &doc); err != nil {
		t.Errorf("svg is not well-formed: %v", err)
	}
}

func TestPlaceholder(t *testing.T) {
	c := New(mindmap.Size{Width: 200, Height: 100})
	mindmap.DrawPlaceholder(c, "nothing here")
	out := string(c.SVG())
	if !strings.Contains(out, `text-anchor="middle"`) || !strings.Contains(out, ">nothing here</text>") {
		t.Errorf("placeholder missing: %s", out)
	}
	if !strings.Contains(out, `x="100" y="50"`) {
		t.Errorf("placeholder not centered: %s", out)
	}
}

func TestColorAttrs(t *testing.T) {
	if got := fillAttr(color.NRGBA{0, 0, 0, 0x80}); !strings.Contains(got, `fill-opacity="0.5"`) {
		t.Errorf("fillAttr = %s", got)
	}
	if got := fillAttr(color.White); got != ` fill="#ffffff"` {
		t.Errorf("fillAttr(white) = %s", got)
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{0: "0", 1.5: "1.5", 2.257: "2.26", -0.001: "0", 100: "100"}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}
