package render

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/entitymap/pkg/errors"
	"github.com/matzehuels/entitymap/pkg/mindmap"
	"github.com/matzehuels/entitymap/pkg/model"
)

func input() mindmap.Input {
	return mindmap.Input{
		Data: model.Data{
			Types: []model.Type{{ID: "t", Name: "Topic", Attributes: []model.Attribute{{Name: "Next", Kind: model.KindLink}}}},
			Entities: []model.Entity{
				{ID: "a", Name: "Alpha", TypeID: "t", Attributes: map[string]string{"Next": "b"}},
				{ID: "b", Name: "Beta", TypeID: "t"},
			},
		},
		Viewport: mindmap.Size{Width: 640, Height: 480},
	}
}

func TestArtifact(t *testing.T) {
	tests := []struct {
		format string
		prefix []byte
	}{
		{FormatPNG, []byte("\x89PNG")},
		{FormatSVG, []byte("<svg")},
		{FormatDOT, []byte("digraph")},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			res, err := Artifact(context.Background(), tt.format, input(), Options{})
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(res.Data, tt.prefix) {
				t.Errorf("data starts with %q", res.Data[:min(8, len(res.Data))])
			}
			if res.ContentType == "" {
				t.Error("missing content type")
			}
			if len(res.Scene.Graph.Nodes) != 2 {
				t.Errorf("scene nodes = %d", len(res.Scene.Graph.Nodes))
			}
		})
	}
}

func TestArtifactUnknownFormat(t *testing.T) {
	_, err := Artifact(context.Background(), "bmp", input(), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestArtifactConcurrent(t *testing.T) {
	var (
		mu  sync.Mutex
		out = map[string]int{}
	)
	g, ctx := errgroup.WithContext(context.Background())
	for _, f := range []string{FormatPNG, FormatPNG, FormatPNG, FormatSVG, FormatDOT} {
		g.Go(func() error {
			res, err := Artifact(ctx, f, input(), Options{})
			if err != nil {
				return err
			}
			mu.Lock()
			out[f] = len(res.Data)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Errorf("rendered %v", out)
	}
}

func TestLayout(t *testing.T) {
	scene, err := Layout(context.Background(), input(), mindmap.Callbacks{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	n := scene.Graph.Nodes[0]
	action, _ := scene.Controller.Hit(mindmap.Point{X: n.X, Y: n.Y})
	if action.Kind != mindmap.ActionOpen || action.NodeID != "a" {
		t.Errorf("Hit = %+v", action)
	}
}

func TestExtension(t *testing.T) {
	if Extension(FormatGraphviz) != "gv.svg" || !strings.EqualFold(Extension(FormatPNG), "png") {
		t.Error("unexpected extension")
	}
}
