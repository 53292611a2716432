package mindmap

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/entitymap/pkg/model"
	"github.com/matzehuels/entitymap/pkg/observability"
)

// Input is the data for one render.
type Input struct {
	Data   model.Data
	Filter FilterState

	// Viewport is the visible area. Zero uses the canvas's current size.
	Viewport Size
}

// Scene is the result of one render.
type Scene struct {
	Graph      Graph
	Size       Size
	MaxRank    int
	Controller *Controller

	// Empty is set when no entity passed the filter and the placeholder
	// was drawn instead of a graph.
	Empty bool
}

// Option configures Render.
type Option func(*options)

type options struct {
	logger      *log.Logger
	placeholder string
}

// WithLogger sets the logger for layout diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPlaceholder replaces DefaultPlaceholder.
func WithPlaceholder(msg string) Option {
	return func(o *options) { o.placeholder = msg }
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// Render builds, ranks, arranges and draws in onto c, resizing c to the
// arranged size. The returned scene's controller dispatches clicks to cb.
func Render(ctx context.Context, c Canvas, in Input, cb Callbacks, opts ...Option) (*Scene, error) {
	o := options{logger: discardLogger(), placeholder: DefaultPlaceholder}
	for _, opt := range opts {
		opt(&o)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	viewport := in.Viewport
	if viewport.Width <= 0 || viewport.Height <= 0 {
		viewport = c.Size()
	}

	start := time.Now()
	g := Build(in.Data, in.Filter)
	scene := &Scene{Graph: g, Size: viewport}

	if len(g.Nodes) == 0 {
		c.Resize(viewport)
		DrawPlaceholder(c, o.placeholder)
		scene.Empty = true
		scene.Controller = NewController(nil, cb, o.logger)
		o.logger.Debug("nothing to draw", "entities", len(in.Data.Entities), "filter", in.Filter.IDs())
		return scene, nil
	}

	scene.MaxRank = AssignRanks(&scene.Graph)
	scene.Size = Arrange(&scene.Graph, viewport)
	elapsed := time.Since(start)

	c.Resize(scene.Size)
	Draw(c, &scene.Graph)
	scene.Controller = NewController(scene.Graph.Nodes, cb, o.logger)

	o.logger.Debug("layout",
		"nodes", len(scene.Graph.Nodes),
		"edges", len(scene.Graph.Edges),
		"ranks", scene.MaxRank+1,
		"size", scene.Size,
		"elapsed", elapsed)
	observability.Layout().OnLayout(ctx, len(scene.Graph.Nodes), len(scene.Graph.Edges), scene.MaxRank, elapsed)
	return scene, nil
}
