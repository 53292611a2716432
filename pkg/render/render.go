package render

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/entitymap/pkg/errors"
	"github.com/matzehuels/entitymap/pkg/mindmap"
	"github.com/matzehuels/entitymap/pkg/observability"
	"github.com/matzehuels/entitymap/pkg/render/nodelink"
	"github.com/matzehuels/entitymap/pkg/render/raster"
	"github.com/matzehuels/entitymap/pkg/render/vector"
)

// Output formats.
const (
	FormatPNG      = "png"
	FormatSVG      = "svg"
	FormatPDF      = "pdf"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
)

// Formats lists every supported output format.
var Formats = map[string]bool{
	FormatPNG:      true,
	FormatSVG:      true,
	FormatPDF:      true,
	FormatDOT:      true,
	FormatGraphviz: true,
}

var contentTypes = map[string]string{
	FormatPNG:      "image/png",
	FormatSVG:      "image/svg+xml",
	FormatPDF:      "application/pdf",
	FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	FormatGraphviz: "image/svg+xml",
}

// Extension returns the file extension for format, without the dot.
func Extension(format string) string {
	if format == FormatGraphviz {
		return "gv.svg"
	}
	return format
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	return contentTypes[format]
}

// DefaultViewport is used when the input carries no viewport.
var DefaultViewport = mindmap.Size{Width: 1200, Height: 800}

// Options configures artifact rendering.
type Options struct {
	// Scale is the PNG pixel density. Zero means 1.
	Scale float64
	// Detailed adds type and attribute lines to DOT labels.
	Detailed bool
	// Logger receives layout diagnostics. Nil discards them.
	Logger *log.Logger
}

// Result is one rendered artifact.
type Result struct {
	Format      string
	Data        []byte
	ContentType string
	Scene       *mindmap.Scene
}

// Artifact lays out in and encodes it as format.
func Artifact(ctx context.Context, format string, in mindmap.Input, opts Options) (res *Result, err error) {
	if !Formats[format] {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	start := time.Now()
	defer func() {
		size := 0
		if res != nil {
			size = len(res.Data)
		}
		observability.Render().OnRender(ctx, format, size, time.Since(start), err)
	}()

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if in.Viewport.Width <= 0 || in.Viewport.Height <= 0 {
		in.Viewport = DefaultViewport
	}
	res = &Result{Format: format, ContentType: ContentType(format)}

	switch format {
	case FormatPNG:
		c := raster.New(in.Viewport, raster.WithScale(opts.Scale))
		if res.Scene, err = mindmap.Render(ctx, c, in, mindmap.Callbacks{}, mindmap.WithLogger(logger)); err != nil {
			return nil, err
		}
		if res.Data, err = c.PNG(); err != nil {
			return nil, err
		}
	case FormatSVG, FormatPDF:
		c := vector.New(in.Viewport)
		if res.Scene, err = mindmap.Render(ctx, c, in, mindmap.Callbacks{}, mindmap.WithLogger(logger)); err != nil {
			return nil, err
		}
		res.Data = c.SVG()
		if format == FormatPDF {
			if res.Data, err = ToPDF(ctx, res.Data); err != nil {
				return nil, err
			}
		}
	case FormatDOT, FormatGraphviz:
		if res.Scene, err = Layout(ctx, in, mindmap.Callbacks{}, logger); err != nil {
			return nil, err
		}
		dot := nodelink.ToDOT(&res.Scene.Graph, nodelink.Options{Detailed: opts.Detailed})
		res.Data = []byte(dot)
		if format == FormatGraphviz {
			if res.Data, err = nodelink.RenderSVG(ctx, dot); err != nil {
				return nil, err
			}
		}
	}
	logger.Debug("rendered", "format", format, "bytes", len(res.Data))
	return res, nil
}

// Layout computes a scene for click resolution without keeping any output.
func Layout(ctx context.Context, in mindmap.Input, cb mindmap.Callbacks, logger *log.Logger) (*mindmap.Scene, error) {
	if in.Viewport.Width <= 0 || in.Viewport.Height <= 0 {
		in.Viewport = DefaultViewport
	}
	return mindmap.Render(ctx, vector.New(in.Viewport), in, cb, mindmap.WithLogger(logger))
}
