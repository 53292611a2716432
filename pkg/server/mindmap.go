package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/entitymap/pkg/cache"
	"github.com/matzehuels/entitymap/pkg/errors"
	"github.com/matzehuels/entitymap/pkg/mindmap"
	"github.com/matzehuels/entitymap/pkg/render"
	"github.com/matzehuels/entitymap/pkg/render/raster"
)

// GET /api/mindmap.{format}?types=a,b&width=&height=&scale=&detailed=
func (s *Server) mindmap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	format := chi.URLParam(r, "format")
	if !render.Formats[format] {
		writeError(w, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format))
		return
	}

	q := r.URL.Query()
	viewport, err := s.parseViewport(q.Get("width"), q.Get("height"))
	if err != nil {
		writeError(w, err)
		return
	}
	scale, err := parseFloat("scale", q.Get("scale"), 1)
	if err == nil && scale > raster.MaxScale {
		err = errors.New(errors.ErrCodeInvalidInput, "scale must be at most %d", raster.MaxScale)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	filter := mindmap.NewFilter(splitList(q.Get("types"))...)
	detailed := q.Get("detailed") == "true"

	data, err := s.store.Load(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	dataHash, err := cache.HashJSON(data)
	if err != nil {
		writeError(w, err)
		return
	}
	key := s.keyer.ArtifactKey(dataHash, cache.ArtifactKeyOpts{
		Format:   format,
		Types:    filter.IDs(),
		Width:    viewport.Width,
		Height:   viewport.Height,
		Scale:    scale,
		Detailed: detailed,
	})

	if body, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		writeArtifact(w, format, body, "HIT")
		return
	}

	res, err := render.Artifact(ctx, format, mindmap.Input{
		Data:     data,
		Filter:   filter,
		Viewport: viewport,
	}, render.Options{Scale: scale, Detailed: detailed, Logger: s.logger})
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.cache.Set(ctx, key, res.Data, s.ttl); err != nil {
		s.logger.Warn("cache write failed", "key", key, "err", err)
	}
	writeArtifact(w, format, res.Data, "MISS")
}

func writeArtifact(w http.ResponseWriter, format string, body []byte, cacheStatus string) {
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// ClickRequest is the body of POST /api/mindmap/click. Coordinates are in
// canvas space of the mindmap rendered with the same types and viewport.
type ClickRequest struct {
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Types   []string `json:"types,omitempty"`
	Width   float64  `json:"width,omitempty"`
	Height  float64  `json:"height,omitempty"`
	Confirm bool     `json:"confirm,omitempty"`
}

// ClickResponse reports the resolved action.
type ClickResponse struct {
	mindmap.Action
	Changed bool `json:"changed"`
}

// POST /api/mindmap/click
func (s *Server) click(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ClickRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	viewport := s.viewport
	if req.Width > 0 && req.Height > 0 {
		viewport = mindmap.Size{Width: req.Width, Height: req.Height}
	}

	data, err := s.store.Load(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	var resp ClickResponse
	cb := mindmap.Callbacks{
		Confirm: mindmap.ConfirmFunc(func(context.Context, string) (bool, error) {
			return req.Confirm, nil
		}),
		Delete:      s.store,
		DataChanged: func() { resp.Changed = true },
	}
	scene, err := render.Layout(ctx, mindmap.Input{
		Data:     data,
		Filter:   mindmap.NewFilter(req.Types...),
		Viewport: viewport,
	}, cb, s.logger)
	if err != nil {
		writeError(w, err)
		return
	}

	resp.Action, err = scene.Controller.Click(ctx, mindmap.Point{X: req.X, Y: req.Y})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) parseViewport(width, height string) (mindmap.Size, error) {
	wv, err := parseFloat("width", width, s.viewport.Width)
	if err != nil {
		return mindmap.Size{}, err
	}
	hv, err := parseFloat("height", height, s.viewport.Height)
	if err != nil {
		return mindmap.Size{}, err
	}
	return mindmap.Size{Width: wv, Height: hv}, nil
}

func parseFloat(name, raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(v > 0 && v <= 20000) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be a positive number", name)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
