// Package server exposes the knowledge base and the mindmap over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /metrics
//	GET    /api/data                      whole document
//	POST   /api/data                      replace document
//	POST   /api/types                     create type
//	PUT    /api/types/{id}                update type
//	DELETE /api/types/{id}                delete type
//	POST   /api/entities                  create entity
//	GET    /api/entities/{id}             one entity
//	PUT    /api/entities/{id}             update entity
//	DELETE /api/entities/{id}             delete entity
//	GET    /api/entities/{id}/backlinks   entities linking to id
//	GET    /api/mindmap.{format}          rendered mindmap (png, svg, pdf, dot, graphviz)
//	POST   /api/mindmap/click             resolve a click on the rendered mindmap
//
// Errors are returned as {"error": message, "code": CODE} with the status
// derived from the code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/entitymap/pkg/buildinfo"
	"github.com/matzehuels/entitymap/pkg/cache"
	"github.com/matzehuels/entitymap/pkg/mindmap"
	"github.com/matzehuels/entitymap/pkg/render"
	"github.com/matzehuels/entitymap/pkg/store"
)

// DefaultCacheTTL is how long rendered artifacts stay cached.
const DefaultCacheTTL = 10 * time.Minute

// Options configures a Server. The zero value is usable.
type Options struct {
	// Cache stores rendered artifacts. Nil disables caching.
	Cache cache.Cache
	// Keyer derives artifact keys. Nil uses the default keyer.
	Keyer cache.Keyer
	// CacheTTL defaults to DefaultCacheTTL.
	CacheTTL time.Duration
	// Viewport is used when a request names no width or height.
	Viewport mindmap.Size
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
	// Logger receives request logs. Nil discards them.
	Logger *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	store    store.Store
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	viewport mindmap.Size
	logger   *log.Logger
	router   chi.Router
}

// New builds a server over st.
func New(st store.Store, opts Options) *Server {
	s := &Server{
		store:    st,
		cache:    opts.Cache,
		keyer:    opts.Keyer,
		ttl:      opts.CacheTTL,
		viewport: opts.Viewport,
		logger:   opts.Logger,
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	if s.ttl <= 0 {
		s.ttl = DefaultCacheTTL
	}
	if s.viewport.Width <= 0 || s.viewport.Height <= 0 {
		s.viewport = render.DefaultViewport
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s.router = s.routes(gatherer)
	return s
}

func (s *Server) routes(gatherer prometheus.Gatherer) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(api chi.Router) {
		api.Get("/data", s.getData)
		api.Post("/data", s.replaceData)

		api.Post("/types", s.createType)
		api.Put("/types/{id}", s.updateType)
		api.Delete("/types/{id}", s.deleteType)

		api.Post("/entities", s.createEntity)
		api.Get("/entities/{id}", s.getEntity)
		api.Put("/entities/{id}", s.updateEntity)
		api.Delete("/entities/{id}", s.deleteEntity)
		api.Get("/entities/{id}/backlinks", s.backlinks)

		api.Get("/mindmap.{format}", s.mindmap)
		api.Post("/mindmap/click", s.click)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

// logRequests logs method, path, status and duration of every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logf := s.logger.Info
		if status >= 500 {
			logf = s.logger.Error
		}
		logf("request", "method", r.Method, "path", r.URL.Path, "status", status,
			"bytes", ww.BytesWritten(), "duration", time.Since(start).Round(time.Microsecond))
	})
}
