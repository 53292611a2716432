package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/entitymap/pkg/cache"
	"github.com/matzehuels/entitymap/pkg/observability"
	"github.com/matzehuels/entitymap/pkg/server"
)

type serveOpts struct {
	addr    string
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the knowledge base and mindmap over HTTP",
		Long: `Start the HTTP API backed by the configured store. Rendered mindmaps are
cached in the configured artifact cache, and Prometheus metrics are exposed
on /metrics.`,
		Example: `  entitymap serve
  entitymap serve --addr :8080 --no-cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	st, cfg, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	cc, err := c.openCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer cc.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observability.NewPrometheus(reg).Register()
	defer observability.Reset()

	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	srv := server.New(st, server.Options{
		Cache:    cc,
		Keyer:    cache.NewScopedKeyer(cache.NewDefaultKeyer(), viewKey(cfg.Store)+":"),
		CacheTTL: cfg.Server.CacheTTL.Duration,
		Viewport: viewport(cfg, 0, 0),
		Gatherer: reg,
		Logger:   c.Logger,
	})
	c.Logger.Debug("serving", "store", cfg.Store.Driver, "cache", cfg.Cache.Driver)
	return srv.ListenAndServe(ctx, addr)
}
