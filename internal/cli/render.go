package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/entitymap/pkg/cache"
	"github.com/matzehuels/entitymap/pkg/config"
	"github.com/matzehuels/entitymap/pkg/errors"
	"github.com/matzehuels/entitymap/pkg/mindmap"
	"github.com/matzehuels/entitymap/pkg/render"
	"github.com/matzehuels/entitymap/pkg/store"
)

const (
	defaultOutput  = "mindmap"
	watchDebounce  = 150 * time.Millisecond
	renderCacheTTL = 24 * time.Hour
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single format) or base path
	formats    []string // png, svg, pdf, dot, graphviz
	types      []string // type filter; nil uses the saved filter
	typesSet   bool     // --types was given, even if empty
	saveFilter bool     // persist --types as the saved filter
	width      float64  // viewport width, 0 uses config
	height     float64  // viewport height, 0 uses config
	scale      float64  // PNG pixel density, 0 uses config
	detailed   bool     // type and attribute lines in DOT labels
	noCache    bool     // bypass the artifact cache
	watch      bool     // re-render when the data file changes
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr, typesStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the mindmap to image or graph files",
		Long: `Render the mindmap of the configured store.

Formats are png, svg, pdf (needs rsvg-convert), dot and graphviz (SVG laid
out by Graphviz). Several formats are rendered concurrently.`,
		Example: `  entitymap render -f png,svg -o out/map
  entitymap render --types t1,t2 --save-filter
  entitymap render --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := errors.ValidateFormats(opts.formats, render.Formats); err != nil {
				return err
			}
			opts.typesSet = cmd.Flags().Changed("types")
			opts.types = splitList(typesStr)
			if opts.saveFilter && !opts.typesSet {
				return fmt.Errorf("--save-filter needs --types")
			}
			return c.runRender(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (default \"mindmap\")")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, graphviz (comma-separated)")
	cmd.Flags().StringVar(&typesStr, "types", "", "comma-separated type ids to show (empty shows all)")
	cmd.Flags().BoolVar(&opts.saveFilter, "save-filter", false, "save --types as the default filter")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG pixel density (default from config)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include types and attributes in DOT labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the data file changes (file store only)")

	return cmd
}

// parseFormats parses the --format flag, dropping repeats; empty means svg.
func parseFormats(s string) []string {
	var formats []string
	for _, f := range splitList(s) {
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return []string{render.FormatSVG}
	}
	return formats
}

// outputPath names the file for one format. A single format written to an
// -o that already has an extension keeps the name as given.
func outputPath(output, format string, single bool) string {
	if output == "" {
		output = defaultOutput
	}
	if single && filepath.Ext(output) != "" {
		return output
	}
	return output + "." + render.Extension(format)
}

func (c *CLI) runRender(ctx context.Context, opts renderOpts) error {
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

	if opts.saveFilter {
		if err := c.saveFilter(ctx, cfg, mindmap.NewFilter(opts.types...)); err != nil {
			return fmt.Errorf("save filter: %w", err)
		}
		printSuccess("Saved filter")
	}

	if err := c.renderOnce(ctx, st, cfg, cc, opts); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	if cfg.Store.Driver != config.DriverFile {
		return fmt.Errorf("--watch needs the file store, not %q", cfg.Store.Driver)
	}
	printInfo("Watching %s (ctrl+c to stop)", cfg.Store.Path)
	return watchFile(ctx, cfg.Store.Path, func() {
		if err := c.renderOnce(ctx, st, cfg, cc, opts); err != nil {
			printError("%v", err)
		}
	})
}

// renderOnce loads the data and writes every requested format.
func (c *CLI) renderOnce(ctx context.Context, st store.Store, cfg *config.Config, cc cache.Cache, opts renderOpts) error {
	prog := newProgress(c.Logger)

	data, err := st.Load(ctx)
	if err != nil {
		return err
	}
	filter := mindmap.NewFilter(opts.types...)
	if !opts.typesSet {
		if filter, err = c.savedFilter(ctx, cfg, data); err != nil {
			return err
		}
	}
	dataHash, err := cache.HashJSON(data)
	if err != nil {
		return err
	}

	in := mindmap.Input{Data: data, Filter: filter, Viewport: viewport(cfg, opts.width, opts.height)}
	scale := opts.scale
	if scale <= 0 {
		scale = cfg.Canvas.Scale
	}
	keyer := cache.NewDefaultKeyer()

	paths := make([]string, len(opts.formats))
	hits := make([]bool, len(opts.formats))

	spin := newSpinner(ctx, "Rendering...")
	spin.start()

	g, gctx := errgroup.WithContext(ctx)
	for i, format := range opts.formats {
		g.Go(func() error {
			key := keyer.ArtifactKey(dataHash, cache.ArtifactKeyOpts{
				Format:   format,
				Types:    filter.IDs(),
				Width:    in.Viewport.Width,
				Height:   in.Viewport.Height,
				Scale:    scale,
				Detailed: opts.detailed,
			})

			body, ok, err := cc.Get(gctx, key)
			if err != nil || !ok {
				res, err := render.Artifact(gctx, format, in, render.Options{
					Scale:    scale,
					Detailed: opts.detailed,
					Logger:   c.Logger,
				})
				if err != nil {
					return fmt.Errorf("render %s: %w", format, err)
				}
				body = res.Data
				if err := cc.Set(gctx, key, body, renderCacheTTL); err != nil {
					c.Logger.Warn("cache write failed", "format", format, "err", err)
				}
			}
			hits[i] = ok

			path := outputPath(opts.output, format, len(opts.formats) == 1)
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			if err := os.WriteFile(path, body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			paths[i] = path
			return nil
		})
	}
	err = g.Wait()
	spin.stop()
	if err != nil {
		return err
	}

	graph := mindmap.Build(data, filter)
	cached := true
	for _, hit := range hits {
		cached = cached && hit
	}
	printSuccess("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(graph.Nodes), len(graph.Edges), cached)
	if !filter.Empty() {
		printDetail("Filter: %v", filter.IDs())
	}
	prog.done("render finished")
	return nil
}

// watchFile calls onChange after path is written, debounced. The parent
// directory is watched because the file store replaces the file by rename.
func watchFile(ctx context.Context, path string, onChange func()) error {
	logger := loggerFromContext(ctx)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("data watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("data watcher add %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer.Reset(watchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-timer.C:
			onChange()
		}
	}
}
