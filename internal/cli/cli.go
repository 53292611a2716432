package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/entitymap/pkg/cache"
	"github.com/matzehuels/entitymap/pkg/config"
	"github.com/matzehuels/entitymap/pkg/mindmap"
	"github.com/matzehuels/entitymap/pkg/model"
	"github.com/matzehuels/entitymap/pkg/render"
	"github.com/matzehuels/entitymap/pkg/store"
	"github.com/matzehuels/entitymap/pkg/viewstate"
)

// =============================================================================
// Constants
// =============================================================================

const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// In answers confirmation prompts.
	In io.Reader

	configPath string
	cfg        *config.Config
	viewDir    string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		In:     os.Stdin,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Configuration & Backends
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path() != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path())
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *CLI) openStore(ctx context.Context) (store.Store, *config.Config, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	c.Logger.Debug("opened store", "driver", cfg.Store.Driver, "location", storeLocation(cfg.Store))
	return st, cfg, nil
}

func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	cc, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	return cache.Instrument(cc, "artifact"), nil
}

// storeLocation names where a store keeps its data.
func storeLocation(s config.Store) string {
	switch s.Driver {
	case config.DriverSQLite:
		return s.DSN
	case config.DriverMongo:
		return s.URI + "/" + s.Database
	default:
		return s.Path
	}
}

// =============================================================================
// View State
// =============================================================================

func (c *CLI) viewStore() (*viewstate.FileStore, error) {
	return viewstate.NewFileStore(c.viewDir)
}

// viewKey separates saved filters per data store.
func viewKey(s config.Store) string {
	return s.Driver + "-" + cache.Hash([]byte(storeLocation(s)))[:16]
}

// savedFilter returns the persisted filter with ids of deleted types removed.
func (c *CLI) savedFilter(ctx context.Context, cfg *config.Config, data model.Data) (mindmap.FilterState, error) {
	vs, err := c.viewStore()
	if err != nil {
		return mindmap.FilterState{}, err
	}
	st, err := vs.Get(ctx, viewKey(cfg.Store))
	if err != nil {
		return mindmap.FilterState{}, err
	}
	return st.Filter.Prune(data.Types), nil
}

func (c *CLI) saveFilter(ctx context.Context, cfg *config.Config, f mindmap.FilterState) error {
	vs, err := c.viewStore()
	if err != nil {
		return err
	}
	return vs.Set(ctx, viewKey(cfg.Store), viewstate.State{Filter: f})
}

// =============================================================================
// Options Helpers
// =============================================================================

// viewport returns the flag size, falling back to the configured canvas.
func viewport(cfg *config.Config, width, height float64) mindmap.Size {
	if width <= 0 {
		width = cfg.Canvas.Width
	}
	if height <= 0 {
		height = cfg.Canvas.Height
	}
	if width <= 0 || height <= 0 {
		return render.DefaultViewport
	}
	return mindmap.Size{Width: width, Height: height}
}

// splitList parses a comma-separated flag into trimmed non-empty parts.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
