// Package config loads entitymap settings from a TOML file.
//
// The default location is $XDG_CONFIG_HOME/entitymap/config.toml
// (~/.config/entitymap/config.toml). A missing file is not an error: every
// field has a default. Environment variables prefixed with ENTITYMAP_
// override the file for the settings most often changed per run.
//
// # Example
//
//	[store]
//	driver = "sqlite"
//	dsn    = "/var/lib/entitymap/data.db"
//
//	[server]
//	addr      = ":8080"
//	cache_ttl = "10m"
//
//	[cache]
//	driver     = "redis"
//	redis_addr = "localhost:6379"
//
//	[canvas]
//	width  = 1600
//	height = 900
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// AppName names the config, data and cache directories.
const AppName = "entitymap"

// Store drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Cache drivers.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete configuration.
type Config struct {
	Store  Store  `toml:"store"`
	Server Server `toml:"server"`
	Cache  Cache  `toml:"cache"`
	Canvas Canvas `toml:"canvas"`

	// path is the file the config was read from, if any.
	path string
}

// Store selects and configures the persistence backend.
type Store struct {
	Driver string `toml:"driver"`

	// Path is the JSON document for the file driver.
	Path string `toml:"path"`

	// DSN is the database file for the sqlite driver.
	DSN string `toml:"dsn"`

	// URI and Database configure the mongo driver.
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr     string   `toml:"addr"`
	CacheTTL Duration `toml:"cache_ttl"`
}

// Cache configures the rendered-artifact cache.
type Cache struct {
	Driver        string `toml:"driver"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Canvas is the default viewport for rendering.
type Canvas struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Scale  float64 `toml:"scale"`
}

// Duration is a time.Duration written as a string such as "10m".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// Load reads path, or the default location when path is empty, then applies
// defaults and environment overrides. A missing default file yields the
// defaults; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.toml")
	}

	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case err == nil:
		cfg.path = path
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.ApplyEnv(os.LookupEnv)
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the config was read from, or "".
func (c *Config) Path() string { return c.path }

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = DriverFile
	}
	if c.Store.Path == "" {
		c.Store.Path = defaultDataPath("data.json")
	}
	if c.Store.DSN == "" {
		c.Store.DSN = defaultDataPath("data.db")
	}
	if c.Store.URI == "" {
		c.Store.URI = "mongodb://localhost:27017"
	}
	if c.Store.Database == "" {
		c.Store.Database = AppName
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.CacheTTL.Duration == 0 {
		c.Server.CacheTTL.Duration = 10 * time.Minute
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheFile
	}
	if c.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			c.Cache.Dir = dir
		}
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = "localhost:6379"
	}
	if c.Canvas.Width <= 0 {
		c.Canvas.Width = 1200
	}
	if c.Canvas.Height <= 0 {
		c.Canvas.Height = 800
	}
	if c.Canvas.Scale <= 0 {
		c.Canvas.Scale = 1
	}
}

// ApplyEnv overrides fields from ENTITYMAP_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup("ENTITYMAP_" + name); ok && v != "" {
			*dst = v
		}
	}
	str("STORE_DRIVER", &c.Store.Driver)
	str("STORE_PATH", &c.Store.Path)
	str("STORE_DSN", &c.Store.DSN)
	str("MONGO_URI", &c.Store.URI)
	str("SERVER_ADDR", &c.Server.Addr)
	str("CACHE_DRIVER", &c.Cache.Driver)
	str("REDIS_ADDR", &c.Cache.RedisAddr)

	if v, ok := lookup("ENTITYMAP_CANVAS_WIDTH"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Canvas.Width = f
		}
	}
	if v, ok := lookup("ENTITYMAP_CANVAS_HEIGHT"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Canvas.Height = f
		}
	}
}

// Validate checks driver names.
func (c *Config) Validate() error {
	if !slices.Contains([]string{DriverFile, DriverSQLite, DriverMongo}, c.Store.Driver) {
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheNone}, c.Cache.Driver) {
		return fmt.Errorf("config: unknown cache driver %q", c.Cache.Driver)
	}
	return nil
}

// Write encodes c as TOML to path, creating parent directories.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// =============================================================================
// Paths
// =============================================================================

// ConfigDir returns $XDG_CONFIG_HOME/entitymap or ~/.config/entitymap.
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns $XDG_DATA_HOME/entitymap or ~/.local/share/entitymap.
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// CacheDir returns $XDG_CACHE_HOME/entitymap or ~/.cache/entitymap.
func CacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}

func defaultDataPath(name string) string {
	dir, err := DataDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, name)
}
