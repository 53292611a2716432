package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Driver != DriverFile {
		t.Errorf("driver = %q", cfg.Store.Driver)
	}
	if cfg.Store.Path != filepath.Join("/data", AppName, "data.json") {
		t.Errorf("path = %q", cfg.Store.Path)
	}
	if cfg.Server.CacheTTL.Duration != 10*time.Minute {
		t.Errorf("cache ttl = %v", cfg.Server.CacheTTL)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[store]
driver = "sqlite"
dsn = "/tmp/x.db"

[server]
addr = ":9000"
cache_ttl = "90s"

[cache]
driver = "none"

[canvas]
width = 1600
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Driver != DriverSQLite || cfg.Store.DSN != "/tmp/x.db" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.CacheTTL.Duration != 90*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Canvas.Width != 1600 || cfg.Canvas.Height != 800 {
		t.Errorf("canvas = %+v", cfg.Canvas)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[store]\ndriverr = \"file\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "store.driverr") {
		t.Errorf("err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Store.Driver = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown store driver")
	}
	cfg = Default()
	cfg.Cache.Driver = "memcached"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown cache driver")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ENTITYMAP_STORE_PATH":   "/srv/data.json",
		"ENTITYMAP_SERVER_ADDR":  ":7000",
		"ENTITYMAP_CANVAS_WIDTH": "2000",
		"ENTITYMAP_REDIS_ADDR":   "",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if cfg.Store.Path != "/srv/data.json" || cfg.Server.Addr != ":7000" || cfg.Canvas.Width != 2000 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("empty env value should not override: %q", cfg.Cache.RedisAddr)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.Store.Driver = DriverMongo
	cfg.Server.CacheTTL.Duration = time.Hour
	if err := cfg.Write(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Store.Driver != DriverMongo || got.Server.CacheTTL.Duration != time.Hour {
		t.Errorf("round trip = %+v", got)
	}
}
