package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gridboard/internal/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestCacheLocation(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/xdg")

	c := New(os.Stderr, LogInfo)
	if got := c.cacheLocation(); got != "" {
		t.Errorf("cacheLocation() with caching disabled = %q, want empty", got)
	}

	c.cfg.Cache.Backend = config.CacheFile
	if got := c.cacheLocation(); got != filepath.Join("/xdg", appName) {
		t.Errorf("cacheLocation() file default = %q", got)
	}
	c.cfg.Cache.Dir = "/var/cache/boards"
	if got := c.cacheLocation(); got != "/var/cache/boards" {
		t.Errorf("cacheLocation() file dir = %q", got)
	}

	c.cfg.Cache.Backend = config.CacheRedis
	c.cfg.Cache.Redis.Addr = "cache:6379"
	c.cfg.Cache.Redis.DB = 2
	if got := c.cacheLocation(); !strings.HasPrefix(got, "redis://cache:6379/2") {
		t.Errorf("cacheLocation() redis = %q", got)
	}
}
