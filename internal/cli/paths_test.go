package cli

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/matzehuels/bicolour/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"home fallback", "", filepath.Join(home, ".cache", "bicolour")},
		{"xdg", "/tmp/xdg-cache", filepath.Join("/tmp/xdg-cache", "bicolour")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", home)
			t.Setenv("XDG_CACHE_HOME", tt.xdg)

			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCacheUsesRenderCacheDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	c := New(io.Discard, LogInfo)

	store, err := c.newCache(false)
	if err != nil {
		t.Fatalf("newCache() error: %v", err)
	}
	fc, ok := store.(*cache.FileCache)
	if !ok {
		t.Fatalf("newCache() = %T, want *cache.FileCache", store)
	}
	if want := filepath.Join(xdg, appName); fc.Dir() != want {
		t.Errorf("cache dir = %q, want %q", fc.Dir(), want)
	}

	for _, tt := range []struct {
		name    string
		noCache bool
		enabled bool
	}{
		{"--no-cache", true, true},
		{"disabled in config", false, false},
	} {
		c.Config.Render.Cache = tt.enabled
		store, err := c.newCache(tt.noCache)
		if err != nil {
			t.Fatalf("%s: newCache() error: %v", tt.name, err)
		}
		if _, ok := store.(cache.NullCache); !ok {
			t.Errorf("%s: newCache() = %T, want cache.NullCache", tt.name, store)
		}
	}
}
