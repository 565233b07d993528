package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bicolour/pkg/errors"
	"github.com/matzehuels/bicolour/pkg/textio"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[store]
backend = "file"
path = "/tmp/graph.json"

[render]
engine = "circo"
cache = false

[server]
addr = "127.0.0.1:9000"
allowed_origins = ["http://localhost:5173"]
`)
	require.NoError(t, err)

	assert.Equal(t, textio.BackendFile, cfg.Store.Backend)
	assert.Equal(t, "/tmp/graph.json", cfg.Store.Path)
	assert.Equal(t, "circo", cfg.Render.Engine)
	assert.False(t, cfg.Render.Cache)
	assert.True(t, cfg.Render.Labels, "unset keys keep their defaults")
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
		code errors.Code
	}{
		{"syntax", `[store`, errors.ErrCodeInvalidFormat},
		{"unknown backend", "[store]\nbackend = \"floppy\"", errors.ErrCodeInvalidInput},
		{"file without path", "[store]\nbackend = \"file\"", errors.ErrCodeInvalidInput},
		{"redis without addr", "[store]\nbackend = \"redis\"", errors.ErrCodeInvalidInput},
		{"unknown engine", "[render]\nengine = \"sketch\"", errors.ErrCodeInvalidInput},
		{"empty addr", "[server]\naddr = \"\"", errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "error: %v", err)
		})
	}
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[render]\nengine = \"dot\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dot", cfg.Render.Engine)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err, "an explicit path must exist")
}

func TestLoadDefaultPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Render, cfg.Render)
}

func TestLoadFromXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bicolour"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bicolour", "config.toml"),
		[]byte("[server]\naddr = \":7000\"\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestEnvironmentOverrides(t *testing.T) {
	env := map[string]string{
		EnvStoreBackend: "redis",
		EnvRedisAddr:    "cache:6379",
		EnvServerAddr:   " :9999 ",
		EnvEngine:       "",
	}
	cfg := Default()
	applyEnv(&cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, textio.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "neato", cfg.Render.Engine, "empty variables are ignored")
	assert.NoError(t, cfg.Validate())
}
