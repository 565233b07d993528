package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bicolour/internal/config"
	"github.com/matzehuels/bicolour/pkg/cache"
	"github.com/matzehuels/bicolour/pkg/textio"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "bicolour"

	// maxRelaxPasses bounds --until-stable. Synchronous relaxation can
	// oscillate with period two, so it is not guaranteed to settle.
	maxRelaxPasses = 1000
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands. In and Out carry documents
// when a command is given "-" as its file; Out also takes status lines.
// Err receives the render spinner.
type CLI struct {
	Logger *log.Logger
	Config config.Config
	In     io.Reader
	Out    io.Writer
	Err    io.Writer

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		In:     os.Stdin,
		Out:    os.Stdout,
		Err:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "store", cfg.Store.Backend, "engine", cfg.Render.Engine)
	return nil
}

// =============================================================================
// Collaborators
// =============================================================================

// newCache returns the render cache, or a null cache when caching is off or
// the cache directory is unavailable.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || !c.Config.Render.Cache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openStore returns the text store for a document. A named file always wins
// over the configured backend.
func (c *CLI) openStore(ctx context.Context, file string) (textio.Store, error) {
	if file != "" {
		return textio.NewFileStore(file)
	}
	return textio.Open(ctx, c.Config.Store)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bicolour/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
