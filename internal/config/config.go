// Package config loads bicolour's configuration file.
//
// Settings are layered, lowest priority first:
//  1. Defaults (see [Default])
//  2. The TOML file at $XDG_CONFIG_HOME/bicolour/config.toml, or the path
//     given with --config
//  3. BICOLOUR_* environment variables
//
// Command-line flags override the loaded values in the commands themselves.
//
// Example file:
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[render]
//	engine = "neato"
//	cache = true
//
//	[server]
//	addr = ":8080"
//	allowed_origins = ["http://localhost:5173"]
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/bicolour/pkg/errors"
	"github.com/matzehuels/bicolour/pkg/textio"
)

// Config is the full configuration.
type Config struct {
	Store  textio.Config `toml:"store"`
	Render Render        `toml:"render"`
	Server Server        `toml:"server"`
}

// Render configures the render command.
type Render struct {
	Engine   string        `toml:"engine" validate:"oneof=neato dot circo fdp"`
	Labels   bool          `toml:"labels"`
	Cache    bool          `toml:"cache"`
	CacheTTL time.Duration `toml:"cache_ttl" validate:"min=0"`
}

// Server configures the HTTP view server.
type Server struct {
	Addr           string        `toml:"addr" validate:"required"`
	AllowedOrigins []string      `toml:"allowed_origins"`
	ReadTimeout    time.Duration `toml:"read_timeout" validate:"min=0"`
	WriteTimeout   time.Duration `toml:"write_timeout" validate:"min=0"`
	MaxSessions    int           `toml:"max_sessions" validate:"min=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store: textio.Config{Backend: textio.BackendMemory},
		Render: Render{
			Engine:   "neato",
			Labels:   true,
			Cache:    true,
			CacheTTL: 7 * 24 * time.Hour,
		},
		Server: Server{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			MaxSessions:    1000,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "bicolour", "config.toml"), nil
}

// Load reads the configuration. With an empty path the default location is
// used and a missing file yields the defaults; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if err := loadFile(path, &cfg); err != nil && (explicit || !os.IsNotExist(err)) {
		return Config{}, err
	}

	applyEnv(&cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(text string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return errors.IOFailure(err, "stat %s", path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	return nil
}

// Environment variables read by Load.
const (
	EnvStoreBackend = "BICOLOUR_STORE_BACKEND"
	EnvStorePath    = "BICOLOUR_STORE_PATH"
	EnvRedisAddr    = "BICOLOUR_REDIS_ADDR"
	EnvMongoURI     = "BICOLOUR_MONGO_URI"
	EnvServerAddr   = "BICOLOUR_ADDR"
	EnvEngine       = "BICOLOUR_ENGINE"
)

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	backend := string(cfg.Store.Backend)
	set(EnvStoreBackend, &backend)
	cfg.Store.Backend = textio.Backend(backend)

	set(EnvStorePath, &cfg.Store.Path)
	set(EnvRedisAddr, &cfg.Store.RedisAddr)
	set(EnvMongoURI, &cfg.Store.MongoURI)
	set(EnvServerAddr, &cfg.Server.Addr)
	set(EnvEngine, &cfg.Render.Engine)
}

var validate = validator.New()

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid config")
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid config: %s", strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must not be negative", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
