package textio

import (
	"context"
	"time"

	"github.com/matzehuels/bicolour/pkg/errors"
)

// Store reads and writes a single text document.
type Store interface {
	// WriteText replaces the stored document.
	WriteText(ctx context.Context, text string) error

	// ReadText returns the stored document.
	ReadText(ctx context.Context) (string, error)

	// Close releases any resources held by the store.
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
	BackendMongo  Backend = "mongo"
)

// Config selects and configures a backend. Only the fields of the selected
// backend are read.
type Config struct {
	Backend Backend `toml:"backend" validate:"omitempty,oneof=memory file redis mongo"`

	// file
	Path string `toml:"path" validate:"required_if=Backend file"`

	// redis
	RedisAddr     string        `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	RedisKey      string        `toml:"redis_key"`
	RedisTTL      time.Duration `toml:"redis_ttl"`

	// mongo
	MongoURI        string `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
	MongoDocument   string `toml:"mongo_document"`
}

// Defaults for keys and collection names.
const (
	DefaultRedisKey        = "bicolour:document"
	DefaultMongoDatabase   = "bicolour"
	DefaultMongoCollection = "documents"
	DefaultMongoDocument   = "default"
)

// Open creates the store described by cfg. An empty backend means memory.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemory(""), nil
	case BackendFile:
		return NewFileStore(cfg.Path)
	case BackendRedis:
		return NewRedisStore(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
			TTL:      cfg.RedisTTL,
		})
	case BackendMongo:
		return NewMongoStore(ctx, MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
			Document:   cfg.MongoDocument,
		})
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", cfg.Backend)
}
