package textio

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/bicolour/pkg/errors"
)

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string        // defaults to DefaultRedisKey
	TTL      time.Duration // zero keeps the key forever
}

// RedisStore keeps the document under one Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, ioErr(err, "connect to redis at %s", cfg.Addr)
	}
	return newRedisStore(client, cfg.Key, cfg.TTL), nil
}

// NewRedisStoreFromClient wraps an existing client. The store does not take
// ownership of it beyond Close.
func NewRedisStoreFromClient(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	return newRedisStore(client, key, ttl)
}

func newRedisStore(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key, ttl: ttl}
}

func (s *RedisStore) WriteText(ctx context.Context, text string) error {
	if err := s.client.Set(ctx, s.key, text, s.ttl).Err(); err != nil {
		return ioErr(err, "redis SET %s", s.key)
	}
	return nil
}

// ReadText returns the stored document. A missing key is an IO_FAILURE
// wrapping redis.Nil.
func (s *RedisStore) ReadText(ctx context.Context) (string, error) {
	text, err := s.client.Get(ctx, s.key).Result()
	if stderrors.Is(err, redis.Nil) {
		return "", ioErr(err, "redis key %s does not exist", s.key)
	}
	if err != nil {
		return "", ioErr(err, "redis GET %s", s.key)
	}
	return text, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Key returns the Redis key holding the document.
func (s *RedisStore) Key() string { return s.key }

var _ Store = (*RedisStore)(nil)
