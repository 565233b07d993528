// Package cache stores rendered artifacts keyed by the document they were
// rendered from.
//
// Rendering a colouring through Graphviz is the slowest thing the CLI does,
// and the same document is often rendered repeatedly while it is being
// edited. Entries are keyed by [Keyer.RenderKey], which hashes the encoded
// document together with the render options.
//
// Implementations:
//   - [FileCache]: one JSON file per entry under a cache directory
//   - [NullCache]: stores nothing, for --no-cache
//
// [Fetch] wraps the get-or-compute pattern and reports hits, misses and
// writes to the cache hooks in the observability package.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/bicolour/pkg/observability"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Fetch returns the cached entry for key, or calls compute and stores its
// result. keyType labels the entry in hook events. A failing cache read is
// treated as a miss; a failing write is ignored, since the computed value is
// still good.
func Fetch(ctx context.Context, c Cache, keyType, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, bool, error) {
	hooks := observability.Cache()

	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, keyType)
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, keyType)

	data, err := compute()
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}
