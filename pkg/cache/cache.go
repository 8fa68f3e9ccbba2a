// Package cache stores generated points between runs.
//
// Sampling is deterministic: the same inputs, categories, seed, and
// sampling options always produce the same points. A cache entry keyed by
// those inputs lets a rerun (for example, to switch the output format from
// CSV to GeoJSON) skip loading, joining, and sampling entirely.
//
// Two implementations are provided:
//   - [FileCache]: entries as files under a directory (CLI default)
//   - [NullCache]: never stores anything (caching disabled)
//
// Keys are built with [PointsKey] from content hashes of the input files,
// so editing an input invalidates its entries without any bookkeeping.
package cache

import (
	"context"
	"time"
)

// TTLPoints is how long cached points stay valid.
const TTLPoints = 7 * 24 * time.Hour

// Cache is a byte store with expiring entries.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
