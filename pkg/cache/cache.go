// Package cache provides the byte-level cache behind cytoband references,
// layouts and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under the user cache directory,
//     used by the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives cache keys from content hashes and the options that
// influence the cached value, so any change of input or options is a miss:
//
//	key := keyer.LayoutKey(cache.Hash(caseJSON), cache.LayoutKeyOpts{
//	    Build:         "37",
//	    ViewportWidth: 1955,
//	})
//
// [ScopedKeyer] prefixes every key, e.g. to separate environments sharing
// one Redis instance.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per cached value kind.
const (
	TTLReference = 7 * 24 * time.Hour
	TTLLayout    = 24 * time.Hour
	TTLArtifact  = 24 * time.Hour
)
