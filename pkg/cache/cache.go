// Package cache provides pluggable caching for built trees and rendered
// artifacts.
//
// Three implementations are available:
//
//   - FileCache: persistent cache in a local directory, used by the CLI
//   - RedisCache: shared cache for server deployments
//   - NullCache: no-op cache for disabling caching without branching
//
// Keys are generated through a Keyer so that every input that changes the
// output participates in the key. Callers treat cache errors as misses;
// a broken cache must never fail a pipeline run.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry class. Trees are cheap to rebuild from the source
// document, so they expire sooner than rendered artifacts, which may have
// gone through Graphviz and PDF conversion.
const (
	TTLTree     = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the interface for storing built trees and rendered artifacts.
type Cache interface {
	// Get retrieves data for a key. Returns the data, whether the key was
	// found, and any error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under a key with a TTL. A zero TTL means the entry
	// never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key from the cache.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
