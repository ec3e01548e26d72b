// Package cache is the content-addressed store for parse results: a digest
// of the uploaded bytes maps to a compressed, schema-versioned ParseResult.
// Caching is an optimization, never a correctness dependency.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/crewtools/pairings-tracker/internal/entity"
)

// SchemaVersion tags every stored payload. Bump it whenever the ParseResult
// shape changes; stale entries then read as misses and are re-parsed.
const SchemaVersion = 1

// ErrCacheMiss is returned by Lookup when no usable entry exists for a
// digest, whether absent, schema-stale, or unreadable.
var ErrCacheMiss = errors.New("cache miss")

// EntryInfo describes one stored entry, for inspection tooling.
type EntryInfo struct {
	Digest        string
	SchemaVersion int
	PayloadBytes  int64
	CreatedAt     time.Time
}

// Store maps document digests to parse results. Implementations must keep
// concurrent store/lookup on the same digest from interleaving into a
// corrupt read.
type Store interface {
	Lookup(ctx context.Context, digest string) (entity.ParseResult, error)
	Put(ctx context.Context, digest string, res entity.ParseResult) error
	Evict(ctx context.Context, digest string) error
	PurgeStale(ctx context.Context) (int64, error)
	Entries(ctx context.Context) ([]EntryInfo, error)
	Close() error
}
