// Package mediacache implements the Media Cache: a keyed byte-blob store
// with CRC32 self-healing on read and per-key production leasing, sitting
// in front of the chunk writers, preview generators, and context-image
// bundler.
package mediacache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/frameforge/mediacore/internal/kvcache"
	"github.com/frameforge/mediacore/internal/model"
	"github.com/frameforge/mediacore/internal/reporter"
)

// Producer builds the bytes and mime type for a cache miss at key. It is
// invoked at most once per key concurrently per Cache instance (see
// Cache.group), though two separate Cache instances — e.g. two
// server processes — may still race and overwrite each other; the last
// write wins and CRC verification on the next read is what keeps the
// cache honest across that race.
type Producer func(ctx context.Context) (bytes []byte, mime string, err error)

// Cache is the Media Cache. It holds no task/segment state itself; all of
// that is threaded through by callers via the Producer they pass to
// GetOrSet.
type Cache struct {
	store    kvcache.Store
	group    singleflight.Group
	reporter reporter.Reporter
}

func New(store kvcache.Store) *Cache {
	return &Cache{store: store, reporter: reporter.NullReporter{}}
}

// SetReporter installs a Reporter to receive CacheHit/CacheMiss/
// ChunkProduced notifications. Defaults to a no-op NullReporter.
func (c *Cache) SetReporter(r reporter.Reporter) {
	if r == nil {
		r = reporter.NullReporter{}
	}
	c.reporter = r
}

// Get returns the bytes at key if present and intact. A CRC32 mismatch is
// treated the same as a miss: the caller of GetOrSet will rebuild it.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, string, bool) {
	entry, ok := c.store.Get(ctx, key)
	if !ok {
		return nil, "", false
	}
	if !entry.Verify() {
		log.Warn().Str("key", key).Msg("media cache entry failed crc32 check, treating as miss")
		return nil, "", false
	}
	return entry.Bytes, entry.Mime, true
}

// GetOrSet returns the cached bytes at key, producing and storing them via
// produce on a miss or a checksum failure. Concurrent GetOrSet calls for
// the same key within this Cache instance share one in-flight Producer
// call (the leased-producer pattern from the design notes), so a burst of
// requests for a cold chunk triggers exactly one production.
//
// An empty-but-present entry (len(bytes) == 0) is a valid cached result
// meaning "no artifact for this key" (e.g. a task with no preview yet) and
// is returned as-is without invoking produce again.
func (c *Cache) GetOrSet(ctx context.Context, key string, produce Producer) ([]byte, string, error) {
	if b, mime, ok := c.Get(ctx, key); ok {
		c.reporter.CacheHit(key)
		return b, mime, nil
	}
	c.reporter.CacheMiss(key)

	type result struct {
		bytes []byte
		mime  string
	}
	start := time.Now()
	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the lease: another goroutine may have produced
		// it while we were waiting to acquire the lease.
		if b, mime, ok := c.Get(ctx, key); ok {
			return result{b, mime}, nil
		}
		b, mime, err := produce(ctx)
		if err != nil {
			return nil, err
		}
		// An empty result is a valid "no artifact" value and is returned
		// as-is, but never stored: re-storing it on every miss would be
		// pointless churn, and the next caller just produces (and gets)
		// the same empty answer again.
		if len(b) > 0 {
			if err := c.store.Set(ctx, key, kvcache.NewEntry(b, mime)); err != nil {
				return nil, fmt.Errorf("storing cache entry %s: %w", key, model.ErrStorage)
			}
		}
		return result{b, mime}, nil
	})
	if err != nil {
		return nil, "", err
	}
	r := v.(result)
	c.reporter.ChunkProduced(key, len(r.bytes), time.Since(start).Milliseconds())
	return r.bytes, r.mime, nil
}

// Delete removes key from the cache, used when a task/segment/job is
// deleted or its source media changes underneath it.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}
