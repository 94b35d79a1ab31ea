package mediacache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frameforge/mediacore/internal/kvcache"
	"github.com/frameforge/mediacore/internal/mediacache"
)

// memStore is a minimal, race-safe kvcache.Store fake for exercising Cache
// without pulling in ristretto's async admission pipeline.
type memStore struct {
	mu      sync.Mutex
	entries map[string]kvcache.Entry
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]kvcache.Entry)}
}

func (s *memStore) Get(_ context.Context, key string) (kvcache.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return e, ok
}

func (s *memStore) Set(_ context.Context, key string, e kvcache.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func TestGetOrSetProducesOnMiss(t *testing.T) {
	store := newMemStore()
	cache := mediacache.New(store)

	var calls int32
	produce := func(ctx context.Context) ([]byte, string, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("hello"), "text/plain", nil
	}

	data, mime, err := cache.GetOrSet(context.Background(), "k1", produce)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, "text/plain", mime)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// Second call hits the cache; produce must not run again.
	data, mime, err = cache.GetOrSet(context.Background(), "k1", produce)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, "text/plain", mime)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGetOrSetDeduplicatesConcurrentProducers(t *testing.T) {
	store := newMemStore()
	cache := mediacache.New(store)

	var calls int32
	start := make(chan struct{})
	produce := func(ctx context.Context) ([]byte, string, error) {
		atomic.AddInt32(&calls, 1)
		<-start
		return []byte("payload"), "application/octet-stream", nil
	}

	const n = 8
	var wg sync.WaitGroup
	results := make([][]byte, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			data, _, err := cache.GetOrSet(context.Background(), "shared", produce)
			assert.NoError(t, err)
			results[i] = data
		}(i)
	}

	// Give every goroutine a chance to join the in-flight lease before
	// letting the one real producer call return.
	time.Sleep(20 * time.Millisecond)
	close(start)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, []byte("payload"), r)
	}
}

func TestGetOrSetEmptyBytesIsAValidCachedResult(t *testing.T) {
	store := newMemStore()
	store.entries["no_preview"] = kvcache.NewEntry(nil, "")
	cache := mediacache.New(store)

	var calls int32
	produce := func(ctx context.Context) ([]byte, string, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("should not run"), "", nil
	}

	data, _, err := cache.GetOrSet(context.Background(), "no_preview", produce)
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
}

func TestGetOrSetRebuildsOnCRCMismatch(t *testing.T) {
	store := newMemStore()
	entry := kvcache.NewEntry([]byte("original"), "text/plain")
	entry.CRC32 ^= 0xFFFFFFFF // corrupt the checksum without touching the bytes
	store.entries["corrupt"] = entry
	cache := mediacache.New(store)

	var calls int32
	produce := func(ctx context.Context) ([]byte, string, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("rebuilt"), "text/plain", nil
	}

	data, _, err := cache.GetOrSet(context.Background(), "corrupt", produce)
	require.NoError(t, err)
	assert.Equal(t, []byte("rebuilt"), data)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGetOrSetPropagatesProducerError(t *testing.T) {
	store := newMemStore()
	cache := mediacache.New(store)

	sentinel := assert.AnError
	_, _, err := cache.GetOrSet(context.Background(), "k", func(ctx context.Context) ([]byte, string, error) {
		return nil, "", sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	// A failed production must not poison the cache for a later retry.
	data, _, err := cache.GetOrSet(context.Background(), "k", func(ctx context.Context) ([]byte, string, error) {
		return []byte("ok"), "text/plain", nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), data)
}

func TestKeyGrammar(t *testing.T) {
	assert.Equal(t, "segment_5_2_compressed", mediacache.SegmentChunkKey(5, 2, "compressed"))
	assert.Equal(t, "task_5_2_original", mediacache.TaskChunkKey(5, 2, "original"))
	assert.Equal(t, "job_9_0_compressed", mediacache.JobChunkKey(9, 0, "compressed"))
	assert.Equal(t, "segment_preview_5", mediacache.SegmentPreviewKey(5))
	assert.Equal(t, "cloudstorage_preview_3", mediacache.CloudStoragePreviewKey(3))
	assert.Equal(t, "context_image_1_42", mediacache.ContextImageKey(1, 42))
}
