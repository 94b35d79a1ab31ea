// Package kvcache provides the in-process byte-blob cache backing the
// Media Cache: get/set/delete over opaque keys, storing a value alongside
// its mime type and a CRC32 checksum so callers can detect corruption on
// read without re-hashing the payload every time.
package kvcache

import (
	"context"
	"hash/crc32"

	"github.com/dgraph-io/ristretto/v2"
)

// Entry is the unit of storage: raw bytes, their declared mime type, and
// the CRC32 checksum computed over bytes at write time.
type Entry struct {
	Bytes []byte
	Mime  string
	CRC32 uint32
}

// NewEntry builds an Entry, computing its checksum from bytes.
func NewEntry(b []byte, mime string) Entry {
	return Entry{Bytes: b, Mime: mime, CRC32: crc32.ChecksumIEEE(b)}
}

// Verify reports whether e's stored checksum still matches its bytes.
func (e Entry) Verify() bool {
	return crc32.ChecksumIEEE(e.Bytes) == e.CRC32
}

// Store is the KVCache interface external to this package's default
// implementation. Implementations need not provide single-flight
// deduplication of concurrent producers for the same key; the Media Cache
// layer above handles that.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool)
	Set(ctx context.Context, key string, e Entry) error
	Delete(ctx context.Context, key string) error
}

// RistrettoStore is a cost-aware, bounded in-process Store backed by
// ristretto, sized by total bytes held (cost == len(Bytes)).
type RistrettoStore struct {
	cache *ristretto.Cache[string, Entry]
}

// NewRistrettoStore builds a store with maxCostBytes worth of admitted
// entries. numCounters should be roughly 10x the expected number of
// distinct keys, per ristretto's sizing guidance.
func NewRistrettoStore(maxCostBytes int64, numCounters int64) (*RistrettoStore, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, Entry]{
		NumCounters: numCounters,
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &RistrettoStore{cache: c}, nil
}

func (s *RistrettoStore) Get(_ context.Context, key string) (Entry, bool) {
	return s.cache.Get(key)
}

func (s *RistrettoStore) Set(_ context.Context, key string, e Entry) error {
	s.cache.SetWithTTL(key, e, int64(len(e.Bytes)), 0)
	return nil
}

func (s *RistrettoStore) Delete(_ context.Context, key string) error {
	s.cache.Del(key)
	return nil
}

// Close releases the store's background goroutines; callers should defer
// this once at process shutdown.
func (s *RistrettoStore) Close() {
	s.cache.Close()
}
