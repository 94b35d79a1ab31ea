// Package chunkloader implements the single-resident-chunk loading
// contract sitting between the Media Cache and a Frame Provider: at most
// one chunk's bytes are held at a time, and loading a new chunk id always
// releases whatever the loader currently holds first.
package chunkloader

import (
	"context"
	"fmt"
	"os"

	"github.com/frameforge/mediacore/internal/model"
)

// Fetch resolves a chunk id to bytes and a mime type, typically backed by
// mediacache.Cache.GetOrSet with a Producer bound to that id's specifics.
type Fetch func(ctx context.Context, chunkID string) (data []byte, mime string, err error)

// Loader holds at most one chunk resident at a time.
type Loader struct {
	fetch     Fetch
	currentID string
	resident  []byte
	mime      string
	loaded    bool
}

func New(fetch Fetch) *Loader {
	return &Loader{fetch: fetch}
}

// Load ensures chunkID's bytes are resident, fetching them if the loader
// doesn't already hold that exact chunk. Loading a different chunk
// releases the previously resident one first. Re-loading the same id is a
// no-op (idempotent).
func (l *Loader) Load(ctx context.Context, chunkID string) error {
	if l.loaded && l.currentID == chunkID {
		return nil
	}
	l.Release()

	data, mime, err := l.fetch(ctx, chunkID)
	if err != nil {
		return err
	}
	l.currentID = chunkID
	l.resident = data
	l.mime = mime
	l.loaded = true
	return nil
}

// Bytes returns the currently resident chunk's bytes and mime type. It is
// an error to call this before a successful Load.
func (l *Loader) Bytes() ([]byte, string, error) {
	if !l.loaded {
		return nil, "", fmt.Errorf("no chunk loaded: %w", model.ErrInvalidState)
	}
	return l.resident, l.mime, nil
}

// Release drops the resident chunk, if any.
func (l *Loader) Release() {
	l.resident = nil
	l.mime = ""
	l.currentID = ""
	l.loaded = false
}

// FileLoader is a chunkloader.Fetch that reads a chunk's bytes from a
// local file path resolver instead of the Media Cache, used for tasks
// configured with FILE_SYSTEM chunk storage (the cache holds only an
// index, not the bytes).
func FileLoader(pathFor func(chunkID string) (path, mime string, err error)) Fetch {
	return func(_ context.Context, chunkID string) ([]byte, string, error) {
		path, mime, err := pathFor(chunkID)
		if err != nil {
			return nil, "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("reading chunk file %s: %w", path, model.ErrStorage)
		}
		return data, mime, nil
	}
}
