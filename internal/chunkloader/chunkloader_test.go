package chunkloader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frameforge/mediacore/internal/chunkloader"
	"github.com/frameforge/mediacore/internal/model"
)

func TestLoadFetchesOnce(t *testing.T) {
	var calls int
	fetch := func(_ context.Context, chunkID string) ([]byte, string, error) {
		calls++
		return []byte("chunk:" + chunkID), "application/octet-stream", nil
	}
	l := chunkloader.New(fetch)

	require.NoError(t, l.Load(context.Background(), "a"))
	require.NoError(t, l.Load(context.Background(), "a"))
	assert.Equal(t, 1, calls, "reloading the same id must be idempotent")

	data, mime, err := l.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("chunk:a"), data)
	assert.Equal(t, "application/octet-stream", mime)
}

func TestLoadReleasesPreviousChunk(t *testing.T) {
	var fetched []string
	fetch := func(_ context.Context, chunkID string) ([]byte, string, error) {
		fetched = append(fetched, chunkID)
		return []byte(chunkID), "", nil
	}
	l := chunkloader.New(fetch)

	require.NoError(t, l.Load(context.Background(), "a"))
	require.NoError(t, l.Load(context.Background(), "b"))

	data, _, err := l.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), data, "only the most recently loaded chunk should be resident")
	assert.Equal(t, []string{"a", "b"}, fetched)
}

func TestBytesBeforeLoadIsInvalidState(t *testing.T) {
	l := chunkloader.New(func(_ context.Context, _ string) ([]byte, string, error) {
		return nil, "", nil
	})
	_, _, err := l.Bytes()
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestReleaseClearsResidentChunk(t *testing.T) {
	l := chunkloader.New(func(_ context.Context, chunkID string) ([]byte, string, error) {
		return []byte(chunkID), "", nil
	})
	require.NoError(t, l.Load(context.Background(), "a"))
	l.Release()

	_, _, err := l.Bytes()
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestLoadPropagatesFetchError(t *testing.T) {
	l := chunkloader.New(func(_ context.Context, _ string) ([]byte, string, error) {
		return nil, "", model.ErrStorage
	})
	err := l.Load(context.Background(), "a")
	assert.ErrorIs(t, err, model.ErrStorage)

	_, _, err = l.Bytes()
	assert.ErrorIs(t, err, model.ErrInvalidState, "a failed load must leave nothing resident")
}

func TestFileLoaderReadsResolvedPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chunk.bin")
	require.NoError(t, os.WriteFile(path, []byte("bytes-on-disk"), 0644))

	fetch := chunkloader.FileLoader(func(chunkID string) (string, string, error) {
		return path, "application/zip", nil
	})
	l := chunkloader.New(fetch)

	require.NoError(t, l.Load(context.Background(), "segment_1_0_original"))
	data, mime, err := l.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes-on-disk"), data)
	assert.Equal(t, "application/zip", mime)
}

func TestFileLoaderMissingFile(t *testing.T) {
	fetch := chunkloader.FileLoader(func(chunkID string) (string, string, error) {
		return "/nonexistent/path/chunk.bin", "", nil
	})
	l := chunkloader.New(fetch)

	err := l.Load(context.Background(), "x")
	assert.ErrorIs(t, err, model.ErrStorage)
}
