package mediacore_test

import (
	"context"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frameforge/mediacore"
	"github.com/frameforge/mediacore/internal/mediareader"
	"github.com/frameforge/mediacore/internal/model"
	"github.com/frameforge/mediacore/internal/repo"
)

func writeJPEGFile(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 90}))
}

func TestNewAppliesOptionsAndValidates(t *testing.T) {
	logDir := t.TempDir()
	core, err := mediacore.New(
		mediacore.WithImageQuality(55),
		mediacore.WithChunkSize(8),
		mediacore.WithLogDir(logDir),
	)
	require.NoError(t, err)
	defer core.Close()
}

func TestNewRejectsInvalidOption(t *testing.T) {
	_, err := mediacore.New(mediacore.WithImageQuality(0), mediacore.WithLogDir(t.TempDir()))
	assert.Error(t, err)
}

func TestSetReporterAcceptsNil(t *testing.T) {
	core, err := mediacore.New(mediacore.WithLogDir(t.TempDir()))
	require.NoError(t, err)
	defer core.Close()

	assert.NotPanics(t, func() { core.SetReporter(nil) })
}

func TestOpenSegmentProviderServesChunksFromLocalImages(t *testing.T) {
	srcDir := t.TempDir()
	for i := 0; i < 6; i++ {
		writeJPEGFile(t, filepath.Join(srcDir, "frame.jpg"), 32, 32)
		_ = i
	}
	// one real descriptor reused for every frame number keeps the fixture small
	images := repo.NewMemoryImageRepository()
	frames := make([]repo.ImageDescriptor, 6)
	for i := range frames {
		frames[i] = repo.ImageDescriptor{FrameID: i, Path: filepath.Join(srcDir, "frame.jpg")}
	}
	images.PutFrames(1, frames)

	task := &model.Task{
		ID:           1,
		ChunkType:    model.ChunkTypeImageSet,
		ChunkSize:    3,
		ImageQuality: 70,
		StartFrame:   0,
		StopFrame:    5,
		FrameStep:    1,
	}
	segment := &model.Segment{ID: 1, TaskID: 1, Kind: model.SegmentRange, StartFrame: 0, StopFrame: 5}

	core, err := mediacore.New(mediacore.WithLogDir(t.TempDir()), mediacore.WithTempDir(t.TempDir()))
	require.NoError(t, err)
	defer core.Close()

	var reported []string
	core.SetReporter(mediacore.NewEventReporter(func(e mediacore.Event) error {
		reported = append(reported, e.Type())
		return nil
	}))

	provider, err := core.OpenSegmentProvider(task, segment, model.QualityCompressed, mediareader.Deps{Images: images})
	require.NoError(t, err)
	defer provider.Release()

	chunk, err := provider.GetChunk(context.Background(), 0)
	require.NoError(t, err)
	assert.NotEmpty(t, chunk.Bytes)
	assert.Equal(t, "application/zip", chunk.Mime)

	// Re-fetching the same chunk must come back from cache: a cache_miss
	// then a cache_hit for the same key, not two productions.
	_, err = provider.GetChunk(context.Background(), 0)
	require.NoError(t, err)

	assert.Contains(t, reported, mediacore.EventTypeCacheMiss)
	assert.Contains(t, reported, mediacore.EventTypeChunkProduced)
	assert.Contains(t, reported, mediacore.EventTypeCacheHit)
}

func TestSegmentPreview(t *testing.T) {
	srcDir := t.TempDir()
	writeJPEGFile(t, filepath.Join(srcDir, "frame.jpg"), 600, 300)

	images := repo.NewMemoryImageRepository()
	images.PutFrames(1, []repo.ImageDescriptor{{FrameID: 0, Path: filepath.Join(srcDir, "frame.jpg")}})

	task := &model.Task{ID: 1, ChunkType: model.ChunkTypeImageSet, ChunkSize: 4, StartFrame: 0, StopFrame: 0, FrameStep: 1}
	segment := &model.Segment{ID: 1, TaskID: 1, Kind: model.SegmentRange, StartFrame: 0, StopFrame: 0}

	core, err := mediacore.New(mediacore.WithLogDir(t.TempDir()))
	require.NoError(t, err)
	defer core.Close()

	data, mime, err := core.SegmentPreview(context.Background(), task, segment, mediareader.Deps{Images: images})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	assert.NotEmpty(t, data)
}
