package mediareader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frameforge/mediacore/internal/mediareader"
	"github.com/frameforge/mediacore/internal/model"
	"github.com/frameforge/mediacore/internal/repo"
)

func TestLocalImageReaderReadsFramesInRequestedOrder(t *testing.T) {
	dir := t.TempDir()
	names := []string{"zero.bin", "one.bin", "two.bin"}
	paths := make([]string, 3)
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(paths[i], []byte{byte(i), byte(i), byte(i)}, 0644))
	}

	images := repo.NewMemoryImageRepository()
	images.PutFrames(1, []repo.ImageDescriptor{
		{FrameID: 0, Path: paths[0], Width: 10, Height: 5},
		{FrameID: 1, Path: paths[1], Width: 10, Height: 5},
		{FrameID: 2, Path: paths[2], Width: 10, Height: 5},
	})

	task := &model.Task{ID: 1, ChunkType: model.ChunkTypeImageSet}
	reader, err := mediareader.New(task, mediareader.Deps{Images: images})
	require.NoError(t, err)
	defer reader.Close()

	frames, err := reader.ReadFrames(context.Background(), []int{2, 0, 1})
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, 2, frames[0].FrameNumber)
	assert.Equal(t, 0, frames[1].FrameNumber)
	assert.Equal(t, 1, frames[2].FrameNumber)
	assert.Equal(t, []byte{2, 2, 2}, frames[0].Data)
}

func TestLocalImageReaderDetectsMimeFromExtension(t *testing.T) {
	dir := t.TempDir()
	jpgPath := filepath.Join(dir, "a.jpg")
	pngPath := filepath.Join(dir, "b.png")
	require.NoError(t, os.WriteFile(jpgPath, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(pngPath, []byte("y"), 0644))

	images := repo.NewMemoryImageRepository()
	images.PutFrames(2, []repo.ImageDescriptor{
		{FrameID: 0, Path: jpgPath},
		{FrameID: 1, Path: pngPath},
	})

	task := &model.Task{ID: 2, ChunkType: model.ChunkTypeImageSet}
	reader, err := mediareader.New(task, mediareader.Deps{Images: images})
	require.NoError(t, err)
	defer reader.Close()

	frames, err := reader.ReadFrames(context.Background(), []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", frames[0].Mime)
	assert.Equal(t, "image/png", frames[1].Mime)
}

func TestLocalImageReaderPropagatesMissingFileAsMediaDecodeError(t *testing.T) {
	images := repo.NewMemoryImageRepository()
	images.PutFrames(3, []repo.ImageDescriptor{{FrameID: 0, Path: "/does/not/exist.jpg"}})

	task := &model.Task{ID: 3, ChunkType: model.ChunkTypeImageSet}
	reader, err := mediareader.New(task, mediareader.Deps{Images: images})
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.ReadFrames(context.Background(), []int{0})
	assert.ErrorIs(t, err, model.ErrMediaDecode)
}

func TestLocalImageReaderPropagatesUnknownFrameAsNotFound(t *testing.T) {
	images := repo.NewMemoryImageRepository()
	images.PutFrames(4, []repo.ImageDescriptor{{FrameID: 0, Path: "a.jpg"}})

	task := &model.Task{ID: 4, ChunkType: model.ChunkTypeImageSet}
	reader, err := mediareader.New(task, mediareader.Deps{Images: images})
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.ReadFrames(context.Background(), []int{99})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestNewRejectsLocalBackendWithoutImageRepository(t *testing.T) {
	task := &model.Task{ID: 5, ChunkType: model.ChunkTypeImageSet}
	_, err := mediareader.New(task, mediareader.Deps{})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

