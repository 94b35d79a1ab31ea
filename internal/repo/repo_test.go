package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frameforge/mediacore/internal/model"
	"github.com/frameforge/mediacore/internal/repo"
)

func TestMemoryTaskRepository(t *testing.T) {
	r := repo.NewMemoryTaskRepository()
	ctx := context.Background()

	_, err := r.GetTask(ctx, 1)
	assert.ErrorIs(t, err, model.ErrNotFound)

	r.Put(&model.Task{ID: 1, ChunkSize: 10})
	task, err := r.GetTask(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, task.ChunkSize)
}

func TestMemorySegmentRepository(t *testing.T) {
	r := repo.NewMemorySegmentRepository()
	ctx := context.Background()

	r.PutSegment(&model.Segment{ID: 10, TaskID: 1, StartFrame: 0, StopFrame: 9})
	r.PutSegment(&model.Segment{ID: 11, TaskID: 1, StartFrame: 10, StopFrame: 19})
	r.PutSegment(&model.Segment{ID: 20, TaskID: 2, StartFrame: 0, StopFrame: 5})
	r.PutJob(&model.Job{ID: 100, SegmentID: 10})

	segs, err := r.SegmentsForTask(ctx, 1)
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, int64(10), segs[0].ID, "segments must come back ordered by start frame")
	assert.Equal(t, int64(11), segs[1].ID)

	seg, err := r.JobSegment(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(10), seg.ID)

	_, err = r.JobSegment(ctx, 999)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = r.GetSegment(ctx, 999)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMemoryImageRepository(t *testing.T) {
	r := repo.NewMemoryImageRepository()
	ctx := context.Background()

	_, err := r.FramesForTask(ctx, 1)
	assert.ErrorIs(t, err, model.ErrNotFound)

	r.PutFrames(1, []repo.ImageDescriptor{
		{FrameID: 2, Path: "b.jpg"},
		{FrameID: 0, Path: "a.jpg"},
		{FrameID: 1, Path: "x.jpg"},
	})

	frames, err := r.FramesForTask(ctx, 1)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, "a.jpg", frames[0].Path, "PutFrames must sort by FrameID")

	f, err := r.Frame(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "b.jpg", f.Path)

	_, err = r.Frame(ctx, 1, 99)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
