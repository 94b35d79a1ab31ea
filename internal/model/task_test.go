package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frameforge/mediacore/internal/model"
)

func baseTask() *model.Task {
	return &model.Task{
		ID:         1,
		ChunkSize:  10,
		FrameStep:  1,
		StartFrame: 0,
		StopFrame:  99,
	}
}

func TestChunkNumber(t *testing.T) {
	task := baseTask()

	n, err := model.ChunkNumber(task, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = model.ChunkNumber(task, 9)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = model.ChunkNumber(task, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = model.ChunkNumber(task, 99)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}

func TestChunkNumberHonorsFrameStep(t *testing.T) {
	task := baseTask()
	task.FrameStep = 2
	task.ChunkSize = 5

	// span = step*chunkSize = 10; frame 19 is within chunk 1 ([10,19]),
	// frame 20 starts chunk 2
	n, err := model.ChunkNumber(task, 19)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = model.ChunkNumber(task, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestChunkNumberOutOfBounds(t *testing.T) {
	task := baseTask()

	_, err := model.ChunkNumber(task, -1)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = model.ChunkNumber(task, 100)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestChunkNumberNonPositiveChunkSize(t *testing.T) {
	task := baseTask()
	task.ChunkSize = 0

	_, err := model.ChunkNumber(task, 0)
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestValidateChunkNumber(t *testing.T) {
	task := baseTask()

	assert.NoError(t, model.ValidateChunkNumber(task, 0))
	assert.NoError(t, model.ValidateChunkNumber(task, 9))

	err := model.ValidateChunkNumber(task, 10)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	err = model.ValidateChunkNumber(task, -1)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestChunkFrameRange(t *testing.T) {
	task := baseTask()

	start, stop := model.ChunkFrameRange(task, 0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 9, stop)

	start, stop = model.ChunkFrameRange(task, 9)
	assert.Equal(t, 90, start)
	assert.Equal(t, 99, stop)
}

func TestChunkFrameRangeClampsToTaskStop(t *testing.T) {
	task := baseTask()
	task.StopFrame = 95

	// last chunk would nominally span [90,99] but the task ends at 95
	start, stop := model.ChunkFrameRange(task, 9)
	assert.Equal(t, 90, start)
	assert.Equal(t, 95, stop)
}

func TestGetChunkNumberIgnoresStartFrameAndStep(t *testing.T) {
	n, err := model.GetChunkNumber(10, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = model.GetChunkNumber(10, 25)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGetChunkNumberInvalid(t *testing.T) {
	_, err := model.GetChunkNumber(0, 5)
	assert.ErrorIs(t, err, model.ErrInvalidState)

	_, err = model.GetChunkNumber(10, -1)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestSegmentFrameCount(t *testing.T) {
	rangeSeg := &model.Segment{Kind: model.SegmentRange, StartFrame: 10, StopFrame: 19}
	assert.Equal(t, 10, rangeSeg.FrameCount())

	specific := &model.Segment{Kind: model.SegmentSpecificFrames, Frames: []int{1, 5, 9}}
	assert.Equal(t, 3, specific.FrameCount())
}

func TestErrorsAreDistinctSentinels(t *testing.T) {
	assert.False(t, errors.Is(model.ErrNotFound, model.ErrInvalidArgument))
	assert.True(t, errors.Is(model.ErrNotFound, model.ErrNotFound))
}
