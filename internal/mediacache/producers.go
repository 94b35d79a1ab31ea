package mediacache

import (
	"context"
	"fmt"
	"sort"

	"github.com/frameforge/mediacore/internal/chunkwriter"
	"github.com/frameforge/mediacore/internal/mediareader"
	"github.com/frameforge/mediacore/internal/model"
)

// SegmentChunkProducer builds the Producer for one segment's chunk: it
// resolves which task-absolute frame numbers belong to the chunk's
// window, reads the real ones through reader, and synthesizes a
// placeholder for any window position a SPECIFIC_FRAMES segment's mask
// excludes (the masked-range rule).
func SegmentChunkProducer(task *model.Task, segment *model.Segment, chunkNumber int, writer chunkwriter.Writer, reader mediareader.Reader) Producer {
	return func(ctx context.Context) ([]byte, string, error) {
		windowFrames, placeholderMask, err := segmentChunkWindow(task, segment, chunkNumber)
		if err != nil {
			return nil, "", err
		}
		return assembleChunk(ctx, windowFrames, placeholderMask, writer, reader)
	}
}

// JobChunkProducer builds the Producer for a job's selective chunk. A
// job's chunk always renders through the masked-range rule against its
// segment, regardless of that segment's own kind: this is what keeps a
// job's placeholder-padded layout correct even when it's a job on an
// otherwise-contiguous RANGE segment.
func JobChunkProducer(task *model.Task, segment *model.Segment, chunkNumber int, writer chunkwriter.Writer, reader mediareader.Reader) Producer {
	return func(ctx context.Context) ([]byte, string, error) {
		windowFrames, placeholderMask, err := maskedRangeChunkWindow(task, segment, chunkNumber)
		if err != nil {
			return nil, "", err
		}
		return assembleChunk(ctx, windowFrames, placeholderMask, writer, reader)
	}
}

// assembleChunk reads the real (non-placeholder) frames in windowFrames
// through reader and hands the full, ordered frame set — placeholders
// included — to writer.
func assembleChunk(ctx context.Context, windowFrames []int, placeholderMask []bool, writer chunkwriter.Writer, reader mediareader.Reader) ([]byte, string, error) {
	var realFrames []int
	for i, fn := range windowFrames {
		if !placeholderMask[i] {
			realFrames = append(realFrames, fn)
		}
	}

	read, err := reader.ReadFrames(ctx, realFrames)
	if err != nil {
		return nil, "", err
	}
	byFrame := make(map[int]mediareader.Frame, len(read))
	for _, f := range read {
		byFrame[f.FrameNumber] = f
	}

	frames := make([]mediareader.Frame, len(windowFrames))
	for i, fn := range windowFrames {
		if placeholderMask[i] {
			frames[i] = mediareader.Frame{FrameNumber: fn, IsPlaceholder: true}
			continue
		}
		f, ok := byFrame[fn]
		if !ok {
			return nil, "", fmt.Errorf("reader did not return frame %d: %w", fn, model.ErrMediaDecode)
		}
		frames[i] = f
	}

	return writer.Write(ctx, frames)
}

// segmentChunkWindow returns, for chunkNumber within segment, the ordered
// task-absolute frame numbers the chunk spans and a parallel mask marking
// which of those positions are not part of the segment (and must be
// rendered as placeholders rather than fetched from the reader).
func segmentChunkWindow(task *model.Task, segment *model.Segment, chunkNumber int) (frames []int, placeholderMask []bool, err error) {
	switch segment.Kind {
	case model.SegmentRange:
		start, stop := model.ChunkFrameRange(task, chunkNumber)
		if start < segment.StartFrame {
			start = segment.StartFrame
		}
		if stop > segment.StopFrame {
			stop = segment.StopFrame
		}
		if start > stop {
			return nil, nil, fmt.Errorf("chunk %d is outside segment %d bounds: %w", chunkNumber, segment.ID, model.ErrInvalidArgument)
		}
		step := task.FrameStep
		if step <= 0 {
			step = 1
		}
		for f := start; f <= stop; f += step {
			frames = append(frames, f)
			placeholderMask = append(placeholderMask, false)
		}
		return frames, placeholderMask, nil

	case model.SegmentSpecificFrames:
		return maskedRangeChunkWindow(task, segment, chunkNumber)

	default:
		return nil, nil, fmt.Errorf("unknown segment kind %q: %w", segment.Kind, model.ErrInvalidState)
	}
}

// materializedFrameSet returns the sorted, full list of task-absolute
// frame numbers segment covers: the frame_step-stepped range for a RANGE
// segment, or the explicit frame set for a SPECIFIC_FRAMES segment.
func materializedFrameSet(task *model.Task, segment *model.Segment) []int {
	if segment.Kind == model.SegmentSpecificFrames {
		sorted := append([]int(nil), segment.Frames...)
		sort.Ints(sorted)
		return sorted
	}
	step := task.FrameStep
	if step <= 0 {
		step = 1
	}
	var frames []int
	for f := segment.StartFrame; f <= segment.StopFrame; f += step {
		frames = append(frames, f)
	}
	return frames
}

// maskedRangeChunkWindow builds chunkNumber's window using the
// masked-range rule: chunk_size contiguous task-grid slots starting at
// start_frame + chunk_number*chunk_size*frame_step and stepped by frame_step,
// stopping once a slot's frame id exceeds the task's stop frame. A slot
// is only ever filled from source media if its frame id falls within
// this chunk's own slice of the segment's (sorted) frame set; every
// other slot is rendered as a placeholder. This is the rule both
// SPECIFIC_FRAMES segment chunks and job chunks render through,
// regardless of the job's own segment kind.
func maskedRangeChunkWindow(task *model.Task, segment *model.Segment, chunkNumber int) (frames []int, placeholderMask []bool, err error) {
	if chunkNumber < 0 {
		return nil, nil, fmt.Errorf("chunk number %d is negative: %w", chunkNumber, model.ErrInvalidArgument)
	}
	chunkSize := task.ChunkSize
	if chunkSize <= 0 {
		return nil, nil, fmt.Errorf("task %d has non-positive chunk size: %w", task.ID, model.ErrInvalidState)
	}
	step := task.FrameStep
	if step <= 0 {
		step = 1
	}

	all := materializedFrameSet(task, segment)
	lo := chunkSize * chunkNumber
	if lo >= len(all) {
		return nil, nil, fmt.Errorf("chunk %d is outside segment %d bounds: %w", chunkNumber, segment.ID, model.ErrInvalidArgument)
	}
	hi := lo + chunkSize
	if hi > len(all) {
		hi = len(all)
	}
	member := make(map[int]bool, hi-lo)
	for _, f := range all[lo:hi] {
		member[f] = true
	}

	for i := 0; i < chunkSize; i++ {
		frameIdx := task.StartFrame + (chunkNumber*chunkSize+i)*step
		if frameIdx > task.StopFrame {
			break
		}
		frames = append(frames, frameIdx)
		placeholderMask = append(placeholderMask, !member[frameIdx])
	}
	return frames, placeholderMask, nil
}

// SelectiveJobChunk returns a job's chunk at chunkNumber, caching it under
// the job_ key family so a job's masked-range rendering never collides
// with its segment's own (possibly unmasked) chunk cache entry.
func SelectiveJobChunk(ctx context.Context, cache *Cache, jobID int64, task *model.Task, segment *model.Segment, chunkNumber int, quality model.Quality, writer chunkwriter.Writer, reader mediareader.Reader) ([]byte, string, error) {
	key := JobChunkKey(jobID, chunkNumber, string(quality))
	return cache.GetOrSet(ctx, key, JobChunkProducer(task, segment, chunkNumber, writer, reader))
}

// FrameOffsetInChunk returns frameNumber's 0-based position within
// chunkNumber's window, for callers (the Frame Provider) that need to
// pull one frame back out of an already-produced chunk.
func FrameOffsetInChunk(task *model.Task, segment *model.Segment, chunkNumber int, frameNumber int) (int, error) {
	frames, _, err := segmentChunkWindow(task, segment, chunkNumber)
	if err != nil {
		return 0, err
	}
	for i, f := range frames {
		if f == frameNumber {
			return i, nil
		}
	}
	return 0, fmt.Errorf("frame %d not in chunk %d: %w", frameNumber, chunkNumber, model.ErrInvalidArgument)
}
