package frameprovider

import (
	"context"
	"fmt"
	"sort"

	"github.com/frameforge/mediacore/internal/chunkwriter"
	"github.com/frameforge/mediacore/internal/mediacache"
	"github.com/frameforge/mediacore/internal/mediareader"
	"github.com/frameforge/mediacore/internal/model"
)

// segmentProvider is the minimal surface TaskFrameProvider needs from a
// per-segment provider, satisfied by SegmentFrameProvider.
type segmentProvider interface {
	GetChunk(ctx context.Context, chunkNumber int) (ChunkResult, error)
	GetFrame(ctx context.Context, frameNumber int, encoding Encoding) (FrameResult, error)
}

// TaskFrameProvider serves the task's full frame range by routing each
// request to whichever underlying segment owns that frame, and — when a
// requested task-level chunk spans more than one segment — synthesizing a
// joined chunk on the fly. Joined chunks are never written to the Media
// Cache: they are rebuilt on each request by reading every frame through
// its owning segment's provider and writing a fresh container, and
// caching them would duplicate bytes already held per-segment.
type TaskFrameProvider struct {
	task     *model.Task
	segments []*model.Segment // ordered by StartFrame, covering the task
	byID     map[int64]segmentProvider
	writer   chunkwriter.Writer
}

// NewTaskFrameProvider builds a task-level provider. providers must
// contain one entry per segment in segments, keyed by segment id, already
// constructed at the desired quality.
func NewTaskFrameProvider(task *model.Task, segments []*model.Segment, providers map[int64]*SegmentFrameProvider, writer chunkwriter.Writer) *TaskFrameProvider {
	sorted := append([]*model.Segment(nil), segments...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartFrame < sorted[j].StartFrame })

	byID := make(map[int64]segmentProvider, len(providers))
	for id, p := range providers {
		byID[id] = p
	}
	return &TaskFrameProvider{task: task, segments: sorted, byID: byID, writer: writer}
}

// segmentFor returns the segment (and its provider) owning frameNumber,
// per the carried-forward quirk that task-level frame resolution walks
// segment boundaries directly rather than going back through the chunk
// addressing formula.
func (p *TaskFrameProvider) segmentFor(frameNumber int) (*model.Segment, segmentProvider, error) {
	for _, s := range p.segments {
		if s.Kind == model.SegmentRange && frameNumber >= s.StartFrame && frameNumber <= s.StopFrame {
			return s, p.byID[s.ID], nil
		}
		if s.Kind == model.SegmentSpecificFrames {
			for _, f := range s.Frames {
				if f == frameNumber {
					return s, p.byID[s.ID], nil
				}
			}
		}
	}
	return nil, nil, fmt.Errorf("frame %d not covered by any segment of task %d: %w", frameNumber, p.task.ID, model.ErrNotFound)
}

// GetFrame resolves frameNumber to its owning segment and serves it from
// that segment's provider.
func (p *TaskFrameProvider) GetFrame(ctx context.Context, frameNumber int, encoding Encoding) (FrameResult, error) {
	_, sp, err := p.segmentFor(frameNumber)
	if err != nil {
		return FrameResult{}, err
	}
	return sp.GetFrame(ctx, frameNumber, encoding)
}

// GetChunkNumber resolves a task-relative frame index to its task-level
// chunk number. It deliberately ignores start_frame and frame_step: per
// the carried-forward behavior this core preserves, frameIndex here is a
// 0-based position into the task's ordered frame list, not a source frame
// number, so the task chunk size alone determines the chunk.
func (p *TaskFrameProvider) GetChunkNumber(frameIndex int) (int, error) {
	return model.GetChunkNumber(p.task.ChunkSize, frameIndex)
}

// GetChunk returns chunkNumber's bytes for the whole task. If the chunk's
// frame window lies entirely within one segment, it is served straight
// from that segment's own (cached) chunk. Otherwise it is assembled by
// reading each covered segment's frames for its portion of the window and
// writing them through writer, without ever storing the joined result in
// the Media Cache.
func (p *TaskFrameProvider) GetChunk(ctx context.Context, chunkNumber int) (ChunkResult, error) {
	if err := model.ValidateChunkNumber(p.task, chunkNumber); err != nil {
		return ChunkResult{}, err
	}
	start, stop := model.ChunkFrameRange(p.task, chunkNumber)

	covering := p.segmentsCovering(start, stop)
	if len(covering) == 1 && segmentFullyContains(covering[0], start, stop) {
		return p.byID[covering[0].ID].GetChunk(ctx, segmentLocalChunkNumber(p.task, covering[0], chunkNumber))
	}

	return p.joinChunk(ctx, start, stop, covering)
}

func (p *TaskFrameProvider) segmentsCovering(start, stop int) []*model.Segment {
	var out []*model.Segment
	for _, s := range p.segments {
		if s.Kind != model.SegmentRange {
			continue
		}
		if s.StopFrame < start || s.StartFrame > stop {
			continue
		}
		out = append(out, s)
	}
	return out
}

func segmentFullyContains(s *model.Segment, start, stop int) bool {
	return s.StartFrame <= start && s.StopFrame >= stop
}

func segmentLocalChunkNumber(task *model.Task, segment *model.Segment, taskChunkNumber int) int {
	// A RANGE segment's own chunk numbering shares the task's addressing
	// formula when the segment fully contains a task chunk, so the
	// numbers coincide; kept as a named conversion point in case a future
	// segment type renumbers chunks from its own origin.
	_ = segment
	return taskChunkNumber
}

// joinChunk reads every frame in [start, stop] from whichever segment
// owns it and writes the combined sequence through p.writer.
func (p *TaskFrameProvider) joinChunk(ctx context.Context, start, stop int, covering []*model.Segment) (ChunkResult, error) {
	if len(covering) == 0 {
		return ChunkResult{}, fmt.Errorf("no segment covers task frame range [%d,%d]: %w", start, stop, model.ErrNotFound)
	}

	step := p.task.FrameStep
	if step <= 0 {
		step = 1
	}

	var allFrames []mediareader.Frame
	for f := start; f <= stop; f += step {
		_, sp, err := p.segmentFor(f)
		if err != nil {
			return ChunkResult{}, err
		}
		res, err := sp.GetFrame(ctx, f, EncodingRawBytes)
		if err != nil {
			return ChunkResult{}, err
		}
		allFrames = append(allFrames, mediareader.Frame{FrameNumber: f, Data: res.Bytes, Mime: res.Mime})
	}

	data, mime, err := p.writer.Write(ctx, allFrames)
	if err != nil {
		return ChunkResult{}, err
	}
	return ChunkResult{Bytes: data, Mime: mime}, nil
}
