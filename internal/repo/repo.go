// Package repo declares the external collaborator interfaces the core
// depends on for task/segment metadata and for resolving a frame number to
// a source file, plus simple in-memory implementations used by tests and
// by the framectl debug CLI against fixture data.
package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/frameforge/mediacore/internal/model"
)

// TaskRepository resolves task metadata by id.
type TaskRepository interface {
	GetTask(ctx context.Context, taskID int64) (*model.Task, error)
}

// SegmentRepository resolves segment and job metadata.
type SegmentRepository interface {
	GetSegment(ctx context.Context, segmentID int64) (*model.Segment, error)
	SegmentsForTask(ctx context.Context, taskID int64) ([]*model.Segment, error)
	JobSegment(ctx context.Context, jobID int64) (*model.Segment, error)
}

// ImageDescriptor is one source frame's on-disk identity.
type ImageDescriptor struct {
	FrameID  int
	Path     string // local/share path, or manifest-relative name for cloud
	Width    int
	Height   int
	Checksum string // md5 hex, populated for cloud-backed tasks
}

// ImageRepository lists and resolves a task's source frames, independent
// of where the bytes physically live.
type ImageRepository interface {
	FramesForTask(ctx context.Context, taskID int64) ([]ImageDescriptor, error)
	Frame(ctx context.Context, taskID int64, frameNumber int) (ImageDescriptor, error)
}

// MemoryTaskRepository is a fixture-backed TaskRepository.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[int64]*model.Task
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: make(map[int64]*model.Task)}
}

func (r *MemoryTaskRepository) Put(t *model.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = t
}

func (r *MemoryTaskRepository) GetTask(_ context.Context, taskID int64) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("task %d: %w", taskID, model.ErrNotFound)
	}
	return t, nil
}

// MemorySegmentRepository is a fixture-backed SegmentRepository.
type MemorySegmentRepository struct {
	mu       sync.RWMutex
	segments map[int64]*model.Segment
	jobs     map[int64]int64 // job id -> segment id
}

func NewMemorySegmentRepository() *MemorySegmentRepository {
	return &MemorySegmentRepository{
		segments: make(map[int64]*model.Segment),
		jobs:     make(map[int64]int64),
	}
}

func (r *MemorySegmentRepository) PutSegment(s *model.Segment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.segments[s.ID] = s
}

func (r *MemorySegmentRepository) PutJob(j *model.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[j.ID] = j.SegmentID
}

func (r *MemorySegmentRepository) GetSegment(_ context.Context, segmentID int64) (*model.Segment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.segments[segmentID]
	if !ok {
		return nil, fmt.Errorf("segment %d: %w", segmentID, model.ErrNotFound)
	}
	return s, nil
}

func (r *MemorySegmentRepository) SegmentsForTask(_ context.Context, taskID int64) ([]*model.Segment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Segment
	for _, s := range r.segments {
		if s.TaskID == taskID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartFrame < out[j].StartFrame })
	return out, nil
}

func (r *MemorySegmentRepository) JobSegment(_ context.Context, jobID int64) (*model.Segment, error) {
	r.mu.RLock()
	segID, ok := r.jobs[jobID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("job %d: %w", jobID, model.ErrNotFound)
	}
	return r.GetSegment(context.Background(), segID)
}

// MemoryImageRepository is a fixture-backed ImageRepository.
type MemoryImageRepository struct {
	mu     sync.RWMutex
	frames map[int64][]ImageDescriptor // task id -> frames, sorted by FrameID
}

func NewMemoryImageRepository() *MemoryImageRepository {
	return &MemoryImageRepository{frames: make(map[int64][]ImageDescriptor)}
}

func (r *MemoryImageRepository) PutFrames(taskID int64, frames []ImageDescriptor) {
	sort.Slice(frames, func(i, j int) bool { return frames[i].FrameID < frames[j].FrameID })
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames[taskID] = frames
}

func (r *MemoryImageRepository) FramesForTask(_ context.Context, taskID int64) ([]ImageDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	frames, ok := r.frames[taskID]
	if !ok {
		return nil, fmt.Errorf("task %d has no frames: %w", taskID, model.ErrNotFound)
	}
	return frames, nil
}

func (r *MemoryImageRepository) Frame(ctx context.Context, taskID int64, frameNumber int) (ImageDescriptor, error) {
	frames, err := r.FramesForTask(ctx, taskID)
	if err != nil {
		return ImageDescriptor{}, err
	}
	idx := sort.Search(len(frames), func(i int) bool { return frames[i].FrameID >= frameNumber })
	if idx >= len(frames) || frames[idx].FrameID != frameNumber {
		return ImageDescriptor{}, fmt.Errorf("frame %d not found in task %d: %w", frameNumber, taskID, model.ErrNotFound)
	}
	return frames[idx], nil
}
