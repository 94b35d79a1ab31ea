// Package model holds the data types shared by every component of the
// media chunking and frame-serving core: tasks, segments, jobs, chunk
// addressing, and the sentinel error kinds components wrap.
package model

import "fmt"

// Dimension distinguishes 2D (image/video) tasks from 3D (point cloud) tasks.
type Dimension string

const (
	Dim2D Dimension = "2d"
	Dim3D Dimension = "3d"
)

// ChunkType selects the container family a task's chunks are written in.
type ChunkType string

const (
	ChunkTypeVideo    ChunkType = "video"
	ChunkTypeImageSet ChunkType = "imageset"
)

// Quality selects which chunk tier is requested.
type Quality string

const (
	QualityOriginal   Quality = "original"
	QualityCompressed Quality = "compressed"
)

// SegmentKind distinguishes a contiguous frame range from an explicit,
// possibly non-contiguous, set of frame numbers (used by honeypot/ground
// truth jobs and by consensus-merged segments).
type SegmentKind string

const (
	SegmentRange          SegmentKind = "range"
	SegmentSpecificFrames SegmentKind = "specific_frames"
)

// CloudProvider identifies which BlobStore backend a CloudBinding targets.
type CloudProvider string

const (
	ProviderGCS   CloudProvider = "gcs"
	ProviderAzure CloudProvider = "azure"
)

// CloudBinding describes where a task's source media lives when it is
// attached to cloud storage instead of being imported onto local/share
// storage.
type CloudBinding struct {
	Provider   CloudProvider
	Bucket     string
	Prefix     string
	ManifestID string
}

// Task is the top-level media unit: one set of source frames, one chunk
// size, and one image-quality setting shared by every segment under it.
type Task struct {
	ID           int64
	Dimension    Dimension
	ChunkType    ChunkType
	ChunkSize    int
	ImageQuality int // 1-100, jpeg-style quality used by compressed writers
	StartFrame   int
	StopFrame    int
	FrameFilter  string // e.g. "step=2"; 0/1 means every frame
	FrameStep    int
	CloudBinding *CloudBinding // nil for local/share storage
	UseCache     bool
}

// Segment is a contiguous or explicit subset of a task's frames, assigned
// to one or more jobs.
type Segment struct {
	ID         int64
	TaskID     int64
	Kind       SegmentKind
	StartFrame int
	StopFrame  int   // inclusive; meaningful only for SegmentRange
	Frames     []int // explicit frame numbers; meaningful only for SegmentSpecificFrames
}

// Job is a unit of annotation work bound to exactly one segment.
type Job struct {
	ID        int64
	SegmentID int64
}

// FrameCount returns how many source frames a segment actually covers.
func (s *Segment) FrameCount() int {
	if s.Kind == SegmentSpecificFrames {
		return len(s.Frames)
	}
	return s.StopFrame - s.StartFrame + 1
}

// ChunkNumber returns the chunk number that contains source frame
// frameNumber, per the task's chunk addressing rule:
//
//	chunk_number(f) = (f - start_frame) / (frame_step * chunk_size)
//
// frameNumber is a task-absolute frame number (not segment-relative).
func ChunkNumber(t *Task, frameNumber int) (int, error) {
	step := t.FrameStep
	if step <= 0 {
		step = 1
	}
	if frameNumber < t.StartFrame || frameNumber > t.StopFrame {
		return 0, fmt.Errorf("frame %d outside task bounds [%d,%d]: %w", frameNumber, t.StartFrame, t.StopFrame, ErrInvalidArgument)
	}
	if t.ChunkSize <= 0 {
		return 0, fmt.Errorf("task %d has non-positive chunk size: %w", t.ID, ErrInvalidState)
	}
	return (frameNumber - t.StartFrame) / (step * t.ChunkSize), nil
}

// ValidateChunkNumber checks that chunkNumber is addressable for the given
// task, i.e. within [0, last chunk].
func ValidateChunkNumber(t *Task, chunkNumber int) error {
	if chunkNumber < 0 {
		return fmt.Errorf("chunk number %d is negative: %w", chunkNumber, ErrInvalidArgument)
	}
	last, err := ChunkNumber(t, t.StopFrame)
	if err != nil {
		return err
	}
	if chunkNumber > last {
		return fmt.Errorf("chunk number %d exceeds last chunk %d for task %d: %w", chunkNumber, last, t.ID, ErrInvalidArgument)
	}
	return nil
}

// ChunkFrameRange returns the [start, stop] task-absolute frame numbers
// that belong to chunkNumber, before accounting for frame_step/filter.
// The caller is expected to further restrict this range to frames that
// actually pass the task's frame filter.
func ChunkFrameRange(t *Task, chunkNumber int) (start, stop int) {
	step := t.FrameStep
	if step <= 0 {
		step = 1
	}
	span := step * t.ChunkSize
	start = t.StartFrame + chunkNumber*span
	stop = start + span - step
	if stop > t.StopFrame {
		stop = t.StopFrame
	}
	return start, stop
}

// GetChunkNumber reproduces the task-level chunk lookup exactly as the
// frame provider exposes it: deliberately ignoring start_frame/frame_step
// when resolving which chunk a task-relative frame index falls in. This
// mirrors the original source's behavior and is a carried-forward quirk,
// not a bug: task-relative indices are 0-based positions into the full
// ordered frame list, not source frame numbers.
func GetChunkNumber(chunkSize int, frameIndex int) (int, error) {
	if chunkSize <= 0 {
		return 0, fmt.Errorf("non-positive chunk size %d: %w", chunkSize, ErrInvalidState)
	}
	if frameIndex < 0 {
		return 0, fmt.Errorf("negative frame index %d: %w", frameIndex, ErrInvalidArgument)
	}
	return frameIndex / chunkSize, nil
}
