// Package mediareader abstracts reading source frames from the three
// backends a task's media can live on: a decoded video file, local/share
// filesystem images, and cloud-stored images fetched through a BlobStore.
package mediareader

import (
	"context"

	"github.com/frameforge/mediacore/internal/model"
)

// Frame is one source frame's bytes as read from the backend, still in
// whatever encoding the backend naturally produces (the stored file bytes
// for image backends, MJPEG-encoded JPEG bytes for the video backend).
type Frame struct {
	FrameNumber   int
	Data          []byte
	Mime          string
	Width         int
	Height        int
	IsPlaceholder bool
}

// Reader yields an ordered sequence of frames for a task, honoring the
// task's frame filter (start/stop/step). Implementations must release
// every scoped resource (open files, decoder pipes, downloaded temp
// files) no later than ctx.Done() or the return of ReadFrames.
type Reader interface {
	ReadFrames(ctx context.Context, frameNumbers []int) ([]Frame, error)
	Close() error
}

// New selects the backend Reader for a task: video decode for
// model.ChunkTypeVideo, local files for an on-disk task without a cloud
// binding, or the cloud backend when CloudBinding is set.
func New(t *model.Task, deps Deps) (Reader, error) {
	if t.CloudBinding != nil {
		return newCloudReader(t, deps)
	}
	if t.ChunkType == model.ChunkTypeVideo {
		return newVideoReader(t, deps)
	}
	return newLocalImageReader(t, deps)
}
