package mediareader

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/frameforge/mediacore/internal/model"
	"github.com/frameforge/mediacore/internal/repo"
	"github.com/frameforge/mediacore/internal/util"
)

// localImageReader reads task frames that are plain files on local or
// mounted share storage, reading the files in parallel up to a memory-capped
// worker count — the same capping strategy the teacher applies to its
// encode workers, here applied to concurrent file reads instead.
type localImageReader struct {
	task   *model.Task
	images repo.ImageRepository
}

func newLocalImageReader(t *model.Task, deps Deps) (Reader, error) {
	if deps.Images == nil {
		return nil, fmt.Errorf("local image reader requires an ImageRepository: %w", model.ErrInvalidArgument)
	}
	return &localImageReader{task: t, images: deps.Images}, nil
}

func (r *localImageReader) ReadFrames(ctx context.Context, frameNumbers []int) ([]Frame, error) {
	frames := make([]Frame, len(frameNumbers))

	workers, _ := util.CapWorkers(util.PhysicalCores(), 1920, 1080)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, fn := range frameNumbers {
		i, fn := i, fn
		g.Go(func() error {
			desc, err := r.images.Frame(gctx, r.task.ID, fn)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(desc.Path)
			if err != nil {
				return fmt.Errorf("reading frame %d at %s: %w", fn, desc.Path, model.ErrMediaDecode)
			}
			frames[i] = Frame{
				FrameNumber: fn,
				Data:        data,
				Mime:        mimeForExt(desc.Path),
				Width:       desc.Width,
				Height:      desc.Height,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}

func (r *localImageReader) Close() error { return nil }

func mimeForExt(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			switch path[i+1:] {
			case "jpg", "jpeg":
				return "image/jpeg"
			case "png":
				return "image/png"
			case "bmp":
				return "image/bmp"
			case "webp":
				return "image/webp"
			}
			break
		}
	}
	return "application/octet-stream"
}
