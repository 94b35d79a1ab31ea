package chunkwriter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/frameforge/mediacore/internal/mediareader"
	"github.com/frameforge/mediacore/internal/model"
	"github.com/frameforge/mediacore/internal/util"
)

// videoWriter muxes a sequence of already-decoded JPEG frames into an MP4
// container via ffmpeg, following the teacher's concat-then-mux idiom
// (internal/chunk's MergeOutput): write frames to a scratch directory,
// build an ffmpeg command, capture stderr for error context.
type videoWriter struct {
	opts     Options
	original bool
}

func (w *videoWriter) Write(ctx context.Context, frames []mediareader.Frame) ([]byte, string, error) {
	if len(frames) == 0 {
		return nil, "", fmt.Errorf("no frames to write: %w", model.ErrInvalidArgument)
	}

	scratch, err := util.CreateTempDir(os.TempDir(), "chunkwriter_video")
	if err != nil {
		return nil, "", fmt.Errorf("creating scratch dir: %w", model.ErrChunkWrite)
	}
	defer scratch.Cleanup()

	for i, f := range frames {
		data := f.Data
		if f.IsPlaceholder {
			data = PlaceholderJPEG()
		}
		path := filepath.Join(scratch.Path(), fmt.Sprintf("%06d.jpg", i))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, "", fmt.Errorf("writing frame %d: %w", f.FrameNumber, model.ErrChunkWrite)
		}
	}

	outPath := filepath.Join(scratch.Path(), "chunk.mp4")
	fps := w.opts.FrameRate
	if fps <= 0 {
		fps = 25
	}

	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-framerate", fmt.Sprintf("%.6f", fps),
		"-i", filepath.Join(scratch.Path(), "%06d.jpg"),
	}
	if w.original {
		// Original tier: the per-frame JPEGs are re-encoded as MJPEG at the
		// highest quality scale (-q:v 1); this is not a lossless remux.
		args = append(args, "-c:v", "mjpeg", "-q:v", "1")
	} else {
		crf := qualityToCRF(w.opts.ImageQuality)
		args = append(args, "-c:v", "libx264", "-pix_fmt", "yuv420p", "-crf", fmt.Sprintf("%d", crf))
	}
	args = append(args, "-movflags", "+faststart", outPath)

	//nolint:gosec // args are built entirely from trusted task configuration, not request input.
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, "", fmt.Errorf("ffmpeg mux failed: %w: %s", model.ErrChunkWrite, stderr.String())
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, "", fmt.Errorf("reading muxed chunk: %w", model.ErrChunkWrite)
	}
	return out, "video/mp4", nil
}

// qualityToCRF maps a 1-100 image quality setting onto a roughly
// corresponding libx264 CRF value (lower CRF = higher quality).
func qualityToCRF(imageQuality int) int {
	if imageQuality <= 0 {
		imageQuality = 70
	}
	crf := 51 - (imageQuality*41)/100
	if crf < 10 {
		crf = 10
	}
	if crf > 51 {
		crf = 51
	}
	return crf
}
