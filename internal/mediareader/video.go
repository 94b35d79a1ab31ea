package mediareader

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/frameforge/mediacore/internal/manifest"
	"github.com/frameforge/mediacore/internal/model"
)

// videoReader decodes specific frames out of a single video file by
// shelling out to ffmpeg, the same os/exec idiom the teacher uses for
// every media-processing step rather than a cgo decoder binding.
type videoReader struct {
	task       *model.Task
	sourcePath string
	manifest   manifest.Reader // nil falls back to linear decode from the start
}

func newVideoReader(t *model.Task, deps Deps) (Reader, error) {
	if deps.SourcePath == "" {
		return nil, fmt.Errorf("video reader requires a source path: %w", model.ErrInvalidArgument)
	}
	return &videoReader{task: t, sourcePath: deps.SourcePath, manifest: deps.Manifest}, nil
}

// ReadFrames decodes exactly the requested, ascending frame numbers. It
// builds one ffmpeg invocation selecting all of them via a select filter
// and splits the resulting MJPEG stream, rather than spawning one process
// per frame. When a manifest is available, decoding seeks to the nearest
// preceding keyframe instead of scanning from the start of the stream.
func (r *videoReader) ReadFrames(ctx context.Context, frameNumbers []int) ([]Frame, error) {
	if len(frameNumbers) == 0 {
		return nil, nil
	}

	args := []string{"-hide_banner", "-loglevel", "error"}
	if r.manifest != nil {
		if kf, ok, err := r.manifest.NearestKeyframe(ctx, frameNumbers[0]); err == nil && ok {
			seconds := float64(kf.PTS) / 1e6
			args = append(args, "-ss", strconv.FormatFloat(seconds, 'f', 6, 64))
		}
	}
	filter := buildSelectFilter(frameNumbers)
	args = append(args,
		"-i", r.sourcePath,
		"-vf", filter,
		"-vsync", "0",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-",
	)
	//nolint:gosec // sourcePath and filter are built from trusted task/config state, not request input.
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg decode failed: %w: %s", model.ErrMediaDecode, stderr.String())
	}

	jpegs := splitJPEGStream(stdout.Bytes())
	if len(jpegs) != len(frameNumbers) {
		return nil, fmt.Errorf("ffmpeg produced %d frames, expected %d: %w", len(jpegs), len(frameNumbers), model.ErrMediaDecode)
	}

	frames := make([]Frame, len(frameNumbers))
	for i, fn := range frameNumbers {
		frames[i] = Frame{FrameNumber: fn, Data: jpegs[i], Mime: "image/jpeg"}
	}
	return frames, nil
}

func (r *videoReader) Close() error { return nil }

// buildSelectFilter constructs an ffmpeg select expression matching
// exactly the given (ascending) frame indices.
func buildSelectFilter(frameNumbers []int) string {
	parts := make([]string, len(frameNumbers))
	for i, fn := range frameNumbers {
		parts[i] = "eq(n\\," + strconv.Itoa(fn) + ")"
	}
	return "select='" + strings.Join(parts, "+") + "'"
}

var jpegSOI = []byte{0xFF, 0xD8}
var jpegEOI = []byte{0xFF, 0xD9}

// splitJPEGStream splits a concatenated sequence of JPEG images (as
// produced by ffmpeg's image2pipe muxer) into individual frame byte
// slices.
func splitJPEGStream(data []byte) [][]byte {
	var frames [][]byte
	for len(data) > 0 {
		start := bytes.Index(data, jpegSOI)
		if start < 0 {
			break
		}
		end := bytes.Index(data[start:], jpegEOI)
		if end < 0 {
			break
		}
		end += start + len(jpegEOI)
		frames = append(frames, data[start:end])
		data = data[end:]
	}
	return frames
}
