package frameprovider

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/frameforge/mediacore/internal/model"
	"github.com/frameforge/mediacore/internal/util"
)

// extractFromArchive pulls the offset-th entry (0-based, in archive
// order) out of a ZIP-encoded chunk.
func extractFromArchive(chunkBytes []byte, offset int) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(chunkBytes), int64(len(chunkBytes)))
	if err != nil {
		return nil, fmt.Errorf("opening chunk archive: %w", model.ErrMediaDecode)
	}
	if offset < 0 || offset >= len(r.File) {
		return nil, fmt.Errorf("frame offset %d outside chunk with %d entries: %w", offset, len(r.File), model.ErrInvalidArgument)
	}
	f, err := r.File[offset].Open()
	if err != nil {
		return nil, fmt.Errorf("opening chunk archive entry: %w", model.ErrMediaDecode)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading chunk archive entry: %w", model.ErrMediaDecode)
	}
	return data, nil
}

// extractFromVideo decodes the offset-th frame (0-based) out of an MP4
// chunk by writing it to a scratch file and re-invoking ffmpeg with a
// select filter, the same decode idiom the Media Reader's video backend
// uses for reading source media.
func extractFromVideo(ctx context.Context, chunkBytes []byte, offset int) ([]byte, error) {
	scratch, err := util.CreateTempFile(os.TempDir(), "chunk_extract", "mp4")
	if err != nil {
		return nil, fmt.Errorf("creating scratch file: %w", model.ErrMediaDecode)
	}
	defer scratch.Cleanup()

	if _, err := scratch.Write(chunkBytes); err != nil {
		return nil, fmt.Errorf("writing scratch chunk file: %w", model.ErrMediaDecode)
	}
	if err := scratch.Close(); err != nil {
		return nil, fmt.Errorf("closing scratch chunk file: %w", model.ErrMediaDecode)
	}

	//nolint:gosec // scratch path is our own temp file; offset is caller-validated.
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-i", scratch.Path(),
		"-vf", "select='eq(n\\,"+strconv.Itoa(offset)+")'",
		"-vframes", "1",
		"-f", "image2",
		"-vcodec", "png",
		"-",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame extraction failed: %w: %s", model.ErrMediaDecode, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("frame offset %d not found in chunk: %w", offset, model.ErrNotFound)
	}
	return stdout.Bytes(), nil
}

// decodeToResult turns a frame's raw bytes (JPEG for an archive-sourced
// frame, PNG for a video-sourced one) into the requested Encoding.
func decodeToResult(data []byte, mime string, encoding Encoding) (FrameResult, error) {
	switch encoding {
	case "", EncodingRawBytes:
		return FrameResult{Encoding: EncodingRawBytes, Bytes: data, Mime: mime}, nil
	case EncodingDecodedImage, EncodingPixelBuffer:
		img, err := decodeSource(data, mime)
		if err != nil {
			return FrameResult{}, fmt.Errorf("decoding frame: %w", model.ErrMediaDecode)
		}
		b := img.Bounds()
		if encoding == EncodingDecodedImage {
			var out bytes.Buffer
			if err := jpeg.Encode(&out, img, nil); err != nil {
				return FrameResult{}, fmt.Errorf("re-encoding decoded frame: %w", model.ErrMediaDecode)
			}
			return FrameResult{Encoding: EncodingDecodedImage, Bytes: out.Bytes(), Mime: "image/jpeg", Width: b.Dx(), Height: b.Dy()}, nil
		}
		return FrameResult{Encoding: EncodingPixelBuffer, Pixels: toBGR(img), Mime: "application/octet-stream", Width: b.Dx(), Height: b.Dy()}, nil
	default:
		return FrameResult{}, fmt.Errorf("unknown encoding %q: %w", encoding, model.ErrInvalidArgument)
	}
}

func decodeSource(data []byte, mime string) (image.Image, error) {
	if mime == "image/png" {
		return png.Decode(bytes.NewReader(data))
	}
	return jpeg.Decode(bytes.NewReader(data))
}

// toBGR flattens img into a row-major, 3-bytes-per-pixel BGR buffer, the
// channel order numeric-processing callers expect (the Go stand-in for
// CVAT's NUMPY_ARRAY output, which always returns BGR regardless of
// source format).
func toBGR(img image.Image) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			out = append(out, byte(bl>>8), byte(g>>8), byte(r>>8))
		}
	}
	return out
}
