package chunkwriter

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"context"
	"fmt"
	"image/jpeg"
	"io"

	"github.com/frameforge/mediacore/internal/mediareader"
	"github.com/frameforge/mediacore/internal/model"
)

// archiveWriter packs a sequence of frames into a ZIP archive: either the
// original bytes unmodified, or recompressed to the task's image_quality
// (or, in store-only mode, kept as-is and deflated at level 1, the
// lowest-effort compression level).
type archiveWriter struct {
	opts     Options
	original bool
}

func (w *archiveWriter) Write(_ context.Context, frames []mediareader.Frame) ([]byte, string, error) {
	if len(frames) == 0 {
		return nil, "", fmt.Errorf("no frames to write: %w", model.ErrInvalidArgument)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if w.opts.StoreOnly {
		zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, flate.BestSpeed)
		})
	}

	for i, f := range frames {
		data := f.Data
		mime := f.Mime
		if f.IsPlaceholder {
			data = PlaceholderJPEG()
			mime = "image/jpeg"
		} else if !w.original && w.opts.ImageQuality > 0 && !w.opts.StoreOnly {
			recompressed, err := recompressJPEG(data, w.opts.ImageQuality)
			if err == nil {
				data = recompressed
			}
			// A decode failure here falls through to storing the
			// original bytes rather than failing the whole chunk.
		}

		name := fmt.Sprintf("%06d.jpg", i)
		header := &zip.FileHeader{Name: name, Method: zip.Deflate}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return nil, "", fmt.Errorf("creating zip entry %s: %w", name, model.ErrChunkWrite)
		}
		if _, err := fw.Write(data); err != nil {
			return nil, "", fmt.Errorf("writing zip entry %s: %w", name, model.ErrChunkWrite)
		}
		_ = mime // mime is per-entry metadata the zip format doesn't carry; consumers infer it from the extension.
	}

	if err := zw.Close(); err != nil {
		return nil, "", fmt.Errorf("closing zip archive: %w", model.ErrChunkWrite)
	}
	return buf.Bytes(), "application/zip", nil
}

// recompressJPEG decodes and re-encodes data at the given 1-100 quality.
func recompressJPEG(data []byte, quality int) ([]byte, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
