package mediacache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"

	"github.com/frameforge/mediacore/internal/blobstore"
	"github.com/frameforge/mediacore/internal/mediareader"
	"github.com/frameforge/mediacore/internal/model"
)

// PreviewMaxDim bounds a thumbnail's longest edge.
const PreviewMaxDim = 256

// SegmentPreviewProducer builds a thumbnail from the segment's first
// frame.
func SegmentPreviewProducer(segment *model.Segment, reader mediareader.Reader) Producer {
	return func(ctx context.Context) ([]byte, string, error) {
		first := segment.StartFrame
		if segment.Kind == model.SegmentSpecificFrames && len(segment.Frames) > 0 {
			first = segment.Frames[0]
		}
		frames, err := reader.ReadFrames(ctx, []int{first})
		if err != nil {
			return nil, "", err
		}
		if len(frames) == 0 {
			return nil, "", fmt.Errorf("no frames available for segment %d preview: %w", segment.ID, model.ErrNotFound)
		}
		return thumbnail(frames[0].Data)
	}
}

// CloudStoragePreviewProducer fetches one representative object from a
// cloud storage binding and thumbnails it, used to render a manifest-free
// "what does this bucket contain" preview in the UI.
func CloudStoragePreviewProducer(store blobstore.Store, sampleKey string) Producer {
	return func(ctx context.Context) ([]byte, string, error) {
		rc, err := store.Get(ctx, sampleKey)
		if err != nil {
			return nil, "", err
		}
		defer rc.Close()
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(rc); err != nil {
			return nil, "", fmt.Errorf("reading cloud sample object: %w", model.ErrStorage)
		}
		return thumbnail(buf.Bytes())
	}
}

// thumbnail decodes a JPEG and scales it down to at most PreviewMaxDim on
// its longest edge using golang.org/x/image/draw's bilinear scaler.
func thumbnail(data []byte) ([]byte, string, error) {
	src, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding source image: %w", model.ErrMediaDecode)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, "", fmt.Errorf("zero-sized source image: %w", model.ErrMediaDecode)
	}
	scale := 1.0
	if w > h && w > PreviewMaxDim {
		scale = float64(PreviewMaxDim) / float64(w)
	} else if h >= w && h > PreviewMaxDim {
		scale = float64(PreviewMaxDim) / float64(h)
	}
	dstW, dstH := int(float64(w)*scale), int(float64(h)*scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, "", fmt.Errorf("encoding thumbnail: %w", model.ErrChunkWrite)
	}
	return out.Bytes(), "image/jpeg", nil
}
