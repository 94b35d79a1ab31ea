// Package chunkwriter produces chunk bytes for the four (chunk_type,
// quality) combinations: video-original, video-compressed,
// archive-original, archive-compressed.
package chunkwriter

import (
	"context"
	"fmt"

	"github.com/frameforge/mediacore/internal/mediareader"
	"github.com/frameforge/mediacore/internal/model"
)

// Options tunes how a chunk is produced; zero value is sane for 2D tasks.
type Options struct {
	Dimension     model.Dimension
	ImageQuality  int  // 1-100, used by archive-compressed's recompress path
	StoreOnly     bool // archive-compressed: store bytes as-is at low deflate effort instead of recompressing
	FrameRate     float64
}

// Writer produces one chunk's bytes from an ordered sequence of frames,
// including placeholder frames for masked ranges in SPECIFIC_FRAMES
// segments (§ placeholder rule: a 1x1 RGB image/frame stands in for any
// source frame that isn't part of the segment's explicit frame set).
type Writer interface {
	Write(ctx context.Context, frames []mediareader.Frame) ([]byte, string, error) // returns bytes, mime type
}

// ForQuality returns the Writer for the given (chunkType, quality)
// combination.
func ForQuality(chunkType model.ChunkType, quality model.Quality, opts Options) (Writer, error) {
	switch {
	case chunkType == model.ChunkTypeVideo && quality == model.QualityOriginal:
		return &videoWriter{opts: opts, original: true}, nil
	case chunkType == model.ChunkTypeVideo && quality == model.QualityCompressed:
		return &videoWriter{opts: opts, original: false}, nil
	case chunkType == model.ChunkTypeImageSet && quality == model.QualityOriginal:
		return &archiveWriter{opts: opts, original: true}, nil
	case chunkType == model.ChunkTypeImageSet && quality == model.QualityCompressed:
		return &archiveWriter{opts: opts, original: false}, nil
	default:
		return nil, fmt.Errorf("no writer for chunk type %q quality %q: %w", chunkType, quality, model.ErrInvalidArgument)
	}
}

// PlaceholderRGB is the 1x1 pixel value used to synthesize a frame for a
// masked position in a SPECIFIC_FRAMES segment's chunk.
var PlaceholderRGB = [3]byte{0, 0, 0}
