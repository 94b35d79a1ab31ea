package frameprovider

import (
	"context"
	"fmt"

	"github.com/frameforge/mediacore/internal/chunkloader"
	"github.com/frameforge/mediacore/internal/chunkwriter"
	"github.com/frameforge/mediacore/internal/mediacache"
	"github.com/frameforge/mediacore/internal/mediareader"
	"github.com/frameforge/mediacore/internal/model"
)

// SegmentFrameProvider serves frames and chunks for exactly one segment.
// It is not safe for concurrent use by multiple goroutines: it holds at
// most one chunk resident via its Loader, so two callers requesting
// different chunks through the same instance would thrash. Distinct
// SegmentFrameProvider instances (e.g. one per request) are independent
// and safe to use concurrently.
type SegmentFrameProvider struct {
	task    *model.Task
	segment *model.Segment
	quality model.Quality
	cache   *mediacache.Cache
	reader  mediareader.Reader
	writer  chunkwriter.Writer
	loader  *chunkloader.Loader
}

// NewSegmentFrameProvider builds a provider bound to one segment and one
// quality tier; writer must already be the Writer for that tier (see
// chunkwriter.ForQuality). Serving both qualities for the same segment
// means constructing two providers.
func NewSegmentFrameProvider(task *model.Task, segment *model.Segment, quality model.Quality, cache *mediacache.Cache, reader mediareader.Reader, writer chunkwriter.Writer) *SegmentFrameProvider {
	p := &SegmentFrameProvider{task: task, segment: segment, quality: quality, cache: cache, reader: reader, writer: writer}
	p.loader = chunkloader.New(func(ctx context.Context, chunkID string) ([]byte, string, error) {
		chunkNumber, err := parseChunkIDSuffix(chunkID)
		if err != nil {
			return nil, "", err
		}
		return cache.GetOrSet(ctx, chunkID, mediacache.SegmentChunkProducer(task, segment, chunkNumber, writer, reader))
	})
	return p
}

func (p *SegmentFrameProvider) validateFrame(frameNumber int) error {
	switch p.segment.Kind {
	case model.SegmentRange:
		if frameNumber < p.segment.StartFrame || frameNumber > p.segment.StopFrame {
			return fmt.Errorf("frame %d outside segment %d range [%d,%d]: %w", frameNumber, p.segment.ID, p.segment.StartFrame, p.segment.StopFrame, model.ErrInvalidArgument)
		}
	case model.SegmentSpecificFrames:
		for _, f := range p.segment.Frames {
			if f == frameNumber {
				return nil
			}
		}
		return fmt.Errorf("frame %d not in segment %d's frame set: %w", frameNumber, p.segment.ID, model.ErrInvalidArgument)
	}
	return nil
}

// GetChunk returns chunkNumber's whole bytes, at the provider's bound
// quality tier.
func (p *SegmentFrameProvider) GetChunk(ctx context.Context, chunkNumber int) (ChunkResult, error) {
	if err := model.ValidateChunkNumber(p.task, chunkNumber); err != nil {
		return ChunkResult{}, err
	}
	chunkID := mediacache.SegmentChunkKey(p.segment.ID, chunkNumber, string(p.quality))
	if err := p.loader.Load(ctx, chunkID); err != nil {
		return ChunkResult{}, err
	}
	data, mime, err := p.loader.Bytes()
	if err != nil {
		return ChunkResult{}, err
	}
	return ChunkResult{Bytes: data, Mime: mime}, nil
}

// GetFrame returns one decoded frame, loading (or reusing) the chunk that
// contains it.
func (p *SegmentFrameProvider) GetFrame(ctx context.Context, frameNumber int, encoding Encoding) (FrameResult, error) {
	if err := p.validateFrame(frameNumber); err != nil {
		return FrameResult{}, err
	}
	chunkNumber, err := model.ChunkNumber(p.task, frameNumber)
	if err != nil {
		return FrameResult{}, err
	}
	chunkRes, err := p.GetChunk(ctx, chunkNumber)
	if err != nil {
		return FrameResult{}, err
	}
	offset, err := mediacache.FrameOffsetInChunk(p.task, p.segment, chunkNumber, frameNumber)
	if err != nil {
		return FrameResult{}, err
	}

	var raw []byte
	mime := "image/jpeg"
	if p.task.ChunkType == model.ChunkTypeVideo {
		raw, err = extractFromVideo(ctx, chunkRes.Bytes, offset)
		mime = "image/png"
	} else {
		raw, err = extractFromArchive(chunkRes.Bytes, offset)
	}
	if err != nil {
		return FrameResult{}, err
	}
	return decodeToResult(raw, mime, encoding)
}

// Release drops the provider's resident chunk and any backend reader
// resources; callers should defer this once done with the provider.
func (p *SegmentFrameProvider) Release() error {
	p.loader.Release()
	return p.reader.Close()
}

func parseChunkIDSuffix(chunkID string) (int, error) {
	// chunkID is built by mediacache.SegmentChunkKey; this just needs the
	// chunk number back out for the Producer closure, so reparse it
	// rather than threading it through an extra return value everywhere.
	var segID int64
	var chunkNumber int
	var quality string
	if _, err := fmt.Sscanf(chunkID, "segment_%d_%d_%s", &segID, &chunkNumber, &quality); err != nil {
		return 0, fmt.Errorf("malformed chunk id %q: %w", chunkID, model.ErrInvalidState)
	}
	return chunkNumber, nil
}
