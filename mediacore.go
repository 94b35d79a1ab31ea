// Package mediacore provides chunked, cached frame serving for video and
// image-set annotation tasks: reading source media, writing quality-tiered
// chunks, and caching the result behind a single in-process KVCache.
//
// Basic usage:
//
//	core, err := mediacore.New(
//	    mediacore.WithImageQuality(70),
//	    mediacore.WithCacheMaxCostMB(512),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer core.Close()
//
//	provider, err := core.OpenSegmentProvider(task, segment, model.QualityCompressed, readerDeps)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Release()
//
//	chunk, err := provider.GetChunk(ctx, 0)
package mediacore

import (
	"context"
	"fmt"

	"github.com/frameforge/mediacore/internal/chunkwriter"
	"github.com/frameforge/mediacore/internal/config"
	"github.com/frameforge/mediacore/internal/frameprovider"
	"github.com/frameforge/mediacore/internal/kvcache"
	"github.com/frameforge/mediacore/internal/logging"
	"github.com/frameforge/mediacore/internal/mediacache"
	"github.com/frameforge/mediacore/internal/mediareader"
	"github.com/frameforge/mediacore/internal/model"
)

// Core is the main entry point: it owns the Media Cache and the
// configuration shared by every provider it opens.
type Core struct {
	cfg      *config.Config
	cache    *mediacache.Cache
	store    *kvcache.RistrettoStore
	logger   *logging.Logger
	reporter Reporter
}

// Option configures a Core at construction time.
type Option func(*config.Config)

// New creates a Core, standing up its Media Cache and a log file under its
// configured log directory.
func New(opts ...Option) (*Core, error) {
	cfg := config.New(logging.DefaultLogDir())

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := kvcache.NewRistrettoStore(cfg.CacheMaxCostBytes(), cfg.CacheNumCounters)
	if err != nil {
		return nil, fmt.Errorf("starting media cache: %w", err)
	}

	logger, err := logging.Setup(cfg.LogDir, cfg.Verbose, false, []string{"mediacore"})
	if err != nil {
		return nil, fmt.Errorf("starting logger: %w", err)
	}

	cache := mediacache.New(store)
	return &Core{
		cfg:      cfg,
		cache:    cache,
		store:    store,
		logger:   logger,
		reporter: NullReporter{},
	}, nil
}

// WithImageQuality sets the compressed-tier JPEG/recompression quality
// (1-100) used when a task doesn't set its own.
func WithImageQuality(q int) Option {
	return func(c *config.Config) { c.ImageQuality = q }
}

// WithChunkSize sets Config.DefaultChunkSize, which New validates. Core
// does not substitute it for a task whose own ChunkSize is zero.
func WithChunkSize(n int) Option {
	return func(c *config.Config) { c.DefaultChunkSize = n }
}

// WithCacheMaxCostMB bounds the Media Cache's total held bytes.
func WithCacheMaxCostMB(mb int64) Option {
	return func(c *config.Config) { c.CacheMaxCostMB = mb }
}

// WithDownloadConcurrency bounds parallel cloud-blob downloads.
func WithDownloadConcurrency(n int) Option {
	return func(c *config.Config) { c.DownloadConcurrency = n }
}

// WithTempDir sets the scratch directory used for cloud downloads. Chunk
// writers assemble video chunks under os.TempDir() regardless.
func WithTempDir(dir string) Option {
	return func(c *config.Config) { c.TempDir = dir }
}

// WithLogDir overrides the default XDG-based log directory.
func WithLogDir(dir string) Option {
	return func(c *config.Config) { c.LogDir = dir }
}

// WithVerbose enables debug-level logging.
func WithVerbose() Option {
	return func(c *config.Config) { c.Verbose = true }
}

// SetReporter installs a Reporter to receive cache and chunk-production
// events for every provider subsequently opened from this Core.
func (c *Core) SetReporter(r Reporter) {
	if r == nil {
		r = NullReporter{}
	}
	c.reporter = r
	c.cache.SetReporter(r)
}

// OpenSegmentProvider builds a SegmentFrameProvider for one segment at one
// quality tier, wiring together a mediareader.Reader for the task's
// backend and a chunkwriter.Writer for (task.ChunkType, quality).
func (c *Core) OpenSegmentProvider(task *model.Task, segment *model.Segment, quality model.Quality, deps mediareader.Deps) (*frameprovider.SegmentFrameProvider, error) {
	if deps.Concurrency == 0 {
		deps.Concurrency = c.cfg.DownloadConcurrency
	}
	if deps.TempBaseDir == "" {
		deps.TempBaseDir = c.cfg.GetTempDir()
	}

	reader, err := mediareader.New(task, deps)
	if err != nil {
		return nil, fmt.Errorf("opening media reader for task %d: %w", task.ID, err)
	}

	imageQuality := task.ImageQuality
	if imageQuality == 0 {
		imageQuality = c.cfg.ImageQuality
	}
	writer, err := chunkwriter.ForQuality(task.ChunkType, quality, chunkwriter.Options{
		Dimension:    task.Dimension,
		ImageQuality: imageQuality,
	})
	if err != nil {
		_ = reader.Close()
		return nil, err
	}

	return frameprovider.NewSegmentFrameProvider(task, segment, quality, c.cache, reader, writer), nil
}

// OpenTaskProvider builds a TaskFrameProvider spanning every segment of a
// task, routing per-frame and per-chunk requests to the matching
// already-open SegmentFrameProvider and synthesizing joined chunks for
// task-level chunks that straddle a segment boundary.
func (c *Core) OpenTaskProvider(task *model.Task, segments []*model.Segment, providers map[int64]*frameprovider.SegmentFrameProvider, quality model.Quality) (*frameprovider.TaskFrameProvider, error) {
	imageQuality := task.ImageQuality
	if imageQuality == 0 {
		imageQuality = c.cfg.ImageQuality
	}
	writer, err := chunkwriter.ForQuality(task.ChunkType, quality, chunkwriter.Options{
		Dimension:    task.Dimension,
		ImageQuality: imageQuality,
	})
	if err != nil {
		return nil, err
	}

	return frameprovider.NewTaskFrameProvider(task, segments, providers, writer), nil
}

// SegmentPreview returns a cached thumbnail of segment's first frame,
// producing and caching one on a miss.
func (c *Core) SegmentPreview(ctx context.Context, task *model.Task, segment *model.Segment, deps mediareader.Deps) ([]byte, string, error) {
	if deps.Concurrency == 0 {
		deps.Concurrency = c.cfg.DownloadConcurrency
	}
	if deps.TempBaseDir == "" {
		deps.TempBaseDir = c.cfg.GetTempDir()
	}
	reader, err := mediareader.New(task, deps)
	if err != nil {
		return nil, "", fmt.Errorf("opening media reader for task %d: %w", task.ID, err)
	}
	defer reader.Close()

	key := mediacache.SegmentPreviewKey(segment.ID)
	return c.cache.GetOrSet(ctx, key, mediacache.SegmentPreviewProducer(segment, reader))
}

// SelectiveJobChunk returns chunkNumber's bytes for a job, rendered
// through the masked-range rule against the job's segment regardless of
// that segment's own kind, and cached under the job's own job_ cache key.
func (c *Core) SelectiveJobChunk(ctx context.Context, task *model.Task, jobID int64, segment *model.Segment, chunkNumber int, quality model.Quality, deps mediareader.Deps) ([]byte, string, error) {
	if err := model.ValidateChunkNumber(task, chunkNumber); err != nil {
		return nil, "", err
	}
	if deps.Concurrency == 0 {
		deps.Concurrency = c.cfg.DownloadConcurrency
	}
	if deps.TempBaseDir == "" {
		deps.TempBaseDir = c.cfg.GetTempDir()
	}
	reader, err := mediareader.New(task, deps)
	if err != nil {
		return nil, "", fmt.Errorf("opening media reader for task %d: %w", task.ID, err)
	}
	defer reader.Close()

	imageQuality := task.ImageQuality
	if imageQuality == 0 {
		imageQuality = c.cfg.ImageQuality
	}
	writer, err := chunkwriter.ForQuality(task.ChunkType, quality, chunkwriter.Options{
		Dimension:    task.Dimension,
		ImageQuality: imageQuality,
	})
	if err != nil {
		return nil, "", err
	}

	return mediacache.SelectiveJobChunk(ctx, c.cache, jobID, task, segment, chunkNumber, quality, writer, reader)
}

// Close releases the Media Cache and closes the log file.
func (c *Core) Close() error {
	c.store.Close()
	return c.logger.Close()
}
