package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/frameforge/mediacore/internal/blobstore"
	"github.com/frameforge/mediacore/internal/manifest"
	"github.com/frameforge/mediacore/internal/mediareader"
	"github.com/frameforge/mediacore/internal/model"
	"github.com/frameforge/mediacore/internal/repo"
	"github.com/frameforge/mediacore/internal/reporter"
	"github.com/frameforge/mediacore/internal/util"

	"github.com/frameforge/mediacore"
)

const appName = "framectl"

// taskFlags holds the task-shaping flags shared by every subcommand.
type taskFlags struct {
	taskID       int64
	dimension    string
	chunkType    string
	chunkSize    int
	imageQuality int
	startFrame   int
	stopFrame    int
	frameStep    int
	quality      string

	sourceVideo string
	sourceDir   string

	cloudProvider string
	cloudBucket   string
	cloudPrefix   string
	manifestPath  string

	logDir  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	var tf taskFlags

	root := &cobra.Command{
		Use:           appName,
		Short:         "Chunk and serve frames for video and image-set annotation tasks",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.Int64Var(&tf.taskID, "task-id", 1, "task id")
	pf.StringVar(&tf.dimension, "dimension", "2d", "task dimension: 2d or 3d")
	pf.StringVar(&tf.chunkType, "chunk-type", "video", "chunk type: video or imageset")
	pf.IntVar(&tf.chunkSize, "chunk-size", 36, "frames per chunk")
	pf.IntVar(&tf.imageQuality, "image-quality", 70, "compressed-tier image quality (1-100)")
	pf.IntVar(&tf.startFrame, "start-frame", 0, "task start frame")
	pf.IntVar(&tf.stopFrame, "stop-frame", -1, "task stop frame (-1 means last available frame)")
	pf.IntVar(&tf.frameStep, "frame-step", 1, "frame step")
	pf.StringVar(&tf.quality, "quality", "compressed", "chunk quality: original or compressed")

	pf.StringVar(&tf.sourceVideo, "source-video", "", "path to a local source video file")
	pf.StringVar(&tf.sourceDir, "source-dir", "", "path to a local directory of source images")

	pf.StringVar(&tf.cloudProvider, "cloud-provider", "", "cloud blob provider: gcs or azure")
	pf.StringVar(&tf.cloudBucket, "cloud-bucket", "", "cloud bucket/container name")
	pf.StringVar(&tf.cloudPrefix, "cloud-prefix", "", "cloud object key prefix")
	pf.StringVar(&tf.manifestPath, "manifest", "", "path to the task's JSONL manifest")

	pf.StringVar(&tf.logDir, "log-dir", "", "log directory (defaults to XDG state dir)")
	pf.BoolVar(&tf.verbose, "verbose", false, "enable verbose/debug logging")

	root.AddCommand(newChunkCmd(&tf))
	root.AddCommand(newPreviewCmd(&tf))
	root.AddCommand(newCacheWarmCmd(&tf))

	return root
}

// taskContext bundles everything built from taskFlags that a subcommand
// needs: the Core, the task/segment it describes, and the reader deps to
// open a provider with.
type taskContext struct {
	core    *mediacore.Core
	task    *model.Task
	segment *model.Segment
	deps    mediareader.Deps
	cleanup func()
}

func buildTaskContext(ctx context.Context, tf *taskFlags) (*taskContext, error) {
	dimension := model.Dim2D
	if tf.dimension == "3d" {
		dimension = model.Dim3D
	}
	chunkType := model.ChunkTypeVideo
	if tf.chunkType == "imageset" {
		chunkType = model.ChunkTypeImageSet
	}

	task := &model.Task{
		ID:           tf.taskID,
		Dimension:    dimension,
		ChunkType:    chunkType,
		ChunkSize:    tf.chunkSize,
		ImageQuality: tf.imageQuality,
		StartFrame:   tf.startFrame,
		FrameStep:    tf.frameStep,
	}

	images := repo.NewMemoryImageRepository()
	var manifestReader manifest.Reader
	var blobStore blobstore.Store
	var cleanupFns []func()

	switch {
	case tf.cloudProvider != "":
		provider := model.ProviderGCS
		if tf.cloudProvider == "azure" {
			provider = model.ProviderAzure
		}
		task.CloudBinding = &model.CloudBinding{
			Provider: provider,
			Bucket:   tf.cloudBucket,
			Prefix:   tf.cloudPrefix,
		}
		store, err := blobstore.New(ctx, task.CloudBinding)
		if err != nil {
			return nil, fmt.Errorf("opening blob store: %w", err)
		}
		blobStore = store

		if tf.manifestPath != "" {
			mr, err := manifest.LoadJSONL(tf.manifestPath)
			if err != nil {
				return nil, fmt.Errorf("loading manifest: %w", err)
			}
			manifestReader = mr
			entries := mr.All()
			frames := make([]repo.ImageDescriptor, 0, len(entries))
			for i, e := range entries {
				frames = append(frames, repo.ImageDescriptor{
					FrameID:  i,
					Path:     e.Name,
					Checksum: e.Checksum,
				})
			}
			images.PutFrames(task.ID, frames)
		}
		switch {
		case tf.stopFrame >= 0:
			task.StopFrame = tf.stopFrame
		case manifestReader != nil:
			n, err := manifestReader.Len(ctx)
			if err != nil {
				return nil, fmt.Errorf("reading manifest frame count: %w", err)
			}
			task.StopFrame = n - 1
		default:
			return nil, fmt.Errorf("--stop-frame is required with --cloud-provider unless a manifest gives a frame count")
		}

	case tf.sourceVideo != "":
		if tf.manifestPath != "" {
			mr, err := manifest.LoadJSONL(tf.manifestPath)
			if err != nil {
				return nil, fmt.Errorf("loading manifest: %w", err)
			}
			manifestReader = mr
		}
		switch {
		case tf.stopFrame >= 0:
			task.StopFrame = tf.stopFrame
		case manifestReader != nil:
			n, err := manifestReader.Len(ctx)
			if err != nil {
				return nil, fmt.Errorf("reading manifest frame count: %w", err)
			}
			task.StopFrame = n - 1
		default:
			return nil, fmt.Errorf("--stop-frame is required with --source-video unless a manifest gives a frame count")
		}

	case tf.sourceDir != "":
		entries, err := os.ReadDir(tf.sourceDir)
		if err != nil {
			return nil, fmt.Errorf("reading source directory: %w", err)
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)

		frames := make([]repo.ImageDescriptor, 0, len(names))
		for i, name := range names {
			frames = append(frames, repo.ImageDescriptor{FrameID: i, Path: filepath.Join(tf.sourceDir, name)})
		}
		images.PutFrames(task.ID, frames)

		stop := len(names) - 1
		if tf.stopFrame >= 0 {
			stop = tf.stopFrame
		}
		task.StopFrame = stop

	default:
		return nil, fmt.Errorf("one of --source-video, --source-dir, or --cloud-provider is required")
	}

	segment := &model.Segment{
		ID:         task.ID,
		TaskID:     task.ID,
		Kind:       model.SegmentRange,
		StartFrame: task.StartFrame,
		StopFrame:  task.StopFrame,
	}

	opts := []mediacore.Option{
		mediacore.WithImageQuality(tf.imageQuality),
		mediacore.WithChunkSize(tf.chunkSize),
	}
	if tf.logDir != "" {
		opts = append(opts, mediacore.WithLogDir(tf.logDir))
	}
	if tf.verbose {
		opts = append(opts, mediacore.WithVerbose())
	}
	core, err := mediacore.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("starting core: %w", err)
	}
	core.SetReporter(reporter.NewTerminalReporterVerbose(tf.verbose))

	tempDir, err := util.CreateTempDir(os.TempDir(), "framectl")
	if err != nil {
		_ = core.Close()
		return nil, fmt.Errorf("creating scratch dir: %w", err)
	}
	cleanupFns = append(cleanupFns, func() { _ = tempDir.Cleanup() }, func() { _ = core.Close() })

	deps := mediareader.Deps{
		Images:      images,
		Manifest:    manifestReader,
		Blob:        blobStore,
		SourcePath:  tf.sourceVideo,
		TempBaseDir: tempDir.Path(),
	}

	return &taskContext{
		core:    core,
		task:    task,
		segment: segment,
		deps:    deps,
		cleanup: func() {
			for i := len(cleanupFns) - 1; i >= 0; i-- {
				cleanupFns[i]()
			}
		},
	}, nil
}

func qualityFromFlag(s string) model.Quality {
	if s == "original" {
		return model.QualityOriginal
	}
	return model.QualityCompressed
}
