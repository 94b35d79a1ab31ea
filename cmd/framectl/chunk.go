package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frameforge/mediacore/internal/frameprovider"
)

func newChunkCmd(tf *taskFlags) *cobra.Command {
	var chunkNumber int
	var frameNumber int
	var outPath string

	cmd := &cobra.Command{
		Use:   "chunk",
		Short: "Fetch one chunk, or one decoded frame from within it",
		RunE: func(cmd *cobra.Command, args []string) error {
			tc, err := buildTaskContext(cmd.Context(), tf)
			if err != nil {
				return err
			}
			defer tc.cleanup()

			provider, err := tc.core.OpenSegmentProvider(tc.task, tc.segment, qualityFromFlag(tf.quality), tc.deps)
			if err != nil {
				return err
			}
			defer provider.Release()

			ctx := cmd.Context()

			if frameNumber >= 0 {
				return fetchFrame(ctx, provider, frameNumber, outPath)
			}
			return fetchChunk(ctx, provider, chunkNumber, outPath)
		},
	}

	cmd.Flags().IntVar(&chunkNumber, "chunk", 0, "chunk number to fetch")
	cmd.Flags().IntVar(&frameNumber, "frame", -1, "frame number to fetch a single decoded frame instead of a whole chunk")
	cmd.Flags().StringVar(&outPath, "out", "", "output file path, written as given (defaults to stdout)")
	return cmd
}

func fetchChunk(ctx context.Context, provider *frameprovider.SegmentFrameProvider, chunkNumber int, outPath string) error {
	res, err := provider.GetChunk(ctx, chunkNumber)
	if err != nil {
		return fmt.Errorf("fetching chunk %d: %w", chunkNumber, err)
	}
	return writeOut(res.Bytes, outPath)
}

func fetchFrame(ctx context.Context, provider *frameprovider.SegmentFrameProvider, frameNumber int, outPath string) error {
	res, err := provider.GetFrame(ctx, frameNumber, frameprovider.EncodingRawBytes)
	if err != nil {
		return fmt.Errorf("fetching frame %d: %w", frameNumber, err)
	}
	return writeOut(res.Bytes, outPath)
}

func writeOut(data []byte, outPath string) error {
	if outPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0644)
}
