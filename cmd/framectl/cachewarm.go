package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frameforge/mediacore/internal/model"
)

func newCacheWarmCmd(tf *taskFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache-warm",
		Short: "Produce and cache every chunk in the task's range",
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

			last, err := model.ChunkNumber(tc.task, tc.task.StopFrame)
			if err != nil {
				return fmt.Errorf("determining chunk range: %w", err)
			}

			ctx := cmd.Context()
			for i := 0; i <= last; i++ {
				if _, err := provider.GetChunk(ctx, i); err != nil {
					return fmt.Errorf("warming chunk %d: %w", i, err)
				}
			}
			fmt.Printf("warmed %d chunks for task %d\n", last+1, tc.task.ID)
			return nil
		},
	}
	return cmd
}
