package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPreviewCmd(tf *taskFlags) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Generate (or fetch the cached) thumbnail of a segment's first frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			tc, err := buildTaskContext(cmd.Context(), tf)
			if err != nil {
				return err
			}
			defer tc.cleanup()

			data, _, err := tc.core.SegmentPreview(cmd.Context(), tc.task, tc.segment, tc.deps)
			if err != nil {
				return fmt.Errorf("generating preview: %w", err)
			}
			if outPath == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			return os.WriteFile(outPath, data, 0644)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "output file path (defaults to stdout)")
	return cmd
}
