package mediacache

import "fmt"

// Cache key grammar, exactly as consumed by the Chunk Loader and Frame
// Providers. Keys are opaque strings from the KVCache's point of view;
// this file is the single place that builds and parses them.

func SegmentChunkKey(segmentID int64, chunkNumber int, quality string) string {
	return fmt.Sprintf("segment_%d_%d_%s", segmentID, chunkNumber, quality)
}

func TaskChunkKey(taskID int64, chunkNumber int, quality string) string {
	return fmt.Sprintf("task_%d_%d_%s", taskID, chunkNumber, quality)
}

func JobChunkKey(jobID int64, chunkNumber int, quality string) string {
	return fmt.Sprintf("job_%d_%d_%s", jobID, chunkNumber, quality)
}

func SegmentPreviewKey(segmentID int64) string {
	return fmt.Sprintf("segment_preview_%d", segmentID)
}

func CloudStoragePreviewKey(cloudStorageID int64) string {
	return fmt.Sprintf("cloudstorage_preview_%d", cloudStorageID)
}

func ContextImageKey(dataID int64, frameNumber int) string {
	return fmt.Sprintf("context_image_%d_%d", dataID, frameNumber)
}
