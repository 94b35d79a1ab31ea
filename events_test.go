package mediacore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frameforge/mediacore"
)

func TestEventReporterDispatchesTypedEvents(t *testing.T) {
	var events []mediacore.Event
	handler := func(e mediacore.Event) error {
		events = append(events, e)
		return nil
	}

	r := mediacore.NewEventReporter(handler)
	r.CacheHit("segment_1_0_compressed")
	r.CacheMiss("segment_1_1_compressed")
	r.ChunkProduced("segment_1_0_compressed", 2048, 15)
	r.PreviewGenerated("segment_preview_1", 512)
	r.DownloadProgress(7, 3, 10)
	r.Warning("checksum mismatch for %s", "frame_3.jpg")
	r.Error("ffmpeg exited with code %d", 1)
	r.BatchComplete("cache-warm", 40)

	require.Len(t, events, 8)

	hit, ok := events[0].(mediacore.CacheHitEvent)
	require.True(t, ok)
	assert.Equal(t, mediacore.EventTypeCacheHit, hit.Type())
	assert.Equal(t, "segment_1_0_compressed", hit.Key)
	assert.Greater(t, hit.Timestamp(), int64(0))

	produced, ok := events[2].(mediacore.ChunkProducedEvent)
	require.True(t, ok)
	assert.Equal(t, 2048, produced.Bytes)
	assert.EqualValues(t, 15, produced.ElapsedMS)

	progress, ok := events[4].(mediacore.DownloadProgressEvent)
	require.True(t, ok)
	assert.EqualValues(t, 7, progress.TaskID)
	assert.Equal(t, 3, progress.Done)
	assert.Equal(t, 10, progress.Total)

	warn, ok := events[5].(mediacore.WarningEvent)
	require.True(t, ok)
	assert.Equal(t, "checksum mismatch for frame_3.jpg", warn.Message)

	batch, ok := events[7].(mediacore.BatchCompleteEvent)
	require.True(t, ok)
	assert.Equal(t, "cache-warm", batch.Label)
	assert.Equal(t, 40, batch.Count)
}

func TestEventReporterHandlerErrorDoesNotPanic(t *testing.T) {
	// eventReporter methods return nothing, matching the Reporter
	// interface's fire-and-forget shape; a handler error must not panic.
	r := mediacore.NewEventReporter(func(mediacore.Event) error {
		return assert.AnError
	})
	assert.NotPanics(t, func() { r.CacheHit("k") })
}
