// Package mediacore provides chunked, cached frame serving for video and
// image-set annotation tasks.
//
// This file re-exports the internal Reporter interface and adapts it to
// the EventHandler callback style for callers that prefer one over the
// other.
package mediacore

import (
	"fmt"
	"io"

	"github.com/frameforge/mediacore/internal/reporter"
)

// Reporter defines the interface for progress reporting during chunk
// production and cache access. Implement this interface to receive
// detailed events directly, or wrap an EventHandler with NewEventReporter.
type Reporter = reporter.Reporter

// NullReporter is a no-op reporter that discards all updates.
type NullReporter = reporter.NullReporter

// NewTerminalReporter returns a Reporter that narrates activity to the
// terminal with color and a download progress bar.
func NewTerminalReporter() Reporter {
	return reporter.NewTerminalReporter()
}

// NewLogReporter returns a Reporter that writes timestamped lines to w.
func NewLogReporter(w io.Writer) Reporter {
	return reporter.NewLogReporter(w)
}

// eventReporter adapts an EventHandler to the Reporter interface so Core
// can accept either style.
type eventReporter struct {
	handler EventHandler
}

// NewEventReporter adapts handler to the Reporter interface.
func NewEventReporter(handler EventHandler) Reporter {
	return &eventReporter{handler: handler}
}

func (r *eventReporter) CacheHit(key string) {
	_ = r.handler(CacheHitEvent{BaseEvent: BaseEvent{EventType: EventTypeCacheHit, Time: NewTimestamp()}, Key: key})
}

func (r *eventReporter) CacheMiss(key string) {
	_ = r.handler(CacheMissEvent{BaseEvent: BaseEvent{EventType: EventTypeCacheMiss, Time: NewTimestamp()}, Key: key})
}

func (r *eventReporter) ChunkProduced(key string, bytes int, elapsedMS int64) {
	_ = r.handler(ChunkProducedEvent{
		BaseEvent: BaseEvent{EventType: EventTypeChunkProduced, Time: NewTimestamp()},
		Key:       key,
		Bytes:     bytes,
		ElapsedMS: elapsedMS,
	})
}

func (r *eventReporter) PreviewGenerated(key string, bytes int) {
	_ = r.handler(PreviewGeneratedEvent{
		BaseEvent: BaseEvent{EventType: EventTypePreviewGenerated, Time: NewTimestamp()},
		Key:       key,
		Bytes:     bytes,
	})
}

func (r *eventReporter) DownloadProgress(taskID int64, done, total int) {
	_ = r.handler(DownloadProgressEvent{
		BaseEvent: BaseEvent{EventType: EventTypeDownloadProgress, Time: NewTimestamp()},
		TaskID:    taskID,
		Done:      done,
		Total:     total,
	})
}

func (r *eventReporter) Warning(format string, args ...any) {
	_ = r.handler(WarningEvent{
		BaseEvent: BaseEvent{EventType: EventTypeWarning, Time: NewTimestamp()},
		Message:   fmt.Sprintf(format, args...),
	})
}

func (r *eventReporter) Error(format string, args ...any) {
	_ = r.handler(ErrorEvent{
		BaseEvent: BaseEvent{EventType: EventTypeError, Time: NewTimestamp()},
		Message:   fmt.Sprintf(format, args...),
	})
}

func (r *eventReporter) BatchComplete(label string, count int) {
	_ = r.handler(BatchCompleteEvent{
		BaseEvent: BaseEvent{EventType: EventTypeBatchComplete, Time: NewTimestamp()},
		Label:     label,
		Count:     count,
	})
}
