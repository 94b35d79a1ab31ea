package reporter

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// LogReporter writes plain timestamped lines to an io.Writer, typically
// the same file handle logging.Logger writes to, so the log file captures
// both structured log lines and human-readable activity narration.
type LogReporter struct {
	w  io.Writer
	mu sync.Mutex
}

func NewLogReporter(w io.Writer) *LogReporter {
	return &LogReporter{w: w}
}

func (r *LogReporter) log(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(r.w, "%s [%s] %s\n", timestamp, level, msg)
}

func (r *LogReporter) CacheHit(key string)  { r.log("INFO", "cache hit: %s", key) }
func (r *LogReporter) CacheMiss(key string) { r.log("INFO", "cache miss: %s", key) }

func (r *LogReporter) ChunkProduced(key string, bytes int, elapsedMS int64) {
	r.log("INFO", "produced chunk %s (%d bytes, %dms)", key, bytes, elapsedMS)
}

func (r *LogReporter) PreviewGenerated(key string, bytes int) {
	r.log("INFO", "generated preview %s (%d bytes)", key, bytes)
}

func (r *LogReporter) DownloadProgress(taskID int64, done, total int) {
	r.log("INFO", "task %d download progress: %d/%d", taskID, done, total)
}

func (r *LogReporter) Warning(format string, args ...any) { r.log("WARN", format, args...) }
func (r *LogReporter) Error(format string, args ...any)   { r.log("ERROR", format, args...) }

func (r *LogReporter) BatchComplete(label string, count int) {
	r.log("INFO", "%s complete: %d items", label, count)
}
