// Package reporter narrates cache/chunk-production activity to an
// operator, mirroring the teacher's split terminal/log/composite Reporter
// interface but scoped to this core's events instead of encode progress.
package reporter

// Reporter receives notifications about cache and chunk-production
// activity. Implementations must be safe for concurrent use, since
// producers can run on multiple goroutines at once.
type Reporter interface {
	CacheHit(key string)
	CacheMiss(key string)
	ChunkProduced(key string, bytes int, elapsedMS int64)
	PreviewGenerated(key string, bytes int)
	DownloadProgress(taskID int64, done, total int)
	Warning(format string, args ...any)
	Error(format string, args ...any)
	BatchComplete(label string, count int)
}

// CompositeReporter fans every call out to each of its members, in order.
type CompositeReporter struct {
	reporters []Reporter
}

func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) CacheHit(key string) {
	for _, r := range c.reporters {
		r.CacheHit(key)
	}
}

func (c *CompositeReporter) CacheMiss(key string) {
	for _, r := range c.reporters {
		r.CacheMiss(key)
	}
}

func (c *CompositeReporter) ChunkProduced(key string, bytes int, elapsedMS int64) {
	for _, r := range c.reporters {
		r.ChunkProduced(key, bytes, elapsedMS)
	}
}

func (c *CompositeReporter) PreviewGenerated(key string, bytes int) {
	for _, r := range c.reporters {
		r.PreviewGenerated(key, bytes)
	}
}

func (c *CompositeReporter) DownloadProgress(taskID int64, done, total int) {
	for _, r := range c.reporters {
		r.DownloadProgress(taskID, done, total)
	}
}

func (c *CompositeReporter) Warning(format string, args ...any) {
	for _, r := range c.reporters {
		r.Warning(format, args...)
	}
}

func (c *CompositeReporter) Error(format string, args ...any) {
	for _, r := range c.reporters {
		r.Error(format, args...)
	}
}

func (c *CompositeReporter) BatchComplete(label string, count int) {
	for _, r := range c.reporters {
		r.BatchComplete(label, count)
	}
}
