package reporter

// NullReporter discards every event. It is the default when a caller
// doesn't install a Reporter.
type NullReporter struct{}

func (NullReporter) CacheHit(string)                       {}
func (NullReporter) CacheMiss(string)                      {}
func (NullReporter) ChunkProduced(string, int, int64)       {}
func (NullReporter) PreviewGenerated(string, int)           {}
func (NullReporter) DownloadProgress(int64, int, int)       {}
func (NullReporter) Warning(string, ...any)                 {}
func (NullReporter) Error(string, ...any)                   {}
func (NullReporter) BatchComplete(string, int)              {}
