package reporter_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frameforge/mediacore/internal/reporter"
)

func TestLogReporterWritesTimestampedLines(t *testing.T) {
	var buf bytes.Buffer
	r := reporter.NewLogReporter(&buf)

	r.CacheHit("segment_1_0_compressed")
	r.ChunkProduced("segment_1_0_compressed", 4096, 12)
	r.Warning("disk space low: %dMB free", 50)

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "cache hit: segment_1_0_compressed")
	assert.Contains(t, lines[1], "produced chunk segment_1_0_compressed")
	assert.Contains(t, lines[1], "4096 bytes")
	assert.Contains(t, lines[2], "WARN")
	assert.Contains(t, lines[2], "disk space low: 50MB free")
}

func TestNullReporterDiscardsEverything(t *testing.T) {
	var r reporter.Reporter = reporter.NullReporter{}
	assert.NotPanics(t, func() {
		r.CacheHit("k")
		r.CacheMiss("k")
		r.ChunkProduced("k", 1, 1)
		r.PreviewGenerated("k", 1)
		r.DownloadProgress(1, 1, 2)
		r.Warning("x")
		r.Error("x")
		r.BatchComplete("x", 1)
	})
}
