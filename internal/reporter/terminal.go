package reporter

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// TerminalReporter outputs human-friendly, colorized progress to the
// terminal for cache and chunk-production activity.
type TerminalReporter struct {
	mu      sync.Mutex
	bars    map[int64]*progressbar.ProgressBar
	verbose bool
	cyan    *color.Color
	green   *color.Color
	yellow  *color.Color
	red     *color.Color
	dim     *color.Color
}

// NewTerminalReporter creates a new terminal reporter with verbose mode disabled.
func NewTerminalReporter() *TerminalReporter {
	return NewTerminalReporterVerbose(false)
}

// NewTerminalReporterVerbose creates a new terminal reporter with configurable verbose mode.
func NewTerminalReporterVerbose(verbose bool) *TerminalReporter {
	return &TerminalReporter{
		bars:    make(map[int64]*progressbar.ProgressBar),
		verbose: verbose,
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		dim:     color.New(color.Faint),
	}
}

func (r *TerminalReporter) CacheHit(key string) {
	if !r.verbose {
		return
	}
	fmt.Printf("  %s cache hit  %s\n", r.dim.Sprint("›"), key)
}

func (r *TerminalReporter) CacheMiss(key string) {
	if !r.verbose {
		return
	}
	fmt.Printf("  %s cache miss %s\n", r.dim.Sprint("›"), key)
}

func (r *TerminalReporter) ChunkProduced(key string, bytes int, elapsedMS int64) {
	fmt.Printf("  %s %s %s (%s, %dms)\n",
		r.green.Sprint("✓"), "produced", key, formatBytes(bytes), elapsedMS)
}

func (r *TerminalReporter) PreviewGenerated(key string, bytes int) {
	fmt.Printf("  %s preview %s (%s)\n", r.green.Sprint("✓"), key, formatBytes(bytes))
}

func (r *TerminalReporter) DownloadProgress(taskID int64, done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bar, ok := r.bars[taskID]
	if !ok {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription(fmt.Sprintf("task %d", taskID)),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "downloading [",
				BarEnd:        "]",
			}),
		)
		r.bars[taskID] = bar
	}
	_ = bar.Set(done)
	if done >= total {
		_ = bar.Finish()
		delete(r.bars, taskID)
	}
}

func (r *TerminalReporter) Warning(format string, args ...any) {
	fmt.Println()
	_, _ = r.yellow.Printf("WARN: %s\n", fmt.Sprintf(format, args...))
}

func (r *TerminalReporter) Error(format string, args ...any) {
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR: %s\n", fmt.Sprintf(format, args...))
}

func (r *TerminalReporter) BatchComplete(label string, count int) {
	fmt.Println()
	_, _ = r.cyan.Println(fmt.Sprintf("%s COMPLETE", label))
	fmt.Printf("  %s\n", r.green.Sprintf("%d items", count))
}

func formatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for bn := int64(n) / unit; bn >= unit; bn /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
