package util

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// LogicalCores returns the number of logical CPUs usable by this process.
func LogicalCores() int {
	return runtime.NumCPU()
}

// MemoryFraction is the share of available system memory the Media
// Reader's decode/download worker pools are allowed to claim, leaving
// headroom for the OS page cache and other processes.
const MemoryFraction = 0.7

// bytesPerDecodedFrame estimates resident memory for one decoded frame
// buffer at the given pixel dimensions (3 bytes/pixel, uncompressed, plus
// a generous allowance for decoder internal buffers).
func bytesPerDecodedFrame(width, height int) uint64 {
	if width <= 0 || height <= 0 {
		return 8 << 20 // 8 MB fallback for unknown dimensions
	}
	return uint64(width) * uint64(height) * 3 * 2
}

// AvailableMemoryBytes returns free+reclaimable system memory, or 0 if it
// cannot be determined (callers should treat 0 as "unknown, don't cap").
func AvailableMemoryBytes() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return uint64(info.Freeram) * uint64(info.Unit)
}

// PhysicalCores returns a best-effort physical core count: half the
// runtime.NumCPU logical CPU count, and never less than 1.
func PhysicalCores() int {
	n := LogicalCores()
	if n <= 1 {
		return 1
	}
	// Assume SMT doubles logical over physical, a conservative floor.
	return max(n/2, 1)
}

// CapWorkers returns the safe number of concurrent decode/download
// workers given available memory and the pixel dimensions being
// processed. Returns (actualWorkers, wasCapped).
func CapWorkers(requested, width, height int) (int, bool) {
	memPerWorker := bytesPerDecodedFrame(width, height)

	maxByMemory := requested
	if available := AvailableMemoryBytes(); available > 0 {
		usable := uint64(float64(available) * MemoryFraction)
		maxByMemory = max(int(usable/memPerWorker), 1)
	}

	if requested > maxByMemory {
		return maxByMemory, true
	}
	return requested, false
}
