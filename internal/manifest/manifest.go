// Package manifest reads the per-task manifest that maps frame numbers to
// source file names and checksums, used to accelerate video seeking and to
// verify cloud-downloaded images without re-deriving state from the media
// itself.
package manifest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/frameforge/mediacore/internal/model"
)

// Entry describes one frame as recorded in the manifest.
type Entry struct {
	FrameID   int    `json:"frame_id"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Checksum  string `json:"checksum,omitempty"`
	// PTS/KeyFrame are populated for video manifests and let the Media
	// Reader seek to the nearest preceding keyframe instead of decoding
	// linearly from the start of the stream.
	PTS      int64 `json:"pts,omitempty"`
	KeyFrame bool  `json:"key_frame,omitempty"`
}

// Reader resolves manifest entries by frame number, and exposes whether
// the manifest carries decode-acceleration metadata (video) at all.
type Reader interface {
	Entry(ctx context.Context, frameNumber int) (Entry, error)
	NearestKeyframe(ctx context.Context, frameNumber int) (Entry, bool, error)
	Len(ctx context.Context) (int, error)
}

// JSONLReader is a Reader backed by a newline-delimited JSON file, one
// Entry per line, sorted ascending by FrameID.
type JSONLReader struct {
	entries    []Entry
	byFrameID  map[int]int // FrameID -> index into entries
}

// LoadJSONL reads and indexes a manifest file at path.
func LoadJSONL(path string) (*JSONLReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest %s: %w", path, model.ErrStorage)
	}
	defer f.Close()

	r := &JSONLReader{byFrameID: make(map[int]int)}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("parsing manifest line: %w", err)
		}
		r.entries = append(r.entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning manifest %s: %w", path, err)
	}
	sort.Slice(r.entries, func(i, j int) bool { return r.entries[i].FrameID < r.entries[j].FrameID })
	for i, e := range r.entries {
		r.byFrameID[e.FrameID] = i
	}
	return r, nil
}

func (r *JSONLReader) Entry(_ context.Context, frameNumber int) (Entry, error) {
	idx, ok := r.byFrameID[frameNumber]
	if !ok {
		return Entry{}, fmt.Errorf("frame %d: %w", frameNumber, model.ErrNotFound)
	}
	return r.entries[idx], nil
}

// NearestKeyframe returns the latest keyframe entry at or before
// frameNumber, used by the video backend to avoid decoding from the start
// of the stream on every seek.
func (r *JSONLReader) NearestKeyframe(_ context.Context, frameNumber int) (Entry, bool, error) {
	best := -1
	for i, e := range r.entries {
		if e.FrameID > frameNumber {
			break
		}
		if e.KeyFrame {
			best = i
		}
	}
	if best < 0 {
		return Entry{}, false, nil
	}
	return r.entries[best], true, nil
}

func (r *JSONLReader) Len(_ context.Context) (int, error) {
	return len(r.entries), nil
}

// All returns every entry, sorted ascending by FrameID, for callers that
// need to build fixture data (e.g. framectl's debug CLI) rather than
// resolve one frame at a time.
func (r *JSONLReader) All() []Entry {
	return append([]Entry(nil), r.entries...)
}

// WriteJSONL writes entries to path, one JSON object per line, used by
// task import and by tests to build fixture manifests.
func WriteJSONL(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating manifest %s: %w", path, model.ErrStorage)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("writing manifest entry: %w", err)
		}
	}
	return nil
}
