package manifest_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frameforge/mediacore/internal/manifest"
	"github.com/frameforge/mediacore/internal/model"
)

func writeFixture(t *testing.T, entries []manifest.Entry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.jsonl")
	require.NoError(t, manifest.WriteJSONL(path, entries))
	return path
}

func TestLoadJSONLSortsByFrameID(t *testing.T) {
	path := writeFixture(t, []manifest.Entry{
		{FrameID: 2, Name: "b.jpg"},
		{FrameID: 0, Name: "a.jpg"},
		{FrameID: 1, Name: "x.jpg"},
	})

	r, err := manifest.LoadJSONL(path)
	require.NoError(t, err)
	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{all[0].FrameID, all[1].FrameID, all[2].FrameID})
}

func TestEntryLookup(t *testing.T) {
	path := writeFixture(t, []manifest.Entry{
		{FrameID: 5, Name: "five.jpg", Checksum: "abc123"},
	})
	r, err := manifest.LoadJSONL(path)
	require.NoError(t, err)

	e, err := r.Entry(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "five.jpg", e.Name)
	assert.Equal(t, "abc123", e.Checksum)

	_, err = r.Entry(context.Background(), 6)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestNearestKeyframe(t *testing.T) {
	path := writeFixture(t, []manifest.Entry{
		{FrameID: 0, KeyFrame: true, PTS: 0},
		{FrameID: 1, KeyFrame: false, PTS: 100},
		{FrameID: 2, KeyFrame: false, PTS: 200},
		{FrameID: 30, KeyFrame: true, PTS: 3000},
		{FrameID: 31, KeyFrame: false, PTS: 3100},
	})
	r, err := manifest.LoadJSONL(path)
	require.NoError(t, err)

	e, ok, err := r.NearestKeyframe(context.Background(), 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, e.FrameID)

	e, ok, err = r.NearestKeyframe(context.Background(), 31)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 30, e.FrameID)
}

func TestNearestKeyframeNoneBefore(t *testing.T) {
	path := writeFixture(t, []manifest.Entry{
		{FrameID: 5, KeyFrame: true},
	})
	r, err := manifest.LoadJSONL(path)
	require.NoError(t, err)

	_, ok, err := r.NearestKeyframe(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLenReportsEntryCount(t *testing.T) {
	path := writeFixture(t, []manifest.Entry{{FrameID: 0}, {FrameID: 1}, {FrameID: 2}})
	r, err := manifest.LoadJSONL(path)
	require.NoError(t, err)

	n, err := r.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestLoadJSONLMissingFile(t *testing.T) {
	_, err := manifest.LoadJSONL(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.ErrorIs(t, err, model.ErrStorage)
}
