package util_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frameforge/mediacore/internal/util"
)

func TestCreateTempDirAndCleanup(t *testing.T) {
	base := t.TempDir()

	dir, err := util.CreateTempDir(base, "framectl")
	require.NoError(t, err)
	assert.DirExists(t, dir.Path())
	assert.Equal(t, base, filepath.Dir(dir.Path()))

	require.NoError(t, dir.Cleanup())
	assert.NoDirExists(t, dir.Path())
}

func TestCreateTempDirRejectsMissingBase(t *testing.T) {
	_, err := util.CreateTempDir(filepath.Join(t.TempDir(), "does-not-exist"), "x")
	assert.Error(t, err)
}

func TestCreateTempFileAndCleanup(t *testing.T) {
	base := t.TempDir()

	f, err := util.CreateTempFile(base, "chunk_extract", "mp4")
	require.NoError(t, err)
	_, err = f.Write([]byte("scratch bytes"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, "scratch bytes", string(data))

	require.NoError(t, f.Cleanup())
	assert.NoFileExists(t, f.Path())
}

func TestCreateTempFilePathDoesNotCreateFile(t *testing.T) {
	base := t.TempDir()

	path, err := util.CreateTempFilePath(base, "probe", "bin")
	require.NoError(t, err)
	assert.NoFileExists(t, path)
	assert.Equal(t, base, filepath.Dir(path))
}

func TestEnsureDirectoryCreatesMissingParents(t *testing.T) {
	base := t.TempDir()
	nested := filepath.Join(base, "a", "b", "c")

	require.NoError(t, util.EnsureDirectory(nested))
	assert.DirExists(t, nested)
}

func TestEnsureDirectoryWritableRejectsFile(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	err := util.EnsureDirectoryWritable(file)
	assert.Error(t, err)
}

func TestCleanupStaleTempFilesOnlyRemovesOldMatchingFiles(t *testing.T) {
	base := t.TempDir()
	stale := filepath.Join(base, "framectl_old.bin")
	fresh := filepath.Join(base, "framectl_new.bin")
	other := filepath.Join(base, "other_file.bin")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, past, past))

	n, err := util.CleanupStaleTempFiles(base, "framectl", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", util.FormatBytes(512))
	assert.Equal(t, "1.0 KiB", util.FormatBytes(1024))
	assert.Equal(t, "1.5 KiB", util.FormatBytes(1536))
	assert.Equal(t, "1.0 MiB", util.FormatBytes(1024*1024))
}
