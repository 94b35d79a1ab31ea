package mediareader

import (
	"github.com/frameforge/mediacore/internal/blobstore"
	"github.com/frameforge/mediacore/internal/manifest"
	"github.com/frameforge/mediacore/internal/repo"
)

// Deps collects the collaborators a Reader backend needs, all optional
// except the ones a given backend actually requires.
type Deps struct {
	Images       repo.ImageRepository
	Manifest     manifest.Reader // nil if the task has no manifest yet
	Blob         blobstore.Store // non-nil only for cloud-bound tasks
	SourcePath   string          // video file path, for the video backend
	TempBaseDir  string          // scratch directory for cloud downloads
	Concurrency  int             // cloud backend worker pool size; 0 lets it choose
}
