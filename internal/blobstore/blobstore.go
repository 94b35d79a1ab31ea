// Package blobstore declares the BlobStore abstraction over cloud object
// storage and provides GCS- and Azure-Blob-backed implementations, selected
// by a task's CloudBinding.Provider.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/frameforge/mediacore/internal/model"
)

// Object is one blob's identity and metadata.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string
}

// Store abstracts a cloud bucket/container sufficiently for the Media
// Reader's cloud image backend and for cloudstorage_preview freshness
// checks.
type Store interface {
	// Stat returns metadata without downloading the object body.
	Stat(ctx context.Context, key string) (Object, error)
	// Get streams one object's bytes; callers must close the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// BulkDownload fetches every key in keys into a local directory,
	// naming each file by its key's base name, in parallel up to a
	// caller-chosen concurrency limit. It returns the local path for
	// each requested key, in the same order.
	BulkDownload(ctx context.Context, keys []string, destDir string, concurrency int) ([]string, error)
}

// New builds the Store implementation selected by binding.Provider.
func New(ctx context.Context, binding *model.CloudBinding) (Store, error) {
	if binding == nil {
		return nil, fmt.Errorf("nil cloud binding: %w", model.ErrInvalidArgument)
	}
	switch binding.Provider {
	case model.ProviderGCS:
		return newGCSStore(ctx, binding)
	case model.ProviderAzure:
		return newAzureStore(ctx, binding)
	default:
		return nil, fmt.Errorf("unknown cloud provider %q: %w", binding.Provider, model.ErrInvalidArgument)
	}
}
