package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"

	"github.com/frameforge/mediacore/internal/model"
)

// gcsStore is a Store backed by cloud.google.com/go/storage.
type gcsStore struct {
	client *storage.Client
	bucket string
	prefix string
}

func newGCSStore(ctx context.Context, binding *model.CloudBinding) (Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating gcs client: %w", model.ErrStorage)
	}
	return &gcsStore{client: client, bucket: binding.Bucket, prefix: binding.Prefix}, nil
}

func (s *gcsStore) objectName(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func (s *gcsStore) Stat(ctx context.Context, key string) (Object, error) {
	attrs, err := s.client.Bucket(s.bucket).Object(s.objectName(key)).Attrs(ctx)
	if err != nil {
		return Object{}, fmt.Errorf("stat %s: %w", key, model.ErrStorage)
	}
	return Object{Key: key, Size: attrs.Size, LastModified: attrs.Updated, ETag: attrs.Etag}, nil
}

func (s *gcsStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.client.Bucket(s.bucket).Object(s.objectName(key)).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, model.ErrStorage)
	}
	return r, nil
}

func (s *gcsStore) BulkDownload(ctx context.Context, keys []string, destDir string, concurrency int) ([]string, error) {
	return bulkDownload(ctx, keys, destDir, concurrency, s.Get)
}

// bulkDownload is shared between the GCS and Azure backends: fetch each
// key with a bounded number of concurrent readers, writing straight to
// disk so large batches don't have to be held in memory at once.
func bulkDownload(ctx context.Context, keys []string, destDir string, concurrency int, get func(context.Context, string) (io.ReadCloser, error)) ([]string, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	paths := make([]string, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			rc, err := get(gctx, key)
			if err != nil {
				return err
			}
			defer rc.Close()

			dst := filepath.Join(destDir, filepath.Base(key))
			f, err := os.Create(dst)
			if err != nil {
				return fmt.Errorf("creating %s: %w", dst, model.ErrStorage)
			}
			defer f.Close()

			if _, err := io.Copy(f, rc); err != nil {
				return fmt.Errorf("downloading %s: %w", key, model.ErrStorage)
			}
			paths[i] = dst
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
