package blobstore

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/frameforge/mediacore/internal/model"
)

// azureStore is a Store backed by azblob, using the container named by
// binding.Bucket and keys scoped under binding.Prefix.
type azureStore struct {
	client    *azblob.Client
	container string
	prefix    string
}

func newAzureStore(_ context.Context, binding *model.CloudBinding) (Store, error) {
	client, err := azblob.NewClientFromConnectionString(binding.ManifestID, nil)
	if err != nil {
		return nil, fmt.Errorf("creating azure blob client: %w", model.ErrStorage)
	}
	return &azureStore{client: client, container: binding.Bucket, prefix: binding.Prefix}, nil
}

func (s *azureStore) blobName(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func (s *azureStore) Stat(ctx context.Context, key string) (Object, error) {
	resp, err := s.client.ServiceClient().NewContainerClient(s.container).NewBlobClient(s.blobName(key)).GetProperties(ctx, nil)
	if err != nil {
		return Object{}, fmt.Errorf("stat %s: %w", key, model.ErrStorage)
	}
	var size int64
	if resp.ContentLength != nil {
		size = *resp.ContentLength
	}
	obj := Object{Key: key, Size: size}
	if resp.LastModified != nil {
		obj.LastModified = *resp.LastModified
	}
	if resp.ETag != nil {
		obj.ETag = string(*resp.ETag)
	}
	return obj, nil
}

func (s *azureStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, s.blobName(key), nil)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, model.ErrStorage)
	}
	return resp.Body, nil
}

func (s *azureStore) BulkDownload(ctx context.Context, keys []string, destDir string, concurrency int) ([]string, error) {
	return bulkDownload(ctx, keys, destDir, concurrency, s.Get)
}
