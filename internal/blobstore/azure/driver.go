// Package azure provides the blobstore.Store implementation for the
// on-premises Azure Blob container (connection-string authenticated).
//
// The container is an externally-owned source of recordings: echofetch only
// lists, stats, and downloads from it, so writes are rejected.
package azure

import (
	"context"
	"io"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"github.com/seabeam/echofetch/internal/blobstore"
	"github.com/seabeam/echofetch/internal/errs"
)

// Driver is an Azure Blob implementation of blobstore.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	client *azblob.Client
}

// New authenticates with the given connection string and returns a Driver.
func New(connectionString string) (*Driver, error) {
	if connectionString == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "azure connection string is empty")
	}
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create azure blob client", err)
	}
	return &Driver{client: client}, nil
}

// --- blobstore.Store implementation ---

// Ping verifies the storage account is reachable.
func (d *Driver) Ping(ctx context.Context) error {
	if _, err := d.client.ServiceClient().GetProperties(ctx, nil); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close is a no-op; the SDK client holds no persistent connections.
func (d *Driver) Close() error {
	return nil
}

// ListObjects returns blobs in the container that match opts. Non-recursive
// listings group keys by "/" and return the common prefixes as IsDir
// entries.
func (d *Driver) ListObjects(ctx context.Context, bucket string, opts blobstore.ListOptions) ([]blobstore.ObjectInfo, error) {
	if opts.Recursive {
		return d.listFlat(ctx, bucket, opts)
	}
	return d.listHierarchy(ctx, bucket, opts)
}

func (d *Driver) listFlat(ctx context.Context, bucket string, opts blobstore.ListOptions) ([]blobstore.ObjectInfo, error) {
	pager := d.client.NewListBlobsFlatPager(bucket, &azblob.ListBlobsFlatOptions{
		Prefix: &opts.Prefix,
	})

	var results []blobstore.ObjectInfo
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, mapError(err, "failed to list blobs")
		}
		for _, item := range page.Segment.BlobItems {
			results = append(results, blobItemInfo(item))
			if opts.Limit > 0 && len(results) >= opts.Limit {
				return results, nil
			}
		}
	}
	return results, nil
}

func (d *Driver) listHierarchy(ctx context.Context, bucket string, opts blobstore.ListOptions) ([]blobstore.ObjectInfo, error) {
	cc := d.client.ServiceClient().NewContainerClient(bucket)
	pager := cc.NewListBlobsHierarchyPager("/", &container.ListBlobsHierarchyOptions{
		Prefix: &opts.Prefix,
	})

	var results []blobstore.ObjectInfo
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, mapError(err, "failed to list blobs")
		}
		for _, prefix := range page.Segment.BlobPrefixes {
			results = append(results, blobstore.ObjectInfo{
				Key:   deref(prefix.Name),
				Size:  -1,
				IsDir: true,
			})
			if opts.Limit > 0 && len(results) >= opts.Limit {
				return results, nil
			}
		}
		for _, item := range page.Segment.BlobItems {
			results = append(results, blobItemInfo(item))
			if opts.Limit > 0 && len(results) >= opts.Limit {
				return results, nil
			}
		}
	}
	return results, nil
}

// StatObject returns metadata for the blob at key without downloading it.
func (d *Driver) StatObject(ctx context.Context, bucket, key string) (*blobstore.ObjectInfo, error) {
	bc := d.client.ServiceClient().NewContainerClient(bucket).NewBlobClient(key)
	props, err := bc.GetProperties(ctx, nil)
	if err != nil {
		return nil, mapError(err, "failed to stat blob")
	}

	info := &blobstore.ObjectInfo{Key: key, Size: -1}
	if props.ContentLength != nil {
		info.Size = *props.ContentLength
	}
	if props.ContentType != nil {
		info.ContentType = *props.ContentType
	}
	if props.ETag != nil {
		info.ETag = string(*props.ETag)
	}
	if props.LastModified != nil {
		info.LastModified = *props.LastModified
	}
	return info, nil
}

// GetObject opens a streaming handle to the blob at key.
// The caller MUST call Object.Close() after reading.
func (d *Driver) GetObject(ctx context.Context, bucket, key string) (blobstore.Object, error) {
	resp, err := d.client.DownloadStream(ctx, bucket, key, nil)
	if err != nil {
		return nil, mapError(err, "failed to download blob")
	}

	info := &blobstore.ObjectInfo{Key: key, Size: -1}
	if resp.ContentLength != nil {
		info.Size = *resp.ContentLength
	}
	if resp.ContentType != nil {
		info.ContentType = *resp.ContentType
	}
	if resp.ETag != nil {
		info.ETag = string(*resp.ETag)
	}
	if resp.LastModified != nil {
		info.LastModified = *resp.LastModified
	}
	return &object{ReadCloser: resp.Body, info: info}, nil
}

// PutObject always fails: the on-prem container is a read-only source.
func (d *Driver) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	return errs.New(errs.ErrKindReadOnly, "the on-prem container does not accept writes")
}

// RemoveObject always fails: the on-prem container is a read-only source.
func (d *Driver) RemoveObject(ctx context.Context, bucket, key string) error {
	return errs.New(errs.ErrKindReadOnly, "the on-prem container does not accept deletes")
}

// PresignGetURL is not offered for the on-prem container; generating SAS
// tokens is an account-administration concern outside this library.
func (d *Driver) PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	return "", errs.New(errs.ErrKindInvalidInput, "presigned URLs are not supported for the on-prem container")
}

// --- internal types ---

type object struct {
	io.ReadCloser
	info *blobstore.ObjectInfo
}

func (o *object) Info() *blobstore.ObjectInfo {
	return o.info
}

func blobItemInfo(item *container.BlobItem) blobstore.ObjectInfo {
	info := blobstore.ObjectInfo{Key: deref(item.Name), Size: -1}
	if item.Properties != nil {
		if item.Properties.ContentLength != nil {
			info.Size = *item.Properties.ContentLength
		}
		if item.Properties.ContentType != nil {
			info.ContentType = *item.Properties.ContentType
		}
		if item.Properties.ETag != nil {
			info.ETag = string(*item.Properties.ETag)
		}
		if item.Properties.LastModified != nil {
			info.LastModified = *item.Properties.LastModified
		}
	}
	return info
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
