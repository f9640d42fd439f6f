// Package archive provides the read-only blobstore.Store for the public
// long-term archive (an unauthenticated S3 bucket such as noaa-wcsd-pds).
//
// It delegates reads to the minio driver configured for anonymous access and
// rejects every write: the archive is authoritative and never written to.
package archive

import (
	"context"
	"io"
	"time"

	"github.com/seabeam/echofetch/internal/blobstore"
	"github.com/seabeam/echofetch/internal/blobstore/minio"
	"github.com/seabeam/echofetch/internal/errs"
)

// Driver is the read-only public-archive implementation of blobstore.Store.
type Driver struct {
	inner  *minio.Driver
	bucket string
}

// New builds an anonymous client for the archive endpoint. Credentials in
// cfg are ignored; the archive is public. bucket is the archive bucket used
// for liveness probes.
func New(ctx context.Context, cfg *blobstore.Config, bucket string) (*Driver, error) {
	anon := *cfg
	anon.AccessKey = ""
	anon.SecretKey = ""
	inner, err := minio.New(ctx, &anon)
	if err != nil {
		return nil, err
	}
	return &Driver{inner: inner, bucket: bucket}, nil
}

// Ping probes the archive with a bounded single-object listing. Anonymous
// clients cannot list buckets, so the generic ping is not usable here.
func (d *Driver) Ping(ctx context.Context) error {
	_, err := d.inner.ListObjects(ctx, d.bucket, blobstore.ListOptions{
		Prefix: "data/raw/", Limit: 1,
	})
	return err
}

func (d *Driver) Close() error {
	return d.inner.Close()
}

func (d *Driver) ListObjects(ctx context.Context, bucket string, opts blobstore.ListOptions) ([]blobstore.ObjectInfo, error) {
	return d.inner.ListObjects(ctx, bucket, opts)
}

func (d *Driver) StatObject(ctx context.Context, bucket, key string) (*blobstore.ObjectInfo, error) {
	return d.inner.StatObject(ctx, bucket, key)
}

func (d *Driver) GetObject(ctx context.Context, bucket, key string) (blobstore.Object, error) {
	return d.inner.GetObject(ctx, bucket, key)
}

// PutObject always fails: the archive is read-only.
func (d *Driver) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	return errs.New(errs.ErrKindReadOnly, "the public archive does not accept writes")
}

// RemoveObject always fails: the archive is read-only.
func (d *Driver) RemoveObject(ctx context.Context, bucket, key string) error {
	return errs.New(errs.ErrKindReadOnly, "the public archive does not accept deletes")
}

func (d *Driver) PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	return d.inner.PresignGetURL(ctx, bucket, key, ttl)
}
