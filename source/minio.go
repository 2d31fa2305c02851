package source

import (
	"context"
	"io"
	"strings"

	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"github.com/minio/minio-go/v7"
)

const objectScheme = "s3://"

// IsObjectURI reports whether uri addresses an object store.
func IsObjectURI(uri string) bool {
	return strings.HasPrefix(uri, objectScheme)
}

// ParseObjectURI splits s3://bucket/key into its bucket and key.
func ParseObjectURI(uri string) (bucket, key string, err error) {
	if !IsObjectURI(uri) {
		return "", "", errors.NewValidationError("uri", "must start with s3://", uri)
	}
	rest := strings.TrimPrefix(uri, objectScheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", errors.NewValidationError("uri", "must have the form s3://bucket/key", uri)
	}
	return bucket, key, nil
}

// MinioOpener reads objects from MinIO or any S3-compatible store.
type MinioOpener struct {
	client *minio.Client
}

// NewMinioOpener creates an opener around an initialized client.
func NewMinioOpener(client *minio.Client) *MinioOpener {
	return &MinioOpener{client: client}
}

// Open streams the object addressed by an s3://bucket/key URI.
func (o *MinioOpener) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := ParseObjectURI(uri)
	if err != nil {
		return nil, err
	}

	obj, err := o.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "get object %s", uri)
	}
	// GetObject is lazy; Stat surfaces a missing key before the first read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, errors.Wrapf(ErrNotFound, "object %s", uri)
		}
		return nil, errors.Wrapf(err, "stat object %s", uri)
	}
	return obj, nil
}
