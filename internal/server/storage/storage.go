// Package storage is the object store client of Ark. It wraps the handful of
// S3 calls the service needs and classifies their failures into the error
// kinds of package common.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Object is a readable blob. Body must be closed by the caller.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// ObjectAttributes describes a stored blob without fetching it.
type ObjectAttributes struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// ObjectStore is the set of object store calls used by the services and the
// admin CLI. Missing buckets and keys are reported as common.ErrorNotFound,
// every other failure as common.ErrorUpstream.
type ObjectStore interface {
	CreateBucket(ctx context.Context) error
	BucketExists(ctx context.Context) (bool, error)
	EnsureBucket(ctx context.Context) error
	ListBuckets(ctx context.Context) ([]string, error)
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
	GetObject(ctx context.Context, key string) (*Object, error)
	GetObjectAttributes(ctx context.Context, key string) (*ObjectAttributes, error)
}

// ObjectKey derives the blob key of one file version.
func ObjectKey(accountID uuid.UUID, filepath string, versionID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s", accountID, filepath, versionID)
}
