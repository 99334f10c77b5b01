package port

import (
	"context"
	"io"
	"time"
)

// Blob is an attachment binary on its way to the blob store. Owner and Form
// are stored as object metadata so orphans can be traced back to a user.
type Blob struct {
	Key         string
	Body        io.Reader
	ContentType string
	FileName    string
	Size        int64
	Owner       string
	Form        string
}

// StoredBlob is what the store reports after a successful Put.
type StoredBlob struct {
	Key  string
	ETag string
}

// BlobStore keeps attachment binaries in a single bucket.
type BlobStore interface {
	Put(ctx context.Context, blob Blob) (*StoredBlob, error)
	// Remove deletes keys in one batch. Missing keys are not an error.
	Remove(ctx context.Context, keys ...string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
