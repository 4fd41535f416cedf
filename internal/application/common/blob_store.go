package common

import "context"

// BlobStore stores uploaded files under caller-chosen keys. Put overwrites an
// existing object and returns the public URL of the stored file.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
