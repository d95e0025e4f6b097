// Package storage writes objects to a bucket-oriented object store.
package storage

import (
	"context"
	"io"
)

// Storage defines the object store operations used by the service.
type Storage interface {
	io.Closer

	// PutObject stores the content of r under bucket/key.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
}

// PutOptions configures upload behavior.
type PutOptions struct {
	// Size is the content length; -1 or 0 when unknown.
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Bucket string
	Key    string
	Size   int64
	ETag   string
}
