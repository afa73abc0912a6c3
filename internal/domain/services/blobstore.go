package services

import (
	"context"
	"io"
)

// BlobStore persists the original uploaded file bytes so the evidentiary
// source material survives independently of extracted text.
type BlobStore interface {
	// Put stores the raw bytes under the given key.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get retrieves previously stored bytes. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
