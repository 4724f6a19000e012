// Package photostore holds uploaded collection-point images.
package photostore

import (
	"context"
	"io"
)

type PhotoStore interface {
	// Save stores r under a collision-resistant name derived from
	// originalName and returns that name as the storage key.
	Save(ctx context.Context, originalName, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}
