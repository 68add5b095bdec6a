package storage

import (
	"context"
	"io"
)

// ImageStore persists uploaded images and resolves their public URL.
type ImageStore interface {
	// Save writes r under dir with a generated name and returns the stored path.
	Save(ctx context.Context, dir, ext string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
	URL(path string) string
}
