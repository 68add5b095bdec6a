package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore keeps files on local disk. Paths are slash separated and relative
// to Root; PublicURL is the prefix under which Root is served.
type LocalStore struct {
	Root      string
	PublicURL string
}

func NewLocalStore(root, publicURL string) *LocalStore {
	return &LocalStore{
		Root:      root,
		PublicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *LocalStore) Save(ctx context.Context, dir, ext string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	rel := path.Join(dir, uuid.New().String()+"."+ext)
	full, err := s.resolve(rel)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("close image: %w", err)
	}
	return rel, nil
}

// Delete removes the file at p. A missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, p string) error {
	if p == "" {
		return nil
	}
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(p string) string {
	return s.PublicURL + "/" + strings.TrimLeft(p, "/")
}

func (s *LocalStore) resolve(p string) (string, error) {
	clean := path.Clean("/" + p)
	if clean == "/" {
		return "", fmt.Errorf("invalid storage path %q", p)
	}
	return filepath.Join(s.Root, filepath.FromSlash(clean)), nil
}
