package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemStore keeps artifacts below a directory. The router serves that
// directory under /file, which is what URL points at.
type FilesystemStore struct {
	Directory string
	BaseURL   string
}

func NewFilesystemStore(directory string, baseURL string) (*FilesystemStore, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, fmt.Errorf("storage: could not create %s: %w", directory, err)
	}
	return &FilesystemStore{
		Directory: directory,
		BaseURL:   strings.TrimRight(baseURL, "/"),
	}, nil
}

// Put writes to a temporary file next to the target and renames it, so a
// reader never sees a half written artifact.
func (f *FilesystemStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	target := filepath.Join(f.Directory, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

func (f *FilesystemStore) URL(ctx context.Context, key string) (string, error) {
	if !validKey(key) {
		return "", ErrInvalidKey
	}
	return f.BaseURL + "/file/" + key, nil
}
