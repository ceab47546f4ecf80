package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileKV keeps one file per key inside Dir.
type FileKV struct {
	Dir string
}

// NewFileKV returns a FileKV rooted at dir. The directory is created on
// first write.
func NewFileKV(dir string) *FileKV {
	return &FileKV{Dir: dir}
}

func (f *FileKV) path(key string) (string, error) {
	if !keyPattern.MatchString(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(f.Dir, key+".json"), nil
}

func (f *FileKV) Get(_ context.Context, key string) ([]byte, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Set replaces the value through a temporary file and a rename, so a
// crash never leaves a half-written collection behind.
func (f *FileKV) Set(_ context.Context, key string, value []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.Dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(f.Dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
