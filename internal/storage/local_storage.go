package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage keeps objects as files below basePath, one directory per
// key prefix.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (ls *LocalStorage) pathForKey(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(key)), nil
}

func (ls *LocalStorage) Save(ctx context.Context, key string, data io.Reader, size int64) error {
	filePath, err := ls.pathForKey(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}

	// Write to a temp file first so readers never see a partial object.
	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), filePath)
}

func (ls *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	filePath, err := ls.pathForKey(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object %s: %w", key, ErrObjectNotFound)
		}
		return nil, err
	}

	return file, nil
}

func (ls *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	filePath, err := ls.pathForKey(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (ls *LocalStorage) Delete(ctx context.Context, key string) error {
	filePath, err := ls.pathForKey(key)
	if err != nil {
		return err
	}

	err = os.Remove(filePath)
	if os.IsNotExist(err) {
		return nil
	}

	return err
}
