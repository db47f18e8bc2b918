package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/emrgen/reader/internal/model"
)

const assetExt = ".mp3"

var _ Store = (*LocalStore)(nil)

// LocalStore saves assets as {dir}/{id}.mp3.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = "audio"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create audio dir %s: %w", model.ErrStorage, dir, err)
	}

	return &LocalStore{dir: dir}, nil
}

// Path returns the file path of an asset.
func (l *LocalStore) Path(id string) string {
	return filepath.Join(l.dir, id+assetExt)
}

// Write stores the asset through a temp file so a reader never sees a partial file.
func (l *LocalStore) Write(_ context.Context, id string, data []byte) error {
	tmp, err := os.CreateTemp(l.dir, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: write asset %s: %w", model.ErrStorage, id, err)
	}

	_, err = tmp.Write(data)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), l.Path(id))
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: write asset %s: %w", model.ErrStorage, id, err)
	}

	return nil
}

func (l *LocalStore) Read(_ context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(l.Path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: asset %s", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read asset %s: %w", model.ErrStorage, id, err)
	}

	return data, nil
}

func (l *LocalStore) Exists(_ context.Context, id string) (bool, error) {
	_, err := os.Stat(l.Path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: stat asset %s: %w", model.ErrStorage, id, err)
	}

	return true, nil
}

func (l *LocalStore) Delete(_ context.Context, id string) error {
	err := os.Remove(l.Path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: asset %s", model.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("%w: delete asset %s: %w", model.ErrStorage, id, err)
	}

	return nil
}

func (l *LocalStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list assets: %w", model.ErrStorage, err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, assetExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, assetExt))
	}

	return ids, nil
}
