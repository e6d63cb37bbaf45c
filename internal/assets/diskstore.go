package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/OdenLounge/odenLounge-backend/internal/errs"
)

// DiskStore keeps uploaded assets on the local filesystem and serves them
// under /media/ of the public base URL.
type DiskStore struct {
	baseDir string
	baseURL string
}

func NewDiskStore(baseDir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir: %w", err)
	}
	return &DiskStore{baseDir: baseDir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *DiskStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + "/media/" + key, nil
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return errs.ErrNotFound
	}
	return err
}
