package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type LocalStore struct {
	baseDir string
}

// NewLocalStore creates the temp directory for media assets. An empty
// baseDir falls back to a subdirectory of the system temp dir.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if baseDir == "" {
		baseDir = filepath.Join(os.TempDir(), "interview-media")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (ls *LocalStore) Save(r io.Reader, ext string) (string, error) {
	if ext == "" || !strings.HasPrefix(ext, ".") {
		return "", fmt.Errorf("invalid extension %q", ext)
	}

	fullPath := ls.NewPath(ext)
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return fullPath, nil
}

func (ls *LocalStore) NewPath(ext string) string {
	return filepath.Join(ls.baseDir, uuid.New().String()+ext)
}

func (ls *LocalStore) Remove(path string) error {
	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") || filepath.Dir(cleanPath) != ls.baseDir {
		return fmt.Errorf("invalid path")
	}

	if err := os.Remove(cleanPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
