package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jimengapi/internal/catalog"
)

// FileStore persists the model snapshot as a single JSON document on disk.
// It is the default store for development and single-node deployments.
type FileStore struct {
	path string
}

// NewFileStore initializes a FileStore at the given path and ensures the
// parent directory exists.
func NewFileStore(path string) (*FileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("storage: snapshot path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: ensure snapshot directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// Path returns the configured snapshot location.
func (s *FileStore) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Load reads and decodes the snapshot document.
func (s *FileStore) Load(ctx context.Context) (*catalog.Snapshot, error) {
	if s == nil {
		return nil, errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("storage: read snapshot: %w", err)
	}
	var snap catalog.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("storage: decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save encodes and writes the snapshot document. The write goes through a
// temp file and rename so a crash cannot leave a truncated document behind.
func (s *FileStore) Save(ctx context.Context, snap *catalog.Snapshot) error {
	if s == nil {
		return errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode snapshot: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("storage: write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("storage: replace snapshot: %w", err)
	}
	return nil
}
