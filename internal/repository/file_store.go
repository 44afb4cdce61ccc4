package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"StockTiming/internal/domain/models"
)

const (
	endpointsFile = "endpoints.json"
	historyFile   = "history.json"
)

// FileStore persists endpoints and signal history as JSON files under a data
// directory. Writes go through a temp file and rename so a crash mid-write
// never leaves a truncated file behind.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Load(_ context.Context) ([]models.Endpoint, error) {
	var endpoints []models.Endpoint
	if err := s.readJSON(endpointsFile, &endpoints); err != nil {
		return nil, err
	}
	return endpoints, nil
}

func (s *FileStore) Save(_ context.Context, endpoints []models.Endpoint) error {
	return s.writeJSON(endpointsFile, endpoints)
}

// HistoryFileStore shares the data directory with FileStore but owns the
// history file.
type HistoryFileStore struct {
	fs *FileStore
}

func NewHistoryFileStore(fs *FileStore) *HistoryFileStore {
	return &HistoryFileStore{fs: fs}
}

func (s *HistoryFileStore) Load(_ context.Context) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if err := s.fs.readJSON(historyFile, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *HistoryFileStore) Save(_ context.Context, entries []models.HistoryEntry) error {
	return s.fs.writeJSON(historyFile, entries)
}

func (s *FileStore) readJSON(name string, dest interface{}) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}
