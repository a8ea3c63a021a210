package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists the ordered recency list of project ids. Absence or a
// read failure yields an empty list; it is never a fatal condition.
type Store interface {
	Load() ([]string, error)
	Save(ids []string) error
}

// FileStore keeps the recency list in one JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the recency list. A missing file is an empty list.
func (s *FileStore) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read recency state: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode recency state: %w", err)
	}
	return ids, nil
}

// Save writes the recency list, creating parent directories as needed.
func (s *FileStore) Save(ids []string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode recency state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write recency state: %w", err)
	}
	return nil
}
