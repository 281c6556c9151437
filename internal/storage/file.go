package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists the state document to a single JSON file. Writes go
// through a temp file and rename so a crash mid-write never leaves a torn
// document behind.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to path, creating parent directories
// as needed on the first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the document atomically.
func (s *FileStore) Save(doc StateDocument) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("commit state: %w", err)
	}
	return nil
}

// Load reads the document back. A missing file is a fresh start, not an
// error.
func (s *FileStore) Load() (StateDocument, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return StateDocument{}, false, nil
	}
	if err != nil {
		return StateDocument{}, false, fmt.Errorf("read state: %w", err)
	}

	var doc StateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return StateDocument{}, false, fmt.Errorf("decode state: %w", err)
	}
	return doc, true, nil
}
