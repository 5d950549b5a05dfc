// Package jsonfile provides the library metadata store as a single
// JSON file. The full record set is rewritten on every append: write
// volume is one row per ingested document, so simplicity and
// human-inspectability win over incremental-write efficiency.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
	"github.com/docinferx/docinferx-cli/internal/core/ports/driven"
)

// Ensure LibraryStore implements the interface.
var _ driven.LibraryStore = (*LibraryStore)(nil)

// LibraryStore is a JSON-file-backed, append-only document ledger.
type LibraryStore struct {
	mu      sync.RWMutex
	path    string
	records []domain.DocumentRecord
}

// NewLibraryStore opens the library file at path, creating an empty
// ledger (and the file itself) when none exists, so the storage
// location is always present after first run.
func NewLibraryStore(path string) (*LibraryStore, error) {
	s := &LibraryStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read library file: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("create library directory: %w", err)
		}
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("parse library file %s: %w", path, err)
	}
	return s, nil
}

// Add appends a record and rewrites the ledger before returning.
func (s *LibraryStore) Add(_ context.Context, record domain.DocumentRecord) error {
	if record.ID == "" {
		return fmt.Errorf("%w: document record needs an ID", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
	if err := s.save(); err != nil {
		// Roll the in-memory state back so a retry is not a duplicate.
		s.records = s.records[:len(s.records)-1]
		return err
	}
	return nil
}

// List returns all records in insertion order.
func (s *LibraryStore) List(_ context.Context) ([]domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DocumentRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Path returns the library file path.
func (s *LibraryStore) Path() string {
	return s.path
}

// save rewrites the ledger file atomically (caller must hold the lock
// for writes).
func (s *LibraryStore) save() error {
	records := s.records
	if records == nil {
		records = []domain.DocumentRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal library: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".library-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp library file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write library file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp library file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("chmod library file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace library file: %w", err)
	}
	return nil
}
