// Package cas persists where archived artifacts were unpacked, keyed by content fingerprint.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/sdkpkg/internal/core/domain"
	"go.trai.ch/sdkpkg/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ExtractionStore = (*Store)(nil)

// Store implements ports.ExtractionStore using a flat JSON file.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.ExtractionRecord
}

// NewStore creates a new ExtractionStore backed by the file at the given path.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.ExtractionRecord),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "path", s.path)
	}

	return nil
}

// save writes the cache to disk. Callers must hold s.mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.path)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.path)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.path)
	}

	return nil
}

// Get retrieves the extraction record for an artifact path.
func (s *Store) Get(artifactPath string) (*domain.ExtractionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.cache[artifactPath]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Put stores the record and writes the store to disk.
func (s *Store) Put(record domain.ExtractionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[record.ArtifactPath] = record
	return s.save()
}

// Delete removes the record for an artifact path and writes the store to disk.
func (s *Store) Delete(artifactPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache[artifactPath]; !ok {
		return nil
	}
	delete(s.cache, artifactPath)
	return s.save()
}
