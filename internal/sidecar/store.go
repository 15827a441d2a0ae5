// Package sidecar owns the three JSON documents stored next to an AppDNA
// model file: development-tracking records, sprint/developer/forecast
// configuration, and story page mappings.
//
// Each save serializes the whole in-memory document in one atomic write, so
// a crash never leaves a partially written file. There is no cross-process
// locking: two overlapping load-mutate-save cycles on the same document race
// and the last writer wins. Read failures degrade to empty or default
// documents with a logged warning; write failures always propagate.
package sidecar

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/appdna/devtrack/internal/sidecar/fsio"
)

// Sidecar document file names, colocated with the model file.
const (
	DevDataFileName     = "app-dna-user-story-dev.json"
	DevConfigFileName   = "app-dna-user-story-dev-config.json"
	PageMappingFileName = "app-dna-user-story-page-mapping.json"
)

const filePerms = 0o600

// Store reads and writes the sidecar documents for one model file.
type Store struct {
	dir string
	fs  fsio.FS
	log *slog.Logger
	now func() time.Time
}

// New returns a Store for the sidecar documents colocated with the model
// file at modelPath. Fails with [ErrNoModelPath] when modelPath is empty,
// before any disk access.
func New(modelPath string) (*Store, error) {
	return NewWithFS(modelPath, fsio.NewReal(), nil)
}

// NewWithFS is New with an explicit filesystem and logger, for tests and
// callers that already own a logger. A nil logger discards warnings.
func NewWithFS(modelPath string, fsys fsio.FS, logger *slog.Logger) (*Store, error) {
	if modelPath == "" {
		return nil, ErrNoModelPath
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Store{
		dir: filepath.Dir(modelPath),
		fs:  fsys,
		log: logger,
		now: time.Now,
	}, nil
}

// DevDataPath returns the path of the dev-tracking document.
func (s *Store) DevDataPath() string {
	return filepath.Join(s.dir, DevDataFileName)
}

// ConfigPath returns the path of the dev-config document.
func (s *Store) ConfigPath() string {
	return filepath.Join(s.dir, DevConfigFileName)
}

// PageMappingPath returns the path of the page-mapping document.
func (s *Store) PageMappingPath() string {
	return filepath.Join(s.dir, PageMappingFileName)
}

// readDocument reads a sidecar document. Returns (nil, false, nil) when the
// file does not exist; a missing document is a valid state, not an error.
func (s *Store) readDocument(path string) ([]byte, bool, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	return data, true, nil
}

// writeDocument serializes v and overwrites the document at path in one
// atomic write.
func (s *Store) writeDocument(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	data = append(data, '\n')

	err = s.fs.WriteFileAtomic(path, data, filePerms)
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	return nil
}
