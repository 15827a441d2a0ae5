package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// ErrNoModel indicates no model file is loaded or resolvable.
var ErrNoModel = errors.New("no model file loaded")

// ErrModelParse indicates the model file exists but is not valid JSON.
var ErrModelParse = errors.New("cannot parse model file")

// Source supplies the current model to downstream layers. Implementations
// are read-only; the sidecar store never mutates model entities.
type Source interface {
	// CurrentModel returns the loaded model, or nil if none is available.
	CurrentModel() *Model

	// CurrentFilePath returns the absolute path of the model file, or ""
	// if no model is loaded. Sidecar documents are colocated with it.
	CurrentFilePath() string

	// AllObjects returns the flattened object graph of the current model.
	AllObjects() []ModelObject
}

// FileSource is a Source backed by a model file on disk, loaded once.
type FileSource struct {
	path  string
	model *Model
}

var _ Source = (*FileSource)(nil)

// Load reads and parses the model file at path. The file may contain
// comments and trailing commas; it is standardized before decoding.
func Load(path string) (*FileSource, error) {
	if path == "" {
		return nil, ErrNoModel
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoModel, path)
		}

		return nil, fmt.Errorf("read model file: %w", err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrModelParse, path, err)
	}

	var m Model

	err = json.Unmarshal(standardized, &m)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrModelParse, path, err)
	}

	return &FileSource{path: path, model: &m}, nil
}

// CurrentModel implements Source.
func (s *FileSource) CurrentModel() *Model {
	if s == nil {
		return nil
	}

	return s.model
}

// CurrentFilePath implements Source.
func (s *FileSource) CurrentFilePath() string {
	if s == nil {
		return ""
	}

	return s.path
}

// AllObjects implements Source.
func (s *FileSource) AllObjects() []ModelObject {
	return s.CurrentModel().AllObjects()
}
