package sidecar

import (
	"encoding/json"
	"fmt"
)

// devDocument is the on-disk shape of the dev-tracking file.
type devDocument struct {
	DevData []DevRecord `json:"devData"`
}

// LoadDevData returns all dev-tracking records. A missing file returns an
// empty list and creates nothing. A malformed file returns [ErrParse];
// callers on the read path treat that as "no data" and keep the view
// usable, which is why the error is also logged here.
func (s *Store) LoadDevData() ([]DevRecord, error) {
	path := s.DevDataPath()

	data, exists, err := s.readDocument(path)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, nil
	}

	var doc devDocument

	err = json.Unmarshal(data, &doc)
	if err != nil {
		s.log.Warn("dev-tracking document is malformed, treating as empty",
			"path", path, "error", err)

		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	return doc.DevData, nil
}

// SaveDevData overwrites the dev-tracking document with the given records.
// Last writer wins; there is no merging with concurrent writers.
func (s *Store) SaveDevData(records []DevRecord) error {
	if records == nil {
		records = []DevRecord{}
	}

	return s.writeDocument(s.DevDataPath(), devDocument{DevData: records})
}
