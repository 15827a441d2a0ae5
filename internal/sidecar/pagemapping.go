package sidecar

import (
	"encoding/json"
	"fmt"
	"strings"
)

const pageMappingsKey = "pageMappings"

// rawPageMapping defers field decoding so legacy string-typed fields can be
// detected and migrated.
type rawPageMapping struct {
	PageMapping json.RawMessage `json:"pageMapping"`
	IgnorePages json.RawMessage `json:"ignorePages"`
}

// LoadPageMappings returns the page mappings keyed by story number.
//
// Legacy documents stored pageMapping and ignorePages as single
// newline-delimited strings. Loading migrates them to arrays (split on
// newlines, trimmed, empty lines dropped) and persists the migrated
// document before returning. The migration is idempotent: an
// already-migrated document is returned as-is without a rewrite.
//
// A missing file returns an empty map; a malformed file returns [ErrParse].
func (s *Store) LoadPageMappings() (map[string]PageMapping, error) {
	path := s.PageMappingPath()

	data, exists, err := s.readDocument(path)
	if err != nil {
		return nil, err
	}

	if !exists {
		return map[string]PageMapping{}, nil
	}

	doc, err := decodeTopLevel(data, path, s)
	if err != nil {
		return nil, err
	}

	var raw map[string]rawPageMapping

	if rawMappings, ok := doc[pageMappingsKey]; ok {
		err = json.Unmarshal(rawMappings, &raw)
		if err != nil {
			s.log.Warn("page-mapping document is malformed, treating as empty",
				"path", path, "error", err)

			return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
		}
	}

	mappings := make(map[string]PageMapping, len(raw))
	migrated := false

	for storyNumber, entry := range raw {
		pages, pagesMigrated, pagesErr := normalizePageList(entry.PageMapping)
		if pagesErr != nil {
			return nil, fmt.Errorf("%w: %s: story %s: %w", ErrParse, path, storyNumber, pagesErr)
		}

		ignored, ignoredMigrated, ignoredErr := normalizePageList(entry.IgnorePages)
		if ignoredErr != nil {
			return nil, fmt.Errorf("%w: %s: story %s: %w", ErrParse, path, storyNumber, ignoredErr)
		}

		mappings[storyNumber] = PageMapping{PageMapping: pages, IgnorePages: ignored}
		migrated = migrated || pagesMigrated || ignoredMigrated
	}

	if migrated {
		err = s.savePageMappingsInto(doc, mappings)
		if err != nil {
			return nil, fmt.Errorf("persist migrated page mappings: %w", err)
		}
	}

	return mappings, nil
}

// SavePageMappings replaces the pageMappings key of the document, keeping
// every other top-level key intact. Unlike SaveConfig this path is
// additive-safe: auxiliary metadata written by other tools survives.
func (s *Store) SavePageMappings(mappings map[string]PageMapping) error {
	path := s.PageMappingPath()

	data, exists, err := s.readDocument(path)
	if err != nil {
		return err
	}

	doc := map[string]json.RawMessage{}

	if exists {
		doc, err = decodeTopLevel(data, path, s)
		if err != nil {
			// A malformed document cannot be merged with; start fresh
			// rather than fail the save the user asked for.
			doc = map[string]json.RawMessage{}
		}
	}

	return s.savePageMappingsInto(doc, mappings)
}

func (s *Store) savePageMappingsInto(doc map[string]json.RawMessage, mappings map[string]PageMapping) error {
	if mappings == nil {
		mappings = map[string]PageMapping{}
	}

	encoded, err := json.Marshal(mappings)
	if err != nil {
		return fmt.Errorf("encode page mappings: %w", err)
	}

	doc[pageMappingsKey] = encoded

	return s.writeDocument(s.PageMappingPath(), doc)
}

func decodeTopLevel(data []byte, path string, s *Store) (map[string]json.RawMessage, error) {
	var doc map[string]json.RawMessage

	err := json.Unmarshal(data, &doc)
	if err != nil {
		s.log.Warn("page-mapping document is malformed, treating as empty",
			"path", path, "error", err)

		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	if doc == nil {
		doc = map[string]json.RawMessage{}
	}

	return doc, nil
}

// normalizePageList decodes a page list that is either an array of strings
// (current format) or a newline-delimited string (legacy format). Reports
// whether a legacy value was migrated.
func normalizePageList(raw json.RawMessage) ([]string, bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}, false, nil
	}

	var list []string

	err := json.Unmarshal(raw, &list)
	if err == nil {
		if list == nil {
			list = []string{}
		}

		return list, false, nil
	}

	var legacy string

	err = json.Unmarshal(raw, &legacy)
	if err != nil {
		return nil, false, err
	}

	return splitPageLines(legacy), true, nil
}

func splitPageLines(legacy string) []string {
	pages := []string{}

	for _, line := range strings.Split(legacy, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			pages = append(pages, line)
		}
	}

	return pages
}
