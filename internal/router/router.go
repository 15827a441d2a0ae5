// Package router applies tracking mutations as single load-mutate-save
// cycles against the sidecar documents.
//
// Every operation reads the full document, edits it in memory, and writes
// it back whole. There is no locking: overlapping cycles race and the last
// writer wins. A failed write discards the in-memory document; the next
// load re-reads the last successfully written state.
package router

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/appdna/devtrack/internal/model"
	"github.com/appdna/devtrack/internal/sidecar"
)

// Router is the mutation surface over one model's sidecar documents.
type Router struct {
	source model.Source
	store  *sidecar.Store
	log    *slog.Logger
}

// New returns a Router. A nil logger discards warnings.
func New(source model.Source, store *sidecar.Store, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Router{source: source, store: store, log: logger}
}

// requireModel fails fast before any disk access when no model is open.
func (r *Router) requireModel() error {
	if r.source.CurrentFilePath() == "" {
		return fmt.Errorf("%w: open a model first", sidecar.ErrNoModelPath)
	}

	return nil
}

// loadRecords reads the dev records for a mutation. A malformed document
// substitutes an empty list (the store already logged the warning); real
// I/O failures propagate.
func (r *Router) loadRecords() ([]sidecar.DevRecord, error) {
	records, err := r.store.LoadDevData()
	if err != nil {
		if errors.Is(err, sidecar.ErrParse) {
			return nil, nil
		}

		return nil, err
	}

	return records, nil
}

// storyQueueDefault returns the default queue position for a story: its
// parsed story number, or 0 when the story or number is unknown.
func (r *Router) storyQueueDefault(storyID string) int {
	m := r.source.CurrentModel()
	if m == nil {
		return 0
	}

	story, ok := m.StoryByID(storyID)
	if !ok {
		return 0
	}

	return story.NumberValue()
}

// SaveRecord replaces the record with the same story id, or appends it.
// The input is the entire record, not a sparse patch; fields the caller
// leaves zero are written as such.
func (r *Router) SaveRecord(rec sidecar.DevRecord) error {
	if err := r.requireModel(); err != nil {
		return err
	}

	if rec.StoryID == "" {
		return errors.New("save dev record: story id is required")
	}

	records, err := r.loadRecords()
	if err != nil {
		return err
	}

	replaced := false

	for i := range records {
		if records[i].StoryID == rec.StoryID {
			records[i] = rec
			replaced = true

			break
		}
	}

	if !replaced {
		records = append(records, rec)
	}

	return r.store.SaveDevData(records)
}

// bulkUpdate applies one field mutation to every listed story, creating a
// default-shaped record (with the mutation applied) for stories that have
// none. Unrelated fields on existing records are untouched.
func (r *Router) bulkUpdate(storyIDs []string, apply func(*sidecar.DevRecord)) error {
	if err := r.requireModel(); err != nil {
		return err
	}

	records, err := r.loadRecords()
	if err != nil {
		return err
	}

	index := make(map[string]int, len(records))
	for i, rec := range records {
		index[rec.StoryID] = i
	}

	for _, storyID := range storyIDs {
		if i, ok := index[storyID]; ok {
			apply(&records[i])

			continue
		}

		rec := sidecar.DefaultRecord(storyID, r.storyQueueDefault(storyID))
		apply(&rec)

		index[storyID] = len(records)
		records = append(records, rec)
	}

	return r.store.SaveDevData(records)
}

// BulkUpdateStatus sets devStatus on every listed story. Any string is
// accepted; there is no transition graph.
func (r *Router) BulkUpdateStatus(storyIDs []string, status string) error {
	return r.bulkUpdate(storyIDs, func(rec *sidecar.DevRecord) {
		rec.DevStatus = status
	})
}

// BulkUpdatePriority sets priority on every listed story.
func (r *Router) BulkUpdatePriority(storyIDs []string, priority string) error {
	return r.bulkUpdate(storyIDs, func(rec *sidecar.DevRecord) {
		rec.Priority = priority
	})
}

// BulkUpdateStoryPoints sets storyPoints on every listed story.
func (r *Router) BulkUpdateStoryPoints(storyIDs []string, points string) error {
	return r.bulkUpdate(storyIDs, func(rec *sidecar.DevRecord) {
		rec.StoryPoints = points
	})
}

// BulkUpdateAssignment sets assignedTo (a developer display name) on every
// listed story.
func (r *Router) BulkUpdateAssignment(storyIDs []string, developerName string) error {
	return r.bulkUpdate(storyIDs, func(rec *sidecar.DevRecord) {
		rec.AssignedTo = developerName
	})
}

// BulkUpdateSprint sets sprintId on every listed story. An empty sprint id
// unassigns.
func (r *Router) BulkUpdateSprint(storyIDs []string, sprintID string) error {
	return r.bulkUpdate(storyIDs, func(rec *sidecar.DevRecord) {
		rec.SprintID = sprintID
	})
}

// QueuePosition pairs a story with its new advisory queue position.
type QueuePosition struct {
	StoryID  string
	Position int
}

// UpdateQueuePositions updates or creates records with caller-supplied
// positions. Duplicate or gapped positions are accepted as-is; ordering is
// advisory, not enforced.
func (r *Router) UpdateQueuePositions(positions []QueuePosition) error {
	if err := r.requireModel(); err != nil {
		return err
	}

	records, err := r.loadRecords()
	if err != nil {
		return err
	}

	index := make(map[string]int, len(records))
	for i, rec := range records {
		index[rec.StoryID] = i
	}

	for _, p := range positions {
		if i, ok := index[p.StoryID]; ok {
			records[i].DevelopmentQueuePosition = p.Position

			continue
		}

		rec := sidecar.DefaultRecord(p.StoryID, p.Position)

		index[p.StoryID] = len(records)
		records = append(records, rec)
	}

	return r.store.SaveDevData(records)
}

// AssignStoryToSprint sets the story's sprintId, creating a default record
// if none exists.
func (r *Router) AssignStoryToSprint(storyID, sprintID string) error {
	return r.bulkUpdate([]string{storyID}, func(rec *sidecar.DevRecord) {
		rec.SprintID = sprintID
	})
}

// UnassignStoryFromSprint clears the story's sprintId.
func (r *Router) UnassignStoryFromSprint(storyID string) error {
	return r.bulkUpdate([]string{storyID}, func(rec *sidecar.DevRecord) {
		rec.SprintID = ""
	})
}
