// Package view composes the joined story rows the tracking surfaces render.
//
// Rows are rebuilt from the model and the sidecar documents on every
// request; nothing is cached between requests.
package view

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/appdna/devtrack/internal/model"
	"github.com/appdna/devtrack/internal/sidecar"
)

// Row is the transient join of a user story and its (possibly default)
// dev record. Never persisted.
type Row struct {
	StoryID                  string
	StoryNumber              string
	StoryText                string
	DevStatus                string
	Priority                 string
	StoryPoints              string
	AssignedTo               string
	SprintID                 string
	StartDate                string
	EstimatedEndDate         string
	ActualEndDate            string
	BlockedReason            string
	DevNotes                 string
	DevelopmentQueuePosition int
	Selected                 bool
}

// Result is one composed view: the rows plus their total count. NoModel is
// set instead of failing when no model is loaded.
type Result struct {
	Rows    []Row
	Total   int
	NoModel bool
}

// Composer joins model stories with sidecar dev records.
type Composer struct {
	source model.Source
	store  *sidecar.Store
	log    *slog.Logger
}

// NewComposer returns a Composer over the given model source and sidecar
// store. A nil logger discards warnings.
func NewComposer(source model.Source, store *sidecar.Store, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Composer{source: source, store: store, log: logger}
}

// Compose returns the joined row set. sortColumn may be empty for model
// order. Read failures on the dev-tracking document degrade to default
// rows with a logged warning; the view never fails on a read.
func (c *Composer) Compose(sortColumn string, descending bool) Result {
	m := c.source.CurrentModel()
	if m == nil {
		return Result{Rows: []Row{}, NoModel: true}
	}

	records, err := c.store.LoadDevData()
	if err != nil {
		// Availability over completeness on the read path: surface
		// defaults rather than an unusable view.
		c.log.Warn("dev-tracking data unavailable, composing with defaults", "error", err)

		records = nil
	}

	byStory := make(map[string]sidecar.DevRecord, len(records))
	for _, r := range records {
		byStory[r.StoryID] = r
	}

	rows := []Row{}

	for _, story := range VisibleStories(m) {
		rows = append(rows, composeRow(story, byStory))
	}

	if sortColumn != "" {
		sortRows(rows, sortColumn, descending)
	}

	return Result{Rows: rows, Total: len(rows)}
}

// VisibleStories filters to processed, non-ignored stories. Every surface
// that enumerates stories (views, exports, mappings) applies this filter.
func VisibleStories(m *model.Model) []model.UserStory {
	var visible []model.UserStory

	for _, story := range m.AllStories() {
		if story.Processed() && !story.Ignored() {
			visible = append(visible, story)
		}
	}

	return visible
}

func composeRow(story model.UserStory, byStory map[string]sidecar.DevRecord) Row {
	row := Row{
		StoryID:     story.Name,
		StoryNumber: story.StoryNumber,
		StoryText:   story.StoryText,
	}

	rec, tracked := byStory[story.Name]
	if !tracked {
		rec = sidecar.DefaultRecord(story.Name, story.NumberValue())
	}

	row.DevStatus = rec.DevStatus
	row.Priority = rec.Priority
	row.StoryPoints = rec.StoryPoints
	row.AssignedTo = rec.AssignedTo
	row.SprintID = rec.SprintID
	row.StartDate = rec.StartDate
	row.EstimatedEndDate = rec.EstimatedEndDate
	row.ActualEndDate = rec.ActualEndDate
	row.BlockedReason = rec.BlockedReason
	row.DevNotes = rec.DevNotes
	row.DevelopmentQueuePosition = rec.DevelopmentQueuePosition

	return row
}

// Sortable column names. Unknown columns sort as empty strings.
const (
	ColStoryNumber   = "storyNumber"
	ColStoryText     = "storyText"
	ColDevStatus     = "devStatus"
	ColPriority      = "priority"
	ColStoryPoints   = "storyPoints"
	ColAssignedTo    = "assignedTo"
	ColSprintID      = "sprintId"
	ColStartDate     = "startDate"
	ColEstEndDate    = "estimatedEndDate"
	ColActualEndDate = "actualEndDate"
	ColQueuePosition = "developmentQueuePosition"
)

// sortRows sorts in place. Story number and queue position compare
// numerically with parse-or-zero semantics; every other column compares
// case-insensitively. Descending flips the comparator sign, not the final
// slice, so equal keys keep their original relative order either way.
func sortRows(rows []Row, column string, descending bool) {
	cmp := func(a, b Row) int {
		return compareRows(a, b, column)
	}

	if descending {
		asc := cmp
		cmp = func(a, b Row) int {
			return -asc(a, b)
		}
	}

	slices.SortStableFunc(rows, cmp)
}

func compareRows(a, b Row, column string) int {
	switch column {
	case ColStoryNumber:
		return parseOrZero(a.StoryNumber) - parseOrZero(b.StoryNumber)
	case ColQueuePosition:
		return a.DevelopmentQueuePosition - b.DevelopmentQueuePosition
	default:
		va := strings.ToLower(columnValue(a, column))
		vb := strings.ToLower(columnValue(b, column))

		return strings.Compare(va, vb)
	}
}

func columnValue(r Row, column string) string {
	switch column {
	case ColStoryText:
		return r.StoryText
	case ColDevStatus:
		return r.DevStatus
	case ColPriority:
		return r.Priority
	case ColStoryPoints:
		return r.StoryPoints
	case ColAssignedTo:
		return r.AssignedTo
	case ColSprintID:
		return r.SprintID
	case ColStartDate:
		return r.StartDate
	case ColEstEndDate:
		return r.EstimatedEndDate
	case ColActualEndDate:
		return r.ActualEndDate
	default:
		return ""
	}
}

// parseOrZero parses a story number; non-numeric values sort as 0, not
// specially first or last.
func parseOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}

	return n
}
