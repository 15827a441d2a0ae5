package view_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdna/devtrack/internal/model"
	"github.com/appdna/devtrack/internal/sidecar"
	"github.com/appdna/devtrack/internal/view"
)

// fakeSource serves a fixed model without touching disk.
type fakeSource struct {
	m    *model.Model
	path string
}

func (f *fakeSource) CurrentModel() *model.Model      { return f.m }
func (f *fakeSource) CurrentFilePath() string         { return f.path }
func (f *fakeSource) AllObjects() []model.ModelObject { return f.m.AllObjects() }

func processedStory(name, number, text string) model.UserStory {
	return model.UserStory{
		Name:             name,
		StoryNumber:      number,
		StoryText:        text,
		IsStoryProcessed: "true",
	}
}

func testModel(stories ...model.UserStory) *model.Model {
	return &model.Model{Root: &model.RootNode{Namespace: []model.Namespace{
		{Name: "App", UserStory: stories},
	}}}
}

func newComposer(t *testing.T, m *model.Model) (*view.Composer, *sidecar.Store) {
	t.Helper()

	dir := t.TempDir()
	modelPath := filepath.Join(dir, "app-dna.json")

	store, err := sidecar.New(modelPath)
	require.NoError(t, err)

	return view.NewComposer(&fakeSource{m: m, path: modelPath}, store, nil), store
}

func TestComposeNoModel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := sidecar.New(filepath.Join(dir, "app-dna.json"))
	require.NoError(t, err)

	c := view.NewComposer(&fakeSource{}, store, nil)

	result := c.Compose("", false)
	assert.True(t, result.NoModel)
	assert.Empty(t, result.Rows)
}

func TestComposeDefaultsForUntrackedStory(t *testing.T) {
	t.Parallel()

	c, _ := newComposer(t, testModel(processedStory("s1", "7", "As a user, I want to view all orders")))

	result := c.Compose("", false)
	require.Equal(t, 1, result.Total)

	row := result.Rows[0]
	assert.Equal(t, sidecar.StatusOnHold, row.DevStatus)
	assert.Equal(t, sidecar.PriorityMedium, row.Priority)
	assert.Equal(t, sidecar.UnknownPoints, row.StoryPoints)
	assert.Equal(t, 7, row.DevelopmentQueuePosition)
	assert.Empty(t, row.AssignedTo)
	assert.Empty(t, row.SprintID)
}

func TestComposeOverlaysTrackedRecord(t *testing.T) {
	t.Parallel()

	c, store := newComposer(t, testModel(
		processedStory("s1", "1", "first"),
		processedStory("s2", "2", "second"),
	))

	require.NoError(t, store.SaveDevData([]sidecar.DevRecord{{
		StoryID:                  "s2",
		DevStatus:                sidecar.StatusBlocked,
		Priority:                 sidecar.PriorityCritical,
		StoryPoints:              "8",
		AssignedTo:               "Alice",
		BlockedReason:            "waiting on schema",
		DevelopmentQueuePosition: 12,
	}}))

	result := c.Compose("", false)
	require.Equal(t, 2, result.Total)

	assert.Equal(t, sidecar.StatusOnHold, result.Rows[0].DevStatus)
	assert.Equal(t, sidecar.StatusBlocked, result.Rows[1].DevStatus)
	assert.Equal(t, "waiting on schema", result.Rows[1].BlockedReason)
	assert.Equal(t, 12, result.Rows[1].DevelopmentQueuePosition)
}

func TestComposeFiltersUnprocessedAndIgnored(t *testing.T) {
	t.Parallel()

	unprocessed := model.UserStory{Name: "s2", StoryNumber: "2", StoryText: "not yet"}
	ignored := processedStory("s3", "3", "skip me")
	ignored.IsIgnored = "true"

	c, store := newComposer(t, testModel(processedStory("s1", "1", "keep"), unprocessed, ignored))

	// A dev record for an invisible story must not resurrect it.
	require.NoError(t, store.SaveDevData([]sidecar.DevRecord{
		{StoryID: "s2", DevStatus: sidecar.StatusInProgress},
	}))

	result := c.Compose("", false)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "s1", result.Rows[0].StoryID)
}

func TestComposeSortStoryNumberNumeric(t *testing.T) {
	t.Parallel()

	c, _ := newComposer(t, testModel(
		processedStory("s10", "10", "ten"),
		processedStory("s2", "2", "two"),
		processedStory("s1", "1", "one"),
	))

	result := c.Compose(view.ColStoryNumber, false)

	var numbers []string
	for _, row := range result.Rows {
		numbers = append(numbers, row.StoryNumber)
	}

	assert.Equal(t, []string{"1", "2", "10"}, numbers)
}

func TestComposeSortDescendingKeepsTieOrder(t *testing.T) {
	t.Parallel()

	// s1 and s2 tie on priority; their model order must survive both
	// sort directions.
	c, store := newComposer(t, testModel(
		processedStory("s1", "1", "first"),
		processedStory("s2", "2", "second"),
		processedStory("s3", "3", "third"),
	))

	require.NoError(t, store.SaveDevData([]sidecar.DevRecord{
		{StoryID: "s1", Priority: sidecar.PriorityHigh},
		{StoryID: "s2", Priority: sidecar.PriorityHigh},
		{StoryID: "s3", Priority: sidecar.PriorityLow},
	}))

	asc := c.Compose(view.ColPriority, false)
	require.Equal(t, 3, asc.Total)
	assert.Equal(t, []string{"s1", "s2", "s3"}, rowIDs(asc.Rows))

	desc := c.Compose(view.ColPriority, true)
	assert.Equal(t, []string{"s3", "s1", "s2"}, rowIDs(desc.Rows))
}

func TestComposeSortCaseInsensitive(t *testing.T) {
	t.Parallel()

	c, store := newComposer(t, testModel(
		processedStory("s1", "1", "first"),
		processedStory("s2", "2", "second"),
	))

	require.NoError(t, store.SaveDevData([]sidecar.DevRecord{
		{StoryID: "s1", AssignedTo: "bob"},
		{StoryID: "s2", AssignedTo: "Alice"},
	}))

	result := c.Compose(view.ColAssignedTo, false)
	assert.Equal(t, []string{"s2", "s1"}, rowIDs(result.Rows))
}

func TestComposeMalformedDevDataDegradesToDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	modelPath := filepath.Join(dir, "app-dna.json")

	store, err := sidecar.New(modelPath)
	require.NoError(t, err)

	devPath := filepath.Join(dir, sidecar.DevDataFileName)
	require.NoError(t, os.WriteFile(devPath, []byte("not json"), 0o600))

	m := testModel(processedStory("s1", "4", "still renders"))
	c := view.NewComposer(&fakeSource{m: m, path: modelPath}, store, nil)

	result := c.Compose("", false)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, sidecar.StatusOnHold, result.Rows[0].DevStatus)
}

func TestExportCSVEscaping(t *testing.T) {
	t.Parallel()

	rows := []view.Row{{
		StoryNumber: "1",
		StoryText:   `As a "manager", I want totals, by region`,
		DevStatus:   sidecar.StatusOnHold,
		DevNotes:    "line one\nline two",
	}}

	now := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)

	content, filename, err := view.ExportCSV(rows, now)
	require.NoError(t, err)

	assert.Equal(t, "user-story-dev-2026-08-31-103000.csv", filename)
	assert.Contains(t, content, `"As a ""manager"", I want totals, by region"`)
	assert.Contains(t, content, "\"line one\nline two\"")

	lines := strings.SplitN(content, "\n", 2)
	assert.Equal(t,
		"storyNumber,storyText,devStatus,priority,storyPoints,assignedTo,sprintId,"+
			"startDate,estimatedEndDate,actualEndDate,blockedReason,devNotes,developmentQueuePosition",
		lines[0])
}

func rowIDs(rows []view.Row) []string {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.StoryID)
	}

	return ids
}
