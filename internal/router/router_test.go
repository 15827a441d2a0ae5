package router_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appdna/devtrack/internal/model"
	"github.com/appdna/devtrack/internal/router"
	"github.com/appdna/devtrack/internal/sidecar"
	"github.com/appdna/devtrack/internal/sidecar/fsio"
)

type fakeSource struct {
	m    *model.Model
	path string
}

func (f *fakeSource) CurrentModel() *model.Model      { return f.m }
func (f *fakeSource) CurrentFilePath() string         { return f.path }
func (f *fakeSource) AllObjects() []model.ModelObject { return f.m.AllObjects() }

func testModel(stories ...model.UserStory) *model.Model {
	return &model.Model{Root: &model.RootNode{Namespace: []model.Namespace{
		{Name: "App", UserStory: stories},
	}}}
}

func story(name, number string) model.UserStory {
	return model.UserStory{
		Name:             name,
		StoryNumber:      number,
		IsStoryProcessed: "true",
	}
}

// newRouter returns a router over a temp directory plus its store and dir.
func newRouter(t *testing.T, m *model.Model) (*router.Router, *sidecar.Store, string) {
	t.Helper()

	dir := t.TempDir()
	modelPath := filepath.Join(dir, "app-dna.json")

	store, err := sidecar.New(modelPath)
	require.NoError(t, err)

	return router.New(&fakeSource{m: m, path: modelPath}, store, nil), store, dir
}

func TestOperationsFailFastWithoutModel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := sidecar.New(filepath.Join(dir, "app-dna.json"))
	require.NoError(t, err)

	r := router.New(&fakeSource{}, store, nil)

	for name, op := range map[string]func() error{
		"save record":   func() error { return r.SaveRecord(sidecar.DevRecord{StoryID: "s1"}) },
		"bulk status":   func() error { return r.BulkUpdateStatus([]string{"s1"}, sidecar.StatusBlocked) },
		"queue":         func() error { return r.UpdateQueuePositions([]router.QueuePosition{{StoryID: "s1"}}) },
		"delete sprint": func() error { return r.DeleteSprint("sp1") },
		"assign":        func() error { return r.AssignStoryToSprint("s1", "sp1") },
	} {
		opErr := op()
		assert.ErrorIs(t, opErr, sidecar.ErrNoModelPath, name)
	}

	// Failing fast means no document was created.
	_, statErr := os.Stat(filepath.Join(dir, sidecar.DevDataFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveRecordReplaceOrAppend(t *testing.T) {
	t.Parallel()

	r, store, _ := newRouter(t, testModel(story("s1", "1")))

	first := sidecar.DevRecord{StoryID: "s1", DevStatus: sidecar.StatusInProgress, DevNotes: "wip"}
	require.NoError(t, r.SaveRecord(first))

	// Full replacement: the new record carries no notes, so none survive.
	second := sidecar.DevRecord{StoryID: "s1", DevStatus: sidecar.StatusCompleted}
	require.NoError(t, r.SaveRecord(second))

	records, err := store.LoadDevData()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, sidecar.StatusCompleted, records[0].DevStatus)
	assert.Empty(t, records[0].DevNotes)
}

func TestBulkUpdateCreatesMissingRecords(t *testing.T) {
	t.Parallel()

	r, store, _ := newRouter(t, testModel(story("s9", "9")))

	require.NoError(t, r.BulkUpdatePriority([]string{"s9"}, sidecar.PriorityHigh))

	records, err := store.LoadDevData()
	require.NoError(t, err)

	want := []sidecar.DevRecord{{
		StoryID:                  "s9",
		DevStatus:                sidecar.StatusOnHold,
		Priority:                 sidecar.PriorityHigh,
		StoryPoints:              sidecar.UnknownPoints,
		DevelopmentQueuePosition: 9,
	}}

	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("created record mismatch (-want +got):\n%s", diff)
	}
}

func TestBulkUpdateLeavesUnrelatedFieldsAlone(t *testing.T) {
	t.Parallel()

	r, store, _ := newRouter(t, testModel(story("s1", "1"), story("s2", "2")))

	require.NoError(t, store.SaveDevData([]sidecar.DevRecord{{
		StoryID:     "s1",
		DevStatus:   sidecar.StatusBlocked,
		AssignedTo:  "Alice",
		StoryPoints: "13",
	}}))

	require.NoError(t, r.BulkUpdateStatus([]string{"s1", "s2"}, sidecar.StatusReadyForDev))

	records, err := store.LoadDevData()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, sidecar.StatusReadyForDev, records[0].DevStatus)
	assert.Equal(t, "Alice", records[0].AssignedTo)
	assert.Equal(t, "13", records[0].StoryPoints)
	assert.Equal(t, sidecar.StatusReadyForDev, records[1].DevStatus)
}

func TestUpdateQueuePositionsAcceptsDuplicates(t *testing.T) {
	t.Parallel()

	r, store, _ := newRouter(t, testModel(story("s1", "1"), story("s2", "2")))

	err := r.UpdateQueuePositions([]router.QueuePosition{
		{StoryID: "s1", Position: 5},
		{StoryID: "s2", Position: 5},
	})
	require.NoError(t, err)

	records, loadErr := store.LoadDevData()
	require.NoError(t, loadErr)
	require.Len(t, records, 2)
	assert.Equal(t, 5, records[0].DevelopmentQueuePosition)
	assert.Equal(t, 5, records[1].DevelopmentQueuePosition)
}

func TestAssignAndUnassignSprint(t *testing.T) {
	t.Parallel()

	r, store, _ := newRouter(t, testModel(story("s1", "1")))

	require.NoError(t, r.AssignStoryToSprint("s1", "sprint-1"))

	records, err := store.LoadDevData()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "sprint-1", records[0].SprintID)

	require.NoError(t, r.UnassignStoryFromSprint("s1"))

	records, err = store.LoadDevData()
	require.NoError(t, err)
	assert.Empty(t, records[0].SprintID)
}

func TestUpsertSprintGeneratesIDAndUpdatesInPlace(t *testing.T) {
	t.Parallel()

	r, store, _ := newRouter(t, testModel(story("s1", "1")))

	created, err := r.UpsertSprint(sidecar.Sprint{SprintName: "Alpha", Active: true})
	require.NoError(t, err)
	require.NotEmpty(t, created.SprintID)

	created.SprintName = "Alpha (revised)"
	_, err = r.UpsertSprint(created)
	require.NoError(t, err)

	cfg, err := store.LoadConfig()
	require.NoError(t, err)

	sp, ok := cfg.SprintByID(created.SprintID)
	require.True(t, ok)
	assert.Equal(t, "Alpha (revised)", sp.SprintName)

	// The default sprint from config synthesis plus the upserted one.
	assert.Len(t, cfg.Sprints, 2)
}

func TestDeleteSprintCascadesToDevRecords(t *testing.T) {
	t.Parallel()

	r, store, dir := newRouter(t, testModel(story("s1", "1"), story("s2", "2")))

	sp, err := r.UpsertSprint(sidecar.Sprint{SprintID: "sprint1", SprintName: "Doomed"})
	require.NoError(t, err)

	require.NoError(t, store.SaveDevData([]sidecar.DevRecord{
		{StoryID: "s1", SprintID: "sprint1", DevStatus: sidecar.StatusInProgress},
		{StoryID: "s2", SprintID: "other", DevStatus: sidecar.StatusOnHold},
	}))

	require.NoError(t, r.DeleteSprint(sp.SprintID))

	cfg, err := store.LoadConfig()
	require.NoError(t, err)
	_, ok := cfg.SprintByID("sprint1")
	assert.False(t, ok)

	records, err := store.LoadDevData()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Empty(t, records[0].SprintID)
	assert.Equal(t, "other", records[1].SprintID)

	// The cleared reference is gone from disk, not just empty in memory.
	data, readErr := os.ReadFile(filepath.Join(dir, sidecar.DevDataFileName))
	require.NoError(t, readErr)
	assert.NotContains(t, string(data), "sprint1")
}

func TestDeleteSprintUnknownID(t *testing.T) {
	t.Parallel()

	r, _, _ := newRouter(t, testModel(story("s1", "1")))

	err := r.DeleteSprint("nope")
	require.ErrorIs(t, err, sidecar.ErrSprintNotFound)
}

func TestMutationWriteFailurePropagates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	modelPath := filepath.Join(dir, "app-dna.json")
	injectedErr := errors.New("read-only filesystem")

	fsys := &fsio.Injected{
		Base: fsio.NewReal(),
		FailWrite: func(path string) error {
			if filepath.Base(path) == sidecar.DevDataFileName {
				return injectedErr
			}

			return nil
		},
	}

	store, err := sidecar.NewWithFS(modelPath, fsys, nil)
	require.NoError(t, err)

	m := testModel(story("s1", "1"))
	r := router.New(&fakeSource{m: m, path: modelPath}, store, nil)

	updateErr := r.BulkUpdateStatus([]string{"s1"}, sidecar.StatusCompleted)
	require.ErrorIs(t, updateErr, injectedErr)

	// No retry, no partial write: the next load sees no data.
	records, loadErr := store.LoadDevData()
	require.NoError(t, loadErr)
	assert.Empty(t, records)
}

func TestMutationOnMalformedDocumentStartsFresh(t *testing.T) {
	t.Parallel()

	r, store, dir := newRouter(t, testModel(story("s3", "3")))

	devPath := filepath.Join(dir, sidecar.DevDataFileName)
	require.NoError(t, os.WriteFile(devPath, []byte("][ nope"), 0o600))

	require.NoError(t, r.BulkUpdateStatus([]string{"s3"}, sidecar.StatusInProgress))

	records, err := store.LoadDevData()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, sidecar.StatusInProgress, records[0].DevStatus)
}
