package router

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/appdna/devtrack/internal/sidecar"
)

// UpsertSprint creates or updates a sprint by id in the config document.
// A sprint with no id gets a generated one; the (possibly generated) sprint
// is returned.
func (r *Router) UpsertSprint(sp sidecar.Sprint) (sidecar.Sprint, error) {
	if err := r.requireModel(); err != nil {
		return sidecar.Sprint{}, err
	}

	cfg, err := r.store.LoadConfig()
	if err != nil {
		return sidecar.Sprint{}, err
	}

	if sp.SprintID == "" {
		sp.SprintID = uuid.NewString()
	}

	replaced := false

	for i := range cfg.Sprints {
		if cfg.Sprints[i].SprintID == sp.SprintID {
			cfg.Sprints[i] = sp
			replaced = true

			break
		}
	}

	if !replaced {
		cfg.Sprints = append(cfg.Sprints, sp)
	}

	err = r.store.SaveConfig(cfg)
	if err != nil {
		return sidecar.Sprint{}, err
	}

	return sp, nil
}

// DeleteSprint removes the sprint and clears sprintId on every dev record
// that pointed at it. The config document is written first, then the dev
// document; the two saves are not atomic, so a crash in between can leave
// a dangling sprintId, which the view layer tolerates.
func (r *Router) DeleteSprint(sprintID string) error {
	if err := r.requireModel(); err != nil {
		return err
	}

	if sprintID == "" {
		return errors.New("delete sprint: sprint id is required")
	}

	cfg, err := r.store.LoadConfig()
	if err != nil {
		return err
	}

	found := false
	kept := cfg.Sprints[:0]

	for _, sp := range cfg.Sprints {
		if sp.SprintID == sprintID {
			found = true

			continue
		}

		kept = append(kept, sp)
	}

	if !found {
		return fmt.Errorf("%w: %s", sidecar.ErrSprintNotFound, sprintID)
	}

	cfg.Sprints = kept

	err = r.store.SaveConfig(cfg)
	if err != nil {
		return err
	}

	records, err := r.loadRecords()
	if err != nil {
		return err
	}

	changed := false

	for i := range records {
		if records[i].SprintID == sprintID {
			records[i].SprintID = ""
			changed = true
		}
	}

	if !changed {
		return nil
	}

	return r.store.SaveDevData(records)
}
