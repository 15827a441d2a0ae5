package cli

import (
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/appdna/devtrack/internal/sidecar"
)

func cmdSet() *Command {
	flags := flag.NewFlagSet("set", flag.ContinueOnError)
	status := flags.String("status", "", "Development status")
	priority := flags.String("priority", "", "Priority")
	points := flags.String("points", "", "Story points (number or ?)")
	assign := flags.String("assign", "", "Developer name")
	sprint := flags.String("sprint", "", "Sprint id (empty string unassigns)")
	start := flags.String("start", "", "Start date (YYYY-MM-DD)")
	estEnd := flags.String("est-end", "", "Estimated end date")
	actualEnd := flags.String("actual-end", "", "Actual end date")
	blockedReason := flags.String("blocked-reason", "", "Why the story is blocked")
	notes := flags.String("notes", "", "Development notes")
	queue := flags.Int("queue", 0, "Development queue position")

	return &Command{
		Flags: flags,
		Usage: "set <story-id> [flags]",
		Short: "Update tracking fields on one story",
		Long: "Update tracking fields on one story, creating its record on first\n" +
			"write. Only fields named by flags change; the rest round-trip.",
		Exec: func(a *App, o *IO, args []string) error {
			if len(args) != 1 {
				return errors.New("expected exactly one story id")
			}

			storyID := args[0]

			env, err := a.Env()
			if err != nil {
				return err
			}

			rec, err := currentRecord(env, storyID)
			if err != nil {
				return err
			}

			if flags.Changed("status") {
				rec.DevStatus = *status
			}

			if flags.Changed("priority") {
				rec.Priority = *priority
			}

			if flags.Changed("points") {
				rec.StoryPoints = *points
			}

			if flags.Changed("assign") {
				rec.AssignedTo = *assign
			}

			if flags.Changed("sprint") {
				rec.SprintID = *sprint
			}

			if flags.Changed("start") {
				rec.StartDate = *start
			}

			if flags.Changed("est-end") {
				rec.EstimatedEndDate = *estEnd
			}

			if flags.Changed("actual-end") {
				rec.ActualEndDate = *actualEnd
			}

			if flags.Changed("blocked-reason") {
				rec.BlockedReason = *blockedReason
			}

			if flags.Changed("notes") {
				rec.DevNotes = *notes
			}

			if flags.Changed("queue") {
				rec.DevelopmentQueuePosition = *queue
			}

			err = env.Router.SaveRecord(rec)
			if err != nil {
				return err
			}

			o.Println("updated", storyID)

			return nil
		},
	}
}

// currentRecord returns the story's persisted record, or a default-shaped
// one so the save path always writes a complete record. A malformed
// document starts fresh; the store already logged the warning.
func currentRecord(env *Env, storyID string) (sidecar.DevRecord, error) {
	records, err := env.Store.LoadDevData()
	if err != nil && !errors.Is(err, sidecar.ErrParse) {
		return sidecar.DevRecord{}, err
	}

	for _, rec := range records {
		if rec.StoryID == storyID {
			return rec, nil
		}
	}

	queuePos := 0
	if story, ok := env.Source.CurrentModel().StoryByID(storyID); ok {
		queuePos = story.NumberValue()
	}

	return sidecar.DefaultRecord(storyID, queuePos), nil
}
