package cli

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/appdna/devtrack/internal/sidecar"
)

func cmdAssign() *Command {
	return &Command{
		Flags: flag.NewFlagSet("assign", flag.ContinueOnError),
		Usage: "assign <story-id> <sprint-id>",
		Short: "Assign a story to a sprint",
		Exec: func(a *App, o *IO, args []string) error {
			if len(args) != 2 {
				return errors.New("expected a story id and a sprint id")
			}

			env, err := a.Env()
			if err != nil {
				return err
			}

			storyID, sprintID := args[0], args[1]

			cfg, err := env.Store.LoadConfig()
			if err != nil {
				return err
			}

			if _, ok := cfg.SprintByID(sprintID); !ok {
				return fmt.Errorf("%w: %s", sidecar.ErrSprintNotFound, sprintID)
			}

			err = env.Router.AssignStoryToSprint(storyID, sprintID)
			if err != nil {
				return err
			}

			o.Printf("assigned %s to %s\n", storyID, sprintID)

			return nil
		},
	}
}

func cmdUnassign() *Command {
	return &Command{
		Flags: flag.NewFlagSet("unassign", flag.ContinueOnError),
		Usage: "unassign <story-id>",
		Short: "Remove a story's sprint assignment",
		Exec: func(a *App, o *IO, args []string) error {
			if len(args) != 1 {
				return errors.New("expected a story id")
			}

			env, err := a.Env()
			if err != nil {
				return err
			}

			err = env.Router.UnassignStoryFromSprint(args[0])
			if err != nil {
				return err
			}

			o.Printf("unassigned %s\n", args[0])

			return nil
		},
	}
}
