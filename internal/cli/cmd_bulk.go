package cli

import (
	"errors"

	flag "github.com/spf13/pflag"
)

// bulkCommand builds one of the bulk field-update commands. Each takes the
// new value first, then one or more story ids; records are created with
// defaults for ids that have none.
func bulkCommand(name, field, short string, apply func(env *Env, storyIDs []string, value string) error) *Command {
	return &Command{
		Flags: flag.NewFlagSet(name, flag.ContinueOnError),
		Usage: name + " <" + field + "> <story-id...>",
		Short: short,
		Exec: func(a *App, o *IO, args []string) error {
			if len(args) < 2 {
				return errors.New("expected a value and at least one story id")
			}

			env, err := a.Env()
			if err != nil {
				return err
			}

			value, storyIDs := args[0], args[1:]

			err = apply(env, storyIDs, value)
			if err != nil {
				return err
			}

			o.Printf("updated %d stories\n", len(storyIDs))

			return nil
		},
	}
}

func cmdBulkStatus() *Command {
	return bulkCommand("bulk-status", "status", "Set devStatus on several stories",
		func(env *Env, ids []string, v string) error {
			return env.Router.BulkUpdateStatus(ids, v)
		})
}

func cmdBulkPriority() *Command {
	return bulkCommand("bulk-priority", "priority", "Set priority on several stories",
		func(env *Env, ids []string, v string) error {
			return env.Router.BulkUpdatePriority(ids, v)
		})
}

func cmdBulkPoints() *Command {
	return bulkCommand("bulk-points", "points", "Set story points on several stories",
		func(env *Env, ids []string, v string) error {
			return env.Router.BulkUpdateStoryPoints(ids, v)
		})
}

func cmdBulkAssign() *Command {
	return bulkCommand("bulk-assign", "developer", "Assign several stories to a developer",
		func(env *Env, ids []string, v string) error {
			return env.Router.BulkUpdateAssignment(ids, v)
		})
}

func cmdBulkSprint() *Command {
	return bulkCommand("bulk-sprint", "sprint-id", "Move several stories into a sprint",
		func(env *Env, ids []string, v string) error {
			return env.Router.BulkUpdateSprint(ids, v)
		})
}
