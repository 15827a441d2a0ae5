package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	"github.com/appdna/devtrack/internal/sidecar"
)

func cmdSprint() *Command {
	flags := flag.NewFlagSet("sprint", flag.ContinueOnError)
	name := flags.String("name", "", "Sprint name")
	number := flags.Int("number", 0, "Sprint number")
	start := flags.String("start", "", "Start date (YYYY-MM-DD)")
	end := flags.String("end", "", "End date (YYYY-MM-DD)")
	capacity := flags.Float64("capacity", 0, "Point capacity")
	active := flags.Bool("active", false, "Mark the sprint active")

	return &Command{
		Flags: flags,
		Usage: "sprint <ls|add|update|rm> [id] [flags]",
		Short: "Manage sprints",
		Long: "Manage the sprint list in the dev-config document.\n" +
			"Deleting a sprint unassigns every story that pointed at it.\n" +
			"'sprint add' without --name prompts interactively.",
		Exec: func(a *App, o *IO, args []string) error {
			if len(args) == 0 {
				return errors.New("expected a subcommand: ls, add, update, rm")
			}

			env, err := a.Env()
			if err != nil {
				return err
			}

			sub, rest := args[0], args[1:]

			switch sub {
			case "ls":
				return sprintLs(env, o)

			case "add":
				sp := sidecar.Sprint{
					SprintName:   *name,
					SprintNumber: *number,
					StartDate:    *start,
					EndDate:      *end,
					Capacity:     *capacity,
					Active:       *active,
				}

				if !flags.Changed("name") {
					sp, err = promptSprint(o, sp)
					if err != nil {
						return err
					}
				}

				created, err := env.Router.UpsertSprint(sp)
				if err != nil {
					return err
				}

				o.Println("created sprint", created.SprintID)

				return nil

			case "update":
				if len(rest) != 1 {
					return errors.New("expected a sprint id")
				}

				cfg, err := env.Store.LoadConfig()
				if err != nil {
					return err
				}

				sp, ok := cfg.SprintByID(rest[0])
				if !ok {
					return fmt.Errorf("%w: %s", sidecar.ErrSprintNotFound, rest[0])
				}

				if flags.Changed("name") {
					sp.SprintName = *name
				}

				if flags.Changed("number") {
					sp.SprintNumber = *number
				}

				if flags.Changed("start") {
					sp.StartDate = *start
				}

				if flags.Changed("end") {
					sp.EndDate = *end
				}

				if flags.Changed("capacity") {
					sp.Capacity = *capacity
				}

				if flags.Changed("active") {
					sp.Active = *active
				}

				_, err = env.Router.UpsertSprint(sp)
				if err != nil {
					return err
				}

				o.Println("updated sprint", sp.SprintID)

				return nil

			case "rm":
				if len(rest) != 1 {
					return errors.New("expected a sprint id")
				}

				err = env.Router.DeleteSprint(rest[0])
				if err != nil {
					return err
				}

				o.Println("deleted sprint", rest[0])

				return nil

			default:
				return fmt.Errorf("unknown subcommand: %s", sub)
			}
		},
	}
}

func sprintLs(env *Env, o *IO) error {
	cfg, err := env.Store.LoadConfig()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(o.out, 2, 4, 2, ' ', 0)

	_, _ = w.Write([]byte("ID\tNAME\tSTART\tEND\tCAPACITY\tACTIVE\n"))

	for _, sp := range cfg.Sprints {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%v\n",
			sp.SprintID, sp.SprintName, sp.StartDate, sp.EndDate, sp.Capacity, sp.Active)
	}

	return w.Flush()
}
