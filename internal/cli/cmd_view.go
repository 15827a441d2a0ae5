package cli

import (
	"strconv"
	"text/tabwriter"

	flag "github.com/spf13/pflag"
)

// featureDevView is the session id for the dev tracking view.
const featureDevView = "userStoriesDev"

func cmdView() *Command {
	flags := flag.NewFlagSet("view", flag.ContinueOnError)
	sortColumn := flags.String("sort", "", "Sort column (storyNumber, devStatus, priority, assignedTo, ...)")
	descending := flags.Bool("desc", false, "Sort descending")

	return &Command{
		Flags: flags,
		Usage: "view [flags]",
		Short: "Show the development tracking board",
		Long: "Show every processed user story joined with its tracking record.\n" +
			"Stories without a record show defaults; nothing is written.",
		Exec: func(a *App, o *IO, _ []string) error {
			env, err := a.Env()
			if err != nil {
				return err
			}

			sess, _ := a.Sessions.Acquire(featureDevView)

			result := env.Composer.Compose(*sortColumn, *descending)
			if result.NoModel {
				o.Println("no model loaded")

				return nil
			}

			sprintNames := sprintNameIndex(env)

			w := tabwriter.NewWriter(o.out, 2, 4, 2, ' ', 0)

			_, _ = w.Write([]byte("#\tSTORY\tSTATUS\tPRIORITY\tPOINTS\tASSIGNED\tSPRINT\tQUEUE\n"))

			for _, row := range result.Rows {
				sprint := row.SprintID
				if name, ok := sprintNames[row.SprintID]; ok {
					sprint = name
				}

				_, _ = w.Write([]byte(row.StoryNumber + "\t" +
					truncate(row.StoryText, 48) + "\t" +
					row.DevStatus + "\t" +
					row.Priority + "\t" +
					row.StoryPoints + "\t" +
					row.AssignedTo + "\t" +
					sprint + "\t" +
					strconv.Itoa(row.DevelopmentQueuePosition) + "\n"))
			}

			// The rendered table is the session's payload: flushing it is
			// the teardown, run by Close here or by CloseAll when an error
			// unwinds the command.
			sess.OnClose(func() {
				_ = w.Flush()
				o.Printf("%d stories\n", result.Total)
			})

			a.Sessions.Close(sess.Feature)

			return nil
		},
	}
}

// sprintNameIndex maps sprint ids to display names. A dev record pointing
// at a deleted sprint simply renders its raw id.
func sprintNameIndex(env *Env) map[string]string {
	cfg, err := env.Store.LoadConfig()
	if err != nil {
		return nil
	}

	names := make(map[string]string, len(cfg.Sprints))

	for _, sp := range cfg.Sprints {
		if sp.SprintName != "" {
			names[sp.SprintID] = sp.SprintName
		}
	}

	return names
}

// truncate shortens s to max runes, never splitting a multi-byte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max-3]) + "..."
}
