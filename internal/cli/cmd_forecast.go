package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/appdna/devtrack/internal/forecast"
	"github.com/appdna/devtrack/internal/view"
)

func cmdForecast() *Command {
	flags := flag.NewFlagSet("forecast", flag.ContinueOnError)
	from := flags.String("from", "", "Schedule start date (YYYY-MM-DD, default today)")
	sprints := flags.Bool("sprints", false, "Show committed points per sprint instead of a schedule")

	return &Command{
		Flags: flags,
		Usage: "forecast [flags]",
		Short: "Project completion dates from the development queue",
		Long: "Schedule every incomplete story in queue order against the\n" +
			"working-hours calendar from the dev-config document.",
		Exec: func(a *App, o *IO, _ []string) error {
			env, err := a.Env()
			if err != nil {
				return err
			}

			result := env.Composer.Compose(view.ColQueuePosition, false)
			if result.NoModel {
				return errors.New("the model file could not be read")
			}

			cfg, err := env.Store.LoadConfig()
			if err != nil {
				return err
			}

			if *sprints {
				return printSprintLoads(o, forecast.SprintLoads(result.Rows, cfg.Sprints))
			}

			start := time.Now()

			if *from != "" {
				start, err = time.Parse("2006-01-02", *from)
				if err != nil {
					return fmt.Errorf("invalid --from date: %q", *from)
				}
			}

			schedule := forecast.Project(result.Rows, cfg.ForecastConfig, start)

			w := tabwriter.NewWriter(o.out, 2, 4, 2, ' ', 0)

			_, _ = w.Write([]byte("#\tSTORY\tPOINTS\tHOURS\tSTART\tEND\n"))

			for _, item := range schedule.Items {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%s\t%s\n",
					item.StoryNumber, item.StoryID, item.Points, item.Hours,
					item.Start.Format("2006-01-02"), item.End.Format("2006-01-02"))
			}

			err = w.Flush()
			if err != nil {
				return err
			}

			o.Printf("%d stories, %g points, %g hours\n",
				len(schedule.Items), schedule.TotalPoints, schedule.TotalHours)

			return nil
		},
	}
}

func printSprintLoads(o *IO, loads []forecast.SprintLoad) error {
	w := tabwriter.NewWriter(o.out, 2, 4, 2, ' ', 0)

	_, _ = w.Write([]byte("SPRINT\tCAPACITY\tCOMMITTED\tSTORIES\n"))

	for _, load := range loads {
		_, _ = fmt.Fprintf(w, "%s\t%g\t%g\t%d\n",
			load.Sprint.SprintName, load.Sprint.Capacity, load.CommittedPoints, load.StoryCount)
	}

	return w.Flush()
}
