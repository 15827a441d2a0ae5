package cli

import (
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/appdna/devtrack/internal/view"
)

func cmdExport() *Command {
	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	outPath := flags.String("out", "", "Write to this file instead of stdout")
	sortColumn := flags.String("sort", view.ColStoryNumber, "Sort column")
	descending := flags.Bool("desc", false, "Sort descending")

	return &Command{
		Flags: flags,
		Usage: "export [flags]",
		Short: "Export the tracking board as CSV",
		Long: "Export every visible story row as CSV. The same processed/not-ignored\n" +
			"filter as the view applies; invisible stories are never exported.",
		Exec: func(a *App, o *IO, _ []string) error {
			env, err := a.Env()
			if err != nil {
				return err
			}

			result := env.Composer.Compose(*sortColumn, *descending)
			if result.NoModel {
				return fmt.Errorf("no model loaded")
			}

			content, filename, err := view.ExportCSV(result.Rows, time.Now())
			if err != nil {
				return err
			}

			if *outPath == "" {
				o.Printf("%s", content)
				o.ErrPrintf("suggested filename: %s\n", filename)

				return nil
			}

			err = os.WriteFile(*outPath, []byte(content), 0o600)
			if err != nil {
				return fmt.Errorf("write export: %w", err)
			}

			o.Printf("wrote %d rows to %s\n", result.Total, *outPath)

			return nil
		},
	}
}
