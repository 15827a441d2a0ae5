package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/appdna/devtrack/internal/router"
)

func cmdQueue() *Command {
	return &Command{
		Flags: flag.NewFlagSet("queue", flag.ContinueOnError),
		Usage: "queue <story-id=position...>",
		Short: "Reorder the development queue",
		Long: "Set queue positions from story-id=position pairs. Positions are\n" +
			"advisory: duplicates and gaps are accepted as given.",
		Exec: func(a *App, o *IO, args []string) error {
			if len(args) == 0 {
				return errors.New("expected at least one story-id=position pair")
			}

			positions := make([]router.QueuePosition, 0, len(args))

			for _, arg := range args {
				storyID, posStr, ok := strings.Cut(arg, "=")
				if !ok || storyID == "" {
					return fmt.Errorf("malformed pair %q, expected story-id=position", arg)
				}

				pos, err := strconv.Atoi(posStr)
				if err != nil {
					return fmt.Errorf("malformed position in %q: %w", arg, err)
				}

				positions = append(positions, router.QueuePosition{StoryID: storyID, Position: pos})
			}

			env, err := a.Env()
			if err != nil {
				return err
			}

			err = env.Router.UpdateQueuePositions(positions)
			if err != nil {
				return err
			}

			o.Printf("updated %d positions\n", len(positions))

			return nil
		},
	}
}
