package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/appdna/devtrack/internal/sidecar"
)

// promptSprint fills in the fields of a new sprint interactively.
// Empty answers keep the shown default.
func promptSprint(o *IO, sp sidecar.Sprint) (sidecar.Sprint, error) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	today := time.Now().Format("2006-01-02")
	if sp.StartDate == "" {
		sp.StartDate = today
	}

	name, err := ask(line, "Sprint name", sp.SprintName)
	if err != nil {
		return sidecar.Sprint{}, err
	}

	if name == "" {
		return sidecar.Sprint{}, errors.New("a sprint needs a name")
	}

	sp.SprintName = name

	start, err := ask(line, "Start date (YYYY-MM-DD)", sp.StartDate)
	if err != nil {
		return sidecar.Sprint{}, err
	}

	sp.StartDate = start

	end, err := ask(line, "End date (YYYY-MM-DD)", sp.EndDate)
	if err != nil {
		return sidecar.Sprint{}, err
	}

	sp.EndDate = end

	capacity, err := ask(line, "Point capacity", strconv.FormatFloat(sp.Capacity, 'g', -1, 64))
	if err != nil {
		return sidecar.Sprint{}, err
	}

	if capacity != "" {
		sp.Capacity, err = strconv.ParseFloat(capacity, 64)
		if err != nil {
			return sidecar.Sprint{}, fmt.Errorf("invalid capacity: %q", capacity)
		}
	}

	o.Println()

	return sp, nil
}

func ask(line *liner.State, label, def string) (string, error) {
	prompt := label + ": "
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, def)
	}

	answer, err := line.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", errors.New("aborted")
		}

		return "", err
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def, nil
	}

	return answer, nil
}
