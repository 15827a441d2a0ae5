package view

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// exportHeader is the fixed column order of CSV exports.
var exportHeader = []string{
	"storyNumber",
	"storyText",
	"devStatus",
	"priority",
	"storyPoints",
	"assignedTo",
	"sprintId",
	"startDate",
	"estimatedEndDate",
	"actualEndDate",
	"blockedReason",
	"devNotes",
	"developmentQueuePosition",
}

// ExportCSV renders rows as RFC 4180 CSV (fields containing a comma, quote,
// or newline are quoted with embedded quotes doubled) and suggests a
// timestamped filename for the download.
func ExportCSV(rows []Row, now time.Time) (content string, filename string, err error) {
	var b strings.Builder

	w := csv.NewWriter(&b)

	err = w.Write(exportHeader)
	if err != nil {
		return "", "", fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.StoryNumber,
			row.StoryText,
			row.DevStatus,
			row.Priority,
			row.StoryPoints,
			row.AssignedTo,
			row.SprintID,
			row.StartDate,
			row.EstimatedEndDate,
			row.ActualEndDate,
			row.BlockedReason,
			row.DevNotes,
			strconv.Itoa(row.DevelopmentQueuePosition),
		}

		err = w.Write(record)
		if err != nil {
			return "", "", fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()

	err = w.Error()
	if err != nil {
		return "", "", fmt.Errorf("flush csv: %w", err)
	}

	name := fmt.Sprintf("user-story-dev-%s.csv", now.Format("2006-01-02-150405"))

	return b.String(), name, nil
}
