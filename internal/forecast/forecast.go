// Package forecast projects development schedules from the tracking queue
// and the forecast parameters in the dev-config document.
//
// Pure calculation, no I/O: callers pass composed rows in and render the
// projections however they like.
package forecast

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/appdna/devtrack/internal/sidecar"
	"github.com/appdna/devtrack/internal/view"
)

// A story with no parseable estimate is planned as one point.
const fallbackPoints = 1

// Projection is the forecast for one story: when work is expected to start
// and finish, given the queue order and the working-hours calendar.
type Projection struct {
	StoryID     string
	StoryNumber string
	Points      float64
	Hours       float64
	Start       time.Time
	End         time.Time
}

// Schedule is a full projection over the incomplete queue.
type Schedule struct {
	Items       []Projection
	TotalPoints float64
	TotalHours  float64
}

// Project schedules every incomplete story in queue order, starting at
// from. Completed stories are excluded; "?" and non-numeric estimates plan
// as one point. Zero or missing forecast parameters fall back to the
// defaults, so a half-filled config still yields a schedule.
func Project(rows []view.Row, fc sidecar.ForecastConfig, from time.Time) Schedule {
	fc = normalize(fc)

	pending := make([]view.Row, 0, len(rows))

	for _, row := range rows {
		if row.DevStatus == sidecar.StatusCompleted {
			continue
		}

		pending = append(pending, row)
	}

	slices.SortStableFunc(pending, func(a, b view.Row) int {
		return a.DevelopmentQueuePosition - b.DevelopmentQueuePosition
	})

	cal := newCalendar(fc.WorkingHours, from)
	schedule := Schedule{Items: make([]Projection, 0, len(pending))}

	for _, row := range pending {
		points := parsePoints(row.StoryPoints)
		hours := points * fc.HoursPerPoint

		start, end := cal.consume(hours)

		schedule.Items = append(schedule.Items, Projection{
			StoryID:     row.StoryID,
			StoryNumber: row.StoryNumber,
			Points:      points,
			Hours:       hours,
			Start:       start,
			End:         end,
		})

		schedule.TotalPoints += points
		schedule.TotalHours += hours
	}

	return schedule
}

// SprintLoad is the committed point total for one sprint.
type SprintLoad struct {
	Sprint          sidecar.Sprint
	CommittedPoints float64
	StoryCount      int
}

// SprintLoads sums assigned story points per sprint. Rows pointing at a
// sprint id that no longer exists are simply not counted anywhere; a
// dangling reference never fails the calculation.
func SprintLoads(rows []view.Row, sprints []sidecar.Sprint) []SprintLoad {
	loads := make([]SprintLoad, len(sprints))
	for i, sp := range sprints {
		loads[i] = SprintLoad{Sprint: sp}
	}

	index := make(map[string]int, len(sprints))
	for i, sp := range sprints {
		index[sp.SprintID] = i
	}

	for _, row := range rows {
		i, ok := index[row.SprintID]
		if !ok {
			continue
		}

		loads[i].CommittedPoints += parsePoints(row.StoryPoints)
		loads[i].StoryCount++
	}

	return loads
}

func normalize(fc sidecar.ForecastConfig) sidecar.ForecastConfig {
	defaults := sidecar.DefaultForecastConfig()

	if fc.HoursPerPoint <= 0 {
		fc.HoursPerPoint = defaults.HoursPerPoint
	}

	// Hand-edited configs show up with capitalized day names; fold the
	// keys so the calendar lookup always hits them.
	hours := make(map[string]float64, len(fc.WorkingHours))
	for day, h := range fc.WorkingHours {
		hours[strings.ToLower(day)] += h
	}

	fc.WorkingHours = hours

	if totalWeeklyHours(fc.WorkingHours) <= 0 {
		fc.WorkingHours = defaults.WorkingHours
	}

	return fc
}

// totalWeeklyHours sums only hours the calendar can reach: keys that are
// not real weekday names contribute nothing, so a config without a single
// scheduled weekday falls back to defaults instead of sending the
// calendar walking forever.
func totalWeeklyHours(hours map[string]float64) float64 {
	var total float64

	for d := time.Sunday; d <= time.Saturday; d++ {
		if h := hours[strings.ToLower(d.String())]; h > 0 {
			total += h
		}
	}

	return total
}

func parsePoints(points string) float64 {
	p, err := strconv.ParseFloat(strings.TrimSpace(points), 64)
	if err != nil || p <= 0 {
		return fallbackPoints
	}

	return p
}

// calendar walks working days, tracking the unconsumed hours of the
// current day.
type calendar struct {
	hours     map[string]float64
	day       time.Time
	remaining float64
}

func newCalendar(hours map[string]float64, from time.Time) *calendar {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())

	c := &calendar{hours: hours, day: day}
	c.remaining = c.dayHours(day)
	c.skipToWorkingDay()

	return c
}

// consume books hours of work and returns the dates the work starts and
// ends on.
func (c *calendar) consume(hours float64) (start, end time.Time) {
	start = c.day

	for hours > c.remaining {
		hours -= c.remaining
		c.advance()
	}

	c.remaining -= hours
	end = c.day

	// A story that exactly drains the day ends today; the next one
	// starts tomorrow.
	if c.remaining <= 0 {
		c.advance()
	}

	return start, end
}

func (c *calendar) advance() {
	c.day = c.day.AddDate(0, 0, 1)
	c.remaining = c.dayHours(c.day)
	c.skipToWorkingDay()
}

func (c *calendar) skipToWorkingDay() {
	for c.remaining <= 0 {
		c.day = c.day.AddDate(0, 0, 1)
		c.remaining = c.dayHours(c.day)
	}
}

func (c *calendar) dayHours(day time.Time) float64 {
	return c.hours[strings.ToLower(day.Weekday().String())]
}
