package sidecar

// Dev status values. These are the values the store writes as defaults and
// the UI offers; every update path accepts arbitrary strings by design, so
// none of them are enforced on write.
const (
	StatusOnHold      = "on-hold"
	StatusReadyForDev = "ready-for-dev"
	StatusInProgress  = "in-progress"
	StatusBlocked     = "blocked"
	StatusCompleted   = "completed"
)

// Priority values. Same permissiveness as statuses.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// UnknownPoints is the sentinel used when a story has not been estimated.
const UnknownPoints = "?"

// DevRecord holds the development-tracking fields for one user story,
// keyed by StoryID. Absence of a record is a valid state ("not yet
// tracked"); defaults are supplied at view time and only persisted on the
// first mutation. Saving rewrites the fixed shape below, so any extra
// fields a foreign writer added to a record are dropped on the next save.
type DevRecord struct {
	StoryID                  string `json:"storyId"`
	DevStatus                string `json:"devStatus,omitempty"`
	Priority                 string `json:"priority,omitempty"`
	StoryPoints              string `json:"storyPoints,omitempty"`
	AssignedTo               string `json:"assignedTo,omitempty"`
	SprintID                 string `json:"sprintId,omitempty"`
	StartDate                string `json:"startDate,omitempty"`
	EstimatedEndDate         string `json:"estimatedEndDate,omitempty"`
	ActualEndDate            string `json:"actualEndDate,omitempty"`
	BlockedReason            string `json:"blockedReason,omitempty"`
	DevNotes                 string `json:"devNotes,omitempty"`
	DevelopmentQueuePosition int    `json:"developmentQueuePosition"`
}

// DefaultRecord returns the default-shaped record for a story. queuePos is
// the parsed story number, or 0 when the number is unknown or non-numeric.
func DefaultRecord(storyID string, queuePos int) DevRecord {
	return DevRecord{
		StoryID:                  storyID,
		DevStatus:                StatusOnHold,
		Priority:                 PriorityMedium,
		StoryPoints:              UnknownPoints,
		DevelopmentQueuePosition: queuePos,
	}
}

// Sprint is one sprint in the dev-config document.
type Sprint struct {
	SprintID        string  `json:"sprintId"`
	SprintNumber    int     `json:"sprintNumber,omitempty"`
	SprintName      string  `json:"sprintName,omitempty"`
	StartDate       string  `json:"startDate,omitempty"`
	EndDate         string  `json:"endDate,omitempty"`
	Capacity        float64 `json:"capacity,omitempty"`
	CommittedPoints float64 `json:"committedPoints,omitempty"`
	Active          bool    `json:"active"`
}

// Developer is one developer in the dev-config document. DevRecords
// reference developers by display name via AssignedTo, not by ID; renaming
// a developer detaches existing assignments. That join is preserved as-is.
type Developer struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email,omitempty"`
	HourlyRate float64 `json:"hourlyRate,omitempty"`
	Active     bool    `json:"active"`
}

// ForecastConfig holds the scheduling parameters used by the forecast
// projection: point-to-hour conversion and a working-hours calendar.
type ForecastConfig struct {
	HoursPerPoint float64 `json:"hoursPerPoint,omitempty"`

	// WorkingHours maps lowercase weekday names ("monday" .. "sunday")
	// to hours available that day. Missing or zero means a non-working day.
	WorkingHours map[string]float64 `json:"workingHoursPerDay,omitempty"`

	// DefaultCapacity is the point capacity seeded onto new sprints.
	DefaultCapacity float64 `json:"defaultSprintCapacity,omitempty"`
}

// Config is the dev-config document: developers, sprints, forecast
// parameters, and an opaque settings blob this store round-trips untouched.
type Config struct {
	Developers     []Developer    `json:"developers"`
	Sprints        []Sprint       `json:"sprints"`
	ForecastConfig ForecastConfig `json:"forecastConfig"`
	Settings       map[string]any `json:"settings,omitempty"`
}

// SprintByID returns the sprint with the given id, if present.
func (c *Config) SprintByID(sprintID string) (Sprint, bool) {
	for _, sp := range c.Sprints {
		if sp.SprintID == sprintID {
			return sp, true
		}
	}

	return Sprint{}, false
}

// DeveloperByName returns the developer with the given display name, if
// present. Display name is the assignment join key.
func (c *Config) DeveloperByName(name string) (Developer, bool) {
	for _, d := range c.Developers {
		if d.Name == name {
			return d, true
		}
	}

	return Developer{}, false
}

// PageMapping is the page assignment for one user story, keyed in its
// document by story number (not story id; the documents on disk have
// always been keyed that way).
type PageMapping struct {
	PageMapping []string `json:"pageMapping"`
	IgnorePages []string `json:"ignorePages"`
}
