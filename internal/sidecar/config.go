package sidecar

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Default forecast parameters seeded into a synthesized config.
const (
	defaultHoursPerPoint  = 4
	defaultWeekdayHours   = 6
	defaultSprintCapacity = 40
	defaultSprintDays     = 14
	defaultSprintName     = "Sprint 1"
	defaultDeveloperName  = "Default Developer"
	isoDate               = "2006-01-02"
)

// DefaultForecastConfig returns the forecast parameters used when no config
// exists yet: a Monday-to-Friday working week.
func DefaultForecastConfig() ForecastConfig {
	return ForecastConfig{
		HoursPerPoint: defaultHoursPerPoint,
		WorkingHours: map[string]float64{
			"monday":    defaultWeekdayHours,
			"tuesday":   defaultWeekdayHours,
			"wednesday": defaultWeekdayHours,
			"thursday":  defaultWeekdayHours,
			"friday":    defaultWeekdayHours,
		},
		DefaultCapacity: defaultSprintCapacity,
	}
}

// defaultConfig synthesizes the initial dev-config document: one default
// developer and one 14-day sprint starting today.
func (s *Store) defaultConfig() Config {
	start := s.now()
	end := start.AddDate(0, 0, defaultSprintDays-1)

	return Config{
		Developers: []Developer{{
			ID:     uuid.NewString(),
			Name:   defaultDeveloperName,
			Active: true,
		}},
		Sprints: []Sprint{{
			SprintID:     uuid.NewString(),
			SprintNumber: 1,
			SprintName:   defaultSprintName,
			StartDate:    start.Format(isoDate),
			EndDate:      end.Format(isoDate),
			Capacity:     defaultSprintCapacity,
			Active:       true,
		}},
		ForecastConfig: DefaultForecastConfig(),
	}
}

// LoadConfig returns the dev-config document. When the file is absent, a
// default config is synthesized and immediately persisted, so a config file
// always exists after the first load. A malformed file degrades to the
// default config with a logged warning but is NOT persisted over the
// broken file.
func (s *Store) LoadConfig() (Config, error) {
	path := s.ConfigPath()

	data, exists, err := s.readDocument(path)
	if err != nil {
		return Config{}, err
	}

	if !exists {
		cfg := s.defaultConfig()

		err = s.SaveConfig(cfg)
		if err != nil {
			return Config{}, fmt.Errorf("persist default config: %w", err)
		}

		return cfg, nil
	}

	var cfg Config

	err = json.Unmarshal(data, &cfg)
	if err != nil {
		s.log.Warn("dev-config document is malformed, using defaults",
			"path", path, "error", err)

		return s.defaultConfig(), nil
	}

	return cfg, nil
}

// SaveConfig overwrites the entire dev-config document with cfg. Callers
// hold the whole document: saving a config loaded with only some sections
// filled in truncates the others. Use SaveForecastConfig for the merge-safe
// forecast-only update.
func (s *Store) SaveConfig(cfg Config) error {
	if cfg.Developers == nil {
		cfg.Developers = []Developer{}
	}

	if cfg.Sprints == nil {
		cfg.Sprints = []Sprint{}
	}

	return s.writeDocument(s.ConfigPath(), cfg)
}

// SaveForecastConfig updates only the forecast section: it re-reads the
// full document and writes it back with the new forecast parameters, so
// unrelated sprint and developer entries are never lost.
func (s *Store) SaveForecastConfig(fc ForecastConfig) error {
	cfg, err := s.LoadConfig()
	if err != nil {
		return err
	}

	cfg.ForecastConfig = fc

	return s.SaveConfig(cfg)
}
