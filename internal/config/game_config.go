package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// GameConfig is the rules configuration consumed at TM construction and on
// config change between games (spec §6 "Game Config").
//
// Every duration field is stored in whole seconds in the YAML file (the
// panel protocol and the UI both work in whole seconds) and converted to
// time.Duration by LoadGameConfig.
type GameConfig struct {
	HalfPlayDuration        time.Duration `yaml:"-"`
	HalfTimeDuration        time.Duration `yaml:"-"`
	NominalBreak            time.Duration `yaml:"-"`
	MinimumBreak            time.Duration `yaml:"-"`
	PreOvertimeBreak        time.Duration `yaml:"-"`
	OvertimeHalfPlayDuration time.Duration `yaml:"-"`
	OvertimeHalfTimeDuration time.Duration `yaml:"-"`
	PreSuddenDeathDuration  time.Duration `yaml:"-"`
	TeamTimeoutDuration     time.Duration `yaml:"-"`
	PostGameDuration        time.Duration `yaml:"-"`

	TeamTimeoutsPerHalf uint16 `yaml:"team_timeouts_per_half"`
	OvertimeAllowed     bool   `yaml:"overtime_allowed"`
	SuddenDeathAllowed  bool   `yaml:"sudden_death_allowed"`

	// ScheduleTimezone is the IANA zone used to interpret a next_game
	// wall-clock start instant (SPEC_FULL.md §3). Empty means UTC.
	ScheduleTimezone string `yaml:"schedule_timezone"`
}

// gameConfigYAML is the on-disk shape: seconds, not time.Duration, matching
// a plain-int YAML style.
type gameConfigYAML struct {
	HalfPlaySec         int64  `yaml:"half_play_duration_sec"`
	HalfTimeSec         int64  `yaml:"half_time_duration_sec"`
	NominalBreakSec     int64  `yaml:"nominal_break_sec"`
	MinimumBreakSec     int64  `yaml:"minimum_break_sec"`
	PreOvertimeBreakSec int64  `yaml:"pre_overtime_break_sec"`
	OTHalfPlaySec       int64  `yaml:"ot_half_play_duration_sec"`
	OTHalfTimeSec       int64  `yaml:"ot_half_time_duration_sec"`
	PreSuddenDeathSec   int64  `yaml:"pre_sudden_death_duration_sec"`
	TeamTimeoutSec      int64  `yaml:"team_timeout_duration_sec"`
	PostGameSec         int64  `yaml:"post_game_duration_sec"`
	TeamTimeoutsPerHalf uint16 `yaml:"team_timeouts_per_half"`
	OvertimeAllowed     bool   `yaml:"overtime_allowed"`
	SuddenDeathAllowed  bool   `yaml:"sudden_death_allowed"`
	ScheduleTimezone    string `yaml:"schedule_timezone"`
}

// DefaultGameConfig mirrors standard underwater hockey tournament rules.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		HalfPlayDuration:         15 * time.Minute,
		HalfTimeDuration:         3 * time.Minute,
		NominalBreak:             10 * time.Minute,
		MinimumBreak:             3 * time.Minute,
		PreOvertimeBreak:         1 * time.Minute,
		OvertimeHalfPlayDuration: 5 * time.Minute,
		OvertimeHalfTimeDuration: 1 * time.Minute,
		PreSuddenDeathDuration:   1 * time.Minute,
		TeamTimeoutDuration:      1 * time.Minute,
		PostGameDuration:         3 * time.Minute,
		TeamTimeoutsPerHalf:      1,
		OvertimeAllowed:          false,
		SuddenDeathAllowed:       true,
		ScheduleTimezone:         "",
	}
}

// LoadGameConfig reads a GameConfig from a YAML file. A missing file is not
// an error — it yields DefaultGameConfig().
func LoadGameConfig(path string) (GameConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultGameConfig(), nil
	}
	if err != nil {
		return GameConfig{}, fmt.Errorf("read game config: %w", err)
	}

	var raw gameConfigYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return GameConfig{}, fmt.Errorf("parse game config: %w", err)
	}

	cfg := GameConfig{
		HalfPlayDuration:         time.Duration(raw.HalfPlaySec) * time.Second,
		HalfTimeDuration:         time.Duration(raw.HalfTimeSec) * time.Second,
		NominalBreak:             time.Duration(raw.NominalBreakSec) * time.Second,
		MinimumBreak:             time.Duration(raw.MinimumBreakSec) * time.Second,
		PreOvertimeBreak:         time.Duration(raw.PreOvertimeBreakSec) * time.Second,
		OvertimeHalfPlayDuration: time.Duration(raw.OTHalfPlaySec) * time.Second,
		OvertimeHalfTimeDuration: time.Duration(raw.OTHalfTimeSec) * time.Second,
		PreSuddenDeathDuration:   time.Duration(raw.PreSuddenDeathSec) * time.Second,
		TeamTimeoutDuration:      time.Duration(raw.TeamTimeoutSec) * time.Second,
		PostGameDuration:         time.Duration(raw.PostGameSec) * time.Second,
		TeamTimeoutsPerHalf:      raw.TeamTimeoutsPerHalf,
		OvertimeAllowed:          raw.OvertimeAllowed,
		SuddenDeathAllowed:       raw.SuddenDeathAllowed,
		ScheduleTimezone:         raw.ScheduleTimezone,
	}
	return cfg, nil
}

// Location resolves ScheduleTimezone, defaulting to UTC.
func (c GameConfig) Location() *time.Location {
	if c.ScheduleTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.ScheduleTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
