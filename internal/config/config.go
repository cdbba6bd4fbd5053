// Package config loads the YAML game configuration and applies difficulty
// presets.
package config

import "time"

// TetricsConfig holds every tunable of a Tetrics session.
type TetricsConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Timing     TimingConfig     `yaml:"timing"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig sets the playfield size in cells.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TimingConfig controls the automatic fall speed. Durations are in milliseconds.
type TimingConfig struct {
	BaseIntervalMs int  `yaml:"base_interval_ms"`
	StepMs         int  `yaml:"step_ms"`
	MinIntervalMs  int  `yaml:"min_interval_ms"`
	CarryOver      bool `yaml:"carry_over"` // Keep time beyond the interval in the accumulator
}

// ScoringConfig controls points and levels.
type ScoringConfig struct {
	LineTable     []int `yaml:"line_table"` // Points for 0..4 lines at once
	HardDropBonus int   `yaml:"hard_drop_bonus"`
	LinesPerLevel int   `yaml:"lines_per_level"`
}

// DifficultyConfig selects a preset and whether speed increases with level.
type DifficultyConfig struct {
	Preset      DifficultyPreset `yaml:"preset"`
	Progression bool             `yaml:"progression"`
}

// BaseInterval returns the level-1 fall interval.
func (t TimingConfig) BaseInterval() time.Duration {
	return time.Duration(t.BaseIntervalMs) * time.Millisecond
}

// Step returns the interval reduction per level.
func (t TimingConfig) Step() time.Duration {
	return time.Duration(t.StepMs) * time.Millisecond
}

// MinInterval returns the interval floor.
func (t TimingConfig) MinInterval() time.Duration {
	return time.Duration(t.MinIntervalMs) * time.Millisecond
}

// Limits applied by Validate.
const (
	MinBoardWidth  = 5 // Narrowest board the I piece can spawn on
	MinBoardHeight = 4
	MaxBoardWidth  = 30
	MaxBoardHeight = 40
	MinIntervalMs  = 16
)

// Validate clamps out-of-range values in place and fills missing ones from the
// defaults.
func (c *TetricsConfig) Validate() {
	def := DefaultTetricsConfig()

	if c.Board.Width == 0 {
		c.Board.Width = def.Board.Width
	}
	if c.Board.Height == 0 {
		c.Board.Height = def.Board.Height
	}
	c.Board.Width = clamp(c.Board.Width, MinBoardWidth, MaxBoardWidth)
	c.Board.Height = clamp(c.Board.Height, MinBoardHeight, MaxBoardHeight)

	if c.Timing.BaseIntervalMs <= 0 {
		c.Timing.BaseIntervalMs = def.Timing.BaseIntervalMs
	}
	if c.Timing.MinIntervalMs < MinIntervalMs {
		c.Timing.MinIntervalMs = MinIntervalMs
	}
	if c.Timing.BaseIntervalMs < c.Timing.MinIntervalMs {
		c.Timing.BaseIntervalMs = c.Timing.MinIntervalMs
	}
	if c.Timing.StepMs < 0 {
		c.Timing.StepMs = 0
	}

	if len(c.Scoring.LineTable) == 0 {
		c.Scoring.LineTable = def.Scoring.LineTable
	}
	for i, v := range c.Scoring.LineTable {
		if v < 0 {
			c.Scoring.LineTable[i] = 0
		}
	}
	if c.Scoring.HardDropBonus < 0 {
		c.Scoring.HardDropBonus = 0
	}
	if c.Scoring.LinesPerLevel <= 0 {
		c.Scoring.LinesPerLevel = def.Scoring.LinesPerLevel
	}

	if c.Difficulty.Preset == "" {
		c.Difficulty.Preset = DifficultyNormal
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
