package config

import (
	_ "embed"
)

//go:embed defaults/tetrics.yaml
var defaultTetricsYAML []byte

// DefaultTetricsConfig returns the built-in configuration. It matches the
// embedded defaults/tetrics.yaml.
func DefaultTetricsConfig() TetricsConfig {
	return TetricsConfig{
		Board: BoardConfig{
			Width:  10,
			Height: 20,
		},
		Timing: TimingConfig{
			BaseIntervalMs: 1000,
			StepMs:         50,
			MinIntervalMs:  50,
		},
		Scoring: ScoringConfig{
			LineTable:     []int{0, 100, 300, 500, 800},
			HardDropBonus: 2,
			LinesPerLevel: 10,
		},
		Difficulty: DifficultyConfig{
			Preset:      DifficultyNormal,
			Progression: true,
		},
	}
}

// DefaultYAML returns the embedded default YAML for a game ID.
func DefaultYAML(gameID string) []byte {
	switch gameID {
	case "tetrics", "tetrics_cloud":
		return defaultTetricsYAML
	default:
		return nil
	}
}
