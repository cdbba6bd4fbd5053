package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset is a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed" // Level-1 speed for the whole game
)

// Presets lists the accepted presets in menu order.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// presetBaseMs is the level-1 fall interval per preset.
var presetBaseMs = map[DifficultyPreset]int{
	DifficultyEasy:   1200,
	DifficultyNormal: 1000,
	DifficultyHard:   600,
	DifficultyFixed:  1000,
}

// ParsePreset converts user input into a preset. Empty input means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return DifficultyNormal, nil
	}
	if _, ok := presetBaseMs[p]; !ok {
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
	return p, nil
}

// IsFixedPreset reports whether the preset disables speed progression.
func IsFixedPreset(p DifficultyPreset) bool {
	return p == DifficultyFixed
}

// ApplyTetricsPreset adjusts the timing for a preset.
func ApplyTetricsPreset(cfg *TetricsConfig, preset DifficultyPreset) {
	base, ok := presetBaseMs[preset]
	if !ok {
		return
	}
	cfg.Difficulty.Preset = preset
	cfg.Timing.BaseIntervalMs = base
	if IsFixedPreset(preset) {
		cfg.Difficulty.Progression = false
		cfg.Timing.StepMs = 0
		return
	}
	cfg.Difficulty.Progression = true
	if cfg.Timing.StepMs == 0 {
		cfg.Timing.StepMs = DefaultTetricsConfig().Timing.StepMs
	}
}
