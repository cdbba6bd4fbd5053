package core

import "time"

// DefaultScoreTable holds the points for clearing 0-4 lines at once, before the
// level multiplier.
var DefaultScoreTable = []int{0, 100, 300, 500, 800}

// Rules are the tunable constants of a session.
type Rules struct {
	Width  int
	Height int

	BaseInterval  time.Duration // Fall interval at level 1
	IntervalStep  time.Duration // Reduction per level
	MinInterval   time.Duration // Floor
	LinesPerLevel int

	HardDropBonus int   // Points per row descended by a hard drop
	ScoreTable    []int // Indexed by lines cleared at once

	// CarryOver keeps the time beyond the fall interval in the accumulator instead
	// of discarding it.
	CarryOver bool
}

// DefaultRules returns the standard 10x20 rules.
func DefaultRules() Rules {
	return Rules{
		Width:         10,
		Height:        20,
		BaseInterval:  1000 * time.Millisecond,
		IntervalStep:  50 * time.Millisecond,
		MinInterval:   50 * time.Millisecond,
		LinesPerLevel: 10,
		HardDropBonus: 2,
		ScoreTable:    DefaultScoreTable,
	}
}

// normalized fills zero or invalid fields with defaults.
func (r Rules) normalized() Rules {
	def := DefaultRules()
	if r.Width < 5 {
		r.Width = def.Width
	}
	if r.Height < 4 {
		r.Height = def.Height
	}
	if r.BaseInterval <= 0 {
		r.BaseInterval = def.BaseInterval
	}
	if r.IntervalStep < 0 {
		r.IntervalStep = 0
	}
	if r.MinInterval <= 0 {
		r.MinInterval = def.MinInterval
	}
	if r.LinesPerLevel <= 0 {
		r.LinesPerLevel = def.LinesPerLevel
	}
	if r.HardDropBonus < 0 {
		r.HardDropBonus = 0
	}
	if len(r.ScoreTable) == 0 {
		r.ScoreTable = def.ScoreTable
	}
	return r
}

// LevelFor returns the level reached after clearing the given number of lines.
func (r Rules) LevelFor(lines int) int {
	per := r.LinesPerLevel
	if per <= 0 {
		per = 10
	}
	return lines/per + 1
}

// FallInterval returns the automatic fall interval at the given level.
func (r Rules) FallInterval(level int) time.Duration {
	interval := r.BaseInterval - time.Duration(level-1)*r.IntervalStep
	if interval < r.MinInterval {
		return r.MinInterval
	}
	return interval
}

// LinePoints returns the points for clearing n lines at once at the given level.
func (r Rules) LinePoints(n, level int) int {
	if n <= 0 || len(r.ScoreTable) == 0 {
		return 0
	}
	if n >= len(r.ScoreTable) {
		n = len(r.ScoreTable) - 1
	}
	return r.ScoreTable[n] * level
}
