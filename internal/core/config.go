package core

import "time"

// RuntimeConfig is passed to games on Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed; 0 means the platform picks one
}

// DefaultConfig returns the default runtime configuration.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// TickInterval returns the simulated time covered by one Step.
func (c RuntimeConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// GameState is the externally visible status of a game.
type GameState struct {
	Score    int
	Level    int
	Lines    int
	GameOver bool
	Paused   bool
}

// GameOverEvent is reported once when a game ends.
type GameOverEvent struct {
	GameID string
	Score  int
	Level  int
	Lines  int

	// Headline and Detail are optional flavor text for the end screen.
	Headline string
	Detail   string
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State    GameState
	GameOver *GameOverEvent // Set only on the tick the game ended
}
