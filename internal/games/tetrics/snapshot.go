package tetrics

import "github.com/vovakirdan/tui-tetrics/internal/games/tetrics/core"

// Snapshot captures the game state for determinism tests.
type Snapshot struct {
	Tick uint64
	core.Snapshot
}

// Snapshot returns the current snapshot.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:     g.tick,
		Snapshot: g.session.Snapshot(),
	}
}
