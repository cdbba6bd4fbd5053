package core

import "time"

// PieceView is a read-only copy of a piece for presentation.
type PieceView struct {
	Type  PieceType
	Label string
	Color uint32
	Shape Shape
	X, Y  int
}

// Snapshot is a consistent, deep-copied view of a session between transitions.
type Snapshot struct {
	Width  int
	Height int
	Cells  [][]Cell

	Current *PieceView
	Next    *PieceView

	Score        int
	Level        int
	Lines        int
	FallInterval time.Duration

	Phase    Phase
	Paused   bool
	GameOver bool

	LastLocked PieceType
	HasLocked  bool
	Catalog    string
}

// Snapshot returns a deep copy of the session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Width:        s.board.Width(),
		Height:       s.board.Height(),
		Cells:        s.board.Cells(),
		Current:      s.view(s.current),
		Next:         s.view(s.next),
		Score:        s.score,
		Level:        s.level,
		Lines:        s.lines,
		FallInterval: s.interval,
		Phase:        s.phase,
		Paused:       s.paused,
		GameOver:     s.phase == PhaseGameOver,
		LastLocked:   s.lastLocked,
		HasLocked:    s.hasLocked,
		Catalog:      s.catalog.Name,
	}
	return snap
}

func (s *Session) view(p *Piece) *PieceView {
	if p == nil {
		return nil
	}
	def := s.catalog.pieces[p.Type]
	return &PieceView{
		Type:  p.Type,
		Label: def.Label,
		Color: def.Color,
		Shape: p.Shape.Clone(),
		X:     p.X,
		Y:     p.Y,
	}
}

// ColorOf returns the catalog color of the piece stored in an occupied cell.
func (c *Catalog) ColorOf(cell Cell) (uint32, bool) {
	t, ok := cell.Piece()
	if !ok || !t.Valid() {
		return 0, false
	}
	return c.pieces[t].Color, true
}
