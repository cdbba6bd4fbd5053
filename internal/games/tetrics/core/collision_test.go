package core_test

import (
	"testing"

	"github.com/vovakirdan/tui-tetrics/internal/games/tetrics/core"
)

func TestWouldCollideBounds(t *testing.T) {
	b := core.NewBoard(10, 20)
	cat := core.ClassicCatalog()

	testCases := []struct {
		name   string
		pt     core.PieceType
		x, y   int
		dx, dy int
		want   bool
	}{
		{"free at spawn", core.PieceO, 4, 0, 0, 0, false},
		{"left wall", core.PieceO, 0, 5, -1, 0, true},
		{"right wall", core.PieceO, 8, 5, 1, 0, true},
		{"floor", core.PieceO, 4, 18, 0, 1, true},
		{"resting on floor", core.PieceO, 4, 18, 0, 0, false},
		{"I flush right", core.PieceI, 6, 0, 0, 0, false},
		{"I over right", core.PieceI, 7, 0, 0, 0, true},
		{"above top", core.PieceO, 4, -2, 0, 0, false},
		{"partly above top", core.PieceT, 3, -1, 0, 0, false},
		{"above top but off the side", core.PieceO, -1, -3, 0, 0, true},
	}

	for _, tc := range testCases {
		p := core.NewPiece(cat, tc.pt)
		p.X, p.Y = tc.x, tc.y
		if got := core.WouldCollide(b, p, tc.dx, tc.dy, nil); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestWouldCollideSettledCells(t *testing.T) {
	b := core.NewBoard(10, 20)
	b.Set(5, 10, core.CellOf(core.PieceZ))
	p := core.NewPiece(core.ClassicCatalog(), core.PieceO)
	p.X, p.Y = 4, 8

	if core.WouldCollide(b, p, 0, 0, nil) {
		t.Error("piece above the block should be free")
	}
	if !core.WouldCollide(b, p, 0, 1, nil) {
		t.Error("moving onto a settled cell should collide")
	}
	if core.WouldCollide(b, p, -1, 1, nil) {
		t.Error("shifting left past the block should be free")
	}
}

func TestWouldCollideCandidateShape(t *testing.T) {
	b := core.NewBoard(10, 20)
	p := core.NewPiece(core.ClassicCatalog(), core.PieceI)
	p.X, p.Y = 3, 17

	vertical := p.Shape.Rotate()
	if !core.WouldCollide(b, p, 0, 0, vertical) {
		t.Error("vertical I at row 17 should cross the floor")
	}

	p.Y = 16
	if core.WouldCollide(b, p, 0, 0, vertical) {
		t.Error("vertical I at row 16 should fit")
	}
	// The piece's own shape is untouched by the check.
	if p.Shape.Rows() != 1 {
		t.Error("candidate check mutated the piece")
	}
}

func TestWouldCollideNegativeRowsIgnoreBoard(t *testing.T) {
	b := core.NewBoard(10, 20)
	fillRow(b, 0)
	p := core.NewPiece(core.ClassicCatalog(), core.PieceO)
	p.X, p.Y = 4, -2

	if core.WouldCollide(b, p, 0, 0, nil) {
		t.Error("cells above the top row never collide by themselves")
	}
	if !core.WouldCollide(b, p, 0, 1, nil) {
		t.Error("cell entering the filled top row should collide")
	}
}
