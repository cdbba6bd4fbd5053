package core_test

import (
	"testing"

	"github.com/vovakirdan/tui-tetrics/internal/games/tetrics/core"
)

func TestRotateTransposeReverse(t *testing.T) {
	testCases := []struct {
		name string
		in   core.Shape
		want core.Shape
	}{
		{"I horizontal", core.Shape{{1, 1, 1, 1}}, core.Shape{{1}, {1}, {1}, {1}}},
		{"T", core.Shape{{0, 1, 0}, {1, 1, 1}}, core.Shape{{1, 0}, {1, 1}, {1, 0}}},
		{"J", core.Shape{{1, 0, 0}, {1, 1, 1}}, core.Shape{{1, 1}, {1, 0}, {1, 0}}},
		{"O", core.Shape{{1, 1}, {1, 1}}, core.Shape{{1, 1}, {1, 1}}},
	}

	for _, tc := range testCases {
		got := tc.in.Rotate()
		if !got.Equal(tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestRotateSwapsDimensions(t *testing.T) {
	s := core.Shape{{0, 1, 1}, {1, 1, 0}}
	r := s.Rotate()
	if r.Rows() != s.Cols() || r.Cols() != s.Rows() {
		t.Errorf("expected %dx%d, got %dx%d", s.Cols(), s.Rows(), r.Rows(), r.Cols())
	}
}

func TestRotateFourTimesIsIdentity(t *testing.T) {
	for _, cat := range []*core.Catalog{core.ClassicCatalog(), core.CloudCatalog()} {
		for _, pt := range cat.Types() {
			base := cat.Def(pt).Shape
			s := base.Clone()
			for i := 0; i < 4; i++ {
				s = s.Rotate()
			}
			if !s.Equal(base) {
				t.Errorf("%s/%v: four rotations changed the shape: %v -> %v", cat.Name, pt, base, s)
			}
		}
	}
}

func TestRotateLeavesReceiverUntouched(t *testing.T) {
	s := core.Shape{{1, 0, 0}, {1, 1, 1}}
	orig := s.Clone()
	_ = s.Rotate()
	if !s.Equal(orig) {
		t.Error("rotation mutated the source shape")
	}
}

func TestPieceCells(t *testing.T) {
	p := core.NewPiece(core.ClassicCatalog(), core.PieceT)
	p.X, p.Y = 3, 5

	cells := p.Cells()
	want := [][2]int{{4, 5}, {3, 6}, {4, 6}, {5, 6}}
	if len(cells) != len(want) {
		t.Fatalf("expected %d cells, got %d", len(want), len(cells))
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cell %d: expected %v, got %v", i, want[i], cells[i])
		}
	}
}

func TestPieceCloneIsIndependent(t *testing.T) {
	p := core.NewPiece(core.ClassicCatalog(), core.PieceL)
	c := p.Clone()
	c.Shape[0][0] = 1
	c.X = 7

	if p.Shape[0][0] != 0 {
		t.Error("clone shares shape storage with the original")
	}
	if p.X == 7 {
		t.Error("clone shares position with the original")
	}
}
