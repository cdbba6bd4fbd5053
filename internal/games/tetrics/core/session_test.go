package core

import (
	"math/rand"
	"testing"
	"time"
)

func newTestSession(cat *Catalog, onOver func(GameOver)) *Session {
	return NewSession(Options{
		Rules:      DefaultRules(),
		Catalog:    cat,
		Rand:       rand.New(rand.NewSource(1)),
		OnGameOver: onOver,
	})
}

// force replaces the active piece.
func (s *Session) force(pt PieceType, x, y int) {
	s.current = NewPiece(s.catalog, pt)
	s.current.X, s.current.Y = x, y
}

func stageRow(b *Board, y int, except ...int) {
	skip := make(map[int]bool, len(except))
	for _, x := range except {
		skip[x] = true
	}
	for x := 0; x < b.Width(); x++ {
		if !skip[x] {
			b.Set(x, y, CellOf(PieceJ))
		}
	}
}

// blockSpawn fills the cells every piece covers at the spawn origin.
func blockSpawn(b *Board) {
	for y := 0; y < 2; y++ {
		for x := 4; x <= 7; x++ {
			b.Set(x, y, CellOf(PieceZ))
		}
	}
}

func TestNewSessionSpawns(t *testing.T) {
	s := newTestSession(nil, nil)

	if s.Phase() != PhaseFalling {
		t.Fatalf("expected falling, got %v", s.Phase())
	}
	cur := s.Current()
	if cur == nil || s.Next() == nil {
		t.Fatal("expected current and next pieces")
	}
	if cur.X != 4 || cur.Y != 0 {
		t.Errorf("expected spawn at (4,0), got (%d,%d)", cur.X, cur.Y)
	}
	if !cur.Shape.Equal(s.Catalog().Def(cur.Type).Shape) {
		t.Error("spawned piece should use its base shape")
	}
	if s.Score() != 0 || s.Level() != 1 || s.Lines() != 0 {
		t.Errorf("unexpected counters: score=%d level=%d lines=%d", s.Score(), s.Level(), s.Lines())
	}
	if s.FallInterval() != time.Second {
		t.Errorf("expected 1s interval, got %v", s.FallInterval())
	}
}

func TestSpawnPromotesNext(t *testing.T) {
	s := newTestSession(nil, nil)
	next := s.Next()

	s.force(PieceO, 4, 18)
	s.Step()

	cur := s.Current()
	if cur.Type != next.Type {
		t.Errorf("expected promoted %v, got %v", next.Type, cur.Type)
	}
}

func TestHardDropOPiece(t *testing.T) {
	s := newTestSession(nil, nil)
	s.force(PieceO, 4, 0)

	rows := s.HardDrop()

	if rows != 18 {
		t.Fatalf("expected 18 rows descended, got %d", rows)
	}
	for _, c := range [][2]int{{4, 18}, {5, 18}, {4, 19}, {5, 19}} {
		if !s.Board().At(c[0], c[1]).Occupied() {
			t.Errorf("expected settled cell at %v", c)
		}
	}
	if s.Score() != 2*18 {
		t.Errorf("expected score %d, got %d", 2*18, s.Score())
	}
	if s.Lines() != 0 {
		t.Errorf("expected no lines, got %d", s.Lines())
	}
	if s.Phase() != PhaseFalling || s.Current() == nil {
		t.Error("a new piece should have spawned")
	}
}

func TestHardDropBonusPerRow(t *testing.T) {
	testCases := []struct {
		startY int
		rows   int
	}{
		{0, 18},
		{10, 8},
		{18, 0},
	}

	for _, tc := range testCases {
		s := newTestSession(nil, nil)
		s.force(PieceO, 2, tc.startY)
		if got := s.HardDrop(); got != tc.rows {
			t.Errorf("from y=%d: expected %d rows, got %d", tc.startY, tc.rows, got)
		}
		if s.Score() != 2*tc.rows {
			t.Errorf("from y=%d: expected score %d, got %d", tc.startY, 2*tc.rows, s.Score())
		}
	}
}

func TestLockCompletesBottomRow(t *testing.T) {
	s := newTestSession(nil, nil)
	b := s.Board()
	stageRow(b, 19, 9)
	b.Set(0, 18, CellOf(PieceL))

	// Vertical I resting in column 9.
	s.force(PieceI, 9, 16)
	s.current.Shape = s.current.Shape.Rotate()
	s.Step()

	if s.Lines() != 1 {
		t.Fatalf("expected 1 line, got %d", s.Lines())
	}
	if s.Score() != 100 {
		t.Errorf("expected score 100, got %d", s.Score())
	}
	if !b.RowEmpty(0) {
		t.Error("expected empty row at top")
	}
	if !b.At(0, 19).Occupied() {
		t.Error("row 18 should have shifted to the bottom")
	}
	for y := 17; y <= 19; y++ {
		if !b.At(9, y).Occupied() {
			t.Errorf("remaining I cell missing at (9,%d)", y)
		}
	}
	if b.At(9, 16).Occupied() {
		t.Error("top I cell should have shifted down")
	}
}

func TestLineScoringUsesLevelBeforeClear(t *testing.T) {
	testCases := []struct {
		name      string
		lines     int
		rows      int
		wantScore int
		wantLines int
		wantLevel int
	}{
		{"single at level 1", 0, 1, 100, 1, 1},
		{"double at level 1", 3, 2, 300, 5, 1},
		{"triple crossing level", 8, 3, 500, 11, 2},
		{"tetris at level 2", 10, 4, 1600, 14, 2},
		{"tetris at level 3", 29, 4, 2400, 33, 4},
	}

	for _, tc := range testCases {
		s := newTestSession(nil, nil)
		s.lines = tc.lines
		s.level = s.rules.LevelFor(tc.lines)
		b := s.Board()
		for i := 0; i < tc.rows; i++ {
			stageRow(b, 19-i, 9)
		}
		s.force(PieceI, 9, 16)
		s.current.Shape = s.current.Shape.Rotate()
		s.Step()

		if s.Score() != tc.wantScore {
			t.Errorf("%s: expected score %d, got %d", tc.name, tc.wantScore, s.Score())
		}
		if s.Lines() != tc.wantLines {
			t.Errorf("%s: expected lines %d, got %d", tc.name, tc.wantLines, s.Lines())
		}
		if s.Level() != tc.wantLevel {
			t.Errorf("%s: expected level %d, got %d", tc.name, tc.wantLevel, s.Level())
		}
		if want := s.rules.FallInterval(tc.wantLevel); s.FallInterval() != want {
			t.Errorf("%s: expected interval %v, got %v", tc.name, want, s.FallInterval())
		}
	}
}

func TestMoveStopsAtWalls(t *testing.T) {
	s := newTestSession(nil, nil)
	s.force(PieceO, 4, 5)

	moves := 0
	for s.MoveLeft() {
		moves++
	}
	if moves != 4 || s.current.X != 0 {
		t.Errorf("expected 4 moves to x=0, got %d moves to x=%d", moves, s.current.X)
	}
	for s.MoveRight() {
	}
	if s.current.X != 8 {
		t.Errorf("expected x=8 against the right wall, got %d", s.current.X)
	}
}

func TestSoftDropNeverLocks(t *testing.T) {
	s := newTestSession(nil, nil)
	s.force(PieceO, 4, 17)

	if !s.SoftDrop() {
		t.Fatal("expected soft drop to move")
	}
	if s.SoftDrop() {
		t.Fatal("soft drop should be rejected at the floor")
	}
	if s.current.Y != 18 || s.current.Type != PieceO {
		t.Error("piece should rest at y=18 without locking")
	}
	if !s.Board().RowEmpty(19) {
		t.Error("soft drop must not lock")
	}
	if s.Score() != 0 {
		t.Errorf("soft drop awards nothing, got %d", s.Score())
	}
}

func TestRotateRejectedWithoutKick(t *testing.T) {
	s := newTestSession(nil, nil)
	s.force(PieceI, 9, 5)
	s.current.Shape = s.current.Shape.Rotate()
	before := s.current.Shape.Clone()

	if s.Rotate() {
		t.Fatal("horizontal I at x=9 should not fit")
	}
	if !s.current.Shape.Equal(before) || s.current.X != 9 {
		t.Error("rejected rotation must keep shape and origin")
	}

	s.current.X = 5
	if !s.Rotate() {
		t.Fatal("rotation with room should succeed")
	}
	if s.current.Shape.Rows() != 1 || s.current.X != 5 {
		t.Error("rotation should keep the origin")
	}
}

func TestRotateBlockedBySettledCell(t *testing.T) {
	s := newTestSession(nil, nil)
	s.force(PieceT, 3, 10)
	s.Board().Set(3, 12, CellOf(PieceO))

	if s.Rotate() {
		t.Error("rotation overlapping a settled cell should be rejected")
	}
}

func TestAdvanceResetsAccumulator(t *testing.T) {
	s := newTestSession(nil, nil)
	s.force(PieceO, 4, 0)

	if s.Advance(999 * time.Millisecond) {
		t.Fatal("step triggered early")
	}
	if !s.Advance(time.Millisecond) {
		t.Fatal("expected a step at the interval")
	}
	if s.current.Y != 1 || s.Elapsed() != 0 {
		t.Errorf("expected y=1 and cleared accumulator, got y=%d elapsed=%v", s.current.Y, s.Elapsed())
	}

	// Leftover is forfeited and a long frame still steps once.
	if !s.Advance(2500 * time.Millisecond) {
		t.Fatal("expected a step")
	}
	if s.current.Y != 2 || s.Elapsed() != 0 {
		t.Errorf("expected one step, got y=%d elapsed=%v", s.current.Y, s.Elapsed())
	}
}

func TestAdvanceCarryOver(t *testing.T) {
	rules := DefaultRules()
	rules.CarryOver = true
	s := NewSession(Options{Rules: rules, Rand: rand.New(rand.NewSource(1))})
	s.force(PieceO, 4, 0)

	s.Advance(1500 * time.Millisecond)
	if s.current.Y != 1 || s.Elapsed() != 500*time.Millisecond {
		t.Fatalf("expected y=1 with 500ms carried, got y=%d elapsed=%v", s.current.Y, s.Elapsed())
	}
	if !s.Advance(500 * time.Millisecond) {
		t.Fatal("carried time should complete the next interval")
	}

	s.Advance(10 * time.Second)
	if s.current.Y != 3 {
		t.Errorf("expected one step per call, got y=%d", s.current.Y)
	}
	if s.Elapsed() >= s.FallInterval() {
		t.Errorf("accumulator should stay below the interval, got %v", s.Elapsed())
	}
}

func TestPauseFreezesAdvance(t *testing.T) {
	s := newTestSession(nil, nil)
	s.force(PieceO, 4, 0)

	s.Advance(400 * time.Millisecond)
	if !s.TogglePause() || !s.Paused() {
		t.Fatal("expected paused")
	}

	for i := 0; i < 100; i++ {
		if s.Advance(time.Second) {
			t.Fatal("advance triggered while paused")
		}
	}
	if s.current.Y != 0 || !s.Board().RowEmpty(19) {
		t.Error("piece moved or locked while paused")
	}
	if s.Elapsed() != 400*time.Millisecond {
		t.Errorf("pause should keep the accumulator, got %v", s.Elapsed())
	}

	s.TogglePause()
	if s.Advance(599 * time.Millisecond) {
		t.Fatal("resumed accumulator should need 600ms more")
	}
	if !s.Advance(time.Millisecond) {
		t.Fatal("expected step after resuming")
	}
}

func TestPauseDisablesInput(t *testing.T) {
	s := newTestSession(nil, nil)
	s.force(PieceT, 4, 5)
	s.TogglePause()

	if s.MoveLeft() || s.MoveRight() || s.SoftDrop() || s.Rotate() {
		t.Error("movement accepted while paused")
	}
	if s.HardDrop() != 0 || !s.Board().RowEmpty(19) {
		t.Error("hard drop accepted while paused")
	}
	if s.current.X != 4 || s.current.Y != 5 {
		t.Error("piece moved while paused")
	}
}

func TestSpawnCollisionEndsGameOnce(t *testing.T) {
	events := 0
	var last GameOver
	s := newTestSession(nil, func(ev GameOver) {
		events++
		last = ev
	})
	s.score = 1234
	s.lines = 7
	blockSpawn(s.Board())

	s.force(PieceO, 0, 18)
	s.Step()

	if !s.Over() || s.Phase() != PhaseGameOver {
		t.Fatalf("expected game over, got %v", s.Phase())
	}
	if events != 1 {
		t.Fatalf("expected 1 event, got %d", events)
	}
	if last.Score != 1234 || last.Level != 1 || last.Lines != 7 {
		t.Errorf("unexpected event %+v", last)
	}
	if !last.HasLocked || last.LastLocked != PieceO || last.Fact != nil {
		t.Errorf("expected classic last locked O without fact, got %+v", last)
	}

	// Nothing after game over produces another event or changes state.
	s.Step()
	s.Advance(time.Hour)
	s.HardDrop()
	s.MoveLeft()
	s.Rotate()
	if s.TogglePause() || s.Paused() {
		t.Error("pause should be ignored after game over")
	}
	if events != 1 {
		t.Errorf("expected exactly 1 event, got %d", events)
	}
	if s.Score() != 1234 {
		t.Errorf("score changed after game over: %d", s.Score())
	}

	ev, ok := s.GameOver()
	if !ok || ev != last {
		t.Error("GameOver() should report the emitted event")
	}
}

func TestThemedGameOverCarriesFact(t *testing.T) {
	var got *GameOver
	s := newTestSession(CloudCatalog(), func(ev GameOver) { got = &ev })
	blockSpawn(s.Board())

	s.force(PieceS, 0, 18)
	s.Step()

	if got == nil {
		t.Fatal("expected game over")
	}
	if got.Fact == nil || got.Fact != CloudCatalog().Fact(PieceS) {
		t.Errorf("expected DynamoDB fact, got %+v", got.Fact)
	}
}

func TestRestartOnlyFromGameOver(t *testing.T) {
	events := 0
	s := newTestSession(nil, func(GameOver) { events++ })

	if s.Restart() {
		t.Fatal("restart accepted while falling")
	}

	blockSpawn(s.Board())
	s.force(PieceO, 0, 18)
	s.Step()
	if !s.Over() {
		t.Fatal("expected game over")
	}

	if !s.Restart() {
		t.Fatal("restart rejected after game over")
	}
	if s.Phase() != PhaseFalling || s.Paused() {
		t.Errorf("expected fresh falling session, got %v paused=%v", s.Phase(), s.Paused())
	}
	if s.Score() != 0 || s.Level() != 1 || s.Lines() != 0 || s.Elapsed() != 0 {
		t.Error("counters not reset")
	}
	for y := 0; y < s.Board().Height(); y++ {
		if !s.Board().RowEmpty(y) {
			t.Fatalf("row %d not cleared", y)
		}
	}
	if _, over := s.GameOver(); over {
		t.Error("previous game-over event should be cleared")
	}

	// A new game can end again.
	blockSpawn(s.Board())
	s.force(PieceO, 0, 18)
	s.Step()
	if events != 2 {
		t.Errorf("expected a second event for the new game, got %d", events)
	}
}

func TestRulesFormulas(t *testing.T) {
	r := DefaultRules()

	levels := []struct {
		lines, level int
	}{
		{0, 1}, {9, 1}, {10, 2}, {19, 2}, {20, 3}, {155, 16},
	}
	for _, tc := range levels {
		if got := r.LevelFor(tc.lines); got != tc.level {
			t.Errorf("LevelFor(%d): expected %d, got %d", tc.lines, tc.level, got)
		}
	}

	prev := r.FallInterval(1)
	for level := 1; level <= 40; level++ {
		want := 1000 - (level-1)*50
		if want < 50 {
			want = 50
		}
		got := r.FallInterval(level)
		if got != time.Duration(want)*time.Millisecond {
			t.Errorf("FallInterval(%d): expected %dms, got %v", level, want, got)
		}
		if got > prev {
			t.Errorf("FallInterval increased at level %d", level)
		}
		prev = got
	}

	points := []struct {
		n, level, want int
	}{
		{0, 1, 0}, {1, 1, 100}, {2, 3, 900}, {3, 2, 1000}, {4, 5, 4000}, {6, 1, 800},
	}
	for _, tc := range points {
		if got := r.LinePoints(tc.n, tc.level); got != tc.want {
			t.Errorf("LinePoints(%d, %d): expected %d, got %d", tc.n, tc.level, tc.want, got)
		}
	}
}

func TestRulesNormalized(t *testing.T) {
	r := Rules{Width: 2, BaseInterval: -1, IntervalStep: -5}.normalized()
	def := DefaultRules()
	if r.Width != def.Width || r.Height != def.Height {
		t.Errorf("expected default board, got %dx%d", r.Width, r.Height)
	}
	if r.BaseInterval != def.BaseInterval || r.IntervalStep != 0 {
		t.Errorf("unexpected timing %v/%v", r.BaseInterval, r.IntervalStep)
	}
	if len(r.ScoreTable) != 5 || r.LinesPerLevel != 10 {
		t.Error("expected default scoring")
	}
}

func TestMinimumWidthFitsEverySpawn(t *testing.T) {
	r := Rules{Width: 4}.normalized()
	if r.Width != DefaultRules().Width {
		t.Errorf("width 4 should fall back to the default, got %d", r.Width)
	}

	rules := DefaultRules()
	rules.Width = 5
	b := NewBoard(rules.Width, rules.Height)
	for _, cat := range []*Catalog{ClassicCatalog(), CloudCatalog()} {
		for _, pt := range []PieceType{PieceI, PieceO, PieceT, PieceS, PieceZ, PieceJ, PieceL} {
			p := NewPiece(cat, pt)
			p.X = rules.Width/2 - 1
			if WouldCollide(b, p, 0, 0, nil) {
				t.Errorf("%s collides at spawn on a 5-wide board", pt)
			}
		}
	}
}

func TestSessionInvariantsUnderRandomPlay(t *testing.T) {
	s := newTestSession(nil, nil)
	rng := rand.New(rand.NewSource(2024))
	dt := time.Second / 60

	prevScore, prevLines := 0, 0
	for frame := 0; frame < 20000; frame++ {
		switch rng.Intn(8) {
		case 0:
			s.MoveLeft()
		case 1:
			s.MoveRight()
		case 2:
			s.Rotate()
		case 3:
			s.SoftDrop()
		case 4:
			if rng.Intn(10) == 0 {
				s.HardDrop()
			}
		}
		s.Advance(dt)

		if s.Score() < prevScore || s.Lines() < prevLines {
			t.Fatalf("frame %d: counters decreased", frame)
		}
		if s.Level() != s.Lines()/10+1 {
			t.Fatalf("frame %d: level %d for %d lines", frame, s.Level(), s.Lines())
		}
		if s.FallInterval() != s.rules.FallInterval(s.Level()) {
			t.Fatalf("frame %d: interval out of sync", frame)
		}
		if !s.Over() && WouldCollide(s.board, s.current, 0, 0, nil) {
			t.Fatalf("frame %d: active piece overlaps the board", frame)
		}
		prevScore, prevLines = s.Score(), s.Lines()

		if s.Over() {
			s.Restart()
			prevScore, prevLines = 0, 0
		}
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := newTestSession(CloudCatalog(), nil)
	s.force(PieceT, 3, 4)

	snap := s.Snapshot()
	if snap.Width != 10 || snap.Height != 20 || snap.Catalog != CatalogCloud {
		t.Fatalf("unexpected snapshot header %+v", snap)
	}
	if snap.Current == nil || snap.Current.Label != "API Gateway" || snap.Current.X != 3 || snap.Current.Y != 4 {
		t.Errorf("unexpected current view %+v", snap.Current)
	}
	if snap.Next == nil || snap.Next.Label == "" {
		t.Error("expected next view with label")
	}
	if snap.Phase != PhaseFalling || snap.GameOver || snap.Paused {
		t.Error("unexpected flags")
	}

	snap.Cells[19][0] = CellOf(PieceI)
	snap.Current.Shape[0][0] = 1
	if s.Board().At(0, 19).Occupied() {
		t.Error("snapshot cells alias the board")
	}
	if s.current.Shape[0][0] != 0 {
		t.Error("snapshot shape aliases the piece")
	}
}
