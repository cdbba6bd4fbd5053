package core

import (
	"math/rand"
	"time"
)

// Phase is the position of a session in the spawn -> fall -> lock -> clear cycle.
// Spawning and LineClearing only exist inside a single transition; callers observe
// Falling or GameOver.
type Phase int

const (
	PhaseSpawning Phase = iota
	PhaseFalling
	PhaseLineClearing
	PhaseGameOver
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseSpawning:
		return "spawning"
	case PhaseFalling:
		return "falling"
	case PhaseLineClearing:
		return "line_clearing"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// GameOver is the terminal event of a session.
type GameOver struct {
	Score int
	Level int
	Lines int

	// LastLocked is the type of the last piece locked before the end; Fact is its
	// fact record in themed catalogs. HasLocked is false if nothing was ever locked.
	LastLocked PieceType
	HasLocked  bool
	Fact       *Fact
}

// Options configure a new session.
type Options struct {
	Rules   Rules
	Catalog *Catalog
	Rand    *rand.Rand

	// OnGameOver is called exactly once per game-over, synchronously, after the
	// session has entered PhaseGameOver.
	OnGameOver func(GameOver)
}

// Session owns the board and pieces and drives every transition. It is not safe
// for concurrent use; each method runs to completion before returning.
type Session struct {
	rules   Rules
	catalog *Catalog
	rng     *rand.Rand
	onOver  func(GameOver)

	board   *Board
	current *Piece
	next    *Piece

	phase    Phase
	paused   bool
	score    int
	level    int
	lines    int
	interval time.Duration
	elapsed  time.Duration

	lastLocked PieceType
	hasLocked  bool
	over       *GameOver
}

// NewSession creates a session and spawns its first piece.
func NewSession(opts Options) *Session {
	rules := opts.Rules.normalized()
	cat := opts.Catalog
	if cat == nil {
		cat = ClassicCatalog()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		rules:   rules,
		catalog: cat,
		rng:     rng,
		onOver:  opts.OnGameOver,
		board:   NewBoard(rules.Width, rules.Height),
	}
	s.reset()
	s.spawn()
	return s
}

// reset puts counters, flags and the board back to their initial state.
func (s *Session) reset() {
	s.board.Reset()
	s.current = nil
	s.next = nil
	s.phase = PhaseSpawning
	s.paused = false
	s.score = 0
	s.level = 1
	s.lines = 0
	s.interval = s.rules.FallInterval(1)
	s.elapsed = 0
	s.hasLocked = false
	s.lastLocked = 0
	s.over = nil
}

// spawn promotes the next piece and checks the spawn position.
func (s *Session) spawn() {
	s.phase = PhaseSpawning

	if s.next != nil {
		s.current = s.next
	} else {
		s.current = s.randomPiece()
	}
	s.next = s.randomPiece()

	s.current.X = s.rules.Width/2 - 1
	s.current.Y = 0

	if WouldCollide(s.board, s.current, 0, 0, nil) {
		s.endGame()
		return
	}
	s.phase = PhaseFalling
}

func (s *Session) randomPiece() *Piece {
	return NewPiece(s.catalog, s.catalog.PickRandom(s.rng))
}

// endGame enters the terminal phase and notifies the observer once.
func (s *Session) endGame() {
	if s.over != nil {
		return
	}
	s.phase = PhaseGameOver
	ev := GameOver{
		Score:      s.score,
		Level:      s.level,
		Lines:      s.lines,
		LastLocked: s.lastLocked,
		HasLocked:  s.hasLocked,
	}
	if s.hasLocked {
		ev.Fact = s.catalog.Fact(s.lastLocked)
	}
	s.over = &ev
	if s.onOver != nil {
		s.onOver(ev)
	}
}

// controllable reports whether player movement input is accepted.
func (s *Session) controllable() bool {
	return s.phase == PhaseFalling && !s.paused && s.current != nil
}

// move commits an offset if it does not collide.
func (s *Session) move(dx, dy int) bool {
	if !s.controllable() {
		return false
	}
	if WouldCollide(s.board, s.current, dx, dy, nil) {
		return false
	}
	s.current.X += dx
	s.current.Y += dy
	return true
}

// MoveLeft shifts the current piece one column left. Returns whether it moved.
func (s *Session) MoveLeft() bool {
	return s.move(-1, 0)
}

// MoveRight shifts the current piece one column right. Returns whether it moved.
func (s *Session) MoveRight() bool {
	return s.move(1, 0)
}

// SoftDrop moves the current piece down one row. It never locks and awards nothing.
func (s *Session) SoftDrop() bool {
	return s.move(0, 1)
}

// Rotate turns the current piece clockwise in place. There are no wall kicks: the
// rotation is discarded if the new shape collides at the current origin.
func (s *Session) Rotate() bool {
	if !s.controllable() {
		return false
	}
	rotated := s.current.Shape.Rotate()
	if WouldCollide(s.board, s.current, 0, 0, rotated) {
		return false
	}
	s.current.Shape = rotated
	return true
}

// HardDrop drops the current piece to its lowest free row, awarding the hard drop
// bonus for every row descended, and locks it. Returns the rows descended.
func (s *Session) HardDrop() int {
	if !s.controllable() {
		return 0
	}
	rows := 0
	for !WouldCollide(s.board, s.current, 0, 1, nil) {
		s.current.Y++
		s.score += s.rules.HardDropBonus
		rows++
	}
	s.lockAndContinue()
	return rows
}

// Step performs one forced fall: down one row if free, otherwise lock, clear and
// respawn. Ignored while paused or over.
func (s *Session) Step() {
	if !s.controllable() {
		return
	}
	if !WouldCollide(s.board, s.current, 0, 1, nil) {
		s.current.Y++
		return
	}
	s.lockAndContinue()
}

// lockAndContinue runs lock -> line clear -> spawn as one transition.
func (s *Session) lockAndContinue() {
	s.board.Lock(s.current)
	s.lastLocked = s.current.Type
	s.hasLocked = true
	s.current = nil

	s.phase = PhaseLineClearing
	s.clearLines()
	s.spawn()
}

// clearLines removes full rows and updates lines, score, level and speed.
func (s *Session) clearLines() int {
	n := s.board.ClearLines()
	if n == 0 {
		return 0
	}
	s.lines += n
	s.score += s.rules.LinePoints(n, s.level)
	s.level = s.rules.LevelFor(s.lines)
	s.interval = s.rules.FallInterval(s.level)
	return n
}

// Advance feeds elapsed wall time into the fall timer. When the accumulated time
// reaches the fall interval one Step is taken; at most one per call. Paused and
// finished sessions ignore the call, so pausing keeps the accumulator as it was.
func (s *Session) Advance(dt time.Duration) bool {
	if s.paused || s.phase == PhaseGameOver {
		return false
	}
	s.elapsed += dt
	if s.elapsed < s.interval {
		return false
	}
	if s.rules.CarryOver {
		s.elapsed -= s.interval
		if s.elapsed >= s.interval {
			// Never bank more than one pending step.
			s.elapsed = s.interval - 1
		}
	} else {
		s.elapsed = 0
	}
	s.Step()
	return true
}

// TogglePause flips the paused flag. Ignored once the game is over.
func (s *Session) TogglePause() bool {
	if s.phase == PhaseGameOver {
		return false
	}
	s.paused = !s.paused
	return true
}

// Restart starts a new game. Only valid after game over.
func (s *Session) Restart() bool {
	if s.phase != PhaseGameOver {
		return false
	}
	s.reset()
	s.spawn()
	return true
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Paused reports whether the session is paused.
func (s *Session) Paused() bool {
	return s.paused
}

// Over reports whether the session has reached game over.
func (s *Session) Over() bool {
	return s.phase == PhaseGameOver
}

// Score returns the current score.
func (s *Session) Score() int {
	return s.score
}

// Level returns the current level.
func (s *Session) Level() int {
	return s.level
}

// Lines returns the total lines cleared.
func (s *Session) Lines() int {
	return s.lines
}

// FallInterval returns the current automatic fall interval.
func (s *Session) FallInterval() time.Duration {
	return s.interval
}

// Elapsed returns the time accumulated toward the next forced fall.
func (s *Session) Elapsed() time.Duration {
	return s.elapsed
}

// Rules returns the session rules.
func (s *Session) Rules() Rules {
	return s.rules
}

// Catalog returns the piece catalog.
func (s *Session) Catalog() *Catalog {
	return s.catalog
}

// Board returns the live board. Callers outside the session should treat it as
// read-only; tests use it to stage settled cells.
func (s *Session) Board() *Board {
	return s.board
}

// Current returns a copy of the active piece, or nil if there is none.
func (s *Session) Current() *Piece {
	if s.current == nil {
		return nil
	}
	return s.current.Clone()
}

// Next returns a copy of the queued piece, or nil if there is none.
func (s *Session) Next() *Piece {
	if s.next == nil {
		return nil
	}
	return s.next.Clone()
}

// GameOver returns the terminal event of the current game, if it has ended.
func (s *Session) GameOver() (GameOver, bool) {
	if s.over == nil {
		return GameOver{}, false
	}
	return *s.over, true
}
