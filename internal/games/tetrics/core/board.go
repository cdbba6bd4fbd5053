package core

// Cell is a board cell. The zero value is empty; otherwise it holds the piece type
// that settled there, offset by one.
type Cell uint8

// Empty is the empty cell.
const Empty Cell = 0

// CellOf returns the occupied cell marker for a piece type.
func CellOf(t PieceType) Cell {
	return Cell(t) + 1
}

// Occupied reports whether the cell holds a settled block.
func (c Cell) Occupied() bool {
	return c != Empty
}

// Piece returns the piece type stored in an occupied cell.
func (c Cell) Piece() (PieceType, bool) {
	if c == Empty {
		return 0, false
	}
	return PieceType(c - 1), true
}

// Board is a fixed-size grid of settled cells. Row 0 is the top.
type Board struct {
	width  int
	height int
	rows   [][]Cell
}

// NewBoard creates an empty board.
func NewBoard(width, height int) *Board {
	b := &Board{width: width, height: height}
	b.Reset()
	return b
}

// Reset empties every cell.
func (b *Board) Reset() {
	b.rows = make([][]Cell, b.height)
	for y := range b.rows {
		b.rows[y] = make([]Cell, b.width)
	}
}

// Width returns the number of columns.
func (b *Board) Width() int {
	return b.width
}

// Height returns the number of rows.
func (b *Board) Height() int {
	return b.height
}

// InBounds reports whether (x, y) lies on the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// At returns the cell at (x, y). Out-of-bounds reads return Empty.
func (b *Board) At(x, y int) Cell {
	if !b.InBounds(x, y) {
		return Empty
	}
	return b.rows[y][x]
}

// Set writes a cell. Out-of-bounds writes are ignored.
func (b *Board) Set(x, y int, c Cell) {
	if !b.InBounds(x, y) {
		return
	}
	b.rows[y][x] = c
}

// RowFull reports whether every cell in row y is occupied.
func (b *Board) RowFull(y int) bool {
	for _, c := range b.rows[y] {
		if c == Empty {
			return false
		}
	}
	return true
}

// RowEmpty reports whether row y has no occupied cells.
func (b *Board) RowEmpty(y int) bool {
	for _, c := range b.rows[y] {
		if c != Empty {
			return false
		}
	}
	return true
}

// Lock writes every occupied cell of p into the board. Cells above the top row are
// dropped.
func (b *Board) Lock(p *Piece) {
	cell := CellOf(p.Type)
	p.Shape.Each(func(dx, dy int) {
		y := p.Y + dy
		if y < 0 {
			return
		}
		b.Set(p.X+dx, y, cell)
	})
}

// ClearLines removes full rows, scanning bottom to top, and inserts an empty row at
// the top for each one removed. Returns the number of rows cleared.
func (b *Board) ClearLines() int {
	cleared := 0
	for y := b.height - 1; y >= 0; y-- {
		if !b.RowFull(y) {
			continue
		}
		copy(b.rows[1:y+1], b.rows[:y])
		b.rows[0] = make([]Cell, b.width)
		cleared++
		// Rows above shifted into y; check it again.
		y++
	}
	return cleared
}

// Cells returns a deep copy of the grid, indexed [y][x].
func (b *Board) Cells() [][]Cell {
	out := make([][]Cell, b.height)
	for y, row := range b.rows {
		out[y] = append([]Cell(nil), row...)
	}
	return out
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	return &Board{width: b.width, height: b.height, rows: b.Cells()}
}
