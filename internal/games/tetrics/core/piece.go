package core

// Shape is a rectangular matrix of 0/1 cells. Rows are indexed top to bottom.
type Shape [][]uint8

// Rows returns the number of rows.
func (s Shape) Rows() int {
	return len(s)
}

// Cols returns the number of columns (0 for an empty shape).
func (s Shape) Cols() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Clone returns a deep copy.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for i, row := range s {
		out[i] = append([]uint8(nil), row...)
	}
	return out
}

// Equal reports whether two shapes have identical dimensions and cells.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if len(s[i]) != len(other[i]) {
			return false
		}
		for j := range s[i] {
			if s[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// Rotate returns the shape turned 90° clockwise: new[j][rows-1-i] = old[i][j].
// The receiver is left untouched.
func (s Shape) Rotate() Shape {
	rows, cols := s.Rows(), s.Cols()
	out := make(Shape, cols)
	for j := range out {
		out[j] = make([]uint8, rows)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[j][rows-1-i] = s[i][j]
		}
	}
	return out
}

// Each calls fn for every occupied cell with its offset inside the matrix.
func (s Shape) Each(fn func(dx, dy int)) {
	for y, row := range s {
		for x, v := range row {
			if v != 0 {
				fn(x, y)
			}
		}
	}
}

// Piece is the active, player-controlled piece.
type Piece struct {
	Type  PieceType
	Shape Shape
	X, Y  int // Board-relative origin of the shape's top-left cell
}

// NewPiece creates a piece of type t in its base rotation at the origin.
func NewPiece(cat *Catalog, t PieceType) *Piece {
	return &Piece{
		Type:  t,
		Shape: cat.Def(t).Shape,
	}
}

// Clone returns a deep copy of the piece.
func (p *Piece) Clone() *Piece {
	c := *p
	c.Shape = p.Shape.Clone()
	return &c
}

// Cells returns the board coordinates of every occupied cell.
func (p *Piece) Cells() [][2]int {
	var cells [][2]int
	p.Shape.Each(func(dx, dy int) {
		cells = append(cells, [2]int{p.X + dx, p.Y + dy})
	})
	return cells
}
