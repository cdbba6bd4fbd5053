package core

// WouldCollide reports whether p, shifted by (dx, dy) and optionally replaced by the
// candidate shape, would leave the side or bottom bounds or overlap a settled cell.
// A nil candidate means p.Shape. Cells above the top row are never a collision by
// themselves.
func WouldCollide(b *Board, p *Piece, dx, dy int, candidate Shape) bool {
	shape := candidate
	if shape == nil {
		shape = p.Shape
	}

	ox, oy := p.X+dx, p.Y+dy
	for y, row := range shape {
		for x, v := range row {
			if v == 0 {
				continue
			}
			bx, by := ox+x, oy+y
			if bx < 0 || bx >= b.width || by >= b.height {
				return true
			}
			if by >= 0 && b.rows[by][bx] != Empty {
				return true
			}
		}
	}
	return false
}
