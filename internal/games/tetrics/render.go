package tetrics

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	platformcore "github.com/vovakirdan/tui-tetrics/internal/core"
	"github.com/vovakirdan/tui-tetrics/internal/games/tetrics/core"
)

const (
	cellW      = 2 // Terminal columns per board cell
	panelW     = 24
	panelGap   = 2
	blockGlyph = '█'
	emptyGlyph = '·'
)

var (
	colorFrame = platformcore.ColorGray
	colorLabel = platformcore.ColorGray
	colorValue = platformcore.ColorBrightYellow
	colorTitle = platformcore.ColorBrightWhite
	colorAlert = platformcore.ColorBrightRed
)

// layout is the screen placement of the board and side panel.
type layout struct {
	board platformcore.Rect // Including frame
	panel platformcore.Rect
}

func (g *Game) layout(dst *platformcore.Screen) (layout, bool) {
	snapW, snapH := g.session.Rules().Width, g.session.Rules().Height
	bw := snapW*cellW + 2
	bh := snapH + 2
	needW := bw + panelGap + panelW
	if dst.Width() < needW || dst.Height() < bh {
		return layout{}, false
	}
	x := (dst.Width() - needW) / 2
	y := (dst.Height() - bh) / 2
	return layout{
		board: platformcore.NewRect(x, y, bw, bh),
		panel: platformcore.NewRect(x+bw+panelGap, y, panelW, bh),
	}, true
}

// MinScreenSize returns the smallest screen that fits the current board.
func (g *Game) MinScreenSize() (int, int) {
	r := g.session.Rules()
	return r.Width*cellW + 2 + panelGap + panelW, r.Height + 2
}

// Render draws the board, HUD and overlays.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()
	if g.session == nil {
		return
	}

	l, ok := g.layout(dst)
	if !ok {
		w, h := g.MinScreenSize()
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small", colorAlert)
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", w, h), colorLabel)
		return
	}

	snap := g.session.Snapshot()
	g.renderBoard(dst, l.board, snap)
	g.renderPanel(dst, l.panel, snap)

	switch {
	case snap.GameOver:
		g.renderGameOver(dst, l.board, snap)
	case snap.Paused:
		g.renderPaused(dst, l.board)
	}
}

// pieceColor maps a catalog color to a screen color.
func pieceColor(rgb uint32) platformcore.Color {
	return platformcore.RGB(rgb)
}

func drawBlock(dst *platformcore.Screen, x, y int, color platformcore.Color) {
	for i := 0; i < cellW; i++ {
		dst.SetCell(x+i, y, platformcore.Cell{Rune: blockGlyph, Color: color})
	}
}

func (g *Game) renderBoard(dst *platformcore.Screen, r platformcore.Rect, snap core.Snapshot) {
	dst.DrawBox(r, colorFrame)
	inner := r.Inset(1)

	for y, row := range snap.Cells {
		for x, cell := range row {
			sx, sy := inner.X+x*cellW, inner.Y+y
			if rgb, ok := g.catalog.ColorOf(cell); ok {
				drawBlock(dst, sx, sy, pieceColor(rgb))
				continue
			}
			dst.SetCell(sx, sy, platformcore.Cell{Rune: emptyGlyph, Color: platformcore.ColorGray})
		}
	}

	if cur := snap.Current; cur != nil && !snap.GameOver {
		color := pieceColor(cur.Color)
		cur.Shape.Each(func(dx, dy int) {
			y := cur.Y + dy
			if y < 0 {
				return
			}
			drawBlock(dst, inner.X+(cur.X+dx)*cellW, inner.Y+y, color)
		})
	}
}

func (g *Game) renderPanel(dst *platformcore.Screen, r platformcore.Rect, snap core.Snapshot) {
	x, y := r.X, r.Y

	dst.DrawTextColored(x, y, platformcore.Truncate(g.catalog.Title, r.W), colorTitle)
	y += 2

	stat := func(label, value string) {
		dst.DrawTextColored(x, y, label, colorLabel)
		dst.DrawTextColored(x+7, y, value, colorValue)
		y++
	}
	stat("SCORE", humanize.Comma(int64(snap.Score)))
	stat("LEVEL", fmt.Sprint(snap.Level))
	stat("LINES", fmt.Sprint(snap.Lines))
	y++

	dst.DrawTextColored(x, y, "NEXT", colorLabel)
	y++
	preview := platformcore.NewRect(x, y, 4*cellW+2, 4)
	dst.DrawBox(preview, colorFrame)
	if next := snap.Next; next != nil {
		in := preview.Inset(1)
		color := pieceColor(next.Color)
		offX := (4 - next.Shape.Cols()) / 2
		next.Shape.Each(func(dx, dy int) {
			drawBlock(dst, in.X+(offX+dx)*cellW, in.Y+dy, color)
		})
	}
	y = preview.Bottom() + 1

	if g.catalog.Themed() {
		if cur := snap.Current; cur != nil && !snap.GameOver {
			dst.DrawTextColored(x, y, "Now:", colorLabel)
			dst.DrawTextColored(x+6, y, platformcore.Truncate(cur.Label, r.W-6), pieceColor(cur.Color))
		}
		y++
		if next := snap.Next; next != nil {
			dst.DrawTextColored(x, y, "Next:", colorLabel)
			dst.DrawTextColored(x+6, y, platformcore.Truncate(next.Label, r.W-6), pieceColor(next.Color))
		}
	}

	help := []string{
		"←/→ move  ↑ rotate",
		"↓ soft  space drop",
		"P pause  Q quit",
	}
	hy := r.Bottom() - len(help)
	for i, line := range help {
		dst.DrawTextColored(x, hy+i, line, colorLabel)
	}
}

// clearInner blanks the board interior for an overlay.
func clearInner(dst *platformcore.Screen, board platformcore.Rect) platformcore.Rect {
	inner := board.Inset(1)
	dst.DrawRect(inner, platformcore.Cell{Rune: ' '})
	return inner
}

func (g *Game) renderPaused(dst *platformcore.Screen, board platformcore.Rect) {
	inner := board.Inset(1)
	_, cy := inner.Center()
	box := platformcore.NewRect(inner.X+1, cy-2, inner.W-2, 5)
	dst.DrawRect(box, platformcore.Cell{Rune: ' '})
	dst.DrawBox(box, colorTitle)
	dst.DrawTextIn(box, cy-1, "PAUSED", colorTitle)
	dst.DrawTextIn(box, cy+1, "P to resume", colorLabel)
}

func (g *Game) renderGameOver(dst *platformcore.Screen, board platformcore.Rect, snap core.Snapshot) {
	inner := clearInner(dst, board)
	y := inner.Y + 1

	dst.DrawTextIn(inner, y, "GAME OVER", colorAlert)
	y += 2
	dst.DrawTextIn(inner, y, "Score "+humanize.Comma(int64(snap.Score)), colorValue)
	y++
	dst.DrawTextIn(inner, y, fmt.Sprintf("Level %d  Lines %d", snap.Level, snap.Lines), colorLabel)
	y += 2

	restartY := inner.Bottom() - 2
	if ev, ok := g.session.GameOver(); ok && ev.Fact != nil {
		color := pieceColor(g.catalog.Def(ev.LastLocked).Color)
		dst.DrawTextIn(inner, y, "Did you know?", colorTitle)
		y++
		dst.DrawTextIn(inner, y, ev.Fact.Service, color)
		y += 2
		for _, line := range wrapLines(ev.Fact.Text, inner.W-2, restartY-1-y) {
			dst.DrawTextColored(inner.X+1, y, line, platformcore.ColorWhite)
			y++
		}
	}

	dst.DrawTextIn(inner, restartY, "R to restart", colorLabel)
}

// wrapLines word-wraps text to width and keeps at most maxLines lines, marking a
// cut with an ellipsis.
func wrapLines(text string, width, maxLines int) []string {
	if width <= 0 || maxLines <= 0 {
		return nil
	}
	lines := strings.Split(ansi.Wrap(text, width, ""), "\n")
	if len(lines) <= maxLines {
		return lines
	}
	lines = lines[:maxLines]
	last := strings.TrimRight(lines[maxLines-1], " ")
	lines[maxLines-1] = platformcore.Truncate(last+" …", width)
	return lines
}
