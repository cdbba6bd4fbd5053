package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetrics/internal/core"
)

// RenderScreen converts a Screen buffer to a styled string using the default
// renderer.
func RenderScreen(s *core.Screen) string {
	return renderScreen(lipgloss.DefaultRenderer(), s)
}

// renderScreen groups adjacent cells with the same color to minimize escape
// sequences. Styles come from r so remote sessions get their own color profile.
func renderScreen(r *lipgloss.Renderer, s *core.Screen) string {
	styles := make(map[core.Color]lipgloss.Style)
	styleFor := func(c core.Color) lipgloss.Style {
		st, ok := styles[c]
		if !ok {
			st = r.NewStyle()
			if spec := c.Spec(); spec != "" {
				st = st.Foreground(lipgloss.Color(spec))
			}
			styles[c] = st
		}
		return st
	}

	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(styleFor(startColor).Render(run.String()))
		}
	}
	return sb.String()
}
