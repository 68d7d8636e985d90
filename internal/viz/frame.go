package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/san-kum/secretgrid/internal/grid"
)

const emptyMessage = "(empty message)"

// DisplayWidth is the widest row in terminal columns. It can exceed
// g.Width() when the message uses double-width characters.
func DisplayWidth(g *grid.Grid) int {
	w := 0
	for row := range g.Rows() {
		w = max(w, runewidth.StringWidth(row))
	}
	return w
}

// Frame renders g inside a rounded border with a title above and the grid
// dimensions below.
func Frame(g *grid.Grid, title string) string {
	body := emptyMessage
	if !g.Empty() {
		body = g.String()
	}

	panel := FramePanel.Render(body)
	footer := Subtle.Render(Dimensions(g.Width(), g.Height()))
	if title == "" {
		return lipgloss.JoinVertical(lipgloss.Left, panel, footer)
	}

	header := TitleStyle.Render(truncate(title, lipgloss.Width(panel)))
	return lipgloss.JoinVertical(lipgloss.Left, header, panel, footer)
}

func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
