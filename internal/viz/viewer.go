package viz

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/secretgrid/internal/grid"
)

// LoadFunc rebuilds the message shown by a Viewer. fresh asks for the
// document to be retrieved again instead of served from a cache.
type LoadFunc func(origin grid.Origin, fresh bool) (*grid.Grid, error)

type gridLoadedMsg struct {
	grid *grid.Grid
	err  error
}

// Viewer is a scrollable full-screen view of a decoded message.
type Viewer struct {
	viewport     viewport.Model
	load         LoadFunc
	title        string
	content      string
	origin       grid.Origin
	width        int
	height       int
	displayWidth int
	err          error
	termHeight   int
	ready        bool
}

// NewViewer shows g. With a non-nil load the viewer can flip the origin
// (o) and reload the document (r).
func NewViewer(g *grid.Grid, title string, load LoadFunc) Viewer {
	v := Viewer{title: title, load: load}
	v.setGrid(g)
	return v
}

func (v *Viewer) setGrid(g *grid.Grid) {
	v.content = emptyMessage
	if !g.Empty() {
		v.content = g.String()
	}
	v.origin = g.Origin()
	v.width = g.Width()
	v.height = g.Height()
	v.displayWidth = DisplayWidth(g)
	if v.ready {
		v.viewport.SetContent(v.content)
	}
}

func (v Viewer) reload(origin grid.Origin, fresh bool) tea.Cmd {
	load := v.load
	return func() tea.Msg {
		g, err := load(origin, fresh)
		return gridLoadedMsg{grid: g, err: err}
	}
}

func (v Viewer) Init() tea.Cmd {
	return nil
}

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return v, tea.Quit
		case "r":
			if v.load != nil {
				return v, v.reload(v.origin, true)
			}
		case "o":
			if v.load != nil {
				next := grid.OriginBottom
				if v.origin == grid.OriginBottom {
					next = grid.OriginTop
				}
				return v, v.reload(next, false)
			}
		}
	case gridLoadedMsg:
		v.err = msg.err
		if msg.err == nil {
			v.setGrid(msg.grid)
		}
		if v.ready {
			// an error line changes the footer height
			v.viewport.Height = v.bodyHeight()
		}
		return v, nil
	case tea.WindowSizeMsg:
		v.termHeight = msg.Height
		if !v.ready {
			v.viewport = viewport.New(msg.Width, v.bodyHeight())
			v.viewport.SetContent(v.content)
			v.ready = true
		} else {
			v.viewport.Width = msg.Width
			v.viewport.Height = v.bodyHeight()
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v Viewer) bodyHeight() int {
	chrome := lipgloss.Height(v.headerView()) + lipgloss.Height(v.footerView())
	return max(v.termHeight-chrome, 1)
}

func (v Viewer) View() string {
	if !v.ready {
		return "loading…"
	}
	return lipgloss.JoinVertical(lipgloss.Left, v.headerView(), v.viewport.View(), v.footerView())
}

func (v Viewer) headerView() string {
	return HeaderStyle.Render(v.title)
}

func (v Viewer) footerView() string {
	pct := 100.0
	if v.ready {
		pct = v.viewport.ScrollPercent() * 100
	}
	info := fmt.Sprintf("%s  %s  %3.0f%%", Dimensions(v.width, v.height), v.origin, pct)
	if v.ready && v.displayWidth > v.viewport.Width {
		info += fmt.Sprintf("  clipped at %d of %d cols", v.viewport.Width, v.displayWidth)
	}

	hint := "↑/↓ scroll · q quit"
	if v.load != nil {
		hint = "↑/↓ scroll · o origin · r reload · q quit"
	}
	footer := Subtle.Render(info) + "  " + KeyHint.Render(hint)
	if v.err != nil {
		footer = lipgloss.JoinVertical(lipgloss.Left, ErrorStyle.Render(v.err.Error()), footer)
	}
	return footer
}
