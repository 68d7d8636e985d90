package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/secretgrid/internal/grid"
)

const (
	DefaultCellWidth  = 10.0
	DefaultCellHeight = 18.0
)

// SVGOptions controls cell geometry and colors.
type SVGOptions struct {
	CellWidth  float64
	CellHeight float64
	Background string
	Foreground string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		CellWidth:  DefaultCellWidth,
		CellHeight: DefaultCellHeight,
		Background: "#0a0a0a",
		Foreground: "#00ff00",
	}
}

// WriteSVG draws every non-blank cell as a monospace glyph positioned by its
// row and column, so spacing survives regardless of the viewer's font.
func WriteSVG(w io.Writer, g *grid.Grid, opts SVGOptions) error {
	if opts.CellWidth <= 0 {
		opts.CellWidth = DefaultCellWidth
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = DefaultCellHeight
	}

	width := float64(g.Width()) * opts.CellWidth
	height := float64(g.Height()) * opts.CellHeight

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s" font-family="monospace" font-size="%.0f" text-anchor="middle" dominant-baseline="central">
`, width, height, width, height, escapeAttr(opts.Background), escapeAttr(opts.Foreground), opts.CellHeight*0.8))

	for row := 0; row < g.Height(); row++ {
		cy := float64(row)*opts.CellHeight + opts.CellHeight/2
		for col, cell := range g.Row(row) {
			if cell == grid.Blank {
				continue
			}
			cx := float64(col)*opts.CellWidth + opts.CellWidth/2
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f">`, cx, cy))
			_ = xml.EscapeText(&sb, []byte(cell))
			sb.WriteString("</text>\n")
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func escapeAttr(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
