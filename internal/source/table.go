package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/san-kum/secretgrid/internal/grid"
)

const columnCount = 3

// ParseTable reads an HTML document and returns one raw record per data row
// of its first table.
func ParseTable(r io.Reader) ([]grid.RawRecord, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("source: parse html: %w", err)
	}

	table := findFirst(doc, atom.Table)
	if table == nil {
		return nil, ErrNoTable
	}

	rows := findAll(table, atom.Tr)
	if len(rows) <= 1 {
		return []grid.RawRecord{}, nil
	}

	records := make([]grid.RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		cells := findAll(row, atom.Td)
		if len(cells) != columnCount {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrMissingColumns, i+1, len(cells))
		}
		records = append(records, grid.RawRecord{
			X:    cellText(cells[0]),
			Char: cellText(cells[1]),
			Y:    cellText(cells[2]),
		})
	}
	return records, nil
}

// ReadFile parses a locally saved HTML export.
func ReadFile(path string) ([]grid.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTable(f)
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

// findAll collects matching descendants in document order without
// descending into a match.
func findAll(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == a {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func cellText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
