package grid

import (
	"fmt"
	"io"
	"iter"
	"math"
	"slices"
	"strings"
)

// Blank fills every cell that no record covers.
const Blank = " "

// DefaultMaxCells bounds width*height when no limit is given.
const DefaultMaxCells = 1 << 24

// hardMaxCells caps width*height even when the limit is disabled, keeping
// the arena within what make can allocate.
var hardMaxCells = int(min(uint64(math.MaxInt)/16, 1<<40))

// Origin selects which y coordinate is printed on the first row.
type Origin int

const (
	// OriginTop prints y == 0 on the first row.
	OriginTop Origin = iota
	// OriginBottom prints the largest y on the first row, as on a Cartesian plot.
	OriginBottom
)

func (o Origin) String() string {
	switch o {
	case OriginTop:
		return "top"
	case OriginBottom:
		return "bottom"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// ParseOrigin maps "top" or "bottom" to an Origin. The empty string is top.
func ParseOrigin(s string) (Origin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "top":
		return OriginTop, nil
	case "bottom":
		return OriginBottom, nil
	default:
		return OriginTop, fmt.Errorf("%w: %q", ErrUnknownOrigin, s)
	}
}

type options struct {
	origin   Origin
	maxCells int
}

// Option customizes Build.
type Option func(*options)

// WithOrigin sets the row orientation.
func WithOrigin(o Origin) Option {
	return func(opts *options) { opts.origin = o }
}

// WithMaxCells rejects grids with more than n cells. n <= 0 leaves only the
// allocation ceiling in place.
func WithMaxCells(n int) Option {
	return func(opts *options) { opts.maxCells = n }
}

// Grid is a dense, immutable character matrix.
type Grid struct {
	cells  [][]string // cells[row][col]
	width  int
	height int
	origin Origin
}

// Build validates records and places them on a grid sized to their bounding
// box. Later records overwrite earlier ones at the same position. An empty
// input yields an empty grid.
func Build(records []Record, opts ...Option) (*Grid, error) {
	o := options{origin: OriginTop, maxCells: DefaultMaxCells}
	for _, opt := range opts {
		opt(&o)
	}

	g := &Grid{origin: o.origin}
	if len(records) == 0 {
		return g, nil
	}

	maxX, maxY := 0, 0
	for i, r := range records {
		if err := r.validate(i); err != nil {
			return nil, err
		}
		maxX = max(maxX, r.X)
		maxY = max(maxY, r.Y)
	}

	if maxX == math.MaxInt || maxY == math.MaxInt {
		return nil, fmt.Errorf("%w: coordinate (%d, %d) out of range", ErrGridTooLarge, maxX, maxY)
	}
	width, height := maxX+1, maxY+1
	limit := hardMaxCells
	if o.maxCells > 0 && o.maxCells < limit {
		limit = o.maxCells
	}
	if width > limit/height {
		return nil, fmt.Errorf("%w: %dx%d > %d", ErrGridTooLarge, width, height, limit)
	}

	// One backing array, sliced into rows.
	arena := make([]string, width*height)
	for i := range arena {
		arena[i] = Blank
	}
	g.cells = make([][]string, height)
	for row := range g.cells {
		g.cells[row] = arena[row*width : (row+1)*width : (row+1)*width]
	}
	g.width, g.height = width, height

	for _, r := range records {
		g.cells[g.row(r.Y)][r.X] = r.Char
	}
	return g, nil
}

// Render builds the grid and returns its rows joined by newlines.
func Render(records []Record, opts ...Option) (string, error) {
	g, err := Build(records, opts...)
	if err != nil {
		return "", err
	}
	return g.String(), nil
}

func (g *Grid) row(y int) int {
	if g.origin == OriginBottom {
		return g.height - 1 - y
	}
	return y
}

// Width is the number of columns, max(x)+1.
func (g *Grid) Width() int { return g.width }

// Height is the number of rows, max(y)+1.
func (g *Grid) Height() int { return g.height }

// Origin reports the row orientation the grid was built with.
func (g *Grid) Origin() Origin { return g.origin }

// Empty reports whether the grid has no rows.
func (g *Grid) Empty() bool { return g.height == 0 }

// At returns the character at coordinate (x, y), or Blank when out of range.
func (g *Grid) At(x, y int) string {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return Blank
	}
	return g.cells[g.row(y)][x]
}

// Row returns a copy of the cells on printed row i, left to right, or nil
// when i is out of range.
func (g *Grid) Row(i int) []string {
	if i < 0 || i >= g.height {
		return nil
	}
	return slices.Clone(g.cells[i])
}

// Rows yields one string per row, top to bottom. Each call starts over.
func (g *Grid) Rows() iter.Seq[string] {
	return func(yield func(string) bool) {
		var b strings.Builder
		for _, cells := range g.cells {
			b.Reset()
			b.Grow(len(cells))
			for _, c := range cells {
				b.WriteString(c)
			}
			if !yield(b.String()) {
				return
			}
		}
	}
}

// Lines collects Rows into a slice.
func (g *Grid) Lines() []string {
	lines := make([]string, 0, g.height)
	for row := range g.Rows() {
		lines = append(lines, row)
	}
	return lines
}

// String joins the rows with "\n". No trailing newline is added.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.height * (g.width + 1))
	first := true
	for row := range g.Rows() {
		if !first {
			b.WriteByte('\n')
		}
		first = false
		b.WriteString(row)
	}
	return b.String()
}

// WriteTo streams the rows to w without building the full text.
func (g *Grid) WriteTo(w io.Writer) (int64, error) {
	var total int64
	first := true
	for row := range g.Rows() {
		if !first {
			n, err := io.WriteString(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
		first = false
		n, err := io.WriteString(w, row)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Records extracts every non-blank cell as a record in (y, x) order.
// Building the result with the same origin reproduces g as long as the
// widest column and the last row each hold a non-blank cell.
func (g *Grid) Records() []Record {
	var records []Record
	for y := 0; y < g.height; y++ {
		cells := g.cells[g.row(y)]
		for x, c := range cells {
			if c != Blank {
				records = append(records, Record{X: x, Y: y, Char: c})
			}
		}
	}
	return records
}
