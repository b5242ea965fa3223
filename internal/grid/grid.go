package grid

// CellKind says whether a cell carries a display character or a mosaic mask.
type CellKind uint8

const (
	// KindMosaic cells are drawn from their Mask.
	KindMosaic CellKind = iota
	// KindChar cells display Char verbatim.
	KindChar
)

// Attr is a set of display attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrBlink
	AttrReverse
	AttrConceal
)

// Cell is one position of a Grid. The zero Cell is an empty mosaic.
type Cell struct {
	Kind CellKind
	Char rune
	Mask Mask
	FG   string
	BG   string
	Attr Attr
}

// MosaicCell returns a mosaic cell with mask m.
func MosaicCell(m Mask) Cell {
	return Cell{Kind: KindMosaic, Mask: m & Full}
}

// CharCell returns a character cell displaying r.
func CharCell(r rune) Cell {
	return Cell{Kind: KindChar, Char: r}
}

// IsMosaic reports whether the cell is drawn from its mask.
func (c Cell) IsMosaic() bool {
	return c.Kind == KindMosaic
}

// Grid is a fixed-size rectangle of cells stored row-major.
type Grid struct {
	width  int
	height int
	cells  []Cell
}

// MaxSide is the largest width or height a grid can have.
const MaxSide = 1024

// New returns a width×height grid of empty mosaic cells. Each side is
// clamped to [0, MaxSide].
func New(width, height int) *Grid {
	width = clampSide(width)
	height = clampSide(height)
	return &Grid{width: width, height: height, cells: make([]Cell, width*height)}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// In reports whether (x, y) lies inside the grid.
func (g *Grid) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// At returns the cell at (x, y). Positions outside the grid read as empty.
func (g *Grid) At(x, y int) Cell {
	if !g.In(x, y) {
		return Cell{}
	}
	return g.cells[y*g.width+x]
}

// Set replaces the cell at (x, y). Writes outside the grid are dropped,
// which lets callers draw partially visible content without clipping first.
func (g *Grid) Set(x, y int, c Cell) {
	if !g.In(x, y) {
		return
	}
	g.cells[y*g.width+x] = c
}

// Fill sets every cell to c.
func (g *Grid) Fill(c Cell) {
	for i := range g.cells {
		g.cells[i] = c
	}
}

// Row returns a copy of row y.
func (g *Grid) Row(y int) []Cell {
	if y < 0 || y >= g.height {
		return nil
	}
	row := make([]Cell, g.width)
	copy(row, g.cells[y*g.width:(y+1)*g.width])
	return row
}

// Masks returns the mask of every cell, row-major. Character cells report
// Empty.
func (g *Grid) Masks() [][]Mask {
	out := make([][]Mask, g.height)
	for y := 0; y < g.height; y++ {
		out[y] = make([]Mask, g.width)
		for x := 0; x < g.width; x++ {
			if c := g.cells[y*g.width+x]; c.IsMosaic() {
				out[y][x] = c.Mask
			}
		}
	}
	return out
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height, cells: make([]Cell, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether both grids have the same size and cells.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

func clampSide(n int) int {
	switch {
	case n < 0:
		return 0
	case n > MaxSide:
		return MaxSide
	}
	return n
}
