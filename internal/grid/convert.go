package grid

import "strings"

const tabWidth = 4

// Lines splits text into display lines. A trailing newline does not start
// an extra line, carriage returns are dropped and tabs expand to the next
// multiple of four columns.
func Lines(text string) [][]rune {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	out := make([][]rune, len(raw))
	for i, l := range raw {
		var row []rune
		for _, r := range l {
			if r == '\t' {
				for n := tabWidth - len(row)%tabWidth; n > 0; n-- {
					row = append(row, ' ')
				}
				continue
			}
			row = append(row, r)
		}
		out[i] = row
	}
	return out
}

// Size returns the grid dimensions Decode would produce for text.
func Size(text string) (width, height int) {
	lines := Lines(text)
	for _, l := range lines {
		if len(l) > width {
			width = len(l)
		}
	}
	return width, len(lines)
}

// Decode converts text into a grid sized to fit it. Glyphs of tier t
// become mosaic cells, everything else becomes a character cell. Short
// lines are padded with empty cells.
func Decode(text string, t Tier) *Grid {
	w, h := Size(text)
	g := New(w, h)
	DecodeInto(g, 0, 0, text, t)
	return g
}

// DecodeInto draws text onto g with its top-left corner at (x, y). Content
// falling outside g is clipped. Cells beyond the end of a short line are
// left untouched.
func DecodeInto(g *Grid, x, y int, text string, t Tier) {
	for dy, line := range Lines(text) {
		for dx, r := range line {
			g.Set(x+dx, y+dy, decodeRune(r, t))
		}
	}
}

func decodeRune(r rune, t Tier) Cell {
	if m, ok := Lookup(r, t); ok {
		return MosaicCell(m)
	}
	return CharCell(r)
}

// Encode renders g as text in tier t, one line per row with trailing
// spaces removed. Trimmed rows are the canonical form, so Encode is
// idempotent through Decode even where the input padded its rows. Mosaic cells are translated by Symbol and character
// cells are written verbatim.
func Encode(g *Grid, t Tier) string {
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		row := make([]rune, g.width)
		for x := 0; x < g.width; x++ {
			c := g.cells[y*g.width+x]
			switch {
			case c.IsMosaic():
				row[x] = Symbol(c.Mask, t)
			case c.Char == 0:
				row[x] = ' '
			default:
				row[x] = c.Char
			}
		}
		b.WriteString(strings.TrimRight(string(row), " "))
		if y < g.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// TeletextCell is one position of a teletext frame.
type TeletextCell struct {
	Mosaic bool
	Mask   Mask
	Char   rune
	FG     string
	BG     string
	Attr   Attr
}

// TeletextFrame is a grid prepared for a renderer that draws 2×3 mosaics
// natively.
type TeletextFrame struct {
	Width  int
	Height int
	Cells  [][]TeletextCell
}

// Teletext converts g into a frame. Masks are passed through unmodified.
func Teletext(g *Grid) TeletextFrame {
	f := TeletextFrame{Width: g.width, Height: g.height, Cells: make([][]TeletextCell, g.height)}
	for y := 0; y < g.height; y++ {
		row := make([]TeletextCell, g.width)
		for x := 0; x < g.width; x++ {
			c := g.cells[y*g.width+x]
			row[x] = TeletextCell{
				Mosaic: c.IsMosaic(),
				Mask:   c.Mask,
				Char:   c.Char,
				FG:     c.FG,
				BG:     c.BG,
				Attr:   c.Attr,
			}
		}
		f.Cells[y] = row
	}
	return f
}
