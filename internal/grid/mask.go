package grid

import "math/bits"

// Mask is a 6-bit fill pattern over the 2×3 subcell layout.
type Mask uint8

const (
	// Empty is the mask with no subcells filled.
	Empty Mask = 0
	// Full is the mask with every subcell filled.
	Full Mask = 63
	// Subcells is the number of subcells in a mosaic cell.
	Subcells = 6
)

// Valid reports whether m is one of the 64 legal masks.
func (m Mask) Valid() bool {
	return m <= Full
}

// Has reports whether subcell i is filled.
func (m Mask) Has(i int) bool {
	return i >= 0 && i < Subcells && m&(1<<uint(i)) != 0
}

// With returns m with subcell i filled.
func (m Mask) With(i int) Mask {
	return m | 1<<uint(i)
}

// Fill returns the number of filled subcells.
func (m Mask) Fill() int {
	return bits.OnesCount8(uint8(m & Full))
}

// Subcell returns the index of the subcell at column col (0-1) and row row (0-2).
func Subcell(col, row int) int {
	return row*2 + col
}

// ladderOrder is the fill order for density glyphs: middle row, then bottom
// row, then top row, left cell before right cell. Even fill counts are
// therefore left/right symmetric and weighted towards the centre.
var ladderOrder = [Subcells]int{2, 3, 4, 5, 0, 1}

// LadderMask returns the canonical mask with n filled subcells.
func LadderMask(n int) Mask {
	if n <= 0 {
		return Empty
	}
	if n >= Subcells {
		return Full
	}
	var m Mask
	for _, i := range ladderOrder[:n] {
		m = m.With(i)
	}
	return m
}
