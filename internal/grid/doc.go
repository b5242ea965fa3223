/*
Package grid implements the canonical character grid used by `panel` and
`map` blocks.

A Grid is a rectangle of cells. Each cell holds either a display character
or a mosaic mask: six bits over a 2×3 block of subcells, numbered left to
right, top to bottom:

	+---+---+
	| 0 | 1 |
	+---+---+
	| 2 | 3 |
	+---+---+
	| 4 | 5 |
	+---+---+

Bit i of the mask is set when subcell i is filled, so mask 0 is the empty
cell and mask 63 the full block.

Three glyph tiers translate between masks and text:

  - ascii: the density ladder ". : * # @" plus "_"
  - block: Unicode half blocks, quadrants, box-drawing corners and shades
  - sextant: the 64-entry table of Unicode block sextants, which is lossless.
    Masks that the block tier names are written with the block glyph.

Decode (text to grid) and Encode (grid to text) are inverse on every
tier's canonical text: its own glyphs, with no trailing blanks on a row.
Encode trims them, so "█ " reads back as "█". Encode depends only on each cell's mask and the
requested tier, never on how the grid was produced. Teletext hands the
masks to a mosaic-capable renderer untouched.
*/
package grid
