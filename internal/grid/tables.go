package grid

// sextantGlyphs maps every mask to its lossless Unicode glyph. Masks 0, 21,
// 42 and 63 reuse the space, half-block and full-block characters; the rest
// come from the "Symbols for Legacy Computing" sextant range.
var sextantGlyphs = [64]rune{
	' ',          // 0 000000 empty
	'\U0001FB00', // 1 000001 sextant-1
	'\U0001FB01', // 2 000010 sextant-2
	'\U0001FB02', // 3 000011 sextant-12
	'\U0001FB03', // 4 000100 sextant-3
	'\U0001FB04', // 5 000101 sextant-13
	'\U0001FB05', // 6 000110 sextant-23
	'\U0001FB06', // 7 000111 sextant-123
	'\U0001FB07', // 8 001000 sextant-4
	'\U0001FB08', // 9 001001 sextant-14
	'\U0001FB09', // 10 001010 sextant-24
	'\U0001FB0A', // 11 001011 sextant-124
	'\U0001FB0B', // 12 001100 sextant-34
	'\U0001FB0C', // 13 001101 sextant-134
	'\U0001FB0D', // 14 001110 sextant-234
	'\U0001FB0E', // 15 001111 sextant-1234
	'\U0001FB0F', // 16 010000 sextant-5
	'\U0001FB10', // 17 010001 sextant-15
	'\U0001FB11', // 18 010010 sextant-25
	'\U0001FB12', // 19 010011 sextant-125
	'\U0001FB13', // 20 010100 sextant-35
	'\u258C',     // 21 010101 left half block
	'\U0001FB14', // 22 010110 sextant-235
	'\U0001FB15', // 23 010111 sextant-1235
	'\U0001FB16', // 24 011000 sextant-45
	'\U0001FB17', // 25 011001 sextant-145
	'\U0001FB18', // 26 011010 sextant-245
	'\U0001FB19', // 27 011011 sextant-1245
	'\U0001FB1A', // 28 011100 sextant-345
	'\U0001FB1B', // 29 011101 sextant-1345
	'\U0001FB1C', // 30 011110 sextant-2345
	'\U0001FB1D', // 31 011111 sextant-12345
	'\U0001FB1E', // 32 100000 sextant-6
	'\U0001FB1F', // 33 100001 sextant-16
	'\U0001FB20', // 34 100010 sextant-26
	'\U0001FB21', // 35 100011 sextant-126
	'\U0001FB22', // 36 100100 sextant-36
	'\U0001FB23', // 37 100101 sextant-136
	'\U0001FB24', // 38 100110 sextant-236
	'\U0001FB25', // 39 100111 sextant-1236
	'\U0001FB26', // 40 101000 sextant-46
	'\U0001FB27', // 41 101001 sextant-146
	'\u2590',     // 42 101010 right half block
	'\U0001FB28', // 43 101011 sextant-1246
	'\U0001FB29', // 44 101100 sextant-346
	'\U0001FB2A', // 45 101101 sextant-1346
	'\U0001FB2B', // 46 101110 sextant-2346
	'\U0001FB2C', // 47 101111 sextant-12346
	'\U0001FB2D', // 48 110000 sextant-56
	'\U0001FB2E', // 49 110001 sextant-156
	'\U0001FB2F', // 50 110010 sextant-256
	'\U0001FB30', // 51 110011 sextant-1256
	'\U0001FB31', // 52 110100 sextant-356
	'\U0001FB32', // 53 110101 sextant-1356
	'\U0001FB33', // 54 110110 sextant-2356
	'\U0001FB34', // 55 110111 sextant-12356
	'\U0001FB35', // 56 111000 sextant-456
	'\U0001FB36', // 57 111001 sextant-1456
	'\U0001FB37', // 58 111010 sextant-2456
	'\U0001FB38', // 59 111011 sextant-12456
	'\U0001FB39', // 60 111100 sextant-3456
	'\U0001FB3A', // 61 111101 sextant-13456
	'\U0001FB3B', // 62 111110 sextant-23456
	'\u2588',     // 63 111111 full block
}

// blockGlyphs are the named Unicode block, quadrant, box-drawing and shade
// symbols, with the mask each one denotes.
var blockGlyphs = map[rune]Mask{
	' ': 0,
	'█': 63, // full block
	'▌': 21, // left half
	'▐': 42, // right half
	'▀': 15, // upper half
	'▄': 60, // lower half
	'▘': 1,  // quadrant upper left
	'▝': 2,  // quadrant upper right
	'▖': 16, // quadrant lower left
	'▗': 32, // quadrant lower right
	'▚': 33, // upper left and lower right
	'▞': 18, // upper right and lower left
	'▙': 53, // all but upper right
	'▛': 23, // all but lower right
	'▜': 43, // all but lower left
	'▟': 58, // all but upper left
	'─': 12, // horizontal line
	'┌': 40, // down and right
	'┐': 20, // down and left
	'└': 10, // up and right
	'┘': 5,  // up and left
	'░': 9,  // light shade
	'▒': 25, // medium shade
	'▓': 54, // dark shade
}

// asciiGlyphs is the strict ASCII tier: the density ladder, the underscore
// as a bottom line, and the full block which every tier shares.
var asciiGlyphs = map[rune]Mask{
	' ': 0,
	'.': LadderMask(1),
	':': LadderMask(2),
	'*': LadderMask(3),
	'#': LadderMask(4),
	'@': LadderMask(5),
	'_': 48,
	'█': 63,
}

// asciiLadder is indexed by fill count.
var asciiLadder = [Subcells]rune{' ', '.', ':', '*', '#', '@'}

// shadeByFill picks the nearest of ░ (25%), ▒ (50%) and ▓ (75%).
var shadeByFill = [Subcells]rune{' ', '░', '░', '▒', '▓', '▓'}

var (
	sextantLookup map[rune]Mask
	blockReverse  map[Mask]rune
	asciiReverse  map[Mask]rune
)

func init() {
	sextantLookup = make(map[rune]Mask, len(sextantGlyphs)+len(blockGlyphs))
	for r, m := range blockGlyphs {
		sextantLookup[r] = m
	}
	for m, r := range sextantGlyphs {
		sextantLookup[r] = Mask(m)
	}

	blockReverse = make(map[Mask]rune, len(blockGlyphs))
	for r, m := range blockGlyphs {
		blockReverse[m] = r
	}
	asciiReverse = make(map[Mask]rune, len(asciiGlyphs))
	for r, m := range asciiGlyphs {
		asciiReverse[m] = r
	}
}
