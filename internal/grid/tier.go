package grid

import (
	"fmt"
	"strings"
)

// Tier selects the glyph set used to translate between masks and text.
type Tier int

const (
	TierASCII Tier = iota
	TierBlock
	TierSextant
)

var tierNames = map[Tier]string{
	TierASCII:   "ascii",
	TierBlock:   "block",
	TierSextant: "sextant",
}

func (t Tier) String() string {
	if n, ok := tierNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// ParseTier parses a tier name. "unicode" is accepted as an alias for block.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascii":
		return TierASCII, nil
	case "block", "unicode":
		return TierBlock, nil
	case "sextant":
		return TierSextant, nil
	}
	return 0, fmt.Errorf("unknown glyph tier %q (want ascii, block or sextant)", s)
}

// Lookup returns the mask a glyph denotes in tier t. The second result is
// false when r is not a mosaic glyph of that tier.
func Lookup(r rune, t Tier) (Mask, bool) {
	var m Mask
	var ok bool
	switch t {
	case TierASCII:
		m, ok = asciiGlyphs[r]
	case TierBlock:
		m, ok = blockGlyphs[r]
	default:
		m, ok = sextantLookup[r]
	}
	return m, ok
}

// IsMosaicGlyph reports whether r denotes a mask in any Unicode tier.
func IsMosaicGlyph(r rune) bool {
	_, ok := sextantLookup[r]
	return ok && r != ' '
}

// Symbol returns the glyph for mask m in tier t. Every tier renders Empty
// as a space and Full as the full block. Masks with no exact glyph in the
// ascii or block tier fall back to the nearest density symbol. The sextant
// tier keeps the named block glyph for masks that have one, so block art
// reads back unchanged.
func Symbol(m Mask, t Tier) rune {
	m &= Full
	switch m {
	case Empty:
		return ' '
	case Full:
		return '█'
	}
	switch t {
	case TierASCII:
		if r, ok := asciiReverse[m]; ok {
			return r
		}
		return asciiLadder[m.Fill()]
	case TierBlock:
		if r, ok := blockReverse[m]; ok {
			return r
		}
		return shadeByFill[m.Fill()]
	default:
		if r, ok := blockReverse[m]; ok {
			return r
		}
		return sextantGlyphs[m]
	}
}
