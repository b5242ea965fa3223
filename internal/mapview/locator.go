package mapview

import (
	"fmt"
	"strconv"
	"strings"
)

// Locator resolves opaque tile references relative to a centre tile.
type Locator interface {
	// Offset returns the column and row distance from center to tile. ok is
	// false when the locator cannot relate the two tiles.
	Offset(center, tile string) (dx, dy int, ok bool)
	// TileAt returns the tile at the given offset from center.
	TileAt(center string, dx, dy int) (string, bool)
}

// TerrainSource supplies base terrain glyphs for tiles.
type TerrainSource interface {
	Terrain(tile, layer string) (glyph string, ok bool)
}

// TerrainFunc adapts a function to the TerrainSource interface.
type TerrainFunc func(tile, layer string) (string, bool)

// Terrain calls f(tile, layer).
func (f TerrainFunc) Terrain(tile, layer string) (string, bool) {
	return f(tile, layer)
}

// CoordLocator treats tiles as "x,y" integer coordinates. It is the
// locator a host gets when it has no spatial model of its own.
type CoordLocator struct{}

// Offset implements Locator.
func (CoordLocator) Offset(center, tile string) (int, int, bool) {
	cx, cy, err := ParseCoord(center)
	if err != nil {
		return 0, 0, false
	}
	tx, ty, err := ParseCoord(tile)
	if err != nil {
		return 0, 0, false
	}
	return tx - cx, ty - cy, true
}

// TileAt implements Locator.
func (CoordLocator) TileAt(center string, dx, dy int) (string, bool) {
	cx, cy, err := ParseCoord(center)
	if err != nil {
		return "", false
	}
	return FormatCoord(cx+dx, cy+dy), true
}

// ParseCoord parses an "x,y" tile reference.
func ParseCoord(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("tile %q is not of the form x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("tile %q: bad x: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("tile %q: bad y: %w", s, err)
	}
	return x, y, nil
}

// FormatCoord renders an "x,y" tile reference.
func FormatCoord(x, y int) string {
	return strconv.Itoa(x) + "," + strconv.Itoa(y)
}
