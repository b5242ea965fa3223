package mapview

import (
	"sort"

	"github.com/vk/mdrun/internal/grid"
	"github.com/vk/mdrun/internal/value"
)

// Entity is anything drawn at a tile: a map feature, an item or a sprite.
type Entity struct {
	ID    string
	Tile  string
	Layer string
	Glyph string
	Z     int
	FG    string
}

// Overlay is UI text drawn at fixed viewport coordinates.
type Overlay struct {
	X    int
	Y    int
	Text string
}

// Scene is everything needed to composite one frame.
type Scene struct {
	Width  int
	Height int
	Tier   grid.Tier

	Center string
	Layer  string

	// Fill is drawn where no terrain is known.
	Fill string
	// Legend maps tiles to terrain glyphs and takes precedence over the
	// host TerrainSource.
	Legend map[string]string

	Features []Entity
	Items    []Entity
	Sprites  []Entity
	Overlays []Overlay
}

// Compose renders the scene into a new Width×Height grid, each side capped
// at grid.MaxSide. The viewport
// centre is cell (Width/2, Height/2). A nil terrain source is allowed.
func Compose(s Scene, loc Locator, terrain TerrainSource) *grid.Grid {
	g := grid.New(s.Width, s.Height)
	if loc == nil {
		loc = CoordLocator{}
	}
	w, h := g.Width(), g.Height()
	cx, cy := w/2, h/2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			glyph := s.Fill
			if tile, ok := loc.TileAt(s.Center, x-cx, y-cy); ok {
				if t, ok := s.Legend[tile]; ok {
					glyph = t
				} else if terrain != nil {
					if t, ok := terrain.Terrain(tile, s.Layer); ok {
						glyph = t
					}
				}
			}
			if glyph != "" {
				g.Set(x, y, GlyphCell(glyph, ""))
			}
		}
	}

	place := func(e Entity) {
		if s.Layer != "" && e.Layer != "" && e.Layer != s.Layer {
			return
		}
		dx, dy, ok := loc.Offset(s.Center, e.Tile)
		if !ok || !g.In(cx+dx, cy+dy) {
			return
		}
		g.Set(cx+dx, cy+dy, GlyphCell(e.Glyph, e.FG))
	}

	for _, e := range s.Features {
		place(e)
	}
	for _, e := range s.Items {
		place(e)
	}
	for _, e := range SortSprites(s.Sprites) {
		place(e)
	}
	for _, o := range s.Overlays {
		grid.DecodeInto(g, o.X, o.Y, o.Text, s.Tier)
	}
	return g
}

// SortSprites returns the sprites in drawing order: ascending z, with the
// original order kept for equal z. The input is not modified.
func SortSprites(sprites []Entity) []Entity {
	out := make([]Entity, len(sprites))
	copy(out, sprites)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

// GlyphCell turns a glyph string into a cell. Unicode mosaic glyphs become
// mosaic cells so that they degrade with the output tier; anything else is
// drawn as the first character verbatim.
func GlyphCell(glyph, fg string) grid.Cell {
	var c grid.Cell
	for _, r := range glyph {
		if m, ok := grid.Lookup(r, grid.TierSextant); ok && grid.IsMosaicGlyph(r) {
			c = grid.MosaicCell(m)
		} else {
			c = grid.CharCell(r)
		}
		break
	}
	c.FG = fg
	return c
}

// EntitiesFromValue decodes an array of {id, glyph, tile, layer, z, fg}
// objects. Sprite-style positions ({pos: {tile, layer}}) are accepted too.
// Entries without a glyph or a tile are skipped.
func EntitiesFromValue(v value.Value) []Entity {
	arr := v.AsArray()
	if arr == nil {
		return nil
	}
	var out []Entity
	for _, item := range arr.Items() {
		obj := item.AsObject()
		if obj == nil {
			continue
		}
		e := Entity{
			ID:    field(obj, "id"),
			Glyph: field(obj, "glyph"),
			Tile:  field(obj, "tile"),
			Layer: field(obj, "layer"),
			FG:    field(obj, "fg"),
		}
		if pos, ok := obj.Get("pos"); ok {
			if p := pos.AsObject(); p != nil {
				e.Tile = field(p, "tile")
				e.Layer = field(p, "layer")
			}
		}
		if z, ok := obj.Get("z"); ok {
			if n, ok := z.AsNumber(); ok {
				e.Z = int(n)
			}
		}
		if e.Glyph == "" || e.Tile == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

// field reads a scalar member as text; numbers and booleans are accepted.
func field(o *value.Object, key string) string {
	v, ok := o.Get(key)
	if !ok || v.Kind().IsContainer() {
		return ""
	}
	return v.Text()
}
