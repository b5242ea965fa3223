// Package mapblock implements the `map` block: a viewport centred on
// $map.center, composited from terrain, features, items, the sprites in
// $sprites and UI overlays.
//
//	```map
//	width: 9
//	height: 5
//	fill: "."
//	terrain:
//	  "0,0": "▓"
//	features:
//	  - {tile: "1,0", glyph: "T"}
//	items_var: $loot
//	overlays:
//	  - {x: 0, y: 0, text: "HP $player.hp"}
//	```
package mapblock

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/mdrun/internal/document"
	"github.com/vk/mdrun/internal/grid"
	"github.com/vk/mdrun/internal/mapview"
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/render"
	"github.com/vk/mdrun/internal/value"
	"gopkg.in/yaml.v3"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Paths of the map state every map block reads.
var (
	MapPath     = value.Var("map")
	CenterPath  = value.Var("map", value.KeySegment("center"))
	LayerPath   = value.Var("map", value.KeySegment("layer"))
	SpritesPath = value.Var("sprites")
)

type entitySpec struct {
	ID    string `yaml:"id"`
	Tile  string `yaml:"tile"`
	Layer string `yaml:"layer"`
	Glyph string `yaml:"glyph"`
	FG    string `yaml:"fg"`
}

type overlaySpec struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Text string `yaml:"text"`
}

type spec struct {
	Width    int               `yaml:"width"`
	Height   int               `yaml:"height"`
	Tier     string            `yaml:"tier"`
	Fill     string            `yaml:"fill"`
	Terrain  map[string]string `yaml:"terrain"`
	Features []entitySpec      `yaml:"features"`
	Items    []entitySpec      `yaml:"items"`
	ItemsVar string            `yaml:"items_var"`
	Overlays []overlaySpec     `yaml:"overlays"`
}

// Block is a parsed map block.
type Block struct {
	Width    int
	Height   int
	Tier     *grid.Tier
	Fill     string
	Terrain  map[string]string
	Features []mapview.Entity
	Items    []mapview.Entity
	ItemsVar *value.Path
	Overlays []mapview.Overlay
	src      *document.Block
}

// Refs implements registry.Block.
func (b *Block) Refs() []value.Path {
	out := []value.Path{MapPath, SpritesPath}
	if b.ItemsVar != nil {
		out = append(out, *b.ItemsVar)
	}
	for _, o := range b.Overlays {
		out = append(out, document.Refs(o.Text)...)
	}
	return out
}

// Parse decodes the YAML scene description.
func Parse(_ context.Context, src *document.Block) (registry.Block, hcl.Diagnostics) {
	var s spec
	dec := yaml.NewDecoder(bytes.NewReader([]byte(src.Body)))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, registry.Errorf(src.Range, "Invalid map", "%v", err)
	}
	if s.Width < 0 || s.Height < 0 {
		return nil, registry.Errorf(src.Range, "Invalid map", "width and height must not be negative")
	}
	if s.Width > grid.MaxSide || s.Height > grid.MaxSide {
		return nil, registry.Errorf(src.Range, "Invalid map", "width and height must be at most %d, got %dx%d", grid.MaxSide, s.Width, s.Height)
	}

	b := &Block{Width: s.Width, Height: s.Height, Fill: s.Fill, Terrain: s.Terrain, src: src}
	if s.Tier != "" {
		t, err := grid.ParseTier(s.Tier)
		if err != nil {
			return nil, registry.Errorf(src.Range, "Invalid map", "%v", err)
		}
		b.Tier = &t
	}
	if s.ItemsVar != "" {
		p, err := value.ParsePath(s.ItemsVar)
		if err != nil {
			return nil, registry.Errorf(src.Range, "Invalid map", "items_var: %v", err)
		}
		b.ItemsVar = &p
	}
	b.Features = entities(s.Features)
	b.Items = entities(s.Items)
	for _, o := range s.Overlays {
		b.Overlays = append(b.Overlays, mapview.Overlay{X: o.X, Y: o.Y, Text: o.Text})
	}
	return b, nil
}

func entities(specs []entitySpec) []mapview.Entity {
	out := make([]mapview.Entity, 0, len(specs))
	for _, s := range specs {
		out = append(out, mapview.Entity{ID: s.ID, Tile: s.Tile, Layer: s.Layer, Glyph: s.Glyph, FG: s.FG})
	}
	return out
}

// Render composites the current map state. Sprites are read from state on
// every pass and never cached by the block.
func Render(_ context.Context, blk registry.Block, p registry.Pass) ([]render.Node, hcl.Diagnostics) {
	b := blk.(*Block)
	settings := p.Settings()

	tier := settings.Tier
	if b.Tier != nil {
		tier = *b.Tier
	}
	scene := mapview.Scene{
		Width:    b.Width,
		Height:   b.Height,
		Tier:     tier,
		Center:   p.Lookup(CenterPath).Text(),
		Layer:    p.Lookup(LayerPath).Text(),
		Fill:     b.Fill,
		Legend:   b.Terrain,
		Features: b.Features,
		Items:    b.Items,
		Sprites:  mapview.EntitiesFromValue(p.Lookup(SpritesPath)),
	}
	if scene.Width == 0 {
		scene.Width = settings.Width
	}
	if scene.Height == 0 {
		scene.Height = settings.Height
	}
	if b.ItemsVar != nil {
		scene.Items = append(append([]mapview.Entity(nil), b.Items...), mapview.EntitiesFromValue(p.Lookup(*b.ItemsVar))...)
	}
	for _, o := range b.Overlays {
		scene.Overlays = append(scene.Overlays, mapview.Overlay{X: o.X, Y: o.Y, Text: p.Interpolate(o.Text)})
	}

	g := mapview.Compose(scene, settings.Locator, settings.Terrain)
	return []render.Node{&render.Graphic{
		Block:  string(registry.KindMap),
		Tier:   tier,
		Grid:   g,
		Text:   grid.Encode(g, tier),
		Source: b.src.Range,
	}}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(registry.Handler{
		Kind:    registry.KindMap,
		Guarded: true,
		Parse:   Parse,
		Render:  Render,
	})
}
