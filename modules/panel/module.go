// Package panel implements the `panel` block: interpolated text drawn into
// a character grid and re-encoded for the host's glyph tier.
//
//	```panel tier=block width=12 height=3
//	┌──────────┐
//	│ HP $hp   │
//	└──────────┘
//	```
package panel

import (
	"context"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/mdrun/internal/document"
	"github.com/vk/mdrun/internal/grid"
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/render"
	"github.com/vk/mdrun/internal/value"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Block is a parsed panel block.
type Block struct {
	Body string
	// Tier pins both the glyphs recognised in Body and the output tier.
	// When nil, every Unicode mosaic glyph is recognised and output uses
	// the host tier.
	Tier   *grid.Tier
	Width  int
	Height int
	src    *document.Block
}

// Refs implements registry.Block.
func (b *Block) Refs() []value.Path {
	return document.Refs(b.Body)
}

// Parse reads the size and tier attributes.
func Parse(_ context.Context, src *document.Block) (registry.Block, hcl.Diagnostics) {
	b := &Block{Body: src.Body, src: src}
	if s, ok := src.Info.Attr("tier"); ok {
		t, err := grid.ParseTier(s)
		if err != nil {
			return nil, registry.Errorf(src.Range, "Invalid panel", "%v", err)
		}
		b.Tier = &t
	}
	var diags hcl.Diagnostics
	b.Width, diags = dimension(src, "width")
	if diags.HasErrors() {
		return nil, diags
	}
	b.Height, diags = dimension(src, "height")
	if diags.HasErrors() {
		return nil, diags
	}
	return b, nil
}

func dimension(src *document.Block, key string) (int, hcl.Diagnostics) {
	s, ok := src.Info.Attr(key)
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, registry.Errorf(src.Range, "Invalid panel", "%s must be a positive integer, got %q", key, s)
	}
	if n > grid.MaxSide {
		return 0, registry.Errorf(src.Range, "Invalid panel", "%s must be at most %d, got %d", key, grid.MaxSide, n)
	}
	return n, nil
}

// Render draws the interpolated body. Without explicit dimensions the grid
// fits the text, clipped to the host viewport.
func Render(_ context.Context, blk registry.Block, p registry.Pass) ([]render.Node, hcl.Diagnostics) {
	b := blk.(*Block)
	settings := p.Settings()
	text := p.Interpolate(b.Body)

	in, out := grid.TierSextant, settings.Tier
	if b.Tier != nil {
		in, out = *b.Tier, *b.Tier
	}

	w, h := grid.Size(text)
	if b.Width > 0 {
		w = b.Width
	} else if settings.Width > 0 && w > settings.Width {
		w = settings.Width
	}
	if b.Height > 0 {
		h = b.Height
	} else if settings.Height > 0 && h > settings.Height {
		h = settings.Height
	}

	g := grid.New(w, h)
	grid.DecodeInto(g, 0, 0, text, in)
	return []render.Node{&render.Graphic{
		Block:  string(registry.KindPanel),
		Tier:   out,
		Grid:   g,
		Text:   grid.Encode(g, out),
		Source: b.src.Range,
	}}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(registry.Handler{
		Kind:    registry.KindPanel,
		Guarded: true,
		Parse:   Parse,
		Render:  Render,
	})
}
