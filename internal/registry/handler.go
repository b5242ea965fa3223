package registry

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/mdrun/internal/command"
	"github.com/vk/mdrun/internal/document"
	"github.com/vk/mdrun/internal/expr"
	"github.com/vk/mdrun/internal/grid"
	"github.com/vk/mdrun/internal/mapview"
	"github.com/vk/mdrun/internal/render"
	"github.com/vk/mdrun/internal/value"
)

// Block is the parsed form of one runtime block.
type Block interface {
	// Refs lists the variables the block reads, its dependency set.
	Refs() []value.Path
}

// Settings are the host-provided rendering parameters handed to every pass.
type Settings struct {
	Width   int
	Height  int
	Tier    grid.Tier
	Locator mapview.Locator
	Terrain mapview.TerrainSource
}

// DefaultSettings returns an 80×24 block-tier viewport with the coordinate
// locator.
func DefaultSettings() Settings {
	return Settings{Width: 80, Height: 24, Tier: grid.TierBlock, Locator: mapview.CoordLocator{}}
}

// Pass is what a handler sees while its block is rendered or while an
// event is applied to it.
type Pass interface {
	// Lookup reads the current value of p.
	Lookup(p value.Path) value.Value
	// Scope is the snapshot expressions are evaluated against. It reflects
	// every mutation made earlier in the pass.
	Scope() expr.Scope
	// Test evaluates a guard against Scope.
	Test(e expr.Expr) bool
	// Interpolate replaces $variable references in text.
	Interpolate(text string) string
	// Exec runs commands against the state store and refreshes Scope.
	Exec(cmds []command.Command) error
	// Set writes a single value and refreshes Scope.
	Set(p value.Path, v value.Value) error
	// CanSet reports the error Set would return for p without writing.
	CanSet(p value.Path) error
	// Settings returns the host rendering parameters.
	Settings() Settings
	// Anchor returns the current navigation anchor.
	Anchor() string
	// Branch reports the outcome of the nearest preceding if block. ok is
	// false when no if block rendered directly before this block.
	Branch() (taken, ok bool)
	// SetBranch records the outcome of an if block.
	SetBranch(taken bool)
	// Memo returns the value stored by SetMemo for this block, which
	// survives across passes for the life of the document instance.
	Memo() any
	// SetMemo stores per-instance state for this block.
	SetMemo(v any)
}

// ParseFunc turns a scanned block into its parsed form. Diagnostics with
// error severity replace the block with warning nodes.
type ParseFunc func(ctx context.Context, src *document.Block) (Block, hcl.Diagnostics)

// RenderFunc produces the block's output for one pass. Returned
// diagnostics are rendered as warnings at the block's position.
type RenderFunc func(ctx context.Context, b Block, p Pass) ([]render.Node, hcl.Diagnostics)

// Handler is everything the engine needs to run one block kind.
type Handler struct {
	Kind Kind
	// Guarded kinds accept a `when` guard in their info string.
	Guarded bool
	Parse   ParseFunc
	Render  RenderFunc
}

// FormBlock is implemented by blocks that accept form events.
type FormBlock interface {
	Block
	FormID() string
	// Submit validates every field, applies the values and runs the
	// form's on-submit commands.
	Submit(ctx context.Context, p Pass, fields map[string]any) error
	// Change validates and applies a single field.
	Change(ctx context.Context, p Pass, field string, v any) error
}

// NavBlock is implemented by blocks that offer navigation choices.
type NavBlock interface {
	Block
	// Activate runs the side effects of the first visible choice that
	// targets anchor. It reports whether such a choice exists.
	Activate(ctx context.Context, p Pass, anchor string) (bool, error)
}

// Initializer is implemented by blocks that seed state while the
// document loads.
type Initializer interface {
	Block
	// Defaults returns the top-level variables to seed, in order, and
	// whether they replace existing values.
	Defaults() (vars []Default, overwrite bool)
}

// Default is a top-level variable and its initial value.
type Default struct {
	Name  string
	Value value.Value
}
