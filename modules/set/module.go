// Package set implements the `set` block, a list of commands that runs once
// per document instance, the first time the block is rendered with its
// guard holding.
package set

import (
	"context"
	"errors"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/mdrun/internal/command"
	"github.com/vk/mdrun/internal/ctxlog"
	"github.com/vk/mdrun/internal/document"
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/render"
	"github.com/vk/mdrun/internal/value"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Block is a parsed set block.
type Block struct {
	Commands []command.Command
	src      *document.Block
}

// Refs implements registry.Block.
func (b *Block) Refs() []value.Path {
	return command.Refs(b.Commands)
}

// outcome is remembered after the block has run so that a failure stays
// visible on every later pass.
type outcome struct {
	diags hcl.Diagnostics
}

// Parse reads the command list.
func Parse(ctx context.Context, src *document.Block) (registry.Block, hcl.Diagnostics) {
	cmds, err := command.Parse(src.Body)
	if err != nil {
		var pe *command.ParseError
		if errors.As(err, &pe) {
			return nil, registry.Errorf(src.LineRange(pe.Line), "Invalid command", "%s", pe.Msg)
		}
		return nil, registry.Errorf(src.Range, "Invalid command", "%v", err)
	}
	ctxlog.FromContext(ctx).Debug("Parsed set block.", "commands", len(cmds))
	return &Block{Commands: cmds, src: src}, nil
}

// Render runs the commands the first time it is called for the block.
func Render(ctx context.Context, blk registry.Block, p registry.Pass) ([]render.Node, hcl.Diagnostics) {
	b := blk.(*Block)
	if done, ok := p.Memo().(*outcome); ok {
		return nil, done.diags
	}

	res := &outcome{}
	if err := p.Exec(b.Commands); err != nil {
		subject := b.src.Range
		var ee *command.ExecError
		if errors.As(err, &ee) {
			subject = b.src.LineRange(ee.Command.Line)
		}
		ctxlog.FromContext(ctx).Warn("Set block aborted.", "range", subject.String(), "error", err)
		res.diags = registry.Errorf(subject, "Command failed", "%v; later commands in this block were skipped", err)
	}
	p.SetMemo(res)
	return nil, res.diags
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(registry.Handler{
		Kind:    registry.KindSet,
		Guarded: true,
		Parse:   Parse,
		Render:  Render,
	})
}
