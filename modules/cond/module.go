// Package cond implements the `if` and `else` blocks. Their bodies are
// Markdown shown when the branch is taken.
//
//	```if $hp > 0 and $hp <= 10
//	You are badly hurt.
//	```
//	```else
//	You feel fine.
//	```
//
// When the info string holds no condition, the first body line is used.
package cond

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/mdrun/internal/document"
	"github.com/vk/mdrun/internal/expr"
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/render"
	"github.com/vk/mdrun/internal/value"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// IfBlock is a parsed if block.
type IfBlock struct {
	Cond expr.Expr
	Body string
	src  *document.Block
}

// Refs implements registry.Block.
func (b *IfBlock) Refs() []value.Path {
	return appendUnique(expr.Refs(b.Cond), document.Refs(b.Body))
}

// ElseBlock is a parsed else block.
type ElseBlock struct {
	Body string
	src  *document.Block
}

// Refs implements registry.Block. The engine adds the paired if block's
// references.
func (b *ElseBlock) Refs() []value.Path {
	return document.Refs(b.Body)
}

// ParseIf reads the condition and body.
func ParseIf(_ context.Context, src *document.Block) (registry.Block, hcl.Diagnostics) {
	cond, body := src.Info.Rest, src.Body
	subject := src.Range
	if strings.TrimSpace(cond) == "" {
		first, rest, _ := strings.Cut(body, "\n")
		cond, body = first, rest
		subject = src.LineRange(1)
	}
	if strings.TrimSpace(cond) == "" {
		return nil, registry.Errorf(src.Range, "Missing condition", "an if block needs a condition after `if` or on its first line")
	}
	e, err := expr.Parse(cond)
	if err != nil {
		return nil, registry.Errorf(subject, "Invalid condition", "%v", err)
	}
	return &IfBlock{Cond: e, Body: body, src: src}, nil
}

// ParseElse reads the body.
func ParseElse(_ context.Context, src *document.Block) (registry.Block, hcl.Diagnostics) {
	if src.Info.Rest != "" {
		return nil, registry.Errorf(src.Range, "Unexpected condition", "else blocks take no condition, found %q", src.Info.Rest)
	}
	return &ElseBlock{Body: src.Body, src: src}, nil
}

// RenderIf evaluates the condition, records the branch for a following
// else block and shows the body when the condition holds.
func RenderIf(_ context.Context, blk registry.Block, p registry.Pass) ([]render.Node, hcl.Diagnostics) {
	b := blk.(*IfBlock)
	taken := p.Test(b.Cond)
	p.SetBranch(taken)
	if !taken {
		return nil, nil
	}
	return markdown(b.Body, b.src, p), nil
}

// RenderElse shows the body when the preceding if block was not taken.
func RenderElse(_ context.Context, blk registry.Block, p registry.Pass) ([]render.Node, hcl.Diagnostics) {
	b := blk.(*ElseBlock)
	taken, ok := p.Branch()
	if !ok {
		return nil, registry.Errorf(b.src.Range, "Orphaned else", "the preceding if block could not be used")
	}
	if taken {
		return nil, nil
	}
	return markdown(b.Body, b.src, p), nil
}

func markdown(body string, src *document.Block, p registry.Pass) []render.Node {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	return []render.Node{&render.Markdown{Text: p.Interpolate(body), Source: src.BodyRange}}
}

func appendUnique(a, b []value.Path) []value.Path {
	out := append([]value.Path(nil), a...)
	for _, p := range b {
		dup := false
		for _, q := range out {
			if p.Equal(q) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// Register registers the handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(registry.Handler{Kind: registry.KindIf, Parse: ParseIf, Render: RenderIf})
	r.Register(registry.Handler{Kind: registry.KindElse, Parse: ParseElse, Render: RenderElse})
}
