package engine

import (
	"context"

	"github.com/vk/mdrun/internal/ctxlog"
	"github.com/vk/mdrun/internal/document"
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/render"
)

// Render runs a render pass and returns the tree. The first call is the
// initial display.
func (inst *Instance) Render(ctx context.Context) (*render.Tree, error) {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if inst.phase == PhaseClosed {
		return nil, ErrClosed
	}
	return inst.renderLocked(ctx), nil
}

// renderLocked repeats passes until no set block changes the store, so that
// items earlier in the document see mutations made further down. The
// repetition is bounded because every set block runs at most once.
func (inst *Instance) renderLocked(ctx context.Context) *render.Tree {
	logger := ctxlog.FromContext(ctx)
	inst.phase = PhaseRendering
	defer func() { inst.phase = PhaseReady }()

	var tree *render.Tree
	for round := 0; round <= len(inst.items); round++ {
		var mutated bool
		tree, mutated = inst.pass(ctx)
		if !mutated {
			break
		}
		logger.Debug("Store changed during pass, rendering again.", "round", round+1)
	}
	inst.pending = make(map[int][]render.Node)
	return tree
}

// pass renders every item once. It reports whether any handler changed the
// store while the pass ran.
func (inst *Instance) pass(ctx context.Context) (*render.Tree, bool) {
	logger := ctxlog.FromContext(ctx)

	changed := append(inst.carried, inst.store.Changed()...)
	dirty := inst.graph.Dirty(changed, inst.anchorDirty)
	inst.anchorDirty = false
	inst.carried = nil
	inst.store.ResetChanged()

	p := newPass(inst)
	tree := &render.Tree{Anchor: inst.anchor}
	tree.Nodes = append(tree.Nodes, inst.pending[-1]...)

	mutated := false
	recomputed := 0
	for idx, it := range inst.items {
		if inst.opts.FullRecompute || !it.rendered || dirty[it.id] {
			p.cur = it
			inst.compute(ctx, p, it)
			recomputed++
		}

		switch {
		case it.branch != nil && it.kind == registry.KindIf:
			p.branch, p.branchOK = *it.branch, true
		case it.kind == registry.KindIf:
			p.branch, p.branchOK = false, false
		case !it.isBlank():
			p.branch, p.branchOK = false, false
		}

		if changed := inst.store.Changed(); len(changed) > 0 {
			mutated = true
			for id := range inst.graph.Dirty(changed, false) {
				dirty[id] = true
			}
			inst.carried = append(inst.carried, changed...)
			inst.store.ResetChanged()
			p.scope = nil
		}

		tree.Nodes = append(tree.Nodes, it.nodes...)
		tree.Nodes = append(tree.Nodes, inst.pending[idx]...)
	}
	logger.Debug("Render pass complete.", "items", len(inst.items), "recomputed", recomputed, "nodes", len(tree.Nodes))
	return tree, mutated
}

// compute refreshes the cached output of one item.
func (inst *Instance) compute(ctx context.Context, p *pass, it *item) {
	logger := ctxlog.FromContext(ctx)
	it.rendered = true
	it.nodes = nil

	n := it.node
	switch n.Kind {
	case document.NodeText:
		if !n.Blank() {
			it.nodes = []render.Node{&render.Markdown{Text: p.Interpolate(n.Text), Source: n.Range}}
		}
		return
	case document.NodeHeading:
		it.nodes = []render.Node{&render.Heading{
			Level:   n.Level,
			Text:    p.Interpolate(n.Text),
			Anchor:  n.Anchor,
			Current: n.Anchor != "" && n.Anchor == inst.anchor,
			Source:  n.Range,
		}}
		return
	case document.NodeVerbatim:
		it.nodes = []render.Node{&render.Verbatim{Text: n.Text, Source: n.Range}}
		return
	}

	it.nodes = append(it.nodes, it.static...)
	if it.block == nil {
		if it.kind == registry.KindIf {
			it.branch = nil
		}
		return
	}
	if !p.visible(it) {
		return
	}
	out, diags := it.h.Render(ctx, it.block, p)
	it.nodes = append(it.nodes, out...)
	if len(diags) > 0 {
		for _, d := range diags {
			logger.Warn("Block diagnostic.", "kind", string(it.kind), "range", n.Block.Range.String(), "summary", d.Summary, "detail", d.Detail)
		}
		it.nodes = append(it.nodes, render.NewWarnings(string(it.kind), diags, n.Block.Range)...)
	}
}
