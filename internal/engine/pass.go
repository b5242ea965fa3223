package engine

import (
	"github.com/vk/mdrun/internal/command"
	"github.com/vk/mdrun/internal/document"
	"github.com/vk/mdrun/internal/expr"
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/value"
)

// pass is the registry.Pass handed to handlers. One pass value is shared by
// every item of a render pass; cur and the branch fields move with it.
type pass struct {
	inst *Instance
	cur  *item

	branch   bool
	branchOK bool

	scope *expr.SnapshotScope
}

var _ registry.Pass = (*pass)(nil)

func newPass(inst *Instance) *pass {
	return &pass{inst: inst}
}

func (p *pass) Lookup(path value.Path) value.Value {
	return p.inst.store.Get(path)
}

func (p *pass) Scope() expr.Scope {
	if p.scope == nil {
		p.scope = &expr.SnapshotScope{Root: p.inst.store.Snapshot()}
	}
	return *p.scope
}

func (p *pass) Test(e expr.Expr) bool {
	return expr.Test(e, p.Scope())
}

func (p *pass) Interpolate(text string) string {
	return document.Interpolate(text, p.Scope().Lookup)
}

func (p *pass) Exec(cmds []command.Command) error {
	if len(cmds) == 0 {
		return nil
	}
	_, err := command.Apply(cmds, p.inst.store)
	p.scope = nil
	return err
}

func (p *pass) Set(path value.Path, v value.Value) error {
	err := p.inst.store.Set(path, v)
	p.scope = nil
	return err
}

func (p *pass) CanSet(path value.Path) error {
	return p.inst.store.Check(path)
}

func (p *pass) Settings() registry.Settings {
	return p.inst.opts.Settings
}

func (p *pass) Anchor() string {
	return p.inst.anchor
}

func (p *pass) Branch() (taken, ok bool) {
	return p.branch, p.branchOK
}

func (p *pass) SetBranch(taken bool) {
	p.branch, p.branchOK = taken, true
	if p.cur != nil {
		p.cur.branch = &taken
	}
}

func (p *pass) Memo() any {
	if p.cur == nil {
		return nil
	}
	return p.cur.memo
}

func (p *pass) SetMemo(v any) {
	if p.cur != nil {
		p.cur.memo = v
	}
}

// visible reports whether the item's guard holds. Items without a guard
// are always visible.
func (p *pass) visible(it *item) bool {
	return it.guard == nil || p.Test(it.guard)
}

// at points the pass at it for a handler call outside a render pass.
func (p *pass) at(it *item) *pass {
	p.cur = it
	return p
}
