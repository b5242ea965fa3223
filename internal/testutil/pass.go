package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/mdrun/internal/command"
	"github.com/vk/mdrun/internal/document"
	"github.com/vk/mdrun/internal/expr"
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/state"
	"github.com/vk/mdrun/internal/value"
)

// Pass is an in-memory registry.Pass for exercising a single handler
// without an engine. Fields may be set directly before use.
type Pass struct {
	Store    *state.Store
	Config   registry.Settings
	Current  string
	Taken    bool
	HasIf    bool
	Memoized any
	// Execs counts calls to Exec.
	Execs int
}

var _ registry.Pass = (*Pass)(nil)

// NewPass returns a pass over an empty store with default settings.
func NewPass() *Pass {
	return &Pass{Store: state.New(), Config: registry.DefaultSettings()}
}

// Seed writes each raw path/value pair into the store, failing the test on
// error. Values are converted with value.FromGo.
func (p *Pass) Seed(t *testing.T, vars map[string]any) *Pass {
	t.Helper()
	for raw, v := range vars {
		path, err := value.ParsePath(raw)
		require.NoError(t, err)
		val, err := value.FromGo(v)
		require.NoError(t, err)
		require.NoError(t, p.Store.Set(path, val))
	}
	return p
}

// Get reads a raw path, failing the test if it does not parse.
func (p *Pass) Get(t *testing.T, raw string) value.Value {
	t.Helper()
	path, err := value.ParsePath(raw)
	require.NoError(t, err)
	return p.Store.Get(path)
}

func (p *Pass) Lookup(path value.Path) value.Value { return p.Store.Get(path) }

func (p *Pass) Scope() expr.Scope {
	return expr.SnapshotScope{Root: p.Store.Snapshot()}
}

func (p *Pass) Test(e expr.Expr) bool { return expr.Test(e, p.Scope()) }

func (p *Pass) Interpolate(text string) string {
	return document.Interpolate(text, p.Store.Get)
}

func (p *Pass) Exec(cmds []command.Command) error {
	p.Execs++
	_, err := command.Apply(cmds, p.Store)
	return err
}

func (p *Pass) Set(path value.Path, v value.Value) error { return p.Store.Set(path, v) }

func (p *Pass) CanSet(path value.Path) error { return p.Store.Check(path) }

func (p *Pass) Settings() registry.Settings { return p.Config }

func (p *Pass) Anchor() string { return p.Current }

func (p *Pass) Branch() (taken, ok bool) { return p.Taken, p.HasIf }

func (p *Pass) SetBranch(taken bool) { p.Taken, p.HasIf = taken, true }

func (p *Pass) Memo() any { return p.Memoized }

func (p *Pass) SetMemo(v any) { p.Memoized = v }
