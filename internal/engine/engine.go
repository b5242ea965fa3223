package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/mdrun/internal/ctxlog"
	"github.com/vk/mdrun/internal/dag"
	"github.com/vk/mdrun/internal/document"
	"github.com/vk/mdrun/internal/expr"
	"github.com/vk/mdrun/internal/mapview"
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/render"
	"github.com/vk/mdrun/internal/state"
	"github.com/vk/mdrun/internal/value"
)

var (
	// ErrClosed is returned for any call on a closed instance.
	ErrClosed = errors.New("document instance is closed")
	// ErrUnknownForm is returned when an event names a form that does not exist.
	ErrUnknownForm = errors.New("unknown form")
)

// Options configures Load.
type Options struct {
	// Filename labels source ranges in diagnostics.
	Filename string
	// Registry supplies the block handlers. Required.
	Registry *registry.Registry
	// Settings are handed to panel and map blocks. Zero fields take the
	// values of registry.DefaultSettings.
	Settings registry.Settings

	// Persistence selects whether state is loaded on entry and saved on
	// close. PolicyKeyed needs Persister and DocumentID.
	Persistence state.Policy
	Persister   state.Persister
	DocumentID  string

	// OverwriteDefaults makes every state block replace existing values.
	OverwriteDefaults bool
	// FullRecompute disables incremental rendering.
	FullRecompute bool
}

func (o *Options) validate() error {
	if o.Registry == nil {
		return errors.New("engine: a registry is required")
	}
	switch o.Persistence {
	case "", state.PolicyNone:
		o.Persistence = state.PolicyNone
	case state.PolicyKeyed:
		if o.Persister == nil {
			return errors.New("engine: keyed persistence needs a persister")
		}
		if o.DocumentID == "" {
			return errors.New("engine: keyed persistence needs a document id")
		}
	default:
		return fmt.Errorf("engine: unknown persistence policy %q", o.Persistence)
	}

	def := registry.DefaultSettings()
	if o.Settings.Width <= 0 {
		o.Settings.Width = def.Width
	}
	if o.Settings.Height <= 0 {
		o.Settings.Height = def.Height
	}
	if o.Settings.Locator == nil {
		o.Settings.Locator = mapview.CoordLocator{}
	}
	return nil
}

// item is one document node with its parsed block and render cache.
type item struct {
	id    string
	node  document.Node
	kind  registry.Kind
	h     *registry.Handler
	block registry.Block
	guard expr.Expr
	refs  []value.Path
	// static holds warnings produced while loading.
	static []render.Node

	rendered bool
	nodes    []render.Node
	branch   *bool
	memo     any
}

func (it *item) isBlank() bool {
	return it.node.Blank()
}

// Instance is one running document. It is safe for concurrent use; calls
// are serialised.
type Instance struct {
	mu    sync.Mutex
	phase Phase
	opts  Options

	doc   *document.Document
	items []*item
	graph *dag.Graph
	store *state.Store

	anchor      string
	anchorDirty bool
	// carried holds paths written during a pass, for the readers the
	// pass had already rendered.
	carried []value.Path
	pending map[int][]render.Node
}

// Load scans text, parses every block, restores persisted state and applies
// `state` defaults. Only structural scan failures (*document.LoadError) and
// invalid options fail; malformed blocks become warnings.
func Load(ctx context.Context, text string, opts Options) (*Instance, error) {
	logger := ctxlog.FromContext(ctx)
	if err := opts.validate(); err != nil {
		return nil, err
	}

	inst := &Instance{
		phase:   PhaseLoading,
		opts:    opts,
		graph:   dag.New(),
		store:   state.New(),
		pending: make(map[int][]render.Node),
	}

	doc, err := document.Scan(ctx, text, document.Options{Filename: opts.Filename, IsBlock: opts.Registry.IsBlock})
	if err != nil {
		return nil, err
	}
	inst.doc = doc

	inst.buildItems(ctx)
	if err := inst.buildGraph(); err != nil {
		return nil, err
	}

	if opts.Persistence == state.PolicyKeyed {
		snap, found, err := opts.Persister.Load(ctx, opts.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("loading state for %q: %w", opts.DocumentID, err)
		}
		if found {
			inst.store.Restore(snap)
			logger.Debug("Restored persisted state.", "document_id", opts.DocumentID, "vars", snap.Len())
		}
	}

	applied := 0
	for _, it := range inst.items {
		init, ok := it.block.(registry.Initializer)
		if !ok {
			continue
		}
		vars, overwrite := init.Defaults()
		for _, d := range vars {
			if inst.store.SetDefault(d.Name, d.Value, overwrite || opts.OverwriteDefaults) {
				applied++
			}
		}
	}
	logger.Debug("State defaults applied.", "applied", applied)

	inst.phase = PhaseReady
	logger.Info("Document loaded.", "file", opts.Filename, "items", len(inst.items), "anchors", len(doc.Anchors))
	return inst, nil
}

func (inst *Instance) buildItems(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	for idx, n := range inst.doc.Nodes {
		it := &item{id: "item:" + strconv.Itoa(idx), node: n}
		inst.items = append(inst.items, it)

		switch n.Kind {
		case document.NodeText:
			it.refs = document.Refs(n.Text)
			continue
		case document.NodeHeading:
			it.refs = document.Refs(n.Text)
			continue
		case document.NodeVerbatim:
			continue
		}

		b := n.Block
		it.kind = registry.Kind(b.Kind)
		it.h, _ = inst.opts.Registry.Handler(it.kind)

		var diags hcl.Diagnostics
		if b.Info.When != "" {
			if !it.h.Guarded {
				diags = append(diags, registry.Errorf(b.Range, "Unsupported guard", "%s blocks do not accept `when`", b.Kind)...)
			} else if g, err := expr.Parse(b.Info.When); err != nil {
				diags = append(diags, registry.Errorf(b.Range, "Invalid guard", "%v", err)...)
			} else {
				it.guard = g
			}
		}
		if !diags.HasErrors() {
			blk, d := it.h.Parse(ctx, b)
			diags = append(diags, d...)
			if !d.HasErrors() {
				it.block = blk
			}
		}
		if diags.HasErrors() {
			it.block = nil
		}
		if len(diags) > 0 {
			for _, d := range diags {
				logger.Warn("Block diagnostic.", "kind", b.Kind, "range", b.Range.String(), "summary", d.Summary, "detail", d.Detail)
			}
			it.static = render.NewWarnings(b.Kind, diags, b.Range)
		}
		if it.block != nil {
			it.refs = it.block.Refs()
		}
		if it.guard != nil {
			it.refs = append(it.refs, expr.Refs(it.guard)...)
		}
	}
}

// buildGraph links variable roots to the items that read them, the anchor
// to headings, and each else item to its if item.
func (inst *Instance) buildGraph() error {
	g := inst.graph
	lastIf := ""
	for _, it := range inst.items {
		g.AddNode(it.id)
		for _, p := range it.refs {
			if err := g.Link(dag.VarNode(p.Root), it.id); err != nil {
				return err
			}
		}
		switch {
		case it.node.Kind == document.NodeHeading:
			if err := g.Link(dag.AnchorNode, it.id); err != nil {
				return err
			}
		case it.kind == registry.KindElse && lastIf != "":
			if err := g.Link(lastIf, it.id); err != nil {
				return err
			}
		}

		switch {
		case it.kind == registry.KindIf:
			lastIf = it.id
		case !it.isBlank():
			lastIf = ""
		}
	}
	return g.DetectCycles()
}

// Phase returns the current lifecycle phase.
func (inst *Instance) Phase() Phase {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.phase
}

// Anchor returns the current navigation anchor, empty until a nav event.
func (inst *Instance) Anchor() string {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.anchor
}

// Anchors lists the document's navigation targets.
func (inst *Instance) Anchors() []document.Anchor {
	return append([]document.Anchor(nil), inst.doc.Anchors...)
}

// Document returns the scanned document.
func (inst *Instance) Document() *document.Document {
	return inst.doc
}

// Snapshot returns a copy of the current state.
func (inst *Instance) Snapshot() (*value.Object, error) {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if inst.phase == PhaseClosed {
		return nil, ErrClosed
	}
	return inst.store.Snapshot(), nil
}

// LoadSnapshot replaces the state with a copy of snap. The next render
// reflects it.
func (inst *Instance) LoadSnapshot(snap *value.Object) error {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if inst.phase == PhaseClosed {
		return ErrClosed
	}
	inst.store.Restore(snap)
	return nil
}

// Close tears the instance down, saving state first under keyed
// persistence. The instance is closed even if the save fails.
func (inst *Instance) Close(ctx context.Context) error {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if inst.phase == PhaseClosed {
		return ErrClosed
	}
	inst.phase = PhaseClosed

	if inst.opts.Persistence != state.PolicyKeyed {
		return nil
	}
	if err := inst.opts.Persister.Save(ctx, inst.opts.DocumentID, inst.store.Snapshot()); err != nil {
		return fmt.Errorf("saving state for %q: %w", inst.opts.DocumentID, err)
	}
	ctxlog.FromContext(ctx).Debug("Persisted state.", "document_id", inst.opts.DocumentID)
	return nil
}
