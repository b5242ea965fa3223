package engine_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mdrun/internal/document"
	"github.com/vk/mdrun/internal/engine"
	"github.com/vk/mdrun/internal/inmemorystore"
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/render"
	"github.com/vk/mdrun/internal/state"
	"github.com/vk/mdrun/internal/testutil"
	"github.com/vk/mdrun/internal/value"
	"github.com/vk/mdrun/modules/cond"
	"github.com/vk/mdrun/modules/form"
	"github.com/vk/mdrun/modules/mapblock"
	"github.com/vk/mdrun/modules/nav"
	"github.com/vk/mdrun/modules/panel"
	"github.com/vk/mdrun/modules/set"
	statemod "github.com/vk/mdrun/modules/state"
)

func newRegistry() *registry.Registry {
	return registry.New(
		&statemod.Module{},
		&set.Module{},
		&form.Module{},
		&cond.Module{},
		&nav.Module{},
		&panel.Module{},
		&mapblock.Module{},
	)
}

func load(t *testing.T, src string, opts ...func(*engine.Options)) (*engine.Instance, context.Context) {
	t.Helper()
	ctx, _ := testutil.Context(t)
	o := engine.Options{Filename: "test.md", Registry: newRegistry()}
	for _, fn := range opts {
		fn(&o)
	}
	inst, err := engine.Load(ctx, src, o)
	require.NoError(t, err)
	return inst, ctx
}

func render1(t *testing.T, ctx context.Context, inst *engine.Instance) *render.Tree {
	t.Helper()
	tree, err := inst.Render(ctx)
	require.NoError(t, err)
	return tree
}

// texts returns the trimmed text of every Markdown node.
func texts(tree *render.Tree) []string {
	var out []string
	for _, n := range tree.Nodes {
		if md, ok := n.(*render.Markdown); ok {
			out = append(out, strings.TrimSpace(md.Text))
		}
	}
	return out
}

func get(t *testing.T, inst *engine.Instance, raw string) value.Value {
	t.Helper()
	snap, err := inst.Snapshot()
	require.NoError(t, err)
	p, err := value.ParsePath(raw)
	require.NoError(t, err)
	v, ok := snap.Get(p.Root)
	if !ok {
		return value.Null()
	}
	for _, seg := range p.Segments {
		if seg.IsIndex() {
			v, _ = v.AsArray().Get(seg.Index)
		} else {
			v, _ = v.AsObject().Get(seg.Key)
		}
	}
	return v
}

const hurtDoc = "```if $hp > 0 and $hp <= 10\n" +
	"You are badly hurt.\n" +
	"```\n" +
	"\n" +
	"```else\n" +
	"You feel fine.\n" +
	"```\n"

func TestRender_IfElsePartition(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		hp   any
		want string
	}{
		{name: "absent", hp: nil, want: "You feel fine."},
		{name: "zero", hp: 0, want: "You feel fine."},
		{name: "low", hp: 1, want: "You are badly hurt."},
		{name: "boundary", hp: 10, want: "You are badly hurt."},
		{name: "healthy", hp: 11, want: "You feel fine."},
		{name: "string is not a number", hp: "5", want: "You feel fine."},
	}

	for _, tc := range testCases {

		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			// --- Arrange ---
			inst, ctx := load(t, hurtDoc)
			if tc.hp != nil {
				hp, err := value.FromGo(tc.hp)
				require.NoError(t, err)
				snap := value.NewObject()
				snap.Set("hp", hp)
				require.NoError(t, inst.LoadSnapshot(snap))
			}

			// --- Act ---
			tree := render1(t, ctx, inst)

			// --- Assert ---
			assert.Equal(t, []string{tc.want}, texts(tree))
			assert.Empty(t, tree.Warnings())
		})
	}
}

func TestRender_ElseFollowsStateChanges(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	src := "```state\n$hp = 20\n```\n" + hurtDoc +
		"```form vitals\nfields:\n  - {name: hp, type: number}\n```\n"
	inst, ctx := load(t, src)
	assert.Equal(t, []string{"You feel fine."}, texts(render1(t, ctx, inst)))

	// --- Act ---
	tree, err := inst.ChangeField(ctx, "vitals", "hp", 3)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"You are badly hurt."}, texts(tree))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("else without if", func(t *testing.T) {
		t.Parallel()
		_, err := engine.Load(context.Background(), "text\n```else\nx\n```\n", engine.Options{Registry: newRegistry()})
		var le *document.LoadError
		require.ErrorAs(t, err, &le)
		assert.ErrorIs(t, err, document.ErrOrphanElse)
	})

	t.Run("unterminated fence", func(t *testing.T) {
		t.Parallel()
		_, err := engine.Load(context.Background(), "```set\ninc $a\n", engine.Options{Registry: newRegistry()})
		assert.ErrorIs(t, err, document.ErrUnterminatedFence)
	})

	t.Run("missing registry", func(t *testing.T) {
		t.Parallel()
		_, err := engine.Load(context.Background(), "", engine.Options{})
		assert.Error(t, err)
	})

	t.Run("keyed persistence without persister", func(t *testing.T) {
		t.Parallel()
		_, err := engine.Load(context.Background(), "", engine.Options{
			Registry:    newRegistry(),
			Persistence: state.PolicyKeyed,
			DocumentID:  "intro",
		})
		assert.ErrorContains(t, err, "persister")
	})
}

func TestRender_InvalidBlockBecomesWarning(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	src := "# Camp\n" +
		"```set\n" +
		"set $a 1\n" +
		"frobnicate $b\n" +
		"```\n" +
		"The fire crackles.\n"
	inst, ctx := load(t, src)

	// --- Act ---
	tree := render1(t, ctx, inst)

	// --- Assert ---
	w := testutil.RequireWarning(t, tree, "frobnicate")
	assert.Equal(t, "set", w.Kind)
	assert.Equal(t, 4, w.Source.Start.Line)
	assert.Equal(t, []string{"The fire crackles."}, texts(tree))
	assert.True(t, get(t, inst, "$a").IsNull(), "an invalid block must not run any command")

	heading, ok := tree.Nodes[0].(*render.Heading)
	require.True(t, ok)
	assert.Equal(t, "camp", heading.Anchor)
}

func TestRender_UnsupportedGuardWarns(t *testing.T) {
	t.Parallel()
	inst, ctx := load(t, "```if $a when $b\nx\n```\n")

	tree := render1(t, ctx, inst)

	w := testutil.RequireWarning(t, tree, "when")
	assert.Equal(t, "if", w.Kind)
}

func TestRender_SetRunsOnce(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	src := "```state\n$visits = 0\n```\n" +
		"Before: $visits\n" +
		"```set\ninc $visits\n```\n" +
		"After: $visits\n"
	inst, ctx := load(t, src)

	// --- Act ---
	first := render1(t, ctx, inst)
	second := render1(t, ctx, inst)

	// --- Assert ---
	want := []string{"Before: 1", "After: 1"}
	assert.Equal(t, want, texts(first))
	assert.Equal(t, want, texts(second))
	assert.True(t, get(t, inst, "$visits").Equal(value.Int(1)))
}

func TestRender_SetAbortKeepsEarlierMutations(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	src := "```state\n$name = \"Ada\"\n```\n" +
		"```set\n" +
		"set $gold 5\n" +
		"set $name.first \"x\"\n" +
		"set $after true\n" +
		"```\n"
	inst, ctx := load(t, src)

	// --- Act ---
	first := render1(t, ctx, inst)
	second := render1(t, ctx, inst)

	// --- Assert ---
	for _, tree := range []*render.Tree{first, second} {
		w := testutil.RequireWarning(t, tree, "skipped")
		assert.Equal(t, 6, w.Source.Start.Line, "the warning points at the failing command")
	}
	assert.True(t, get(t, inst, "$gold").Equal(value.Int(5)))
	assert.True(t, get(t, inst, "$after").IsNull())
}

func TestRender_GuardedSetWaitsForGuard(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	src := "```state\n$armed = false\n$count = 0\n```\n" +
		"```set when $armed\ninc $count\n```\n" +
		"```form trap\nfields:\n  - {name: armed, type: checkbox}\n```\n"
	inst, ctx := load(t, src)

	// --- Act & Assert ---
	render1(t, ctx, inst)
	assert.True(t, get(t, inst, "$count").Equal(value.Int(0)))

	_, err := inst.ChangeField(ctx, "trap", "armed", true)
	require.NoError(t, err)
	assert.True(t, get(t, inst, "$count").Equal(value.Int(1)))

	_, err = inst.ChangeField(ctx, "trap", "armed", false)
	require.NoError(t, err)
	_, err = inst.ChangeField(ctx, "trap", "armed", true)
	require.NoError(t, err)
	assert.True(t, get(t, inst, "$count").Equal(value.Int(1)), "a set block fires once per instance")
}

func TestRender_LaterSetsReachEarlierReaders(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	src := "Top: $a $b\n" +
		"```set\nset $a 1\n```\n" +
		"Mid: $a\n" +
		"```set\nset $b 2\n```\n" +
		"End: $a $b\n"
	inc, ctx := load(t, src)
	full, _ := load(t, src, func(o *engine.Options) { o.FullRecompute = true })

	// --- Act ---
	first := render1(t, ctx, inc)
	second := render1(t, ctx, inc)

	// --- Assert ---
	want := []string{"Top: 1 2", "Mid: 1", "End: 1 2"}
	assert.Equal(t, want, texts(first))
	assert.Equal(t, want, texts(second))
	if diff := cmp.Diff(render1(t, ctx, full).Plain(), first.Plain()); diff != "" {
		t.Errorf("incremental output differs from full recompute (-full +incremental):\n%s", diff)
	}
}

func TestRender_OversizedIndexWarns(t *testing.T) {
	t.Parallel()
	inst, ctx := load(t, "```set\nset $a[5000000] 1\n```\nAfter.\n")

	tree := render1(t, ctx, inst)

	w := testutil.RequireWarning(t, tree, "exceeds the maximum")
	assert.Equal(t, "set", w.Kind)
	assert.Equal(t, []string{"After."}, texts(tree))
	assert.True(t, get(t, inst, "$a").IsNull())
}

func TestRender_OversizedPanelWarns(t *testing.T) {
	t.Parallel()
	inst, ctx := load(t, "```panel width=3037000500 height=3037000500\nx\n```\nStill here.\n")

	tree := render1(t, ctx, inst)

	w := testutil.RequireWarning(t, tree, "at most 1024")
	assert.Equal(t, "panel", w.Kind)
	assert.Equal(t, []string{"Still here."}, texts(tree))
}

func TestLoad_StateDefaults(t *testing.T) {
	t.Parallel()

	src := "```state\n$hp = 10\n$name = \"Ada\"\n```\n" +
		"```state\n$hp = 99\n```\n" +
		"```state overwrite\n$name = \"Bea\"\n```\n"

	t.Run("default preserving", func(t *testing.T) {
		t.Parallel()
		inst, _ := load(t, src)
		assert.True(t, get(t, inst, "$hp").Equal(value.Int(10)))
		assert.True(t, get(t, inst, "$name").Equal(value.String("Bea")))
	})

	t.Run("host overwrite", func(t *testing.T) {
		t.Parallel()
		inst, _ := load(t, src, func(o *engine.Options) { o.OverwriteDefaults = true })
		assert.True(t, get(t, inst, "$hp").Equal(value.Int(99)))
	})
}

func TestLoad_Deterministic(t *testing.T) {
	t.Parallel()
	src := "# Start\n```state\nplayer = { name = \"Ada\", inv = [\"rope\"] }\n$hp = 3\n```\n" +
		"Hello $player.name, you carry $player.inv[0].\n" + hurtDoc

	a, ctx := load(t, src)
	b, _ := load(t, src)

	snapA, err := a.Snapshot()
	require.NoError(t, err)
	snapB, err := b.Snapshot()
	require.NoError(t, err)
	assert.True(t, snapA.Equal(snapB))
	assert.Equal(t, snapA.Keys(), snapB.Keys())

	if diff := cmp.Diff(render1(t, ctx, a).Plain(), render1(t, ctx, b).Plain()); diff != "" {
		t.Errorf("renders differ (-a +b):\n%s", diff)
	}
}

const adventure = "# Camp\n" +
	"```state\n$hp = 12\n$gold = 0\n$visits = 0\nmap = { center = \"0,0\", layer = \"ground\" }\n```\n" +
	"You have $gold gold and $hp hp.\n" +
	"```if $hp <= 10\nYou are hurt.\n```\n" +
	"```else\nYou feel fine.\n```\n" +
	"```panel width=10 height=1\nHP $hp\n```\n" +
	"```map\nwidth: 3\nheight: 3\nfill: \".\"\nfeatures:\n  - {tile: \"1,0\", glyph: \"T\"}\n```\n" +
	"```form shop\nfields:\n  - {name: gold, type: number, min: 0}\n  - {name: hp, type: number}\non_submit: inc $visits\n```\n" +
	"```nav\n- label: Enter the cave ($visits)\n  target: cave\n  set: dec $hp\n- label: Rest\n  target: camp\n  when: $hp < 12\n```\n" +
	"# Cave\n" +
	"```set when $gold > 3\nset $rich true\n```\n" +
	"Rich: $rich\n"

func TestRender_IncrementalMatchesFullRecompute(t *testing.T) {
	t.Parallel()

	inc, ctx := load(t, adventure)
	full, _ := load(t, adventure, func(o *engine.Options) { o.FullRecompute = true })

	steps := []func(*engine.Instance) (*render.Tree, error){
		func(i *engine.Instance) (*render.Tree, error) { return i.Render(ctx) },
		func(i *engine.Instance) (*render.Tree, error) { return i.ActivateNav(ctx, "cave") },
		func(i *engine.Instance) (*render.Tree, error) { return i.ChangeField(ctx, "shop", "gold", 5) },
		func(i *engine.Instance) (*render.Tree, error) { return i.ActivateNav(ctx, "#camp") },
		func(i *engine.Instance) (*render.Tree, error) {
			return i.SubmitForm(ctx, "shop", map[string]any{"gold": "1", "hp": 2})
		},
		func(i *engine.Instance) (*render.Tree, error) { return i.ActivateNav(ctx, "nowhere") },
		func(i *engine.Instance) (*render.Tree, error) { return i.Render(ctx) },
	}

	for n, step := range steps {
		a, err := step(inc)
		require.NoError(t, err, "step %d", n)
		b, err := step(full)
		require.NoError(t, err, "step %d", n)
		if diff := cmp.Diff(b.Plain(), a.Plain()); diff != "" {
			t.Fatalf("step %d: incremental output differs from full recompute (-full +incremental):\n%s", n, diff)
		}
		assert.Equal(t, b.Anchor, a.Anchor, "step %d", n)
	}

	snapA, err := inc.Snapshot()
	require.NoError(t, err)
	snapB, err := full.Snapshot()
	require.NoError(t, err)
	assert.True(t, snapA.Equal(snapB))
	assert.True(t, get(t, inc, "$rich").Equal(value.Bool(true)))
}

func TestActivateNav(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	inst, ctx := load(t, adventure)
	render1(t, ctx, inst)

	// --- Act ---
	tree, err := inst.ActivateNav(ctx, "#cave")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "cave", inst.Anchor())
	assert.Equal(t, "cave", tree.Anchor)
	assert.True(t, get(t, inst, "$hp").Equal(value.Int(11)), "the choice's commands ran")

	var current []string
	for _, n := range tree.Nodes {
		if h, ok := n.(*render.Heading); ok && h.Current {
			current = append(current, h.Anchor)
		}
	}
	assert.Equal(t, []string{"cave"}, current)
	assert.Contains(t, texts(tree), "You have 0 gold and 11 hp.")
}

func TestActivateNav_HiddenChoiceDoesNotRun(t *testing.T) {
	t.Parallel()
	inst, ctx := load(t, adventure)

	// "Rest" is hidden while $hp is 12; the jump still happens.
	_, err := inst.ActivateNav(ctx, "camp")
	require.NoError(t, err)

	assert.Equal(t, "camp", inst.Anchor())
	assert.True(t, get(t, inst, "$hp").Equal(value.Int(12)))
}

func TestActivateNav_UnknownAnchor(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	inst, ctx := load(t, adventure)
	_, err := inst.ActivateNav(ctx, "cave")
	require.NoError(t, err)

	// --- Act ---
	tree, err := inst.ActivateNav(ctx, "dragon-lair")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "cave", inst.Anchor(), "focus is unchanged")
	w := testutil.RequireWarning(t, tree, "dragon-lair")
	assert.Equal(t, "nav", w.Kind)

	again := render1(t, ctx, inst)
	assert.Empty(t, again.Warnings(), "navigation warnings last one render")
}

func TestSubmitForm(t *testing.T) {
	t.Parallel()

	t.Run("applies values and runs on_submit", func(t *testing.T) {
		t.Parallel()
		inst, ctx := load(t, adventure)

		tree, err := inst.SubmitForm(ctx, "shop", map[string]any{"gold": "4"})

		require.NoError(t, err)
		assert.True(t, get(t, inst, "$gold").Equal(value.Int(4)))
		assert.True(t, get(t, inst, "$hp").Equal(value.Int(12)), "missing fields keep their value")
		assert.True(t, get(t, inst, "$visits").Equal(value.Int(1)))
		assert.Contains(t, texts(tree), "You have 4 gold and 12 hp.")
	})

	t.Run("validation failure writes nothing", func(t *testing.T) {
		t.Parallel()
		inst, ctx := load(t, adventure)

		tree, err := inst.SubmitForm(ctx, "shop", map[string]any{"gold": -1, "hp": 3})

		require.Error(t, err)
		assert.Nil(t, tree)
		assert.True(t, errors.Is(err, registry.ErrInvalidInput))
		var ve *form.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "gold", ve.Problems[0].Field)
		assert.True(t, get(t, inst, "$hp").Equal(value.Int(12)))
		assert.True(t, get(t, inst, "$visits").Equal(value.Int(0)))
	})

	t.Run("unknown form", func(t *testing.T) {
		t.Parallel()
		inst, ctx := load(t, adventure)

		_, err := inst.SubmitForm(ctx, "bank", nil)
		assert.ErrorIs(t, err, engine.ErrUnknownForm)
	})

	t.Run("hidden form", func(t *testing.T) {
		t.Parallel()
		inst, ctx := load(t, "```form secret when $unlocked\nfields:\n  - {name: code}\n```\n")

		_, err := inst.SubmitForm(ctx, "secret", map[string]any{"code": "x"})
		assert.ErrorIs(t, err, engine.ErrUnknownForm)
	})

	t.Run("on_submit failure is a warning", func(t *testing.T) {
		t.Parallel()
		src := "```state\n$name = \"Ada\"\n```\n" +
			"```form f\nfields:\n  - {name: n}\non_submit: set $name.first 1\n```\n"
		inst, ctx := load(t, src)

		tree, err := inst.SubmitForm(ctx, "f", map[string]any{"n": "x"})

		require.NoError(t, err)
		w := testutil.RequireWarning(t, tree, "on_submit")
		assert.Equal(t, "form", w.Kind)
		assert.True(t, get(t, inst, "$n").Equal(value.String("x")))
	})
}

func TestChangeField(t *testing.T) {
	t.Parallel()
	inst, ctx := load(t, adventure)

	tree, err := inst.ChangeField(ctx, "shop", "hp", "7")
	require.NoError(t, err)
	assert.Contains(t, texts(tree), "You are hurt.")

	_, err = inst.ChangeField(ctx, "shop", "gold", "lots")
	assert.ErrorIs(t, err, registry.ErrInvalidInput)
	assert.True(t, get(t, inst, "$gold").Equal(value.Int(0)))
}

func TestRender_Graphics(t *testing.T) {
	t.Parallel()
	inst, ctx := load(t, adventure)

	tree := render1(t, ctx, inst)

	var graphics []*render.Graphic
	for _, n := range tree.Nodes {
		if g, ok := n.(*render.Graphic); ok {
			graphics = append(graphics, g)
		}
	}
	require.Len(t, graphics, 2)
	assert.Equal(t, "panel", graphics[0].Block)
	assert.Equal(t, "HP 12", graphics[0].Text)
	assert.Equal(t, "map", graphics[1].Block)
	assert.Equal(t, "...\n..T\n...", graphics[1].Text)
}

func TestPersistence_RoundTrip(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	store := inmemorystore.New()
	keyed := func(o *engine.Options) {
		o.Persistence = state.PolicyKeyed
		o.Persister = store
		o.DocumentID = "adventure"
	}
	first, ctx := load(t, adventure, keyed)
	_, err := first.SubmitForm(ctx, "shop", map[string]any{"gold": 9})
	require.NoError(t, err)

	// --- Act ---
	require.NoError(t, first.Close(ctx))
	second, _ := load(t, adventure, keyed)

	// --- Assert ---
	assert.True(t, get(t, second, "$gold").Equal(value.Int(9)), "persisted values win over defaults")
	assert.True(t, get(t, second, "$visits").Equal(value.Int(1)))
	assert.True(t, get(t, second, "$hp").Equal(value.Int(12)))
}

func TestClose(t *testing.T) {
	t.Parallel()
	inst, ctx := load(t, adventure)
	assert.Equal(t, engine.PhaseReady, inst.Phase())

	require.NoError(t, inst.Close(ctx))

	assert.Equal(t, engine.PhaseClosed, inst.Phase())
	assert.ErrorIs(t, inst.Close(ctx), engine.ErrClosed)
	_, err := inst.Render(ctx)
	assert.ErrorIs(t, err, engine.ErrClosed)
	_, err = inst.ActivateNav(ctx, "cave")
	assert.ErrorIs(t, err, engine.ErrClosed)
	_, err = inst.SubmitForm(ctx, "shop", nil)
	assert.ErrorIs(t, err, engine.ErrClosed)
	_, err = inst.ChangeField(ctx, "shop", "gold", 1)
	assert.ErrorIs(t, err, engine.ErrClosed)
	_, err = inst.Snapshot()
	assert.ErrorIs(t, err, engine.ErrClosed)
	assert.ErrorIs(t, inst.LoadSnapshot(value.NewObject()), engine.ErrClosed)
}

func TestAnchors(t *testing.T) {
	t.Parallel()
	inst, _ := load(t, adventure)

	var slugs []string
	for _, a := range inst.Anchors() {
		slugs = append(slugs, a.Slug)
	}
	assert.Equal(t, []string{"camp", "cave"}, slugs)
	assert.Empty(t, inst.Anchor())
}
