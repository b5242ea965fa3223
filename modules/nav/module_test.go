package nav

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mdrun/internal/render"
	"github.com/vk/mdrun/internal/testutil"
	"github.com/vk/mdrun/internal/value"
)

const choices = "```nav\n" +
	"- label: Enter the cave ($visits)\n" +
	"  target: \"#cave\"\n" +
	"  when: $has_torch\n" +
	"  set:\n" +
	"    - inc $visits\n" +
	"    - set $where 'cave'\n" +
	"- label: Go home\n" +
	"  target: home\n" +
	"- target: cave\n" +
	"```\n"

func parse(t *testing.T, src string) *Block {
	t.Helper()
	blk, diags := Parse(context.Background(), testutil.Block(t, "nav", src))
	testutil.RequireNoDiags(t, diags)
	return blk.(*Block)
}

func TestParse(t *testing.T) {
	t.Parallel()
	b := parse(t, choices)

	require.Len(t, b.Choices, 3)
	assert.Equal(t, "cave", b.Choices[0].Target)
	assert.Len(t, b.Choices[0].Set, 2)
	assert.Equal(t, "cave", b.Choices[2].Label, "the target doubles as label")

	var refs []string
	for _, p := range b.Refs() {
		refs = append(refs, p.String())
	}
	assert.ElementsMatch(t, []string{"$has_torch", "$visits"}, refs)
}

func TestParse_WrappedMapping(t *testing.T) {
	t.Parallel()
	b := parse(t, "```nav\nchoices:\n  - {label: Back, target: start}\n```\n")
	require.Len(t, b.Choices, 1)
	assert.Equal(t, "start", b.Choices[0].Target)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "empty", body: "", wantErr: "at least one choice"},
		{name: "scalar", body: "go somewhere", wantErr: "expected a list"},
		{name: "missing target", body: "- label: Nowhere", wantErr: "no target"},
		{name: "bad guard", body: "- {target: a, when: \"$x ==\"}", wantErr: "when"},
		{name: "bad command", body: "- {target: a, set: \"jump $x\"}", wantErr: "jump"},
	}

	for _, tc := range testCases {

		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, diags := Parse(context.Background(), testutil.Block(t, "nav", "```nav\n"+tc.body+"\n```\n"))
			testutil.RequireDiag(t, diags, tc.wantErr)
		})
	}
}

func TestRender_HidesGuardedChoices(t *testing.T) {
	t.Parallel()
	b := parse(t, choices)

	t.Run("without torch", func(t *testing.T) {
		t.Parallel()
		out, diags := Render(context.Background(), b, testutil.NewPass())
		testutil.RequireNoDiags(t, diags)
		require.Len(t, out, 1)
		assert.Equal(t, []render.Choice{{Label: "Go home", Target: "home"}, {Label: "cave", Target: "cave"}}, out[0].(*render.Nav).Choices)
	})

	t.Run("with torch", func(t *testing.T) {
		t.Parallel()
		p := testutil.NewPass().Seed(t, map[string]any{"$has_torch": true, "$visits": 2})
		out, _ := Render(context.Background(), b, p)
		require.Len(t, out, 1)
		assert.Equal(t, "Enter the cave (2)", out[0].(*render.Nav).Choices[0].Label)
	})
}

func TestRender_NothingVisible(t *testing.T) {
	t.Parallel()
	b := parse(t, "```nav\n- {target: a, when: $never}\n```\n")
	out, diags := Render(context.Background(), b, testutil.NewPass())
	testutil.RequireNoDiags(t, diags)
	assert.Empty(t, out)
}

func TestActivate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := parse(t, choices)

	t.Run("first visible choice runs", func(t *testing.T) {
		t.Parallel()
		p := testutil.NewPass().Seed(t, map[string]any{"$has_torch": true})

		found, err := b.Activate(ctx, p, "cave")

		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, p.Get(t, "$visits").Equal(value.Int(1)))
		assert.True(t, p.Get(t, "$where").Equal(value.String("cave")))
	})

	t.Run("hidden choice is skipped", func(t *testing.T) {
		t.Parallel()
		p := testutil.NewPass()

		found, err := b.Activate(ctx, p, "cave")

		require.NoError(t, err)
		assert.True(t, found, "the unguarded cave choice matches")
		assert.True(t, p.Get(t, "$visits").IsNull())
	})

	t.Run("no matching choice", func(t *testing.T) {
		t.Parallel()
		found, err := b.Activate(ctx, testutil.NewPass(), "attic")
		require.NoError(t, err)
		assert.False(t, found)
	})
}
