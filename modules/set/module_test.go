package set

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mdrun/internal/testutil"
	"github.com/vk/mdrun/internal/value"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("commands in order", func(t *testing.T) {
		t.Parallel()
		blk, diags := Parse(context.Background(), testutil.Block(t, "set", "```set\nset $a 1\n# note\ninc $b 2\ntoggle $c\n```\n"))
		testutil.RequireNoDiags(t, diags)
		cmds := blk.(*Block).Commands
		require.Len(t, cmds, 3)
		assert.Equal(t, 3, cmds[1].Line)
	})

	t.Run("unknown verb points at its line", func(t *testing.T) {
		t.Parallel()
		_, diags := Parse(context.Background(), testutil.Block(t, "set", "# T\n```set\ninc $a\nexplode $b\n```\n"))
		testutil.RequireDiag(t, diags, "explode")
		assert.Equal(t, 4, diags[0].Subject.Start.Line)
	})
}

func TestRender_RunsOnce(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	ctx := context.Background()
	blk, diags := Parse(ctx, testutil.Block(t, "set", "```set\ninc $visits\nset $seen true\n```\n"))
	testutil.RequireNoDiags(t, diags)
	p := testutil.NewPass()

	// --- Act ---
	for i := 0; i < 3; i++ {
		out, diags := Render(ctx, blk, p)
		assert.Empty(t, out)
		testutil.RequireNoDiags(t, diags)
	}

	// --- Assert ---
	assert.Equal(t, 1, p.Execs)
	assert.True(t, p.Get(t, "$visits").Equal(value.Int(1)))
	assert.True(t, p.Get(t, "$seen").Equal(value.Bool(true)))
}

func TestRender_AbortIsSticky(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	ctx := context.Background()
	blk, diags := Parse(ctx, testutil.Block(t, "set", "```set\nset $n 1\ninc $name\nset $after 1\n```\n"))
	testutil.RequireNoDiags(t, diags)
	p := testutil.NewPass().Seed(t, map[string]any{"$name": "Ada"})

	// --- Act ---
	_, first := Render(ctx, blk, p)
	_, second := Render(ctx, blk, p)

	// --- Assert ---
	testutil.RequireDiag(t, first, "skipped")
	assert.Equal(t, first, second)
	assert.Equal(t, 3, first[0].Subject.Start.Line)
	assert.True(t, p.Get(t, "$n").Equal(value.Int(1)))
	assert.True(t, p.Get(t, "$after").IsNull())
}

func TestRefs(t *testing.T) {
	t.Parallel()
	blk, diags := Parse(context.Background(), testutil.Block(t, "set", "```set\nset $a $b.c\ninc $d\n```\n"))
	testutil.RequireNoDiags(t, diags)

	var got []string
	for _, p := range blk.Refs() {
		got = append(got, p.String())
	}
	assert.Contains(t, got, "$b.c")
}
