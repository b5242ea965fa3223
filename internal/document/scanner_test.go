package document

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runtimeKinds(label string) bool {
	switch label {
	case "state", "set", "form", "if", "else", "nav", "panel", "map":
		return true
	}
	return false
}

func scan(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Scan(context.Background(), src, Options{Filename: "test.md", IsBlock: runtimeKinds})
	require.NoError(t, err)
	return doc
}

func kinds(doc *Document) []string {
	var out []string
	for _, n := range doc.Nodes {
		s := n.Kind.String()
		if n.Kind == NodeBlock {
			s += ":" + n.Block.Kind
		}
		out = append(out, s)
	}
	return out
}

func TestScan_Structure(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	src := "# Intro\n" +
		"Welcome, $name.\n" +
		"\n" +
		"```state\n" +
		"hp = 10\n" +
		"```\n" +
		"```go\n" +
		"fmt.Println($x)\n" +
		"```\n" +
		"## Next step ##\n" +
		"~~~~if $hp > 0\n" +
		"alive\n" +
		"~~~~\n" +
		"\n" +
		"```else\n" +
		"dead\n" +
		"```\n"

	// --- Act ---
	doc := scan(t, src)

	// --- Assert ---
	want := []string{"heading", "text", "block:state", "verbatim", "heading", "block:if", "text", "block:else"}
	if diff := cmp.Diff(want, kinds(doc)); diff != "" {
		t.Fatalf("node kinds mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "Welcome, $name.\n", doc.Nodes[1].Text)
	assert.Equal(t, "hp = 10", doc.Nodes[2].Block.Body)
	assert.Equal(t, "```go\nfmt.Println($x)\n```", doc.Nodes[3].Text)
	assert.Equal(t, "Next step", doc.Nodes[4].Text)
	assert.Equal(t, 2, doc.Nodes[4].Level)

	ifBlock := doc.Nodes[5].Block
	assert.Equal(t, "$hp > 0", ifBlock.Info.Rest)
	assert.Equal(t, "alive", ifBlock.Body)
	assert.Equal(t, 11, ifBlock.Range.Start.Line)
	assert.Equal(t, 13, ifBlock.Range.End.Line)
	assert.Equal(t, 12, ifBlock.BodyRange.Start.Line)
	assert.Equal(t, "test.md", ifBlock.Range.Filename)

	var slugs []string
	for _, a := range doc.Anchors {
		slugs = append(slugs, a.Slug)
	}
	assert.Equal(t, []string{"intro", "next-step"}, slugs)
}

func TestScan_HeadingsInsideFencesAreIgnored(t *testing.T) {
	t.Parallel()
	doc := scan(t, "```text\n# not a heading\n```\n#hashtag\n")
	assert.Empty(t, doc.Anchors)
	assert.Equal(t, []string{"verbatim", "text"}, kinds(doc))
}

func TestScan_EmptyBody(t *testing.T) {
	t.Parallel()
	doc := scan(t, "```set\n```")
	b := doc.Blocks()
	require.Len(t, b, 1)
	assert.Equal(t, "", b[0].Body)
}

func TestScan_LoadErrors(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		src     string
		wantErr error
		line    int
	}{
		{"unterminated block", "text\n```set\nset $a 1\n", ErrUnterminatedFence, 2},
		{"unterminated verbatim", "```python\nprint()", ErrUnterminatedFence, 1},
		{"shorter closer does not close", "````if $a\nx\n```\n", ErrUnterminatedFence, 1},
		{"else first", "```else\nx\n```", ErrOrphanElse, 1},
		{"text between if and else", "```if $a\nx\n```\nhello\n```else\ny\n```", ErrOrphanElse, 5},
		{"heading between if and else", "```if $a\nx\n```\n# H\n```else\ny\n```", ErrOrphanElse, 5},
		{"else after else", "```if $a\nx\n```\n```else\ny\n```\n```else\nz\n```", ErrOrphanElse, 7},
	}

	for _, tc := range testCases {

		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Scan(context.Background(), tc.src, Options{IsBlock: runtimeKinds})

			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tc.line, le.Range.Start.Line)
		})
	}
}

func TestScan_ElseAfterBlankLines(t *testing.T) {
	t.Parallel()
	doc := scan(t, "```if $a\nx\n```\n\n  \n```else\ny\n```")
	assert.Equal(t, []string{"block:if", "text", "block:else"}, kinds(doc))
}

func TestScan_UnregisteredElseIsVerbatim(t *testing.T) {
	t.Parallel()
	doc, err := Scan(context.Background(), "```else\nx\n```", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"verbatim"}, kinds(doc))
}

func TestParseInfo(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		in   string
		want Info
	}{
		{"set", Info{Label: "set"}},
		{
			"panel tier=block width=8 height=3",
			Info{Label: "panel", Rest: "tier=block width=8 height=3", Attrs: []Attr{{"tier", "block"}, {"width", "8"}, {"height", "3"}}},
		},
		{
			`form title="Two words" overwrite when $step == 'ask me'`,
			Info{
				Label: "form",
				Rest:  `title="Two words" overwrite when $step == 'ask me'`,
				Args:  []string{"overwrite"},
				Attrs: []Attr{{"title", "Two words"}},
				When:  "$step == 'ask me'",
			},
		},
		{"if $a == 1", Info{Label: "if", Rest: "$a == 1", Args: []string{"$a", "==", "1"}}},
		{"nav 'open", Info{Label: "nav", Rest: "'open", Args: []string{"'open"}}},
	}

	for _, tc := range testCases {

		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tc.want, ParseInfo(tc.in)); diff != "" {
				t.Errorf("ParseInfo(%q) mismatch (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func TestSlugs(t *testing.T) {
	t.Parallel()
	doc := scan(t, "# Café Déjà Vu!\n# Intro\n# Intro\n## intro\n# ???\n")

	var got []string
	for _, a := range doc.Anchors {
		got = append(got, a.Slug)
	}
	assert.Equal(t, []string{"cafe-deja-vu", "intro", "intro-1", "intro-2", "section"}, got)
}

func TestAnchorLookup(t *testing.T) {
	t.Parallel()
	doc := scan(t, "# The Cave\n")
	a, ok := doc.Anchor("the-cave")
	require.True(t, ok)
	assert.Equal(t, "The Cave", a.Title)
	_, ok = doc.Anchor("nowhere")
	assert.False(t, ok)
}

func TestBlockLineRange(t *testing.T) {
	t.Parallel()
	doc := scan(t, "intro\n```set\nset $a 1\nexplode\n```\n")
	b := doc.Blocks()[0]

	r := b.LineRange(2)
	assert.Equal(t, 4, r.Start.Line)
	assert.Equal(t, 8, r.End.Column)
	assert.Equal(t, "explode", doc.Source[r.Start.Byte:r.End.Byte])
	assert.Equal(t, b.Range, b.LineRange(9))
}
