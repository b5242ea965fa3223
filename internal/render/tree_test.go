package render

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mdrun/internal/value"
)

func TestNewWarnings(t *testing.T) {
	t.Parallel()
	fallback := hcl.Range{Filename: "doc.md", Start: hcl.Pos{Line: 3, Column: 1}, End: hcl.Pos{Line: 5, Column: 4}}
	subject := hcl.Range{Filename: "doc.md", Start: hcl.Pos{Line: 4, Column: 1}, End: hcl.Pos{Line: 4, Column: 9}}
	diags := hcl.Diagnostics{
		{Severity: hcl.DiagWarning, Summary: "Invalid command", Detail: `unknown command "explode"`, Subject: &subject},
		{Severity: hcl.DiagWarning, Summary: "Empty block"},
	}

	nodes := NewWarnings("set", diags, fallback)

	require.Len(t, nodes, 2)
	w := nodes[0].(*Warning)
	assert.Equal(t, "set", w.Kind)
	assert.Equal(t, `Invalid command: unknown command "explode"`, w.Reason)
	assert.Equal(t, 4, w.Range().Start.Line)
	assert.Equal(t, fallback, nodes[1].Range())
}

func TestPlain(t *testing.T) {
	t.Parallel()
	tree := &Tree{Nodes: []Node{
		&Heading{Level: 2, Text: "Shop"},
		&Markdown{Text: "You have 3 coins."},
		&Form{Title: "Buy", Fields: []Field{{Name: "qty", Label: "Quantity", Value: value.Int(2)}}},
		&Nav{Choices: []Choice{{Label: "Leave", Target: "street"}}},
		&Warning{Kind: "set", Reason: "bad", Source: hcl.Range{Filename: "d.md", Start: hcl.Pos{Line: 1, Column: 1}, End: hcl.Pos{Line: 1, Column: 2}}},
	}}

	want := "## Shop\n" +
		"You have 3 coins.\n" +
		"[Buy]\n  Quantity: 2\n  (Submit)\n" +
		"1. Leave -> #street\n" +
		"warning: set block at d.md:1,1-2: bad"
	assert.Equal(t, want, tree.Plain())
	assert.Len(t, tree.Warnings(), 1)
}
