package render

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/mdrun/internal/grid"
	"github.com/vk/mdrun/internal/value"
)

// Tree is the visible output of one render pass.
type Tree struct {
	// Anchor is the current navigation focus, empty before any activation.
	Anchor string
	Nodes  []Node
}

// Warnings returns the warning nodes of the tree in order.
func (t *Tree) Warnings() []*Warning {
	var out []*Warning
	for _, n := range t.Nodes {
		if w, ok := n.(*Warning); ok {
			out = append(out, w)
		}
	}
	return out
}

// Node is one element of a render tree.
type Node interface {
	Range() hcl.Range
	isNode()
}

// Markdown is interpolated plain content.
type Markdown struct {
	Text   string
	Source hcl.Range
}

// Heading is a section title and navigation anchor.
type Heading struct {
	Level  int
	Text   string
	Anchor string
	// Current is set on the heading that holds the navigation focus.
	Current bool
	Source  hcl.Range
}

// Verbatim is an unrecognised fence shown exactly as written.
type Verbatim struct {
	Text   string
	Source hcl.Range
}

// Form is an input form bound to state variables.
type Form struct {
	ID     string
	Title  string
	Submit string
	Fields []Field
	Source hcl.Range
}

// Field is one form input with its current value.
type Field struct {
	Name     string
	Label    string
	Type     string
	Var      string
	Value    value.Value
	Options  []string
	Required bool
	Min      *float64
	Max      *float64
}

// Nav is a list of navigation choices.
type Nav struct {
	Choices []Choice
	Source  hcl.Range
}

// Choice is one navigation option.
type Choice struct {
	Label  string
	Target string
}

// Graphic is the output of a panel or map block.
type Graphic struct {
	// Block is the kind that produced the graphic, "panel" or "map".
	Block string
	Tier  grid.Tier
	Grid  *grid.Grid
	// Text is the grid encoded in Tier.
	Text   string
	Source hcl.Range
}

// Teletext returns the raw mosaic frame of the graphic.
func (g *Graphic) Teletext() grid.TeletextFrame {
	return grid.Teletext(g.Grid)
}

// Warning marks a block that could not be parsed or executed.
type Warning struct {
	Kind   string
	Reason string
	Source hcl.Range
}

// NewWarnings converts diagnostics about a block of the given kind into
// warning nodes. Diagnostics without a subject are placed at fallback.
func NewWarnings(kind string, diags hcl.Diagnostics, fallback hcl.Range) []Node {
	var out []Node
	for _, d := range diags {
		r := fallback
		if d.Subject != nil {
			r = *d.Subject
		}
		reason := d.Summary
		if d.Detail != "" {
			reason += ": " + d.Detail
		}
		out = append(out, &Warning{Kind: kind, Reason: reason, Source: r})
	}
	return out
}

func (w *Warning) String() string {
	return fmt.Sprintf("%s block at %s: %s", w.Kind, w.Source, w.Reason)
}

func (n *Markdown) Range() hcl.Range { return n.Source }
func (n *Heading) Range() hcl.Range  { return n.Source }
func (n *Verbatim) Range() hcl.Range { return n.Source }
func (n *Form) Range() hcl.Range     { return n.Source }
func (n *Nav) Range() hcl.Range      { return n.Source }
func (n *Graphic) Range() hcl.Range  { return n.Source }
func (n *Warning) Range() hcl.Range  { return n.Source }

func (*Markdown) isNode() {}
func (*Heading) isNode()  {}
func (*Verbatim) isNode() {}
func (*Form) isNode()     {}
func (*Nav) isNode()      {}
func (*Graphic) isNode()  {}
func (*Warning) isNode()  {}

// Plain renders the tree as plain text, one node after another.
func (t *Tree) Plain() string {
	var parts []string
	for _, n := range t.Nodes {
		parts = append(parts, PlainNode(n))
	}
	return strings.Join(parts, "\n")
}

// PlainNode renders a single node as plain text.
func PlainNode(n Node) string {
	switch n := n.(type) {
	case *Markdown:
		return n.Text
	case *Heading:
		return strings.Repeat("#", n.Level) + " " + n.Text
	case *Verbatim:
		return n.Text
	case *Form:
		var sb strings.Builder
		if n.Title != "" {
			sb.WriteString("[" + n.Title + "]\n")
		}
		for _, f := range n.Fields {
			label := f.Label
			if label == "" {
				label = f.Name
			}
			fmt.Fprintf(&sb, "  %s: %s\n", label, f.Value.Text())
		}
		submit := n.Submit
		if submit == "" {
			submit = "Submit"
		}
		sb.WriteString("  (" + submit + ")")
		return sb.String()
	case *Nav:
		lines := make([]string, len(n.Choices))
		for i, c := range n.Choices {
			lines[i] = fmt.Sprintf("%d. %s -> #%s", i+1, c.Label, c.Target)
		}
		return strings.Join(lines, "\n")
	case *Graphic:
		return n.Text
	case *Warning:
		return "warning: " + n.String()
	}
	return ""
}
