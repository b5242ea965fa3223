package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vk/mdrun/internal/document"
	"github.com/vk/mdrun/internal/render"
)

// view prints render trees for a terminal. The renderer detects the
// capabilities of the output writer, so a pipe or buffer gets plain text.
type view struct {
	outW io.Writer

	heading lipgloss.Style
	current lipgloss.Style
	muted   lipgloss.Style
	choice  lipgloss.Style
	graphic lipgloss.Style
	warning lipgloss.Style
	form    lipgloss.Style
}

func newView(outW io.Writer) *view {
	r := lipgloss.NewRenderer(outW)
	return &view{
		outW:    outW,
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		current: r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		muted:   r.NewStyle().Faint(true),
		choice:  r.NewStyle().Foreground(lipgloss.Color("86")),
		graphic: r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("243")),
		warning: r.NewStyle().Foreground(lipgloss.Color("214")),
		form:    r.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	}
}

// Tree writes every node of t followed by a blank separator line.
func (v *view) Tree(t *render.Tree) {
	for _, n := range t.Nodes {
		fmt.Fprintln(v.outW, v.node(n))
	}
	fmt.Fprintln(v.outW)
}

func (v *view) node(n render.Node) string {
	switch n := n.(type) {
	case *render.Heading:
		text := strings.Repeat("#", n.Level) + " " + n.Text
		if n.Current {
			return v.current.Render("> " + text)
		}
		return v.heading.Render(text)
	case *render.Nav:
		lines := make([]string, len(n.Choices))
		for i, c := range n.Choices {
			lines[i] = fmt.Sprintf("  %d) %s %s", i+1, v.choice.Render(c.Label), v.muted.Render("#"+c.Target))
		}
		return strings.Join(lines, "\n")
	case *render.Form:
		return v.form.Render(formText(n))
	case *render.Graphic:
		return v.graphic.Render(n.Text)
	case *render.Warning:
		return v.warning.Render("warning: " + n.String())
	default:
		return render.PlainNode(n)
	}
}

func formText(f *render.Form) string {
	var sb strings.Builder
	title := f.Title
	if title == "" {
		title = f.ID
	}
	fmt.Fprintf(&sb, "%s [%s]\n", title, f.ID)
	for _, fld := range f.Fields {
		label := fld.Label
		if label == "" {
			label = fld.Name
		}
		marker := ""
		if fld.Required {
			marker = "*"
		}
		line := fmt.Sprintf("%s%s (%s): %s", label, marker, fld.Name, fld.Value.Text())
		if len(fld.Options) > 0 {
			line += " {" + strings.Join(fld.Options, "|") + "}"
		}
		sb.WriteString(line + "\n")
	}
	submit := f.Submit
	if submit == "" {
		submit = "Submit"
	}
	sb.WriteString("(" + submit + ")")
	return sb.String()
}

// Anchors lists the navigation targets of a document.
func (v *view) Anchors(anchors []document.Anchor, current string) {
	for _, a := range anchors {
		line := fmt.Sprintf("%s#%s  %s", strings.Repeat("  ", max(a.Level-1, 0)), a.Slug, a.Title)
		if a.Slug == current {
			line = v.current.Render(line + "  <")
		}
		fmt.Fprintln(v.outW, line)
	}
}
