package document

import (
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
)

// NodeKind identifies the type of a document node.
type NodeKind int

const (
	// NodeText is a run of plain Markdown lines, interpolated at render time.
	NodeText NodeKind = iota
	// NodeHeading is an ATX heading; it also registers an anchor.
	NodeHeading
	// NodeVerbatim is a fence with an unregistered label, shown as-is.
	NodeVerbatim
	// NodeBlock is a fenced runtime block.
	NodeBlock
)

func (k NodeKind) String() string {
	switch k {
	case NodeText:
		return "text"
	case NodeHeading:
		return "heading"
	case NodeVerbatim:
		return "verbatim"
	case NodeBlock:
		return "block"
	}
	return "unknown"
}

// Node is one element of a scanned document.
type Node struct {
	Kind  NodeKind
	Range hcl.Range

	// Text holds the Markdown of a text node, the title of a heading, or the
	// raw fence (including its delimiters) of a verbatim node.
	Text string

	// Level and Anchor are set for headings.
	Level  int
	Anchor string

	// Block is set for NodeBlock.
	Block *Block
}

// Blank reports whether n is a text node made only of whitespace.
func (n Node) Blank() bool {
	return n.Kind == NodeText && isBlank(n.Text)
}

// Block is a fenced region whose label names a runtime block kind.
type Block struct {
	Kind      string
	Info      Info
	Body      string
	Range     hcl.Range
	BodyRange hcl.Range
}

// Anchor is a navigation target registered by a heading.
type Anchor struct {
	Slug  string
	Title string
	Level int
	Range hcl.Range
}

// Document is the scanned form of a source text.
type Document struct {
	Filename string
	Source   string
	Nodes    []Node
	Anchors  []Anchor
}

// Anchor returns the anchor registered under slug.
func (d *Document) Anchor(slug string) (Anchor, bool) {
	for _, a := range d.Anchors {
		if a.Slug == slug {
			return a, true
		}
	}
	return Anchor{}, false
}

// Blocks returns the runtime blocks in document order.
func (d *Document) Blocks() []*Block {
	var out []*Block
	for _, n := range d.Nodes {
		if n.Kind == NodeBlock {
			out = append(out, n.Block)
		}
	}
	return out
}

// LineRange returns the range of line n (1-based) of the block body. Lines
// past the end of the body map to the whole block.
func (b *Block) LineRange(n int) hcl.Range {
	lines := strings.Split(b.Body, "\n")
	if b.Body == "" || n < 1 || n > len(lines) {
		return b.Range
	}
	start := b.BodyRange.Start.Byte
	for _, l := range lines[:n-1] {
		start += len(l) + 1
	}
	text := lines[n-1]
	line := b.BodyRange.Start.Line + n - 1
	return hcl.Range{
		Filename: b.Range.Filename,
		Start:    hcl.Pos{Line: line, Column: 1, Byte: start},
		End:      hcl.Pos{Line: line, Column: utf8.RuneCountInString(text) + 1, Byte: start + len(text)},
	}
}
