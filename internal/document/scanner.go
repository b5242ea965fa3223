package document

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/mdrun/internal/ctxlog"
)

// Block labels the scanner itself needs to know about.
const (
	LabelIf   = "if"
	LabelElse = "else"
)

// Options configures Scan.
type Options struct {
	// Filename is recorded in every source range.
	Filename string
	// IsBlock reports whether a fence label names a runtime block kind.
	// Fences with other labels become verbatim nodes. A nil IsBlock
	// treats every fence as verbatim.
	IsBlock func(label string) bool
}

// line is one source line without its terminator.
type line struct {
	text  string
	num   int // 1-based
	start int // byte offset of the first character
	end   int // byte offset just past the last character
}

func (l line) rangeTo(last line, filename string) hcl.Range {
	return hcl.Range{
		Filename: filename,
		Start:    hcl.Pos{Line: l.num, Column: 1, Byte: l.start},
		End:      hcl.Pos{Line: last.num, Column: utf8.RuneCountInString(last.text) + 1, Byte: last.end},
	}
}

// fence describes an opening fence line.
type fence struct {
	char   byte
	size   int
	indent int
	info   string
}

// Scan splits src into headings, text, verbatim fences and runtime blocks.
// The only failures are structural and are returned as *LoadError.
func Scan(ctx context.Context, src string, opts Options) (*Document, error) {
	logger := ctxlog.FromContext(ctx)
	isBlock := opts.IsBlock
	if isBlock == nil {
		isBlock = func(string) bool { return false }
	}

	doc := &Document{Filename: opts.Filename, Source: src}
	lines := splitLines(src)
	slugs := newSlugger()

	var pending []line
	flush := func() {
		if len(pending) == 0 {
			return
		}
		texts := make([]string, len(pending))
		for i, l := range pending {
			texts[i] = l.text
		}
		doc.Nodes = append(doc.Nodes, Node{
			Kind:  NodeText,
			Text:  strings.Join(texts, "\n"),
			Range: pending[0].rangeTo(pending[len(pending)-1], opts.Filename),
		})
		pending = nil
	}

	for i := 0; i < len(lines); i++ {
		l := lines[i]

		if f, ok := openFence(l.text); ok {
			flush()
			j := i + 1
			for j < len(lines) && !closesFence(f, lines[j].text) {
				j++
			}
			if j == len(lines) {
				return nil, &LoadError{
					Range:  l.rangeTo(l, opts.Filename),
					Reason: fmt.Sprintf("fence opened with %q is never closed", strings.Repeat(string(f.char), f.size)),
					Err:    ErrUnterminatedFence,
				}
			}

			whole := l.rangeTo(lines[j], opts.Filename)
			info := ParseInfo(f.info)
			if info.Label == "" || !isBlock(info.Label) {
				raw := make([]string, 0, j-i+1)
				for _, bl := range lines[i : j+1] {
					raw = append(raw, bl.text)
				}
				doc.Nodes = append(doc.Nodes, Node{Kind: NodeVerbatim, Text: strings.Join(raw, "\n"), Range: whole})
				i = j
				continue
			}

			if info.Label == LabelElse && !followsIf(doc.Nodes) {
				return nil, &LoadError{
					Range:  whole,
					Reason: "an else block must directly follow an if block, with only blank lines between them",
					Err:    ErrOrphanElse,
				}
			}

			b := &Block{Kind: info.Label, Info: info, Range: whole}
			if j > i+1 {
				body := make([]string, 0, j-i-1)
				for _, bl := range lines[i+1 : j] {
					body = append(body, stripIndent(bl.text, f.indent))
				}
				b.Body = strings.Join(body, "\n")
				b.BodyRange = lines[i+1].rangeTo(lines[j-1], opts.Filename)
			} else {
				b.BodyRange = hcl.Range{Filename: opts.Filename, Start: whole.End, End: whole.End}
			}
			doc.Nodes = append(doc.Nodes, Node{Kind: NodeBlock, Block: b, Range: whole})
			logger.Debug("Scanned block.", "kind", b.Kind, "range", whole.String())
			i = j
			continue
		}

		if level, title, ok := atxHeading(l.text); ok {
			flush()
			slug := slugs.next(title)
			r := l.rangeTo(l, opts.Filename)
			doc.Nodes = append(doc.Nodes, Node{Kind: NodeHeading, Text: title, Level: level, Anchor: slug, Range: r})
			doc.Anchors = append(doc.Anchors, Anchor{Slug: slug, Title: title, Level: level, Range: r})
			continue
		}

		pending = append(pending, l)
	}
	flush()

	logger.Debug("Scan complete.", "nodes", len(doc.Nodes), "anchors", len(doc.Anchors))
	return doc, nil
}

// followsIf reports whether the last non-blank node is an if block.
func followsIf(nodes []Node) bool {
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if n.Blank() {
			continue
		}
		return n.Kind == NodeBlock && n.Block.Kind == LabelIf
	}
	return false
}

func splitLines(src string) []line {
	if src == "" {
		return nil
	}
	var out []line
	start := 0
	num := 1
	for start <= len(src) {
		nl := strings.IndexByte(src[start:], '\n')
		end := len(src)
		if nl >= 0 {
			end = start + nl
		}
		text := strings.TrimSuffix(src[start:end], "\r")
		out = append(out, line{text: text, num: num, start: start, end: start + len(text)})
		if nl < 0 {
			break
		}
		start = end + 1
		num++
		if start == len(src) {
			break
		}
	}
	return out
}

// openFence recognises ``` or ~~~ (three or more) indented by at most
// three spaces. Backtick fences may not carry backticks in their info.
func openFence(s string) (fence, bool) {
	indent := leadingSpaces(s)
	if indent > 3 {
		return fence{}, false
	}
	rest := s[indent:]
	if rest == "" || (rest[0] != '`' && rest[0] != '~') {
		return fence{}, false
	}
	c := rest[0]
	n := 0
	for n < len(rest) && rest[n] == c {
		n++
	}
	if n < 3 {
		return fence{}, false
	}
	info := strings.TrimSpace(rest[n:])
	if c == '`' && strings.ContainsRune(info, '`') {
		return fence{}, false
	}
	return fence{char: c, size: n, indent: indent, info: info}, true
}

func closesFence(f fence, s string) bool {
	indent := leadingSpaces(s)
	if indent > 3 {
		return false
	}
	rest := s[indent:]
	n := 0
	for n < len(rest) && rest[n] == f.char {
		n++
	}
	return n >= f.size && isBlank(rest[n:])
}

// atxHeading recognises `#`..`######` headings and strips an optional
// closing sequence of '#'.
func atxHeading(s string) (int, string, bool) {
	indent := leadingSpaces(s)
	if indent > 3 {
		return 0, "", false
	}
	rest := s[indent:]
	level := 0
	for level < len(rest) && rest[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, "", false
	}
	rest = rest[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", false
	}
	title := strings.TrimSpace(rest)
	if trimmed := strings.TrimRight(title, "#"); trimmed != title {
		if trimmed == "" || strings.HasSuffix(trimmed, " ") || strings.HasSuffix(trimmed, "\t") {
			title = strings.TrimSpace(trimmed)
		}
	}
	return level, title, true
}

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

func stripIndent(s string, n int) string {
	for i := 0; i < n && strings.HasPrefix(s, " "); i++ {
		s = s[1:]
	}
	return s
}
