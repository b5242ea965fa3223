package document

import (
	"strings"
	"unicode"

	"github.com/vk/mdrun/internal/value"
)

// Attr is a key=value pair from a fence info string.
type Attr struct {
	Key   string
	Value string
}

// Info is a parsed fence info string:
//
//	label [args...] [key=value...] [when <expr>]
//
// The word `when` starts a visibility guard that runs to the end of the
// line. Values may be quoted with ' or ".
type Info struct {
	Label string
	// Rest is everything after the label, trimmed. `if` blocks read their
	// condition from here.
	Rest  string
	Args  []string
	Attrs []Attr
	When  string
}

// Attr returns the value of the last attribute named key.
func (i Info) Attr(key string) (string, bool) {
	for j := len(i.Attrs) - 1; j >= 0; j-- {
		if i.Attrs[j].Key == key {
			return i.Attrs[j].Value, true
		}
	}
	return "", false
}

// HasFlag reports whether word appears as a bare argument.
func (i Info) HasFlag(word string) bool {
	for _, a := range i.Args {
		if a == word {
			return true
		}
	}
	return false
}

// ParseInfo splits a fence info string. It never fails: text it cannot
// tokenise (an unterminated quote, say) is kept as a bare argument.
func ParseInfo(s string) Info {
	s = strings.TrimSpace(s)
	label, rest := cutSpace(s)
	info := Info{Label: label, Rest: rest}

	for rest != "" {
		if word, after := cutSpace(rest); word == "when" {
			info.When = after
			break
		}
		var tok string
		tok, rest = nextInfoToken(rest)
		if k, v, ok := strings.Cut(tok, "="); ok && isAttrKey(k) {
			info.Attrs = append(info.Attrs, Attr{Key: k, Value: unquote(v)})
			continue
		}
		info.Args = append(info.Args, unquote(tok))
	}
	return info
}

// nextInfoToken reads one whitespace-separated token, keeping quoted
// sections together so that `title="Two words"` is a single token.
func nextInfoToken(s string) (tok, rest string) {
	i := 0
	for i < len(s) && !isSpaceByte(s[i]) {
		if s[i] == '\'' || s[i] == '"' {
			if _, n, err := value.ScanQuoted(s[i:]); err == nil {
				i += n
				continue
			}
		}
		i++
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func unquote(s string) string {
	if s == "" || (s[0] != '\'' && s[0] != '"') {
		return s
	}
	if v, n, err := value.ScanQuoted(s); err == nil && n == len(s) {
		return v
	}
	return s
}

func isAttrKey(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}

func cutSpace(s string) (head, tail string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t'
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
