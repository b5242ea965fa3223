package value

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidPath is returned for text that is not a well-formed variable path.
var ErrInvalidPath = errors.New("invalid variable path")

// Segment is a single step of a Path: either an object key or an array index.
type Segment struct {
	Key   string
	Index int // -1 for key segments.
}

// KeySegment returns a segment addressing an object key.
func KeySegment(key string) Segment {
	return Segment{Key: key, Index: -1}
}

// IndexSegment returns a segment addressing an array position.
func IndexSegment(i int) Segment {
	return Segment{Index: i}
}

// IsIndex reports whether the segment addresses an array position.
func (s Segment) IsIndex() bool {
	return s.Index >= 0
}

// Path is a variable reference rooted at a `$name` token.
type Path struct {
	Root     string
	Segments []Segment
}

// Var returns a path that names a top-level variable.
func Var(name string, segs ...Segment) Path {
	return Path{Root: name, Segments: segs}
}

// IsZero reports whether p is the empty path.
func (p Path) IsZero() bool {
	return p.Root == ""
}

// Child returns p extended by seg. p is not modified.
func (p Path) Child(seg Segment) Path {
	segs := make([]Segment, len(p.Segments), len(p.Segments)+1)
	copy(segs, p.Segments)
	return Path{Root: p.Root, Segments: append(segs, seg)}
}

// Overlaps reports whether one path is a prefix of the other, meaning a write
// to either may change what the other reads.
func (p Path) Overlaps(o Path) bool {
	if p.Root != o.Root {
		return false
	}
	n := len(p.Segments)
	if len(o.Segments) < n {
		n = len(o.Segments)
	}
	for i := 0; i < n; i++ {
		if p.Segments[i] != o.Segments[i] {
			return false
		}
	}
	return true
}

// Equal reports whether both paths address the same location.
func (p Path) Equal(o Path) bool {
	return p.Root == o.Root && len(p.Segments) == len(o.Segments) && p.Overlaps(o)
}

// String renders the canonical form, e.g. `$party[0].name` or `$a['two words']`.
func (p Path) String() string {
	if p.IsZero() {
		return ""
	}
	var sb strings.Builder
	sb.WriteByte('$')
	sb.WriteString(p.Root)
	for _, seg := range p.Segments {
		switch {
		case seg.IsIndex():
			sb.WriteString("[" + strconv.Itoa(seg.Index) + "]")
		case isIdent(seg.Key):
			sb.WriteString("." + seg.Key)
		default:
			sb.WriteString("['" + strings.ReplaceAll(strings.ReplaceAll(seg.Key, `\`, `\\`), `'`, `\'`) + "']")
		}
	}
	return sb.String()
}

// ParsePath parses a complete path. Surrounding whitespace is ignored; any
// other trailing text is an error.
func ParsePath(raw string) (Path, error) {
	s := strings.TrimSpace(raw)
	p, n, err := ScanPath(s)
	if err != nil {
		return Path{}, err
	}
	if n != len(s) {
		return Path{}, fmt.Errorf("%w: unexpected %q after %s", ErrInvalidPath, s[n:], p)
	}
	return p, nil
}

// ScanPath reads the longest path at the start of s and returns it with the
// number of bytes consumed. A dot that is not followed by an identifier ends
// the path without being consumed, so `$hp.` in prose scans as `$hp`.
func ScanPath(s string) (Path, int, error) {
	if !strings.HasPrefix(s, "$") {
		return Path{}, 0, fmt.Errorf("%w: missing '$'", ErrInvalidPath)
	}
	root, n := scanIdent(s[1:])
	if n == 0 {
		return Path{}, 0, fmt.Errorf("%w: '$' must be followed by a name", ErrInvalidPath)
	}
	p := Path{Root: root}
	i := 1 + n
	for i < len(s) {
		switch s[i] {
		case '.':
			key, kn := scanIdent(s[i+1:])
			if kn == 0 {
				return p, i, nil
			}
			p.Segments = append(p.Segments, KeySegment(key))
			i += 1 + kn
		case '[':
			seg, sn, err := scanBracket(s[i:])
			if err != nil {
				return Path{}, 0, err
			}
			p.Segments = append(p.Segments, seg)
			i += sn
		default:
			return p, i, nil
		}
	}
	return p, i, nil
}

// scanBracket reads `[n]`, `['key']` or `["key"]`.
func scanBracket(s string) (Segment, int, error) {
	if len(s) < 2 {
		return Segment{}, 0, fmt.Errorf("%w: unterminated '['", ErrInvalidPath)
	}
	if q := s[1]; q == '\'' || q == '"' {
		key, n, err := ScanQuoted(s[1:])
		if err != nil {
			return Segment{}, 0, fmt.Errorf("%w: %v", ErrInvalidPath, err)
		}
		end := 1 + n
		if end >= len(s) || s[end] != ']' {
			return Segment{}, 0, fmt.Errorf("%w: expected ']' after quoted key", ErrInvalidPath)
		}
		return KeySegment(key), end + 1, nil
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return Segment{}, 0, fmt.Errorf("%w: unterminated '['", ErrInvalidPath)
	}
	idx, err := strconv.Atoi(s[1:end])
	if err != nil || idx < 0 || strings.ContainsAny(s[1:end], "+- ") {
		return Segment{}, 0, fmt.Errorf("%w: invalid index %q", ErrInvalidPath, s[1:end])
	}
	return IndexSegment(idx), end + 1, nil
}

// ScanQuoted reads a single- or double-quoted string with backslash escapes
// at the start of s. It returns the unescaped text and the bytes consumed.
func ScanQuoted(s string) (string, int, error) {
	if s == "" || (s[0] != '\'' && s[0] != '"') {
		return "", 0, errors.New("expected quote")
	}
	quote := s[0]
	var sb strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			if i+1 >= len(s) {
				return "", 0, errors.New("unterminated escape")
			}
			i++
			switch s[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(s[i])
			}
		case c == quote:
			return sb.String(), i + 1, nil
		case c == '\n':
			return "", 0, errors.New("newline in string")
		default:
			sb.WriteByte(c)
		}
	}
	return "", 0, errors.New("unterminated string")
}

func scanIdent(s string) (string, int) {
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			i += size
			continue
		}
		break
	}
	return s[:i], i
}

func isIdent(s string) bool {
	_, n := scanIdent(s)
	return n > 0 && n == len(s)
}
