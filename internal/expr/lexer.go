package expr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vk/mdrun/internal/value"
)

// lexer splits an expression into tokens.
type lexer struct {
	src string
	pos int
}

// tokenize returns every token of src followed by a tokEOF token.
func tokenize(src string) ([]token, error) {
	l := &lexer{src: src}
	var out []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Type == tokEOF {
			return out, nil
		}
	}
}

// next returns the next token.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{Type: tokEOF, Pos: l.pos}, nil
	}

	start := l.pos
	rest := l.src[l.pos:]
	switch c := rest[0]; {
	case c == '$':
		p, n, err := value.ScanPath(rest)
		if err != nil {
			return token{}, l.errorf(start, "%v", err)
		}
		l.pos += n
		return token{Type: tokVar, Lit: p.String(), Pos: start}, nil
	case c == '\'' || c == '"':
		s, n, err := value.ScanQuoted(rest)
		if err != nil {
			return token{}, l.errorf(start, "%v", err)
		}
		l.pos += n
		return token{Type: tokString, Lit: s, Pos: start}, nil
	case c == '(':
		l.pos++
		return token{Type: tokLParen, Lit: "(", Pos: start}, nil
	case c == ')':
		l.pos++
		return token{Type: tokRParen, Lit: ")", Pos: start}, nil
	case c == '=' || c == '!' || c == '<' || c == '>':
		return l.readOperator()
	case isDigit(c) || ((c == '-' || c == '+') && len(rest) > 1 && (isDigit(rest[1]) || rest[1] == '.')) || (c == '.' && len(rest) > 1 && isDigit(rest[1])):
		return l.readNumber()
	}

	r, _ := utf8.DecodeRuneInString(rest)
	if unicode.IsLetter(r) || r == '_' {
		word := l.readWord()
		if tt, ok := keywords[word]; ok {
			return token{Type: tt, Lit: word, Pos: start}, nil
		}
		return token{}, l.errorf(start, "unknown word %q (variables start with '$')", word)
	}
	return token{}, l.errorf(start, "unexpected character %q", r)
}

func (l *lexer) readOperator() (token, error) {
	start := l.pos
	two := ""
	if l.pos+2 <= len(l.src) {
		two = l.src[l.pos : l.pos+2]
	}
	switch two {
	case "==":
		l.pos += 2
		return token{Type: tokEq, Lit: two, Pos: start}, nil
	case "!=":
		l.pos += 2
		return token{Type: tokNe, Lit: two, Pos: start}, nil
	case "<=":
		l.pos += 2
		return token{Type: tokLe, Lit: two, Pos: start}, nil
	case ">=":
		l.pos += 2
		return token{Type: tokGe, Lit: two, Pos: start}, nil
	}
	switch l.src[l.pos] {
	case '<':
		l.pos++
		return token{Type: tokLt, Lit: "<", Pos: start}, nil
	case '>':
		l.pos++
		return token{Type: tokGt, Lit: ">", Pos: start}, nil
	case '=':
		return token{}, l.errorf(start, "use '==' for comparison")
	default:
		return token{}, l.errorf(start, "use 'not' for negation")
	}
}

func (l *lexer) readNumber() (token, error) {
	start := l.pos
	if c := l.src[l.pos]; c == '-' || c == '+' {
		l.pos++
	}
	digits, dots := 0, 0
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isDigit(c) {
			digits++
		} else if c == '.' && dots == 0 {
			dots++
		} else {
			break
		}
		l.pos++
	}
	if digits == 0 {
		return token{}, l.errorf(start, "malformed number %q", l.src[start:l.pos])
	}
	if l.pos < len(l.src) {
		if r, _ := utf8.DecodeRuneInString(l.src[l.pos:]); unicode.IsLetter(r) || r == '_' {
			return token{}, l.errorf(start, "malformed number %q", l.src[start:l.pos+1])
		}
	}
	return token{Type: tokNumber, Lit: l.src[start:l.pos], Pos: start}, nil
}

func (l *lexer) readWord() string {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			break
		}
		l.pos += size
	}
	return l.src[start:l.pos]
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && strings.ContainsRune(" \t\r\n", rune(l.src[l.pos])) {
		l.pos++
	}
}

func (l *lexer) errorf(pos int, format string, args ...any) error {
	return &SyntaxError{Source: l.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
