package expr

import (
	"strconv"
	"strings"

	"github.com/vk/mdrun/internal/value"
)

// parser is a recursive-descent parser over a token slice.
type parser struct {
	src  string
	toks []token
	pos  int
}

// Parse parses src into an immutable AST.
func Parse(src string) (Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &SyntaxError{Source: src, Msg: "empty expression"}
	}
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != tokEOF {
		return nil, p.errorf(tok, "unexpected %s", describe(tok))
	}
	return e, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level constants.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == tokOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: OpOr, L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == tokAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: OpAnd, L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.peek().Type == tokNot {
		p.advance()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{X: x}, nil
	}
	return p.parseComparison()
}

var compareOps = map[tokenType]Op{
	tokEq: OpEq,
	tokNe: OpNe,
	tokLt: OpLt,
	tokLe: OpLe,
	tokGt: OpGt,
	tokGe: OpGe,
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	op, ok := compareOps[p.peek().Type]
	if !ok {
		return left, nil
	}
	p.advance()
	right, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); compareOps[tok.Type] != "" {
		return nil, p.errorf(tok, "comparisons cannot be chained; use 'and'")
	}
	return &Compare{Op: op, L: left, R: right}, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.advance()
	switch tok.Type {
	case tokVar:
		path, err := value.ParsePath(tok.Lit)
		if err != nil {
			return nil, p.errorf(tok, "%v", err)
		}
		return &Ref{Path: path}, nil
	case tokNumber:
		n, err := strconv.ParseFloat(tok.Lit, 64)
		if err != nil {
			return nil, p.errorf(tok, "invalid number %q", tok.Lit)
		}
		return &Literal{Value: value.Number(n)}, nil
	case tokString:
		return &Literal{Value: value.String(tok.Lit)}, nil
	case tokTrue:
		return &Literal{Value: value.Bool(true)}, nil
	case tokFalse:
		return &Literal{Value: value.Bool(false)}, nil
	case tokNull:
		return &Literal{Value: value.Null()}, nil
	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.advance(); closing.Type != tokRParen {
			return nil, p.errorf(closing, "expected ')' but found %s", describe(closing))
		}
		return inner, nil
	default:
		return nil, p.errorf(tok, "expected a value but found %s", describe(tok))
	}
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	tok := p.toks[p.pos]
	if tok.Type != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	l := &lexer{src: p.src}
	return l.errorf(tok.Pos, format, args...)
}

func describe(tok token) string {
	switch tok.Type {
	case tokEOF:
		return "end of expression"
	case tokVar, tokNumber:
		return strconv.Quote(tok.Lit)
	case tokString:
		return "string " + strconv.Quote(tok.Lit)
	default:
		return "'" + tok.Type.String() + "'"
	}
}
