package expr

import "fmt"

// tokenType represents the type of a token.
type tokenType int

// token types.
const (
	tokEOF    tokenType = iota // End of input
	tokVar                     // $path
	tokNumber                  // Number literal
	tokString                  // Quoted string literal
	tokTrue                    // true
	tokFalse                   // false
	tokNull                    // null
	tokAnd                     // and
	tokOr                      // or
	tokNot                     // not
	tokEq                      // ==
	tokNe                      // !=
	tokLt                      // <
	tokLe                      // <=
	tokGt                      // >
	tokGe                      // >=
	tokLParen                  // (
	tokRParen                  // )
)

var tokenNames = map[tokenType]string{
	tokEOF:    "end of expression",
	tokVar:    "variable",
	tokNumber: "number",
	tokString: "string",
	tokTrue:   "true",
	tokFalse:  "false",
	tokNull:   "null",
	tokAnd:    "and",
	tokOr:     "or",
	tokNot:    "not",
	tokEq:     "==",
	tokNe:     "!=",
	tokLt:     "<",
	tokLe:     "<=",
	tokGt:     ">",
	tokGe:     ">=",
	tokLParen: "(",
	tokRParen: ")",
}

func (t tokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// token is a lexed unit of an expression.
type token struct {
	Lit  string    // Literal text (unescaped for strings)
	Type tokenType // Type of the token
	Pos  int       // Byte offset in the source
}

var keywords = map[string]tokenType{
	"true":  tokTrue,
	"false": tokFalse,
	"null":  tokNull,
	"and":   tokAnd,
	"or":    tokOr,
	"not":   tokNot,
}
