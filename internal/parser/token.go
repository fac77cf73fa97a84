package parser

import "fmt"

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Literals and identifiers
	IDENT      // foo, Person, rest
	INT_LIT    // 123, 0xFF, 0o17, 0b1010, 1_000
	FLOAT_LIT  // 123.45, 1e9
	STRING_LIT // "hello", `raw`
	CHAR_LIT   // 'x'

	// Keywords
	TRUE
	FALSE
	NIL
	AND

	// Punctuation
	LPAREN     // (
	RPAREN     // )
	LBRACKET   // [
	RBRACKET   // ]
	LBRACE     // {
	RBRACE     // }
	COMMA      // ,
	COLON      // :
	PIPE       // |
	AT         // @
	STAR       // *
	DOUBLESTAR // **
	ASSIGN     // =
	MINUS      // -
	UNDERSCORE // _
)

var tokenNames = map[TokenType]string{
	ILLEGAL:    "ILLEGAL",
	EOF:        "EOF",
	IDENT:      "IDENT",
	INT_LIT:    "INT",
	FLOAT_LIT:  "FLOAT",
	STRING_LIT: "STRING",
	CHAR_LIT:   "CHAR",
	TRUE:       "true",
	FALSE:      "false",
	NIL:        "nil",
	AND:        "and",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACKET:   "[",
	RBRACKET:   "]",
	LBRACE:     "{",
	RBRACE:     "}",
	COMMA:      ",",
	COLON:      ":",
	PIPE:       "|",
	AT:         "@",
	STAR:       "*",
	DOUBLESTAR: "**",
	ASSIGN:     "=",
	MINUS:      "-",
	UNDERSCORE: "_",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexical token with its source position. Offset and
// End are byte offsets into the input; the parser uses them to capture
// guard expression text verbatim.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
	Offset  int
	End     int
}

var keywords = map[string]TokenType{
	"true":  TRUE,
	"false": FALSE,
	"nil":   NIL,
	"and":   AND,
}

// lookupIdent maps an identifier to its keyword token type, if any.
func lookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if ident == "_" {
		return UNDERSCORE
	}
	return IDENT
}
