package parser

import "strings"

// Lexer scans pattern source text and produces tokens.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position (after current char)
	ch           byte // current char under examination
	line         int
	column       int
}

// NewLexer creates a new Lexer over the given pattern source.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.readChar()
	}
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Line: l.line, Column: l.column, Offset: l.position}

	switch l.ch {
	case 0:
		tok.Type = EOF
	case '(':
		tok.Type, tok.Literal = LPAREN, "("
		l.readChar()
	case ')':
		tok.Type, tok.Literal = RPAREN, ")"
		l.readChar()
	case '[':
		tok.Type, tok.Literal = LBRACKET, "["
		l.readChar()
	case ']':
		tok.Type, tok.Literal = RBRACKET, "]"
		l.readChar()
	case '{':
		tok.Type, tok.Literal = LBRACE, "{"
		l.readChar()
	case '}':
		tok.Type, tok.Literal = RBRACE, "}"
		l.readChar()
	case ',':
		tok.Type, tok.Literal = COMMA, ","
		l.readChar()
	case ':':
		tok.Type, tok.Literal = COLON, ":"
		l.readChar()
	case '|':
		tok.Type, tok.Literal = PIPE, "|"
		l.readChar()
	case '@':
		tok.Type, tok.Literal = AT, "@"
		l.readChar()
	case '=':
		tok.Type, tok.Literal = ASSIGN, "="
		l.readChar()
	case '-':
		tok.Type, tok.Literal = MINUS, "-"
		l.readChar()
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			tok.Type, tok.Literal = DOUBLESTAR, "**"
		} else {
			tok.Type, tok.Literal = STAR, "*"
		}
		l.readChar()
	case '"':
		lit, terminated := l.readString()
		if !terminated {
			tok.Type, tok.Literal = ILLEGAL, lit
		} else {
			tok.Type, tok.Literal = STRING_LIT, lit
		}
	case '`':
		lit, terminated := l.readRawString()
		if !terminated {
			tok.Type, tok.Literal = ILLEGAL, lit
		} else {
			tok.Type, tok.Literal = STRING_LIT, lit
		}
	case '\'':
		lit, terminated := l.readCharLiteral()
		if !terminated {
			tok.Type, tok.Literal = ILLEGAL, lit
		} else {
			tok.Type, tok.Literal = CHAR_LIT, lit
		}
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = lookupIdent(tok.Literal)
			tok.End = l.position
			return tok
		}
		if isDigit(l.ch) {
			tok.Literal, tok.Type = l.readNumber()
			tok.End = l.position
			return tok
		}
		tok.Type, tok.Literal = ILLEGAL, string(l.ch)
		l.readChar()
	}

	tok.End = l.position
	return tok
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads an integer or float literal. All integer spellings
// (decimal, 0x/0X hex, 0o/0O octal, 0b/0B binary, with optional '_'
// separators) are kept verbatim; the parser normalizes the value.
func (l *Lexer) readNumber() (string, TokenType) {
	position := l.position
	tokenType := INT_LIT

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X' ||
		l.peekChar() == 'o' || l.peekChar() == 'O' ||
		l.peekChar() == 'b' || l.peekChar() == 'B') {
		l.readChar() // 0
		l.readChar() // base marker
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return l.input[position:l.position], INT_LIT
	}

	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		tokenType = FLOAT_LIT
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			tokenType = FLOAT_LIT
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return l.input[position:l.position], tokenType
}

// readString reads a double-quoted string literal with escape sequences.
// Returns the decoded contents and whether the string was terminated.
func (l *Lexer) readString() (string, bool) {
	var sb strings.Builder
	l.readChar() // consume opening quote
	for {
		switch l.ch {
		case '"':
			l.readChar()
			return sb.String(), true
		case 0, '\n':
			return sb.String(), false
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '\'':
				sb.WriteByte('\'')
			case '0':
				sb.WriteByte(0)
			default:
				// Unknown escape: keep it verbatim.
				sb.WriteByte('\\')
				sb.WriteByte(l.ch)
			}
			l.readChar()
		default:
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// readRawString reads a backquoted raw string literal. No escapes are
// processed; newlines are allowed, so raw strings may span lines.
func (l *Lexer) readRawString() (string, bool) {
	l.readChar() // consume opening backquote
	position := l.position
	for l.ch != '`' {
		if l.ch == 0 {
			return l.input[position:l.position], false
		}
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.readChar()
	}
	lit := l.input[position:l.position]
	l.readChar() // consume closing backquote
	return lit, true
}

// readCharLiteral reads a single-quoted character literal with escapes.
func (l *Lexer) readCharLiteral() (string, bool) {
	var sb strings.Builder
	l.readChar() // consume opening quote
	for {
		switch l.ch {
		case '\'':
			l.readChar()
			return sb.String(), true
		case 0, '\n':
			return sb.String(), false
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '\'':
				sb.WriteByte('\'')
			case '"':
				sb.WriteByte('"')
			case '0':
				sb.WriteByte(0)
			default:
				sb.WriteByte('\\')
				sb.WriteByte(l.ch)
			}
			l.readChar()
		default:
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}
