// Package parser converts concrete pattern syntax into the pattern tree.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matchc-lang/matchc/internal/pattern"
	"github.com/matchc-lang/matchc/matcherr"
)

// Parser is a recursive-descent parser over the pattern token stream.
type Parser struct {
	input  string
	lex    *Lexer
	cur    Token
	peek   Token
	errors []error
}

// Parse parses a single arm pattern, including any trailing
// "and <guard>" clauses. Guard expression text is captured verbatim for
// the host's expression evaluator.
func Parse(input string) (pattern.Node, error) {
	p := newParser(input)
	node := p.parseArmPattern()
	if len(p.errors) == 0 && p.cur.Type != EOF {
		p.errorf("unexpected %q after pattern", p.cur.Literal)
	}
	if len(p.errors) > 0 {
		return nil, &matcherr.MultiError{Errors: p.errors}
	}
	return node, nil
}

func newParser(input string) *Parser {
	p := &Parser{
		input: input,
		lex:   NewLexer(input),
	}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) pos() pattern.Pos {
	return pattern.At(p.cur.Line, p.cur.Column)
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, matcherr.NewSyntaxError(p.cur.Line, p.cur.Column, fmt.Sprintf(format, args...)))
}

func (p *Parser) expect(t TokenType) bool {
	if p.cur.Type != t {
		p.errorf("expected %q, got %q", t.String(), p.cur.Literal)
		return false
	}
	p.next()
	return true
}

// parseArmPattern parses an or-pattern followed by zero or more
// conjunctive guard clauses.
func (p *Parser) parseArmPattern() pattern.Node {
	at := p.pos()
	node := p.parseOrPattern()
	if node == nil {
		return nil
	}
	if p.cur.Type != AND {
		return node
	}
	var conds []string
	for p.cur.Type == AND {
		start := p.cur.End
		end := p.captureGuard()
		text := strings.TrimSpace(p.input[start:end])
		if text == "" {
			p.errorf("empty guard expression after 'and'")
			return nil
		}
		conds = append(conds, text)
	}
	return pattern.NewGuarded(at, node, conds)
}

// captureGuard consumes tokens after an 'and' keyword up to the next
// top-level 'and' or end of input, returning the byte offset where the
// guard text ends. The guard itself is opaque host-expression text.
func (p *Parser) captureGuard() int {
	p.next() // consume 'and'
	depth := 0
	end := len(p.input)
	for {
		switch p.cur.Type {
		case EOF:
			return end
		case LPAREN, LBRACKET, LBRACE:
			depth++
		case RPAREN, RBRACKET, RBRACE:
			depth--
		case AND:
			if depth == 0 {
				return p.cur.Offset
			}
		}
		end = p.cur.End
		p.next()
	}
}

// parseOrPattern parses alternation: p1 | p2 | ...
func (p *Parser) parseOrPattern() pattern.Node {
	at := p.pos()
	first := p.parseAliasPattern()
	if first == nil {
		return nil
	}
	if p.cur.Type != PIPE {
		return first
	}
	alts := []pattern.Node{first}
	for p.cur.Type == PIPE {
		p.next()
		alt := p.parseAliasPattern()
		if alt == nil {
			return nil
		}
		alts = append(alts, alt)
	}
	return pattern.NewOr(at, alts)
}

// parseAliasPattern parses a primary pattern optionally followed by
// "@ name".
func (p *Parser) parseAliasPattern() pattern.Node {
	at := p.pos()
	inner := p.parsePrimary()
	if inner == nil {
		return nil
	}
	if p.cur.Type != AT {
		return inner
	}
	p.next()
	if p.cur.Type != IDENT {
		p.errorf("expected binding name after '@', got %q", p.cur.Literal)
		return nil
	}
	name := p.cur.Literal
	p.next()
	return pattern.NewAlias(at, inner, name)
}

func (p *Parser) parsePrimary() pattern.Node {
	at := p.pos()
	switch p.cur.Type {
	case UNDERSCORE:
		p.next()
		return pattern.NewWildcard(at)
	case NIL:
		p.next()
		return pattern.NewNil(at)
	case TRUE, FALSE, INT_LIT, FLOAT_LIT, STRING_LIT, CHAR_LIT, MINUS:
		return p.parseLiteral()
	case IDENT:
		return p.parseIdentPattern()
	case LPAREN:
		return p.parseParenPattern()
	case LBRACKET:
		return p.parseSequencePattern()
	case LBRACE:
		return p.parseBracePattern()
	default:
		p.errorf("unexpected %q in pattern", p.cur.Literal)
		p.next()
		return nil
	}
}

// parseIdentPattern handles bare bindings, record patterns Type(...),
// and typed patterns name: TypeName.
func (p *Parser) parseIdentPattern() pattern.Node {
	at := p.pos()
	name := p.cur.Literal
	p.next()

	switch p.cur.Type {
	case LPAREN:
		return p.parseRecordPattern(at, name)
	case COLON:
		p.next()
		if p.cur.Type != IDENT {
			p.errorf("expected type name after ':', got %q", p.cur.Literal)
			return nil
		}
		typeName := p.cur.Literal
		p.next()
		return pattern.NewTypeTest(at, name, typeName)
	default:
		return pattern.NewVariable(at, name)
	}
}

// parseRecordPattern parses Type(field: p, bare, ...) and the positional
// form used by the implicit variant shorthand Type(Case(...)).
func (p *Parser) parseRecordPattern(at pattern.Pos, typeName string) pattern.Node {
	p.next() // consume '('

	var fields []pattern.Field
	var positional []pattern.Node

	for p.cur.Type != RPAREN && p.cur.Type != EOF {
		if p.cur.Type == IDENT && p.peek.Type == COLON {
			fieldName := p.cur.Literal
			p.next()
			p.next()
			fp := p.parseOrPattern()
			if fp == nil {
				return nil
			}
			fields = append(fields, pattern.Field{Name: fieldName, Pattern: fp})
		} else if p.cur.Type == IDENT && (p.peek.Type == COMMA || p.peek.Type == RPAREN) {
			// Named-tuple shorthand: a bare identifier binds the field
			// of the same name. Expanded by the normalizer.
			fields = append(fields, pattern.Field{Name: p.cur.Literal, Shorthand: true})
			p.next()
		} else {
			arg := p.parseOrPattern()
			if arg == nil {
				return nil
			}
			positional = append(positional, arg)
		}

		if p.cur.Type == COMMA {
			p.next()
			continue
		}
		if p.cur.Type != RPAREN {
			p.errorf("expected ',' or ')' in record pattern, got %q", p.cur.Literal)
			return nil
		}
	}
	if !p.expect(RPAREN) {
		return nil
	}

	if len(positional) > 0 && len(fields) > 0 {
		p.errorf("record pattern %s mixes named and positional arguments", typeName)
		return nil
	}

	rec := pattern.NewRecord(at, typeName, fields)
	rec.Positional = positional
	return rec
}

// parseParenPattern parses a parenthesized group or a tuple pattern.
func (p *Parser) parseParenPattern() pattern.Node {
	at := p.pos()
	p.next() // consume '('

	var elems []pattern.Node
	for p.cur.Type != RPAREN && p.cur.Type != EOF {
		e := p.parseOrPattern()
		if e == nil {
			return nil
		}
		elems = append(elems, e)
		if p.cur.Type == COMMA {
			p.next()
			continue
		}
		if p.cur.Type != RPAREN {
			p.errorf("expected ',' or ')' in tuple pattern, got %q", p.cur.Literal)
			return nil
		}
	}
	if !p.expect(RPAREN) {
		return nil
	}

	switch len(elems) {
	case 0:
		p.errorf("empty tuple pattern")
		return nil
	case 1:
		// Parenthesized grouping, not a tuple.
		return elems[0]
	default:
		return pattern.NewTuple(at, elems)
	}
}

// parseSequencePattern parses [p1, ..., *rest, ..., pn] with optional
// "name = default" positions.
func (p *Parser) parseSequencePattern() pattern.Node {
	at := p.pos()
	p.next() // consume '['

	var prefix, suffix []pattern.SeqElem
	var spread *pattern.Spread
	for p.cur.Type != RBRACKET && p.cur.Type != EOF {
		if p.cur.Type == STAR {
			if spread != nil {
				p.errorf("sequence pattern has more than one spread")
				return nil
			}
			p.next()
			switch p.cur.Type {
			case IDENT:
				spread = &pattern.Spread{Name: p.cur.Literal}
				p.next()
			case UNDERSCORE:
				spread = &pattern.Spread{}
				p.next()
			default:
				p.errorf("expected name or '_' after '*', got %q", p.cur.Literal)
				return nil
			}
		} else {
			elem, ok := p.parseSeqElem()
			if !ok {
				return nil
			}
			if spread == nil {
				prefix = append(prefix, elem)
			} else {
				suffix = append(suffix, elem)
			}
		}

		if p.cur.Type == COMMA {
			p.next()
			continue
		}
		if p.cur.Type != RBRACKET {
			p.errorf("expected ',' or ']' in sequence pattern, got %q", p.cur.Literal)
			return nil
		}
	}
	if !p.expect(RBRACKET) {
		return nil
	}

	return pattern.NewSequence(at, prefix, spread, suffix)
}

func (p *Parser) parseSeqElem() (pattern.SeqElem, bool) {
	node := p.parseOrPattern()
	if node == nil {
		return pattern.SeqElem{}, false
	}
	elem := pattern.SeqElem{Pattern: node}
	if p.cur.Type == ASSIGN {
		p.next()
		def := p.parseLiteral()
		if def == nil {
			return pattern.SeqElem{}, false
		}
		elem.Default = def.(*pattern.Literal)
	}
	return elem, true
}

// parseBracePattern disambiguates map patterns {"k": p, **rest} from set
// literal patterns {a, b, c}.
func (p *Parser) parseBracePattern() pattern.Node {
	at := p.pos()
	p.next() // consume '{'

	if p.cur.Type == RBRACE {
		p.next()
		return pattern.NewMap(at, nil, "", false)
	}
	if p.cur.Type == DOUBLESTAR {
		rest, ok := p.parseMapRest()
		if !ok {
			return nil
		}
		if !p.expect(RBRACE) {
			return nil
		}
		return pattern.NewMap(at, nil, rest, true)
	}

	first := p.parseLiteral()
	if first == nil {
		return nil
	}
	firstLit := first.(*pattern.Literal)

	if p.cur.Type == COLON {
		return p.parseMapPattern(at, firstLit)
	}
	return p.parseSetPattern(at, firstLit)
}

func (p *Parser) parseMapPattern(at pattern.Pos, firstKey *pattern.Literal) pattern.Node {
	var entries []pattern.MapEntry
	rest := ""
	hasRest := false

	key := firstKey
	for {
		if !p.expect(COLON) {
			return nil
		}
		val := p.parseOrPattern()
		if val == nil {
			return nil
		}
		entries = append(entries, pattern.MapEntry{Key: key, Pattern: val})

		if p.cur.Type != COMMA {
			break
		}
		p.next()
		if p.cur.Type == DOUBLESTAR {
			var ok bool
			rest, ok = p.parseMapRest()
			if !ok {
				return nil
			}
			hasRest = true
			break
		}
		next := p.parseLiteral()
		if next == nil {
			return nil
		}
		key = next.(*pattern.Literal)
	}

	if !p.expect(RBRACE) {
		return nil
	}
	return pattern.NewMap(at, entries, rest, hasRest)
}

func (p *Parser) parseMapRest() (string, bool) {
	p.next() // consume '**'
	switch p.cur.Type {
	case IDENT:
		name := p.cur.Literal
		p.next()
		return name, true
	case UNDERSCORE:
		p.next()
		return "", true
	default:
		p.errorf("expected name or '_' after '**', got %q", p.cur.Literal)
		return "", false
	}
}

func (p *Parser) parseSetPattern(at pattern.Pos, first *pattern.Literal) pattern.Node {
	elems := []*pattern.Literal{first}
	for p.cur.Type == COMMA {
		p.next()
		e := p.parseLiteral()
		if e == nil {
			return nil
		}
		elems = append(elems, e.(*pattern.Literal))
	}
	if !p.expect(RBRACE) {
		return nil
	}
	return pattern.NewSetLiteral(at, elems)
}

// parseLiteral parses one literal of any category. Every surface
// spelling normalizes to the same Literal node.
func (p *Parser) parseLiteral() pattern.Node {
	at := p.pos()
	neg := false
	if p.cur.Type == MINUS {
		neg = true
		p.next()
	}

	lit := pattern.NewLiteral(at)
	lit.Source = p.cur.Literal

	switch p.cur.Type {
	case TRUE, FALSE:
		if neg {
			p.errorf("cannot negate a boolean literal")
			return nil
		}
		lit.Kind = pattern.LitBool
		lit.Bool = p.cur.Type == TRUE
	case INT_LIT:
		v, err := strconv.ParseInt(p.cur.Literal, 0, 64)
		if err != nil {
			p.errorf("invalid integer literal %q", p.cur.Literal)
			return nil
		}
		if neg {
			v = -v
		}
		lit.Kind = pattern.LitInt
		lit.Int = v
	case FLOAT_LIT:
		v, err := strconv.ParseFloat(strings.ReplaceAll(p.cur.Literal, "_", ""), 64)
		if err != nil {
			p.errorf("invalid float literal %q", p.cur.Literal)
			return nil
		}
		if neg {
			v = -v
		}
		lit.Kind = pattern.LitFloat
		lit.Float = v
	case STRING_LIT:
		if neg {
			p.errorf("cannot negate a string literal")
			return nil
		}
		lit.Kind = pattern.LitString
		lit.Str = p.cur.Literal
	case CHAR_LIT:
		if neg {
			p.errorf("cannot negate a character literal")
			return nil
		}
		r, size := utf8.DecodeRuneInString(p.cur.Literal)
		if size == 0 || size != len(p.cur.Literal) {
			p.errorf("character literal must contain exactly one character")
			return nil
		}
		lit.Kind = pattern.LitChar
		lit.Char = r
	default:
		p.errorf("expected literal, got %q", p.cur.Literal)
		return nil
	}
	p.next()
	return lit
}
