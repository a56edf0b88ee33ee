// Copyright © 2018 The ELPS authors

// Package rdparser is a recursive-descent reader that turns tokens into
// forms.
package rdparser

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/parser/lexer"
	"github.com/luthersystems/lispc/parser/token"
)

// Reader parses whole source streams.
type Reader struct {
}

// NewReader returns a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read parses every form in r.  The name is recorded in form locations.
func (*Reader) Read(name string, r io.Reader) ([]form.Form, error) {
	return New(token.NewScanner(name, r)).ParseProgram()
}

// ReadLocation is like Read but also records loc, a physical path, in form
// locations.
func (*Reader) ReadLocation(name string, loc string, r io.Reader) ([]form.Form, error) {
	s := token.NewScanner(name, r)
	s.SetPath(loc)
	return New(s).ParseProgram()
}

// ReadLayout is like Read but also returns the comments and spelling of the
// source, for tools that write it back out.
func (*Reader) ReadLayout(name string, r io.Reader) ([]form.Form, *Layout, error) {
	p := New(token.NewScanner(name, r))
	forms, err := p.ParseProgram()
	if err != nil {
		return nil, nil, err
	}
	return forms, p.Layout(), nil
}

// Parser reads forms from a token stream.
type Parser struct {
	lex     *lexer.Lexer
	tok     *token.Token // the token last consumed
	peek    *token.Token
	endLine int // line on which the last consumed token ended

	layout *Layout
	seq    *sequence
}

// sequence is the list being read, or the file at the top level.
type sequence struct {
	key     token.Location
	prev    form.Form // the element read last
	pending []Comment // comments not yet attached to an element
}

// New returns a Parser reading the tokens of scanner.
func New(scanner *token.Scanner) *Parser {
	return &Parser{
		lex:    lexer.New(scanner),
		layout: NewLayout(),
	}
}

// Layout returns the comments and spelling recorded by ParseProgram.
func (p *Parser) Layout() *Layout {
	return p.layout
}

// ParseProgram parses a series of expressions potentially preceded by a
// hash-bang, `#!`.
func (p *Parser) ParseProgram() ([]form.Form, error) {
	key := FileKey(p.peekToken().Source)
	p.seq = &sequence{key: key}
	p.layout.files = append(p.layout.files, key)
	p.readHashBang()

	var exprs []form.Form
	for {
		p.readComments(true)
		if p.peekType() == token.EOF {
			p.closeSequence()
			return exprs, nil
		}
		expr, err := p.element()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
}

func (p *Parser) readHashBang() {
	if p.peekType() != token.HASH_BANG {
		return
	}
	bang := p.next()
	c := Comment{Text: bang.Text, Source: bang.Source}
	if p.accept(token.COMMENT) {
		c.Text += p.tok.Text
	}
	p.seq.pending = append(p.seq.pending, c)
}

// readComments consumes comments.  A comment on the line where the previous
// element ends trails that element when trailing is set.  Others wait for
// the next element.
func (p *Parser) readComments(trailing bool) {
	for p.peekType() == token.COMMENT {
		blank := p.blankAhead()
		prevLine := p.endLine
		tok := p.next()
		c := Comment{Text: tok.Text, Source: tok.Source, Blank: blank}
		if trailing && p.seq.prev != nil && len(p.seq.pending) == 0 && tok.Source.Line == prevLine {
			p.layout.trailing[p.seq.prev.Loc()] = c
			continue
		}
		p.seq.pending = append(p.seq.pending, c)
	}
}

// blankAhead reports whether a blank line separates the next token from
// the text before it.  Blank lines at the start of a file do not count.
func (p *Parser) blankAhead() bool {
	return p.endLine > 0 && p.peekToken().Source.Line > p.endLine+1
}

// element reads the next element of the current sequence and attaches the
// comments before it.
func (p *Parser) element() (form.Form, error) {
	blank := p.blankAhead()
	leading := p.seq.pending
	p.seq.pending = nil
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	// Comments read after a quote mark lead the quote.
	leading = append(leading, p.seq.pending...)
	p.seq.pending = nil
	loc := x.Loc()
	if len(leading) > 0 {
		p.layout.leading[loc] = leading
	}
	if blank {
		p.layout.blank[loc] = true
	}
	p.seq.prev = x
	return x, nil
}

func (p *Parser) closeSequence() {
	if len(p.seq.pending) > 0 {
		p.layout.closing[p.seq.key] = p.seq.pending
	}
}

var parseFns map[token.Type]func(*Parser) (form.Form, error)

func init() {
	parseFns = map[token.Type]func(*Parser) (form.Form, error){
		token.INT:             (*Parser).parseInt,
		token.INT_OCTAL_MACRO: (*Parser).parseOctal,
		token.INT_HEX_MACRO:   (*Parser).parseHex,
		token.FLOAT:           (*Parser).parseFloat,
		token.STRING:          (*Parser).parseString,
		token.STRING_RAW:      (*Parser).parseRawString,
		token.NEGATIVE:        (*Parser).parseNegative,
		token.QUOTE:           (*Parser).parseQuote,
		token.KEYWORD:         (*Parser).parseKeyword,
		token.SYMBOL:          (*Parser).parseSymbol,
		token.PAREN_L:         (*Parser).parseList,
		token.BRACE_L:         (*Parser).parseBracketList,
		token.CURLY_L:         (*Parser).parseMap,
	}
}

// expression parses a single expression.  An expression must be present in
// the input; EOF is an error.
func (p *Parser) expression() (form.Form, error) {
	p.readComments(false)
	typ := p.peekType()
	if fn, ok := parseFns[typ]; ok {
		return fn(p)
	}
	p.next()
	switch typ {
	case token.EOF:
		return nil, p.errorf("unexpected-eof", "unexpected end of input")
	case token.ERROR, token.INVALID:
		return nil, p.errorf("scan-error", "%s", p.tok.Text)
	default:
		return nil, p.errorf("parse-error", "unexpected token: %v", typ)
	}
}

func (p *Parser) parseInt() (form.Form, error) {
	tok := p.next()
	x, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		return nil, p.errorf("integer-overflow-error", "integer literal overflows int: %v", tok.Text)
	}
	return form.NewInt(x, tok.Source), nil
}

func (p *Parser) parseOctal() (form.Form, error) {
	return p.parseRadixInt(token.INT_OCTAL, 8, "octal")
}

func (p *Parser) parseHex() (form.Form, error) {
	return p.parseRadixInt(token.INT_HEX, 16, "hex")
}

func (p *Parser) parseRadixInt(digits token.Type, base int, name string) (form.Form, error) {
	macro := p.next()
	if !p.accept(digits) {
		if p.accept(token.ERROR, token.INVALID) {
			return nil, p.scanError("invalid-" + name + "-literal")
		}
		return nil, p.errorf("invalid-"+name+"-literal", "unexpected token: %v", p.peekType())
	}
	text := p.tok.Text
	x, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		return nil, p.errorf("integer-overflow-error", "%s literal overflows int: %v", name, text)
	}
	p.layout.spelling[macro.Source] = macro.Text + text
	return form.NewInt(x, macro.Source), nil
}

func (p *Parser) parseFloat() (form.Form, error) {
	tok := p.next()
	x, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		return nil, p.errorf("invalid-float", "invalid floating point literal: %v", tok.Text)
	}
	p.layout.spelling[tok.Source] = tok.Text
	return form.NewFloat(x, tok.Source), nil
}

func (p *Parser) parseString() (form.Form, error) {
	tok := p.next()
	s, err := strconv.Unquote(tok.Text)
	if err != nil {
		return nil, p.errorf("invalid-string", "invalid string literal: %v", tok.Text)
	}
	p.layout.spelling[tok.Source] = tok.Text
	return form.NewString(s, tok.Source), nil
}

func (p *Parser) parseRawString() (form.Form, error) {
	tok := p.next()
	if len(tok.Text) < 6 {
		return nil, p.errorf("invalid-string", "short raw string literal: %v", tok.Text)
	}
	p.layout.spelling[tok.Source] = tok.Text
	return form.NewString(tok.Text[3:len(tok.Text)-3], tok.Source), nil
}

// parseQuote reads 'x as the list (quote x).
func (p *Parser) parseQuote() (form.Form, error) {
	loc := p.next().Source
	quoted, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.layout.shorthand[loc] = true
	return form.NewList([]form.Form{form.NewSymbol("quote", loc), quoted}, loc), nil
}

// parseNegative joins a '-' with the number following it.
func (p *Parser) parseNegative() (form.Form, error) {
	minus := p.next()
	num := p.peekToken()
	if num.Type != token.INT && num.Type != token.FLOAT {
		return form.NewSymbol(minus.Text, minus.Source), nil
	}
	num.Source = minus.Source
	num.Text = minus.Text + num.Text
	return p.expression()
}

func (p *Parser) parseKeyword() (form.Form, error) {
	tok := p.next()
	if strings.Contains(tok.Text[1:], ":") {
		return nil, p.errorf("invalid-keyword", "invalid keyword %q", tok.Text)
	}
	return form.NewKeyword(tok.Text, tok.Source), nil
}

// parseSymbol reads a symbol.  The names true, false and nil read as the
// corresponding literals.
func (p *Parser) parseSymbol() (form.Form, error) {
	tok := p.next()
	switch tok.Text {
	case "true":
		return form.NewBool(true, tok.Source), nil
	case "false":
		return form.NewBool(false, tok.Source), nil
	case "nil":
		return form.NewNil(tok.Source), nil
	}
	text := tok.Text
	if text != "/" && (strings.HasSuffix(text, "/") || strings.HasPrefix(text, "/") || strings.Count(text, "/") > 1) {
		return nil, p.errorf("invalid-symbol", "invalid symbol %q", text)
	}
	return form.NewSymbol(text, tok.Source), nil
}

func (p *Parser) parseList() (form.Form, error) {
	loc, elems, err := p.parseSequence(token.PAREN_R)
	if err != nil {
		return nil, err
	}
	return form.NewList(elems, loc), nil
}

func (p *Parser) parseBracketList() (form.Form, error) {
	loc, elems, err := p.parseSequence(token.BRACE_R)
	if err != nil {
		return nil, err
	}
	return form.NewBracketList(elems, loc), nil
}

// parseMap reads {k v ...}.  An odd number of forms is an error.
func (p *Parser) parseMap() (form.Form, error) {
	loc, elems, err := p.parseSequence(token.CURLY_R)
	if err != nil {
		return nil, err
	}
	if len(elems)%2 != 0 {
		return nil, &token.LocationError{
			Err:    fmt.Errorf("odd-map-literal: map literal contains %d forms", len(elems)),
			Source: loc,
		}
	}
	pairs := make([]form.Pair, 0, len(elems)/2)
	for i := 0; i < len(elems); i += 2 {
		pairs = append(pairs, form.Pair{Key: elems[i], Value: elems[i+1]})
	}
	return form.NewMap(pairs, loc), nil
}

// parseSequence reads the elements following an opening bracket up to
// closeType.
func (p *Parser) parseSequence(closeType token.Type) (token.Location, []form.Form, error) {
	open := p.next()
	outer := p.seq
	p.seq = &sequence{key: open.Source}
	defer func() { p.seq = outer }()

	var elems []form.Form
	for {
		p.readComments(true)
		if p.peekType() == token.EOF {
			return token.Location{}, nil, &token.LocationError{
				Err:    fmt.Errorf("unmatched-syntax: unmatched %s", open.Text),
				Source: open.Source,
			}
		}
		if p.accept(closeType) {
			p.closeSequence()
			return open.Source, elems, nil
		}
		x, err := p.element()
		if err != nil {
			return token.Location{}, nil, err
		}
		elems = append(elems, x)
	}
}

func (p *Parser) peekToken() *token.Token {
	if p.peek == nil {
		p.peek = p.lex.ReadToken()
	}
	return p.peek
}

func (p *Parser) peekType() token.Type {
	return p.peekToken().Type
}

// next consumes and returns the next token.
func (p *Parser) next() *token.Token {
	p.tok = p.peekToken()
	p.peek = nil
	if p.tok.Type != token.EOF {
		p.endLine = p.tok.EndLine()
	}
	return p.tok
}

func (p *Parser) accept(typ ...token.Type) bool {
	next := p.peekType()
	for _, t := range typ {
		if next == t {
			p.next()
			return true
		}
	}
	return false
}

func (p *Parser) errorf(condition string, format string, v ...interface{}) error {
	return &token.LocationError{
		Err:    fmt.Errorf("%s: %s", condition, fmt.Sprintf(format, v...)),
		Source: p.tok.Source,
	}
}

func (p *Parser) scanError(condition string) error {
	return &token.LocationError{
		Err:    fmt.Errorf("%s: %w", condition, errors.New(p.tok.Text)),
		Source: p.tok.Source,
	}
}
