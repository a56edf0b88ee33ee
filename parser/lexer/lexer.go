// Copyright © 2018 The ELPS authors

// Package lexer splits source text into tokens for the reader.
package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/luthersystems/lispc/parser/token"
)

const (
	miscWordRunes   = "0123456789" + miscWordSymbols
	miscWordSymbols = "._+-*/=<>!&~%?$"
)

// Lexer reads tokens from a Scanner one at a time.
type Lexer struct {
	scanner *token.Scanner
	// then lexes the token following a dispatch macro.  It is nil between
	// ordinary tokens.
	then func(*Lexer) *token.Token
}

// New returns a Lexer that reads from s.
func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// ReadToken returns the next token.  At the end of the text it returns an
// EOF token, and it returns an ERROR token on every call after a read
// failure.
func (lex *Lexer) ReadToken() *token.Token {
	if then := lex.then; then != nil {
		lex.then = nil
		return then(lex)
	}
	lex.skipWhitespace()
	if !lex.scanner.Next() {
		if lex.scanner.AtEOF() {
			return lex.emit(token.EOF, "")
		}
		if err := lex.scanner.Err(); err != nil {
			return lex.emit(token.ERROR, err.Error())
		}
		return lex.errorf("unexpected EOF")
	}
	c := lex.scanner.Rune()
	if typ, ok := delimiters[c]; ok {
		return lex.scanner.Emit(typ)
	}
	switch {
	case c == ':':
		return lex.readKeyword()
	case c == ';':
		return lex.readComment()
	case c == '#':
		return lex.readDispatch()
	case c == '"':
		return lex.readString()
	case c == '-' && isDigit(lex.peekRune()):
		return lex.scanner.Emit(token.NEGATIVE)
	case isDigit(c):
		return lex.readNumber()
	case isWordStart(c):
		return lex.readSymbol()
	}
	return lex.emit(token.INVALID, fmt.Sprintf("unexpected text starting with %q", c))
}

var delimiters = map[rune]token.Type{
	'(':  token.PAREN_L,
	')':  token.PAREN_R,
	'[':  token.BRACE_L,
	']':  token.BRACE_R,
	'{':  token.CURLY_L,
	'}':  token.CURLY_R,
	'\'': token.QUOTE,
}

// readDispatch reads the character after '#'.  The text following the macro
// is lexed by the next call to ReadToken.
func (lex *Lexer) readDispatch() *token.Token {
	if !lex.scanner.Next() {
		return lex.errorf("unexpected EOF after #")
	}
	var typ token.Type
	switch lex.scanner.Rune() {
	case '!':
		typ, lex.then = token.HASH_BANG, (*Lexer).readComment
	case 'o', 'O':
		typ, lex.then = token.INT_OCTAL_MACRO, (*Lexer).readOctal
	case 'x', 'X':
		typ, lex.then = token.INT_HEX_MACRO, (*Lexer).readHex
	default:
		return lex.errorf("invalid dispatch macro character %q", lex.scanner.Rune())
	}
	tok := lex.scanner.Emit(typ)
	if unicode.IsSpace(lex.peekRune()) {
		lex.then = nil
		return lex.errorf("whitespace following %s", tok.Text)
	}
	return tok
}

func (lex *Lexer) readComment() *token.Token {
	lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
	return lex.scanner.Emit(token.COMMENT)
}

func (lex *Lexer) readSymbol() *token.Token {
	lex.scanner.AcceptSeq(isWord)
	return lex.scanner.Emit(token.SYMBOL)
}

func (lex *Lexer) readKeyword() *token.Token {
	if lex.scanner.AcceptSeq(isWord) == 0 {
		return lex.errorf("empty keyword")
	}
	return lex.scanner.Emit(token.KEYWORD)
}

// readString reads a quoted string or a """raw string""".  Escape sequences
// are checked by the reader.
func (lex *Lexer) readString() *token.Token {
	if lex.scanner.AcceptString(`""`) {
		return lex.readRawString()
	}
	for {
		if lex.scanner.AcceptRune('"') {
			return lex.scanner.Emit(token.STRING)
		}
		if lex.scanner.AcceptRune('\\') {
			if !lex.scanner.Accept(func(c rune) bool { return c != '\n' }) {
				return lex.unterminated("string")
			}
			continue
		}
		if !lex.scanner.Accept(func(c rune) bool { return c != '\n' }) {
			return lex.unterminated("string")
		}
	}
}

func (lex *Lexer) readRawString() *token.Token {
	for !lex.scanner.AcceptString(`"""`) {
		if !lex.scanner.Next() {
			return lex.unterminated("raw-string")
		}
	}
	return lex.scanner.Emit(token.STRING_RAW)
}

func (lex *Lexer) unterminated(what string) *token.Token {
	if err := lex.scanner.Err(); err != nil {
		return lex.errorf("scan failure: %v", err)
	}
	return lex.errorf("unterminated %s literal", what)
}

func (lex *Lexer) readOctal() *token.Token {
	return lex.readRadix(token.INT_OCTAL, "octal", func(c rune) bool {
		return '0' <= c && c <= '7'
	})
}

func (lex *Lexer) readHex() *token.Token {
	return lex.readRadix(token.INT_HEX, "hexidecimal", func(c rune) bool {
		return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
	})
}

func (lex *Lexer) readRadix(typ token.Type, name string, digit func(rune) bool) *token.Token {
	if lex.scanner.AcceptSeq(digit) == 0 || isWord(lex.peekRune()) {
		return lex.errorf("invalid %s literal character: %q", name, lex.peekRune())
	}
	return lex.scanner.Emit(typ)
}

// readNumber reads an integer or float.  The first digit is already
// consumed.  Overflow is detected by the reader.
func (lex *Lexer) readNumber() *token.Token {
	lex.scanner.AcceptSeq(isDigit)
	typ := token.INT
	if lex.scanner.AcceptRune('.') {
		if lex.scanner.AcceptSeq(isDigit) == 0 {
			return lex.errorf("invalid floating point literal starting: %v", lex.scanner.Text())
		}
		typ = token.FLOAT
	}
	if lex.scanner.AcceptAny("eE") {
		lex.scanner.AcceptAny("+-")
		if lex.scanner.AcceptSeq(isDigit) == 0 {
			return lex.errorf("invalid floating point literal starting: %v", lex.scanner.Text())
		}
		typ = token.FLOAT
	}
	return lex.scanner.Emit(typ)
}

// skipWhitespace discards spaces and commas, which are whitespace as in
// other bracketed lisps.
func (lex *Lexer) skipWhitespace() {
	lex.scanner.AcceptSeq(isSpace)
	lex.scanner.Skip()
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.Start(),
	}
	lex.scanner.Skip()
	return tok
}

func (lex *Lexer) errorf(format string, v ...interface{}) *token.Token {
	return lex.emit(token.ERROR, fmt.Sprintf(format, v...))
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func isSpace(c rune) bool {
	return unicode.IsSpace(c) || c == ','
}

func isWordStart(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(miscWordSymbols, c)
}

func isWord(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(miscWordRunes, c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
