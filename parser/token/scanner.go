// Copyright © 2018 The ELPS authors

package token

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Scanner cuts source text into tokens.  The whole stream is read when the
// Scanner is created, so locations are plain offsets into one buffer.
//
// A Scanner consumes runes one at a time with the Accept methods.  The runes
// consumed since the last call to Emit or Skip make up the pending token.
type Scanner struct {
	src []byte
	err error // error reading src, reported once the text before it is used

	off   int      // offset of the next rune
	next  Location // location of the next rune
	start Location // location of the pending token
	last  rune     // the rune most recently consumed
}

// NewScanner reads r and returns a Scanner over its text.  A read error is
// returned by Err after the text read before it has been consumed.
func NewScanner(file string, r io.Reader) *Scanner {
	src, err := io.ReadAll(r)
	s := &Scanner{
		src:  src,
		err:  err,
		next: Location{File: file, Line: 1, Col: 1},
	}
	s.start = s.next
	return s
}

// SetPath records a physical location (e.g. filesystem path) in the
// locations of subsequent tokens.
func (s *Scanner) SetPath(path string) {
	s.next.Path = path
	s.start.Path = path
}

// Peek returns the next rune without consuming it.  The second value is
// false at the end of the text and in front of an invalid utf-8 sequence.
func (s *Scanner) Peek() (rune, bool) {
	if s.off >= len(s.src) {
		return 0, false
	}
	c, n := utf8.DecodeRune(s.src[s.off:])
	if c == utf8.RuneError && n == 1 {
		return c, false
	}
	return c, true
}

func (s *Scanner) consume(c rune) {
	n := utf8.RuneLen(c)
	s.off += n
	s.next.Pos = s.off
	if c == '\n' {
		s.next.Line++
		s.next.Col = 1
	} else {
		s.next.Col += n
	}
	s.last = c
}

// Accept consumes the next rune if fn reports true for it.
func (s *Scanner) Accept(fn func(rune) bool) bool {
	c, ok := s.Peek()
	if !ok || !fn(c) {
		return false
	}
	s.consume(c)
	return true
}

// Next consumes the next rune, whatever it is.
func (s *Scanner) Next() bool {
	return s.Accept(func(rune) bool { return true })
}

// AcceptRune consumes the next rune if it is c.
func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(r rune) bool { return r == c })
}

// AcceptAny consumes the next rune if it is in charset.
func (s *Scanner) AcceptAny(charset string) bool {
	return s.Accept(func(r rune) bool { return strings.ContainsRune(charset, r) })
}

// AcceptSeq consumes runes while fn reports true and returns their count.
func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

// AcceptString consumes literal if the text continues with it.  Nothing is
// consumed otherwise.
func (s *Scanner) AcceptString(literal string) bool {
	if !bytes.HasPrefix(s.src[s.off:], []byte(literal)) {
		return false
	}
	for _, c := range literal {
		s.consume(c)
	}
	return true
}

// Rune returns the rune most recently consumed, the last rune of the pending
// token.
func (s *Scanner) Rune() rune {
	return s.last
}

// Text returns the text of the pending token.
func (s *Scanner) Text() string {
	return string(s.src[s.start.Pos:s.off])
}

// Start returns the location of the pending token.
func (s *Scanner) Start() Location {
	return s.start
}

// Loc returns the location of the next rune.
func (s *Scanner) Loc() Location {
	return s.next
}

// Emit returns the pending token with type typ and starts a new one.
func (s *Scanner) Emit(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.start,
	}
	s.Skip()
	return tok
}

// Skip discards the pending token.
func (s *Scanner) Skip() {
	s.start = s.next
}

// AtEOF reports whether the whole text was read and consumed.
func (s *Scanner) AtEOF() bool {
	return s.off >= len(s.src) && s.err == nil
}

// Err returns the reason the next rune cannot be consumed: an invalid utf-8
// sequence, or the read error once all text before it has been consumed.
// Err returns nil when more runes can be consumed or at EOF.
func (s *Scanner) Err() error {
	if s.off < len(s.src) {
		if _, ok := s.Peek(); !ok {
			return fmt.Errorf("invalid utf-8 sequence in source text starting with byte %q", s.src[s.off])
		}
		return nil
	}
	return s.err
}
