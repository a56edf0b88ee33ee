// Copyright © 2024 The ELPS authors

package form

import "github.com/luthersystems/lispc/parser/token"

// List is an ordered sequence of forms.  A list written with square brackets
// has its bracket flag set; the reader otherwise produces parenthesized
// lists.  Lists are not modified after construction.
type List struct {
	elems   []Form
	bracket bool
	loc     token.Location
}

// NewList returns a parenthesized list holding a copy of elems.
func NewList(elems []Form, loc token.Location) *List {
	return &List{elems: copyForms(elems), loc: loc}
}

// NewBracketList returns a list written with square brackets.
func NewBracketList(elems []Form, loc token.Location) *List {
	return &List{elems: copyForms(elems), bracket: true, loc: loc}
}

func (*List) Kind() Kind { return KindList }
func (l *List) Loc() token.Location { return l.loc }
func (*List) form() {}

// Bracket reports whether the list was written with square brackets.
func (l *List) Bracket() bool { return l.bracket }

// Len returns the number of elements in l.
func (l *List) Len() int { return len(l.elems) }

// At returns the element at index i.
func (l *List) At(i int) Form { return l.elems[i] }

// Elems returns a copy of the elements of l.
func (l *List) Elems() []Form { return copyForms(l.elems) }

// Head returns the first element of a non-empty list.
func (l *List) Head() (Form, bool) {
	if len(l.elems) == 0 {
		return nil, false
	}
	return l.elems[0], true
}

// HeadSymbol returns the unqualified name of the symbol heading l, or "".
func (l *List) HeadSymbol() string {
	head, ok := l.Head()
	if !ok {
		return ""
	}
	sym, ok := head.(Symbol)
	if !ok || sym.IsQualified() {
		return ""
	}
	return sym.Name
}

// Pair is one key/value association in a Map.
type Pair struct {
	Key   Form
	Value Form
}

// Map is an associative form written with curly braces.  Pairs keep the
// order in which they were read.
type Map struct {
	pairs []Pair
	loc   token.Location
}

// NewMap returns a map holding a copy of pairs.
func NewMap(pairs []Pair, loc token.Location) *Map {
	cp := make([]Pair, len(pairs))
	copy(cp, pairs)
	return &Map{pairs: cp, loc: loc}
}

func (*Map) Kind() Kind { return KindMap }
func (m *Map) Loc() token.Location { return m.loc }
func (*Map) form() {}

// Len returns the number of pairs in m.
func (m *Map) Len() int { return len(m.pairs) }

// At returns the pair at index i.
func (m *Map) At(i int) Pair { return m.pairs[i] }

// Pairs returns a copy of the pairs of m.
func (m *Map) Pairs() []Pair {
	cp := make([]Pair, len(m.pairs))
	copy(cp, m.pairs)
	return cp
}

func copyForms(elems []Form) []Form {
	if len(elems) == 0 {
		return nil
	}
	cp := make([]Form, len(elems))
	copy(cp, elems)
	return cp
}
