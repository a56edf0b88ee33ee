// Copyright © 2024 The ELPS authors

// Package form defines the structured forms produced by the reader.  Forms
// are the language's own data values and double as its syntax tree before
// analysis.
//
// The set of form variants is closed.  Every variant records the location
// of its first character (the opening delimiter for lists and maps).  That
// location is supplied to the constructor and never changes afterwards, so a
// form is never observed without its final position.
package form

import (
	"strings"

	"github.com/luthersystems/lispc/parser/token"
)

// Kind identifies a form variant.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNil
	KindBool
	KindInt
	KindFloat
	KindString
	KindKeyword
	KindSymbol
	KindList
	KindMap
	kindMax
)

var kindStrings = [kindMax]string{
	KindInvalid: "invalid",
	KindNil:     "nil",
	KindBool:    "boolean",
	KindInt:     "int",
	KindFloat:   "float",
	KindString:  "string",
	KindKeyword: "keyword",
	KindSymbol:  "symbol",
	KindList:    "list",
	KindMap:     "map",
}

func (k Kind) String() string {
	if k >= kindMax {
		return kindStrings[KindInvalid]
	}
	return kindStrings[k]
}

// Form is a value read from source.  The implementations in this package are
// the only implementations.
type Form interface {
	Kind() Kind
	// Loc returns the start location of the form.  The location is the zero
	// Location when the form was not read from source.
	Loc() token.Location
	form()
}

// Describe returns a short human readable description of f's variant, used
// when reporting a form of the wrong shape.  Bracket lists are described as
// vectors.
func Describe(f Form) string {
	if f == nil {
		return "nothing"
	}
	if l, ok := f.(*List); ok && l.Bracket() {
		return "vector"
	}
	return f.Kind().String()
}

// Nil is the nil literal.
type Nil struct {
	loc token.Location
}

func NewNil(loc token.Location) Nil { return Nil{loc: loc} }
func (Nil) Kind() Kind { return KindNil }
func (v Nil) Loc() token.Location { return v.loc }
func (Nil) form() {}

// Bool is a boolean literal.
type Bool struct {
	Value bool
	loc   token.Location
}

func NewBool(b bool, loc token.Location) Bool { return Bool{Value: b, loc: loc} }
func (Bool) Kind() Kind { return KindBool }
func (v Bool) Loc() token.Location { return v.loc }
func (Bool) form() {}

// Int is an integer literal.
type Int struct {
	Value int64
	loc   token.Location
}

func NewInt(x int64, loc token.Location) Int { return Int{Value: x, loc: loc} }
func (Int) Kind() Kind { return KindInt }
func (v Int) Loc() token.Location { return v.loc }
func (Int) form() {}

// Float is a floating point literal.
type Float struct {
	Value float64
	loc   token.Location
}

func NewFloat(x float64, loc token.Location) Float { return Float{Value: x, loc: loc} }
func (Float) Kind() Kind { return KindFloat }
func (v Float) Loc() token.Location { return v.loc }
func (Float) form() {}

// String is a string literal.
type String struct {
	Value string
	loc   token.Location
}

func NewString(s string, loc token.Location) String { return String{Value: s, loc: loc} }
func (String) Kind() Kind { return KindString }
func (v String) Loc() token.Location { return v.loc }
func (String) form() {}

// Keyword is a self-evaluating name written with a leading colon.  Name does
// not include the colon.
type Keyword struct {
	Name string
	loc  token.Location
}

// NewKeyword returns a keyword called name located at loc.  A leading colon
// in name is dropped.
func NewKeyword(name string, loc token.Location) Keyword {
	return Keyword{Name: strings.TrimPrefix(name, ":"), loc: loc}
}

func (Keyword) Kind() Kind { return KindKeyword }
func (v Keyword) Loc() token.Location { return v.loc }
func (Keyword) form() {}

// Symbol is an identifier, optionally qualified by a namespace as in
// geom/Point.
type Symbol struct {
	Namespace string
	Name      string
	loc       token.Location
}

// NewSymbol parses text as a possibly qualified symbol.  The symbol "/" and
// symbols without a slash are unqualified.
func NewSymbol(text string, loc token.Location) Symbol {
	if i := strings.LastIndexByte(text, '/'); i > 0 && i < len(text)-1 {
		return Symbol{Namespace: text[:i], Name: text[i+1:], loc: loc}
	}
	return Symbol{Name: text, loc: loc}
}

// QualifiedSymbol returns the symbol ns/name.
func QualifiedSymbol(ns, name string, loc token.Location) Symbol {
	return Symbol{Namespace: ns, Name: name, loc: loc}
}

func (Symbol) Kind() Kind { return KindSymbol }
func (v Symbol) Loc() token.Location { return v.loc }
func (Symbol) form() {}

// IsQualified reports whether s names a namespace.
func (s Symbol) IsQualified() bool {
	return s.Namespace != ""
}

// FullName returns the symbol as written, ns/name for qualified symbols.
func (s Symbol) FullName() string {
	if s.Namespace == "" {
		return s.Name
	}
	return s.Namespace + "/" + s.Name
}
