// Copyright © 2024 The ELPS authors

// Package ast declares the nodes produced by analyzing forms.
//
// The set of node types is closed.  Each node records the lexical
// environment it was analyzed in and the location of the form it was
// produced from.  Nodes are built once through the New functions in this
// package and are not modified afterwards.
package ast

import (
	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/lexenv"
	"github.com/luthersystems/lispc/parser/token"
)

// Node is an analyzed form.
type Node interface {
	// Env returns the environment the node was analyzed in.
	Env() *lexenv.Env
	// Loc returns the start location of the source form.  The zero Location
	// means the form carried no position.
	Loc() token.Location
	node()
}

type base struct {
	env *lexenv.Env
	loc token.Location
}

func (b base) Env() *lexenv.Env { return b.env }
func (b base) Loc() token.Location { return b.loc }
func (base) node() {}

// Literal is a self-evaluating value.
type Literal struct {
	base
	Value form.Form
}

// NewLiteral returns a literal for v, located where v was read.
func NewLiteral(env *lexenv.Env, v form.Form) *Literal {
	return &Literal{base: base{env, v.Loc()}, Value: v}
}

// DefStruct defines a struct type Name with the fields Params.
type DefStruct struct {
	base
	Namespace string
	Name      form.Symbol
	Params    []form.Symbol
}

// NewDefStruct returns a struct definition located at loc.
func NewDefStruct(env *lexenv.Env, loc token.Location, ns string, name form.Symbol, params []form.Symbol) *DefStruct {
	return &DefStruct{
		base:      base{env, loc},
		Namespace: ns,
		Name:      name,
		Params:    append([]form.Symbol(nil), params...),
	}
}

// ParamsAsKeywords returns one keyword per parameter, in order.  Every
// keyword is located at the start of the struct definition rather than at
// its parameter so that errors raised by generated accessors point at the
// definition.
func (n *DefStruct) ParamsAsKeywords() []form.Keyword {
	kws := make([]form.Keyword, len(n.Params))
	for i, p := range n.Params {
		kws[i] = form.NewKeyword(p.Name, n.loc)
	}
	return kws
}

// LocalRef is a reference to a name bound in the enclosing environment.
type LocalRef struct {
	base
	Name form.Symbol
}

// NewLocalRef returns a reference to the local sym.
func NewLocalRef(env *lexenv.Env, sym form.Symbol) *LocalRef {
	return &LocalRef{base: base{env, sym.Loc()}, Name: sym}
}

// GlobalRef is a reference to a name that is not bound locally.  Resolving
// it against a namespace is left to later passes.
type GlobalRef struct {
	base
	Name form.Symbol
}

// NewGlobalRef returns a reference to the global sym.
func NewGlobalRef(env *lexenv.Env, sym form.Symbol) *GlobalRef {
	return &GlobalRef{base: base{env, sym.Loc()}, Name: sym}
}

// Def binds Name in the current namespace.  Init is nil when the definition
// has no initial value.
type Def struct {
	base
	Namespace string
	Name      form.Symbol
	Init      Node
}

// NewDef returns a definition located at loc.
func NewDef(env *lexenv.Env, loc token.Location, ns string, name form.Symbol, init Node) *Def {
	return &Def{base: base{env, loc}, Namespace: ns, Name: name, Init: init}
}

// Fn is an anonymous function.  When Variadic is true the final parameter
// collects any remaining arguments.
type Fn struct {
	base
	Params   []form.Symbol
	Variadic bool
	Body     *Do
}

// NewFn returns a function located at loc.
func NewFn(env *lexenv.Env, loc token.Location, params []form.Symbol, variadic bool, body *Do) *Fn {
	return &Fn{
		base:     base{env, loc},
		Params:   append([]form.Symbol(nil), params...),
		Variadic: variadic,
		Body:     body,
	}
}

// If is a conditional.  Else is nil when the form has no else branch.
type If struct {
	base
	Test Node
	Then Node
	Else Node
}

// NewIf returns a conditional located at loc.
func NewIf(env *lexenv.Env, loc token.Location, test, then, els Node) *If {
	return &If{base: base{env, loc}, Test: test, Then: then, Else: els}
}

// Do evaluates Stmts for effect and then evaluates Ret for its value.
type Do struct {
	base
	Stmts []Node
	Ret   Node
}

// NewDo returns a sequence located at loc.
func NewDo(env *lexenv.Env, loc token.Location, stmts []Node, ret Node) *Do {
	return &Do{base: base{env, loc}, Stmts: append([]Node(nil), stmts...), Ret: ret}
}

// Binding is one name bound by a let.
type Binding struct {
	Name form.Symbol
	Init Node
}

// Let binds names sequentially and evaluates Body with them in scope.
type Let struct {
	base
	Bindings []Binding
	Body     *Do
}

// NewLet returns a let located at loc.
func NewLet(env *lexenv.Env, loc token.Location, bindings []Binding, body *Do) *Let {
	return &Let{base: base{env, loc}, Bindings: append([]Binding(nil), bindings...), Body: body}
}

// Quote is a form returned as data without evaluation.
type Quote struct {
	base
	Value form.Form
}

// NewQuote returns a quoted value located at loc.
func NewQuote(env *lexenv.Env, loc token.Location, v form.Form) *Quote {
	return &Quote{base: base{env, loc}, Value: v}
}

// Call applies Fn to Args.
type Call struct {
	base
	Fn   Node
	Args []Node
}

// NewCall returns a call located at loc.
func NewCall(env *lexenv.Env, loc token.Location, fn Node, args []Node) *Call {
	return &Call{base: base{env, loc}, Fn: fn, Args: append([]Node(nil), args...)}
}

// Vector is a bracket list whose elements are evaluated.
type Vector struct {
	base
	Elems []Node
}

// NewVector returns a vector located at loc.
func NewVector(env *lexenv.Env, loc token.Location, elems []Node) *Vector {
	return &Vector{base: base{env, loc}, Elems: append([]Node(nil), elems...)}
}

// Entry is one key and value of a map literal.
type Entry struct {
	Key   Node
	Value Node
}

// MapLiteral is a map whose keys and values are evaluated.
type MapLiteral struct {
	base
	Entries []Entry
}

// NewMapLiteral returns a map literal located at loc.
func NewMapLiteral(env *lexenv.Env, loc token.Location, entries []Entry) *MapLiteral {
	return &MapLiteral{base: base{env, loc}, Entries: append([]Entry(nil), entries...)}
}

// Ns switches the namespace of the forms that follow it.
type Ns struct {
	base
	Name form.Symbol
}

// NewNs returns a namespace declaration located at loc.
func NewNs(env *lexenv.Env, loc token.Location, name form.Symbol) *Ns {
	return &Ns{base: base{env, loc}, Name: name}
}

// Namespace returns the namespace named by the declaration.
func (n *Ns) Namespace() string {
	return n.Name.FullName()
}
