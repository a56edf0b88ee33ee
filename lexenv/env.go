// Copyright © 2024 The ELPS authors

// Package lexenv implements the lexical environment consulted while
// analyzing forms.
//
// An Env records the current namespace, the set of local names in scope and
// the context in which the form being analyzed appears.  Env values are
// immutable.  Each With method returns a new Env that shares the bindings of
// its receiver, so an Env may be read from any number of goroutines and a
// child environment never changes the parent it was derived from.
package lexenv

import (
	"github.com/luthersystems/lispc/parser/token"
)

// Context describes how the value of a form is consumed by its parent.
type Context uint8

const (
	// Statement is a form whose value is discarded.
	Statement Context = iota
	// Expression is a form whose value is used.
	Expression
	// Return is a form in tail position whose value is returned.
	Return
)

func (c Context) String() string {
	switch c {
	case Statement:
		return "statement"
	case Expression:
		return "expression"
	case Return:
		return "return"
	default:
		return "unknown"
	}
}

// Local is a name bound in an Env.
type Local struct {
	Name string
	// Source is the location of the binding form.  It is the zero Location
	// for names bound with WithLocals.
	Source token.Location
}

type binding struct {
	local Local
	next  *binding
}

// Env is a lexical environment.  The zero Env is an empty environment in
// the unnamed namespace with Statement context, and a nil *Env behaves the
// same.
type Env struct {
	ns     string
	ctx    Context
	locals *binding
}

// New returns an empty environment for namespace ns in Statement context.
func New(ns string) *Env {
	return &Env{ns: ns}
}

// Namespace returns the namespace forms are analyzed in.
func (e *Env) Namespace() string {
	if e == nil {
		return ""
	}
	return e.ns
}

// Context returns the context of the form being analyzed.
func (e *Env) Context() Context {
	if e == nil {
		return Statement
	}
	return e.ctx
}

func (e *Env) clone() *Env {
	if e == nil {
		return &Env{}
	}
	cp := *e
	return &cp
}

// WithNamespace returns a copy of e in namespace ns.
func (e *Env) WithNamespace(ns string) *Env {
	cp := e.clone()
	cp.ns = ns
	return cp
}

// WithContext returns a copy of e with context ctx.
func (e *Env) WithContext(ctx Context) *Env {
	if e != nil && e.ctx == ctx {
		return e
	}
	cp := e.clone()
	cp.ctx = ctx
	return cp
}

// WithLocals returns a copy of e with names bound.  Later names shadow
// earlier ones.
func (e *Env) WithLocals(names ...string) *Env {
	if len(names) == 0 {
		return e
	}
	cp := e.clone()
	for _, name := range names {
		cp.locals = &binding{local: Local{Name: name}, next: cp.locals}
	}
	return cp
}

// WithLocal returns a copy of e with name bound by the form at loc.
func (e *Env) WithLocal(name string, loc token.Location) *Env {
	cp := e.clone()
	cp.locals = &binding{local: Local{Name: name, Source: loc}, next: cp.locals}
	return cp
}

// IsBound reports whether name is a local in e.
func (e *Env) IsBound(name string) bool {
	_, ok := e.Lookup(name)
	return ok
}

// Lookup returns the innermost binding of name.
func (e *Env) Lookup(name string) (Local, bool) {
	if e == nil {
		return Local{}, false
	}
	for b := e.locals; b != nil; b = b.next {
		if b.local.Name == name {
			return b.local, true
		}
	}
	return Local{}, false
}

// Locals returns the names bound in e, innermost first.  A shadowed name is
// listed once.
func (e *Env) Locals() []string {
	if e == nil {
		return nil
	}
	var names []string
	seen := make(map[string]bool)
	for b := e.locals; b != nil; b = b.next {
		if seen[b.local.Name] {
			continue
		}
		seen[b.local.Name] = true
		names = append(names, b.local.Name)
	}
	return names
}
