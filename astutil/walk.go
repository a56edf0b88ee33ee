// Copyright © 2024 The ELPS authors

// Package astutil provides shared walking utilities for analyzed nodes and
// the forms they were read from.
//
// These helpers are used by the lint package and the command line tools.
package astutil

import (
	"github.com/luthersystems/lispc/ast"
	"github.com/luthersystems/lispc/form"
)

// Walk calls fn for every node in the trees, depth-first in evaluation
// order.  parent is nil for top-level nodes.
func Walk(nodes []ast.Node, fn func(node ast.Node, parent ast.Node, depth int)) {
	for _, n := range nodes {
		walkNode(n, nil, 0, fn)
	}
}

func walkNode(node ast.Node, parent ast.Node, depth int, fn func(ast.Node, ast.Node, int)) {
	if node == nil {
		return
	}
	fn(node, parent, depth)
	for _, child := range Children(node) {
		walkNode(child, node, depth+1, fn)
	}
}

// Children returns the direct sub-nodes of n in evaluation order.  Optional
// sub-nodes that are absent are omitted.
func Children(n ast.Node) []ast.Node {
	var kids []ast.Node
	add := func(ns ...ast.Node) {
		for _, c := range ns {
			if c != nil {
				kids = append(kids, c)
			}
		}
	}
	switch n := n.(type) {
	case *ast.Def:
		add(n.Init)
	case *ast.Fn:
		add(n.Body)
	case *ast.If:
		add(n.Test, n.Then, n.Else)
	case *ast.Do:
		add(n.Stmts...)
		add(n.Ret)
	case *ast.Let:
		for _, b := range n.Bindings {
			add(b.Init)
		}
		add(n.Body)
	case *ast.Call:
		add(n.Fn)
		add(n.Args...)
	case *ast.Vector:
		add(n.Elems...)
	case *ast.MapLiteral:
		for _, e := range n.Entries {
			add(e.Key, e.Value)
		}
	}
	return kids
}

// Bindings returns the local names introduced by n, in binding order.  Only
// function and let nodes bind names.
func Bindings(n ast.Node) []form.Symbol {
	switch n := n.(type) {
	case *ast.Fn:
		return append([]form.Symbol(nil), n.Params...)
	case *ast.Let:
		names := make([]form.Symbol, len(n.Bindings))
		for i, b := range n.Bindings {
			names[i] = b.Name
		}
		return names
	}
	return nil
}

// Defined returns the names defined by the top-level def and defstruct
// nodes in nodes.
func Defined(nodes []ast.Node) map[string]bool {
	defs := make(map[string]bool)
	for _, n := range nodes {
		switch n := n.(type) {
		case *ast.Def:
			defs[n.Name.Name] = true
		case *ast.DefStruct:
			defs[n.Name.Name] = true
		}
	}
	return defs
}

// CallHead returns the symbol called by n when n is a call to a global
// name.
func CallHead(n ast.Node) (form.Symbol, bool) {
	call, ok := n.(*ast.Call)
	if !ok {
		return form.Symbol{}, false
	}
	ref, ok := call.Fn.(*ast.GlobalRef)
	if !ok {
		return form.Symbol{}, false
	}
	return ref.Name, true
}

// WalkForms calls fn for every form in the trees, depth-first.  Map keys
// and values are visited in order.  parent is nil for top-level forms.
func WalkForms(forms []form.Form, fn func(f form.Form, parent form.Form, depth int)) {
	for _, f := range forms {
		walkForm(f, nil, 0, fn)
	}
}

func walkForm(f form.Form, parent form.Form, depth int, fn func(form.Form, form.Form, int)) {
	if f == nil {
		return
	}
	fn(f, parent, depth)
	switch f := f.(type) {
	case *form.List:
		for i := 0; i < f.Len(); i++ {
			walkForm(f.At(i), f, depth+1, fn)
		}
	case *form.Map:
		for i := 0; i < f.Len(); i++ {
			p := f.At(i)
			walkForm(p.Key, f, depth+1, fn)
			walkForm(p.Value, f, depth+1, fn)
		}
	}
}
