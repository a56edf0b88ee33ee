// Copyright © 2024 The ELPS authors

// Package analysis turns forms into AST nodes.
//
// Analyze classifies a form and builds the matching node from package ast,
// validating the shape of special forms and threading a lexical environment
// through the recursion.  Every node is stamped with the environment it was
// analyzed in and the location of its form.
//
// Analysis fails on the first malformed sub-form and returns no node in that
// case.  Whether to continue with the sibling forms of a failed top-level
// form is up to the caller; see package compiler.
package analysis

import (
	"github.com/luthersystems/lispc/ast"
	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/lexenv"
)

var std = New()

// Analyze analyzes f in env using the default special forms.  A nil env is
// an empty environment.
func Analyze(f form.Form, env *lexenv.Env) (ast.Node, error) {
	return std.Analyze(f, env)
}

// IsSpecialForm reports whether name is one of the default special forms.
func IsSpecialForm(name string) bool {
	_, ok := std.Special[name]
	return ok
}
