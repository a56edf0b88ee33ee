// Copyright © 2024 The ELPS authors

package analysis

import (
	"github.com/luthersystems/lispc/ast"
	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/lexenv"
)

// DefaultSpecialForms returns a new map of the built-in special forms.
func DefaultSpecialForms() map[string]SpecialFunc {
	return map[string]SpecialFunc{
		"defstruct": analyzeDefStruct,
		"def":       analyzeDef,
		"fn":        analyzeFn,
		"if":        analyzeIf,
		"do":        analyzeDo,
		"let":       analyzeLet,
		"quote":     analyzeQuote,
		"ns":        analyzeNs,
	}
}

// (defstruct Name field...) or (defstruct Name [field...])
func analyzeDefStruct(a *Analyzer, l *form.List, env *lexenv.Env) (ast.Node, error) {
	const shape = "(defstruct name fields...)"
	if l.Len() < 2 {
		return nil, malformed(shape, l, l.Loc())
	}
	name, err := identifier(l.At(1), l)
	if err != nil {
		return nil, err
	}
	fields := l.Elems()[2:]
	if len(fields) == 1 {
		if v, ok := fields[0].(*form.List); ok && v.Bracket() {
			fields = v.Elems()
		}
	}
	params, err := parameters(fields, l)
	if err != nil {
		return nil, err
	}
	return ast.NewDefStruct(env, l.Loc(), env.Namespace(), name, params), nil
}

// (def name) or (def name init)
func analyzeDef(a *Analyzer, l *form.List, env *lexenv.Env) (ast.Node, error) {
	const shape = "(def name [init])"
	if l.Len() < 2 || l.Len() > 3 {
		return nil, malformed(shape, l, l.Loc())
	}
	name, err := identifier(l.At(1), l)
	if err != nil {
		return nil, err
	}
	var init ast.Node
	if l.Len() == 3 {
		init, err = a.Analyze(l.At(2), env.WithContext(lexenv.Expression))
		if err != nil {
			return nil, err
		}
	}
	return ast.NewDef(env, l.Loc(), env.Namespace(), name, init), nil
}

// (fn [param... & rest] body...)
func analyzeFn(a *Analyzer, l *form.List, env *lexenv.Env) (ast.Node, error) {
	const shape = "(fn [params...] body...)"
	if l.Len() < 2 {
		return nil, malformed(shape, l, l.Loc())
	}
	formals, ok := l.At(1).(*form.List)
	if !ok || !formals.Bracket() {
		return nil, malformed("parameter vector", l.At(1), l.Loc())
	}
	elems := formals.Elems()
	variadic := false
	for i, f := range elems {
		if sym, ok := f.(form.Symbol); ok && !sym.IsQualified() && sym.Name == "&" {
			if i != len(elems)-2 {
				return nil, malformed("exactly one parameter after &", formals, l.Loc())
			}
			elems = append(elems[:i], elems[i+1:]...)
			variadic = true
			break
		}
	}
	params, err := parameters(elems, l)
	if err != nil {
		return nil, err
	}
	bodyEnv := env
	for _, p := range params {
		bodyEnv = bodyEnv.WithLocal(p.Name, p.Loc())
	}
	body, err := a.analyzeBody(l.Elems()[2:], bodyEnv.WithContext(lexenv.Return), l)
	if err != nil {
		return nil, err
	}
	return ast.NewFn(env, l.Loc(), params, variadic, body), nil
}

// (if test then [else])
func analyzeIf(a *Analyzer, l *form.List, env *lexenv.Env) (ast.Node, error) {
	const shape = "(if test then [else])"
	if l.Len() < 3 || l.Len() > 4 {
		return nil, malformed(shape, l, l.Loc())
	}
	test, err := a.Analyze(l.At(1), env.WithContext(lexenv.Expression))
	if err != nil {
		return nil, err
	}
	then, err := a.Analyze(l.At(2), env)
	if err != nil {
		return nil, err
	}
	var els ast.Node
	if l.Len() == 4 {
		els, err = a.Analyze(l.At(3), env)
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIf(env, l.Loc(), test, then, els), nil
}

// (do body...)
func analyzeDo(a *Analyzer, l *form.List, env *lexenv.Env) (ast.Node, error) {
	return a.analyzeBody(l.Elems()[1:], env, l)
}

// (let [name init ...] body...)
func analyzeLet(a *Analyzer, l *form.List, env *lexenv.Env) (ast.Node, error) {
	const shape = "(let [name init ...] body...)"
	if l.Len() < 2 {
		return nil, malformed(shape, l, l.Loc())
	}
	bv, ok := l.At(1).(*form.List)
	if !ok || !bv.Bracket() {
		return nil, malformed("binding vector", l.At(1), l.Loc())
	}
	if bv.Len()%2 != 0 {
		return nil, malformed("an even number of forms in binding vector", bv, l.Loc())
	}
	bodyEnv := env
	bindings := make([]ast.Binding, 0, bv.Len()/2)
	for i := 0; i < bv.Len(); i += 2 {
		name, err := identifier(bv.At(i), l)
		if err != nil {
			return nil, err
		}
		init, err := a.Analyze(bv.At(i+1), bodyEnv.WithContext(lexenv.Expression))
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, ast.Binding{Name: name, Init: init})
		bodyEnv = bodyEnv.WithLocal(name.Name, name.Loc())
	}
	body, err := a.analyzeBody(l.Elems()[2:], bodyEnv, l)
	if err != nil {
		return nil, err
	}
	return ast.NewLet(env, l.Loc(), bindings, body), nil
}

// (quote form)
func analyzeQuote(a *Analyzer, l *form.List, env *lexenv.Env) (ast.Node, error) {
	if l.Len() != 2 {
		return nil, malformed("(quote form)", l, l.Loc())
	}
	return ast.NewQuote(env, l.Loc(), l.At(1)), nil
}

// (ns name)
func analyzeNs(a *Analyzer, l *form.List, env *lexenv.Env) (ast.Node, error) {
	if l.Len() != 2 {
		return nil, malformed("(ns name)", l, l.Loc())
	}
	name, ok := l.At(1).(form.Symbol)
	if !ok || !isReference(name) {
		return nil, invalidIdentifier(l.At(1), l.Loc())
	}
	return ast.NewNs(env, l.Loc(), name), nil
}

// analyzeBody analyzes fs as a sequence.  All forms but the last are
// statements and the last form takes the context of env.  An empty body
// evaluates to nil.
func (a *Analyzer) analyzeBody(fs []form.Form, env *lexenv.Env, l *form.List) (*ast.Do, error) {
	if len(fs) == 0 {
		ret := ast.NewLiteral(env, form.NewNil(l.Loc()))
		return ast.NewDo(env, l.Loc(), nil, ret), nil
	}
	stmtEnv := env.WithContext(lexenv.Statement)
	stmts := make([]ast.Node, 0, len(fs)-1)
	for _, f := range fs[:len(fs)-1] {
		n, err := a.Analyze(f, stmtEnv)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, n)
	}
	ret, err := a.Analyze(fs[len(fs)-1], env)
	if err != nil {
		return nil, err
	}
	return ast.NewDo(env, l.Loc(), stmts, ret), nil
}

// parameters validates a parameter list.  Every parameter must be a plain
// identifier and no name may repeat.
func parameters(fs []form.Form, l *form.List) ([]form.Symbol, error) {
	params := make([]form.Symbol, 0, len(fs))
	seen := make(map[string]bool, len(fs))
	for _, f := range fs {
		sym, err := identifier(f, l)
		if err != nil {
			return nil, err
		}
		if seen[sym.Name] {
			return nil, &DuplicateParameterError{Name: sym.Name, Source: locOr(sym, l.Loc())}
		}
		seen[sym.Name] = true
		params = append(params, sym)
	}
	return params, nil
}
