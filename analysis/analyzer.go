// Copyright © 2024 The ELPS authors

package analysis

import (
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/luthersystems/lispc/ast"
	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/lexenv"
)

// SpecialFunc analyzes a list whose head names a special form.  The list is
// passed whole, head included.
type SpecialFunc func(a *Analyzer, l *form.List, env *lexenv.Env) (ast.Node, error)

// Analyzer dispatches forms to node constructors.  An Analyzer holds no
// per-call state and may be used from multiple goroutines as long as Special
// is not modified concurrently.
type Analyzer struct {
	// Special maps the head symbol of a list to the function analyzing it.
	// Lists with any other head are calls.
	Special map[string]SpecialFunc
}

// New returns an Analyzer for the default special forms.
func New() *Analyzer {
	return &Analyzer{Special: DefaultSpecialForms()}
}

// SpecialForms returns the sorted names of a's special forms.
func (a *Analyzer) SpecialForms() []string {
	names := make([]string, 0, len(a.Special))
	for name := range a.Special {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Analyze returns the node for f in env.  On error the returned node is nil.
func (a *Analyzer) Analyze(f form.Form, env *lexenv.Env) (ast.Node, error) {
	switch f := f.(type) {
	case nil:
		return nil, &MalformedFormError{Expected: "a form"}
	case form.Nil, form.Bool, form.Int, form.Float, form.String, form.Keyword:
		return ast.NewLiteral(env, f), nil
	case form.Symbol:
		return a.analyzeSymbol(f, env)
	case *form.List:
		if f.Bracket() {
			return a.analyzeVector(f, env)
		}
		if f.Len() == 0 {
			return ast.NewLiteral(env, f), nil
		}
		if fn, ok := a.Special[f.HeadSymbol()]; ok {
			return fn(a, f, env)
		}
		return a.analyzeCall(f, env)
	case *form.Map:
		return a.analyzeMap(f, env)
	default:
		return nil, fmt.Errorf("analysis: unknown form type %T", f)
	}
}

func (a *Analyzer) analyzeSymbol(sym form.Symbol, env *lexenv.Env) (ast.Node, error) {
	if !isReference(sym) {
		return nil, invalidIdentifier(sym, sym.Loc())
	}
	if !sym.IsQualified() && env.IsBound(sym.Name) {
		return ast.NewLocalRef(env, sym), nil
	}
	return ast.NewGlobalRef(env, sym), nil
}

func (a *Analyzer) analyzeCall(l *form.List, env *lexenv.Env) (ast.Node, error) {
	exprs, err := a.analyzeAll(l.Elems(), env.WithContext(lexenv.Expression))
	if err != nil {
		return nil, err
	}
	return ast.NewCall(env, l.Loc(), exprs[0], exprs[1:]), nil
}

func (a *Analyzer) analyzeVector(l *form.List, env *lexenv.Env) (ast.Node, error) {
	elems, err := a.analyzeAll(l.Elems(), env.WithContext(lexenv.Expression))
	if err != nil {
		return nil, err
	}
	return ast.NewVector(env, l.Loc(), elems), nil
}

func (a *Analyzer) analyzeMap(m *form.Map, env *lexenv.Env) (ast.Node, error) {
	exprEnv := env.WithContext(lexenv.Expression)
	entries := make([]ast.Entry, 0, m.Len())
	for i := 0; i < m.Len(); i++ {
		p := m.At(i)
		k, err := a.Analyze(p.Key, exprEnv)
		if err != nil {
			return nil, err
		}
		v, err := a.Analyze(p.Value, exprEnv)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.Entry{Key: k, Value: v})
	}
	return ast.NewMapLiteral(env, m.Loc(), entries), nil
}

// analyzeAll analyzes every form in fs with the same environment.
func (a *Analyzer) analyzeAll(fs []form.Form, env *lexenv.Env) ([]ast.Node, error) {
	nodes := make([]ast.Node, len(fs))
	for i, f := range fs {
		n, err := a.Analyze(f, env)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

// identifier returns f as a symbol that may be bound as a name.
func identifier(f form.Form, fallback *form.List) (form.Symbol, error) {
	sym, ok := f.(form.Symbol)
	if !ok || sym.IsQualified() || !isReference(sym) {
		return form.Symbol{}, invalidIdentifier(f, fallback.Loc())
	}
	if r, _ := utf8.DecodeRuneInString(sym.Name); r == '&' {
		return form.Symbol{}, invalidIdentifier(f, fallback.Loc())
	}
	return sym, nil
}

// isReference reports whether sym is syntactically valid where a value is
// expected.
func isReference(sym form.Symbol) bool {
	if sym.Name == "" || sym.Name == "&" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(sym.Name)
	return r != utf8.RuneError && !unicode.IsDigit(r)
}
