// Copyright © 2024 The ELPS authors

package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/luthersystems/lispc/ast"
	"github.com/luthersystems/lispc/astutil"
	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/lexenv"
	"github.com/luthersystems/lispc/printer"
)

// AnalyzerNsToplevel warns when `ns` is used inside nested expressions
// where it has no effect on the forms that follow.
var AnalyzerNsToplevel = &Analyzer{
	Name:     "ns-toplevel",
	Doc:      "Warn when `ns` is used inside nested expressions.\n\n`ns` only switches the namespace when it appears at the top level of a file. Inside a `fn`, `let`, or `do` it is analyzed but changes nothing.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		astutil.Walk(pass.Unit.Nodes, func(n, parent ast.Node, depth int) {
			if _, ok := n.(*ast.Ns); ok && depth > 0 {
				pass.Reportf(n.Loc(), "ns should only be used at the top level")
			}
		})
		return nil
	},
}

// AnalyzerIfMissingElse notes an `if` without an else branch whose value is
// used.
var AnalyzerIfMissingElse = &Analyzer{
	Name:     "if-missing-else",
	Doc:      "Note an `if` without an else branch whose value is used.\n\nWhen the test is false such an `if` evaluates to nil. In statement position the missing branch is harmless and is not reported.",
	Severity: SeverityInfo,
	Run: func(pass *Pass) error {
		astutil.Walk(pass.Unit.Nodes, func(n, parent ast.Node, depth int) {
			node, ok := n.(*ast.If)
			if !ok || node.Else != nil {
				return
			}
			if node.Env().Context() == lexenv.Statement {
				return
			}
			pass.ReportWithNotes(Diagnostic{
				Pos:     PositionOf(node.Loc()),
				Message: fmt.Sprintf("if without else used in %s context", node.Env().Context()),
			}, "the value is nil when the test is false; add an explicit else branch")
		})
		return nil
	},
}

// typoMinLen is the shortest special form name checked for typos.  Shorter
// names are too close to ordinary identifiers.
const typoMinLen = 5

// typoMaxDistance is the largest edit distance reported as a typo.
const typoMaxDistance = 2

// AnalyzerSpecialFormTypo warns about calls to undefined global names that
// are a small edit away from a special form.
var AnalyzerSpecialFormTypo = &Analyzer{
	Name:     "special-form-typo",
	Doc:      "Warn about calls that look like a misspelled special form.\n\nA call such as `(defstrcut Point x y)` analyzes as an ordinary call to an unknown function. Names defined in the same file are never reported.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		defined := astutil.Defined(pass.Unit.Nodes)
		astutil.Walk(pass.Unit.Nodes, func(n, parent ast.Node, depth int) {
			head, ok := astutil.CallHead(n)
			if !ok || head.IsQualified() || defined[head.Name] {
				return
			}
			if match := closestSpecialForm(head.Name, pass.SpecialForms); match != "" {
				pass.ReportWithNotes(Diagnostic{
					Pos:     PositionOf(head.Loc()),
					Message: fmt.Sprintf("call to %s looks like a misspelling of special form %s", head.Name, match),
				}, fmt.Sprintf("did you mean (%s ...)?", match))
			}
		})
		return nil
	},
}

// closestSpecialForm returns the special form nearest to name, or the empty
// string when none is close enough.
func closestSpecialForm(name string, special []string) string {
	best, bestDist := "", typoMaxDistance+1
	for _, sf := range special {
		if len(sf) < typoMinLen || sf == name {
			continue
		}
		if d := levenshtein.ComputeDistance(name, sf); d < bestDist {
			best, bestDist = sf, d
		}
	}
	return best
}

// AnalyzerDuplicateDefinition warns when a top-level def or defstruct
// redefines a name already defined in the same namespace.
var AnalyzerDuplicateDefinition = &Analyzer{
	Name:     "duplicate-definition",
	Doc:      "Warn when a name is defined twice in the same namespace.\n\nBoth `def` and `defstruct` define a global name. The later definition silently replaces the earlier one.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		first := make(map[string]ast.Node)
		for _, n := range pass.Unit.Nodes {
			var ns string
			var name form.Symbol
			switch n := n.(type) {
			case *ast.Def:
				ns, name = n.Namespace, n.Name
			case *ast.DefStruct:
				ns, name = n.Namespace, n.Name
			default:
				continue
			}
			key := ns + "/" + name.Name
			prev, ok := first[key]
			if !ok {
				first[key] = n
				continue
			}
			pass.ReportWithNotes(Diagnostic{
				Pos:     PositionOf(n.Loc()),
				Message: fmt.Sprintf("%s redefines %s in namespace %s", kindOf(n), name.Name, ns),
			}, fmt.Sprintf("previous %s at %s", kindOf(prev), PositionOf(prev.Loc())))
		}
		return nil
	},
}

func kindOf(n ast.Node) string {
	if _, ok := n.(*ast.DefStruct); ok {
		return "defstruct"
	}
	return "def"
}

// AnalyzerShadowedLocal warns when a function parameter or let binding
// hides a local bound by an enclosing form.
var AnalyzerShadowedLocal = &Analyzer{
	Name:     "shadowed-local",
	Doc:      "Warn when a parameter or let binding shadows an enclosing local.\n\nShadowing is legal but makes the outer binding unreachable in the body. Rebinding a name earlier in the same let is reported too.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		astutil.Walk(pass.Unit.Nodes, func(n, parent ast.Node, depth int) {
			env := n.Env()
			seen := make(map[string]bool)
			for _, name := range astutil.Bindings(n) {
				switch {
				case seen[name.Name]:
					pass.Reportf(name.Loc(), "%s rebinds a name bound earlier in the same let", name.Name)
				case env.IsBound(name.Name):
					outer, _ := env.Lookup(name.Name)
					pass.ReportWithNotes(Diagnostic{
						Pos:     PositionOf(name.Loc()),
						Message: fmt.Sprintf("%s shadows an enclosing local", name.Name),
					}, fmt.Sprintf("%s is bound at %s", name.Name, PositionOf(outer.Source)))
				}
				seen[name.Name] = true
			}
		})
		return nil
	},
}

// AnalyzerSpecialFormBinding reports locals named after a special form.
var AnalyzerSpecialFormBinding = &Analyzer{
	Name:     "special-form-binding",
	Doc:      "Report locals named after a special form.\n\nSpecial forms cannot be shadowed, so a local named `if` or `quote` can be referenced as a value but never called.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		special := make(map[string]bool, len(pass.SpecialForms))
		for _, sf := range pass.SpecialForms {
			special[sf] = true
		}
		astutil.Walk(pass.Unit.Nodes, func(n, parent ast.Node, depth int) {
			for _, name := range astutil.Bindings(n) {
				if special[name.Name] {
					pass.Reportf(name.Loc(), "local %s is named after a special form and cannot be called", name.Name)
				}
			}
		})
		return nil
	},
}

// AnalyzerUnusedValue warns about side-effect free expressions in statement
// position inside a body.
var AnalyzerUnusedValue = &Analyzer{
	Name:     "unused-value",
	Doc:      "Warn about expressions whose value is discarded.\n\nLiterals, references, quoted forms, and function expressions have no effect unless their value is used. Only non-final forms of a body are checked.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		astutil.Walk(pass.Unit.Nodes, func(n, parent ast.Node, depth int) {
			body, ok := n.(*ast.Do)
			if !ok {
				return
			}
			for _, stmt := range body.Stmts {
				if what := pureKind(stmt); what != "" {
					pass.Reportf(stmt.Loc(), "value of %s is not used", what)
				}
			}
		})
		return nil
	},
}

func pureKind(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Literal:
		return "literal " + abbrev(n.Value)
	case *ast.LocalRef:
		return "local " + n.Name.Name
	case *ast.GlobalRef:
		return "global " + n.Name.FullName()
	case *ast.Quote:
		return "quoted form"
	case *ast.Fn:
		return "fn expression"
	case *ast.Vector:
		return "vector"
	case *ast.MapLiteral:
		return "map"
	}
	return ""
}

func abbrev(f form.Form) string {
	s := printer.Print(f)
	if r := []rune(s); len(r) > 20 {
		return string(r[:20]) + "..."
	}
	return s
}

// AnalyzerNames returns a sorted list of all default analyzer names.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns a formatted documentation string for all analyzers.
func AnalyzerDoc() string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %s\n", a.Name)
		lines := strings.Split(a.Doc, "\n")
		fmt.Fprintf(&b, "    %s\n\n", lines[0])
	}
	return b.String()
}
