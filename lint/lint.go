// Copyright © 2024 The ELPS authors

// Package lint provides static analysis for lisp source files.
//
// The linter is modeled after go vet: each check is an independent Analyzer
// that receives an analyzed compilation unit and reports diagnostics. The
// framework handles reading, analysis, running analyzers, collecting results,
// and formatting output.
//
// Forms that fail semantic analysis are reported as diagnostics from the
// "analysis" pseudo-analyzer and are not seen by the checks.
package lint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/luthersystems/lispc/compiler"
	"github.com/luthersystems/lispc/parser/lexer"
	"github.com/luthersystems/lispc/parser/token"
)

// Names of the diagnostics produced by the framework itself.
const (
	AnalysisName     = "analysis"
	UnusedNolintName = "unused-nolint"
)

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "shadowed-local").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the default severity for diagnostics from this analyzer.
	Severity Severity

	// Run executes the check. It should call pass.Report() for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Filename is the source file being analyzed.
	Filename string

	// Unit holds the forms read from the file and the nodes of the forms
	// that analyzed cleanly.
	Unit *compiler.Unit

	// SpecialForms lists the special form names known to the compiler.
	SpecialForms []string

	// diagnostics collects reported findings.
	diagnostics []Diagnostic
}

// Report records a diagnostic finding.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	p.diagnostics = append(p.diagnostics, d)
}

// ReportWithNotes records a diagnostic with additional hint text.
func (p *Pass) ReportWithNotes(d Diagnostic, notes ...string) {
	d.Notes = append(d.Notes, notes...)
	p.Report(d)
}

// Reportf is a convenience for reporting a diagnostic at a location.
func (p *Pass) Reportf(loc token.Location, format string, args ...interface{}) {
	p.Report(Diagnostic{
		Pos:     PositionOf(loc),
		Message: fmt.Sprintf(format, args...),
	})
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Pos is the source location of the problem.
	Pos Position `json:"pos"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Analyzer is the name of the check that found this problem.
	Analyzer string `json:"analyzer"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`

	// Notes are optional hint text lines for the user.
	Notes []string `json:"notes,omitempty"`
}

// Position identifies a location in source code.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

// PositionOf converts a reader location to a Position.  An invalid location
// yields a position with only the file set.
func PositionOf(loc token.Location) Position {
	if !loc.IsValid() {
		return Position{File: loc.File}
	}
	return Position{File: loc.File, Line: loc.Line, Col: loc.Col}
}

// String returns the position in file:line format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in go vet style: file:line: message (analyzer)
// with optional note lines appended.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Analyzer)
	for _, n := range d.Notes {
		s += "\n  = note: " + n
	}
	return s
}

// Linter runs a set of analyzers over source files.
type Linter struct {
	Analyzers []*Analyzer

	// Compiler analyzes the source before the checks run.  When nil a
	// compiler with default options is used.
	Compiler *compiler.Compiler
}

func (l *Linter) compiler() *compiler.Compiler {
	if l.Compiler == nil {
		return compiler.New()
	}
	return l.Compiler
}

// LintFile reads, analyzes, and lints a single source file.  A file that
// cannot be read as forms is an error.
func (l *Linter) LintFile(source []byte, filename string) ([]Diagnostic, error) {
	u, err := l.compiler().AnalyzeSource(filename, bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return l.LintUnit(u, source)
}

// LintUnit lints an analyzed unit.  source is the text u was read from and
// is only scanned for ;nolint comments.
func (l *Linter) LintUnit(u *compiler.Unit, source []byte) ([]Diagnostic, error) {
	filename := u.Name
	all := analysisDiagnostics(u)

	special := l.compiler().Analyzer().SpecialForms()
	for _, analyzer := range l.Analyzers {
		pass := &Pass{
			Analyzer:     analyzer,
			Filename:     filename,
			Unit:         u,
			SpecialForms: special,
		}
		if err := analyzer.Run(pass); err != nil {
			return nil, fmt.Errorf("%s: analyzer %s: %w", filename, analyzer.Name, err)
		}
		all = append(all, pass.diagnostics...)
	}
	for i := range all {
		if all[i].Pos.File == "" {
			all[i].Pos.File = filename
		}
	}

	directives := scanNolint(filename, source)
	all = filterSuppressed(all, directives)
	all = append(all, unusedNolint(filename, directives)...)

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].Pos, all[j].Pos
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
	return all, nil
}

type locator interface {
	Location() token.Location
}

func analysisDiagnostics(u *compiler.Unit) []Diagnostic {
	var diags []Diagnostic
	for _, err := range u.Errors {
		d := Diagnostic{
			Message:  err.Error(),
			Analyzer: AnalysisName,
			Severity: SeverityError,
		}
		var le locator
		if errors.As(err, &le) {
			d.Pos = PositionOf(le.Location())
		}
		diags = append(diags, d)
	}
	return diags
}

// nolint is a ;nolint comment.  A nil names list suppresses every
// diagnostic on the line.
type nolint struct {
	loc   token.Location
	names []string
	used  bool
}

func (n *nolint) suppresses(analyzer string) bool {
	if n.names == nil {
		return true
	}
	for _, name := range n.names {
		if name == analyzer {
			return true
		}
	}
	return false
}

// scanNolint lexes source and returns its ;nolint comments by line.
func scanNolint(filename string, source []byte) map[int]*nolint {
	lines := make(map[int]*nolint)
	lex := lexer.New(token.NewScanner(filename, bytes.NewReader(source)))
	for {
		tok := lex.ReadToken()
		switch tok.Type {
		case token.EOF, token.ERROR, token.INVALID:
			return lines
		case token.COMMENT:
			if n := parseNolint(tok); n != nil {
				lines[tok.Source.Line] = n
			}
		}
	}
}

func parseNolint(tok *token.Token) *nolint {
	text := strings.TrimSpace(strings.TrimLeft(tok.Text, ";"))
	if !strings.HasPrefix(text, "nolint") {
		return nil
	}
	rest := strings.TrimPrefix(text, "nolint")
	if rest == "" {
		return &nolint{loc: tok.Source}
	}
	if !strings.HasPrefix(rest, ":") {
		return nil
	}
	n := &nolint{loc: tok.Source, names: []string{}}
	for _, name := range strings.Split(strings.TrimPrefix(rest, ":"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			n.names = append(n.names, name)
		}
	}
	return n
}

// filterSuppressed removes diagnostics on lines with matching ;nolint
// comments and marks those comments used.
func filterSuppressed(diags []Diagnostic, directives map[int]*nolint) []Diagnostic {
	var filtered []Diagnostic
	for _, d := range diags {
		n, ok := directives[d.Pos.Line]
		if ok && n.suppresses(d.Analyzer) {
			n.used = true
			continue
		}
		filtered = append(filtered, d)
	}
	return filtered
}

func unusedNolint(filename string, directives map[int]*nolint) []Diagnostic {
	var diags []Diagnostic
	for _, n := range directives {
		if n.used || (n.names != nil && n.suppresses(UnusedNolintName)) {
			continue
		}
		pos := PositionOf(n.loc)
		if pos.File == "" {
			pos.File = filename
		}
		diags = append(diags, Diagnostic{
			Pos:      pos,
			Message:  "nolint directive does not suppress any diagnostic",
			Analyzer: UnusedNolintName,
			Severity: SeverityWarning,
			Notes:    []string{"remove the comment or name the check it should suppress"},
		})
	}
	return diags
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerNsToplevel,
		AnalyzerIfMissingElse,
		AnalyzerSpecialFormTypo,
		AnalyzerDuplicateDefinition,
		AnalyzerShadowedLocal,
		AnalyzerSpecialFormBinding,
		AnalyzerUnusedValue,
	}
}
