// Copyright © 2024 The ELPS authors

// Package diagnostic provides Rust-style annotated error rendering for
// lispc command output.  It depends only on source locations so that any
// command can render errors from the reader, the analyzer or the linter.
package diagnostic

import (
	"errors"

	"github.com/luthersystems/lispc/parser/token"
	"go.uber.org/multierr"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// SpanOf returns the span of a source location.  The physical path of the
// location is preferred so that the source line can be read.
func SpanOf(loc token.Location) Span {
	file := loc.File
	if loc.Path != "" {
		file = loc.Path
	}
	return Span{File: file, Line: loc.Line, Col: loc.Col}
}

// Diagnostic represents a single error, warning, or note with optional
// source annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string // "= note:" lines
}

// locator is implemented by errors anchored to a source location.
type locator interface {
	Location() token.Location
}

// FromError converts err to an error diagnostic.  Errors carrying a source
// location, such as reader and analysis errors, get a span.  A
// token.LocationError contributes only its inner message since the location
// is rendered separately.
func FromError(err error) Diagnostic {
	d := Diagnostic{Severity: SeverityError, Message: err.Error()}
	var lerr *token.LocationError
	if errors.As(err, &lerr) {
		d.Message = lerr.Err.Error()
	}
	var loc locator
	if errors.As(err, &loc) {
		if l := loc.Location(); l.IsValid() {
			d.Spans = append(d.Spans, SpanOf(l))
		}
	}
	return d
}

// FromErrors converts each error combined in err to a diagnostic.
func FromErrors(err error) []Diagnostic {
	var ds []Diagnostic
	for _, e := range multierr.Errors(err) {
		ds = append(ds, FromError(e))
	}
	return ds
}
