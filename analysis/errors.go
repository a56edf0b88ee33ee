// Copyright © 2024 The ELPS authors

package analysis

import (
	"fmt"

	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/parser/token"
	"github.com/luthersystems/lispc/printer"
)

// maxGotLen bounds the text of an offending form quoted in an error message.
const maxGotLen = 40

// MalformedFormError is returned when a special form does not have the
// expected shape.
type MalformedFormError struct {
	// Expected describes the expected shape, e.g. "(if test then [else])".
	Expected string
	// Got is the form that did not match.
	Got    form.Form
	Source token.Location
}

func (e *MalformedFormError) Error() string {
	return fmt.Sprintf("malformed form: expected %s, got %s %s", e.Expected, form.Describe(e.Got), abbrev(e.Got))
}

// Location returns the location of the offending form.
func (e *MalformedFormError) Location() token.Location {
	return e.Source
}

// InvalidIdentifierError is returned when a form that must be a plain
// identifier is not one.
type InvalidIdentifierError struct {
	Form   form.Form
	Source token.Location
}

func (e *InvalidIdentifierError) Error() string {
	if _, ok := e.Form.(form.Symbol); ok {
		return fmt.Sprintf("invalid identifier: %s", abbrev(e.Form))
	}
	return fmt.Sprintf("invalid identifier: expected symbol, got %s %s", form.Describe(e.Form), abbrev(e.Form))
}

// Location returns the location of the offending form.
func (e *InvalidIdentifierError) Location() token.Location {
	return e.Source
}

// DuplicateParameterError is returned when a parameter list names the same
// parameter more than once.
type DuplicateParameterError struct {
	Name string
	// Source is the location of the repeated parameter.
	Source token.Location
}

func (e *DuplicateParameterError) Error() string {
	return fmt.Sprintf("duplicate parameter: %s", e.Name)
}

// Location returns the location of the repeated parameter.
func (e *DuplicateParameterError) Location() token.Location {
	return e.Source
}

func abbrev(f form.Form) string {
	s := []rune(printer.Print(f))
	if len(s) > maxGotLen {
		return string(s[:maxGotLen-3]) + "..."
	}
	return string(s)
}

func malformed(expected string, got form.Form, fallback token.Location) error {
	return &MalformedFormError{Expected: expected, Got: got, Source: locOr(got, fallback)}
}

func invalidIdentifier(f form.Form, fallback token.Location) error {
	return &InvalidIdentifierError{Form: f, Source: locOr(f, fallback)}
}

// locOr returns the location of f, or fallback if f has none.
func locOr(f form.Form, fallback token.Location) token.Location {
	if f != nil && f.Loc().IsValid() {
		return f.Loc()
	}
	return fallback
}
