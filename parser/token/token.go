// Copyright © 2018 The ELPS authors

package token

import (
	"fmt"
	"strings"
)

// Token is a piece of source text classified by the lexer.
type Token struct {
	Type   Type
	Text   string
	Source Location
}

// EndLine returns the line holding the last character of tok.
func (tok *Token) EndLine() int {
	return tok.Source.Line + strings.Count(tok.Text, "\n")
}

type Type uint

// Type constants used by the lexer and reader.
const (
	INVALID Type = iota
	ERROR
	EOF

	HASH_BANG

	// Atomic expressions & literals
	SYMBOL
	KEYWORD
	INT
	INT_OCTAL_MACRO
	INT_OCTAL
	INT_HEX_MACRO
	INT_HEX
	FLOAT
	STRING
	STRING_RAW

	COMMENT

	// Operators
	NEGATIVE // arithmetic negation is parsed specially
	QUOTE

	// Delimiters
	PAREN_L
	PAREN_R
	BRACE_L
	BRACE_R
	CURLY_L
	CURLY_R

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:         "invalid",
		ERROR:           "error",
		EOF:             "EOF",
		HASH_BANG:       "#!",
		SYMBOL:          "symbol",
		KEYWORD:         "keyword",
		INT:             "int",
		INT_OCTAL_MACRO: "#o",
		INT_OCTAL:       "octal",
		INT_HEX_MACRO:   "#x",
		INT_HEX:         "hex",
		FLOAT:           "float",
		STRING:          "string",
		STRING_RAW:      "raw-string",
		COMMENT:         ";",
		NEGATIVE:        "-",
		QUOTE:           "'",
		PAREN_L:         "(",
		PAREN_R:         ")",
		BRACE_L:         "[",
		BRACE_R:         "]",
		CURLY_L:         "{",
		CURLY_R:         "}",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Location is a position in a source stream.  Locations are small values and
// are copied rather than shared; the zero Location means "no position".
type Location struct {
	File string // a name representing the source stream
	Path string // a physical location which may differ from File
	Pos  int    // byte offset of the first byte
	Line int    // line number (starting at 1 when tracked)
	Col  int    // line column number (starting at 1 when tracked)
}

// At returns a Location for a bare line and column pair.
func At(line, col int) Location {
	return Location{Line: line, Col: col}
}

// IsValid reports whether loc refers to an actual line of source.
func (loc Location) IsValid() bool {
	return loc.Line > 0
}

func (loc Location) String() string {
	file := loc.File
	if file == "" {
		file = "<unknown>"
	}
	switch {
	case loc.Pos < 0:
		return file
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", file, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", file, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", file, loc.Line, loc.Col)
	}
}

type LocationError struct {
	Err    error
	Source Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}

// Location implements the interface used by the diagnostic layer to anchor
// an error in source.
func (err *LocationError) Location() Location {
	return err.Source
}
