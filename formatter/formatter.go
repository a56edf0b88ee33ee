// Copyright © 2024 The ELPS authors

// Package formatter lays out forms as indented source text.
//
// Lists that fit in the configured width are printed on one line.  Longer
// lists are broken according to the indent rule of their head symbol.
// Comments, single blank lines, the spelling of literals and 'x shorthand
// are carried over from the source through the reader's Layout.  A list
// holding a comment is always broken.
//
// While printing, the formatter records a source map entry for every form
// that carries a source location, so positions in the output can be traced
// back to the input.
package formatter

import (
	"bytes"

	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/parser/rdparser"
	"github.com/luthersystems/lispc/sourcemap"
)

// Format formats source code. If cfg is nil, DefaultConfig() is used.
func Format(source []byte, cfg *Config) ([]byte, error) {
	return FormatFile(source, "<stdin>", cfg)
}

// FormatFile formats source code, using filename for error messages.
func FormatFile(source []byte, filename string, cfg *Config) ([]byte, error) {
	forms, layout, err := rdparser.NewReader().ReadLayout(filename, bytes.NewReader(source))
	if err != nil {
		return nil, err
	}
	out, _, err := FormatForms(forms, layout, filename, cfg)
	return out, err
}

// FormatForms formats forms as the generated file output and returns the
// text along with the source map of its positions.  layout supplies the
// comments and spelling of the forms' source and may be nil.
func FormatForms(forms []form.Form, layout *rdparser.Layout, output string, cfg *Config) ([]byte, *sourcemap.Generator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	gen := sourcemap.NewGenerator(output)
	pr := newPrinter(cfg, layout, gen)
	pr.writeTopLevel(forms)
	if pr.err != nil {
		return nil, nil, pr.err
	}
	return pr.buf.Bytes(), gen, nil
}
