// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"

	"github.com/luthersystems/lispc/diagnostic"
	"github.com/luthersystems/lispc/lint"
	"github.com/spf13/viper"
)

// noteWidth is the column at which rendered notes wrap.
const noteWidth = 100

func colorMode() diagnostic.ColorMode {
	return diagnostic.ParseColorMode(viper.GetString("color"))
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode(), Width: noteWidth}
}

// lintDiagToDiagnostic converts a lint.Diagnostic to a diagnostic.Diagnostic.
func lintDiagToDiagnostic(ld lint.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Message:  ld.Message + " (" + ld.Analyzer + ")",
	}
	switch ld.Severity {
	case lint.SeverityError:
		d.Severity = diagnostic.SeverityError
	case lint.SeverityInfo:
		d.Severity = diagnostic.SeverityNote
	}
	if ld.Pos.Line > 0 {
		d.Spans = append(d.Spans, diagnostic.Span{
			File: ld.Pos.File,
			Line: ld.Pos.Line,
			Col:  ld.Pos.Col,
		})
	}
	d.Notes = append(d.Notes, ld.Notes...)
	if ld.Analyzer != lint.UnusedNolintName {
		d.Notes = append(d.Notes, "to suppress: add \"; nolint:"+ld.Analyzer+"\" as a comment on this line")
	}
	return d
}

// renderLintDiagnostics renders lint diagnostics with diagnostic formatting.
func renderLintDiagnostics(w io.Writer, diags []lint.Diagnostic) error {
	ds := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, ld := range diags {
		ds = append(ds, lintDiagToDiagnostic(ld))
	}
	return newRenderer().RenderAll(w, ds)
}

// renderErrors renders each error combined in err.
func renderErrors(w io.Writer, err error) error {
	return newRenderer().RenderAll(w, diagnostic.FromErrors(err))
}
