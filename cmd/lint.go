// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/lispc/lint"
	"github.com/spf13/cobra"
)

// LintCommand returns the lint command.  Analyzers added with WithAnalyzers
// run alongside the built-in checks.
func LintCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var (
		lintJSON     bool
		lintChecks   string
		lintListAll  bool
		lintExcludes []string
	)
	cmd := &cobra.Command{
		Use:   "lint [flags] [files...]",
		Short: "Run static analysis checks on lisp source files",
		Long: `Run static analysis checks on lisp source files.

The linter reports likely mistakes, similar to "go vet" for Go.  Each file is
analyzed first; forms that fail analysis are reported by the "analysis" check
and the remaining checks examine the syntax tree of the rest.  The linter does
NOT report style issues; use "lispc fmt" for that.

With no files, reads from stdin.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files)

To suppress a specific diagnostic, add a comment on the same line:
  (def if-x 1) ; nolint:unused-value

To suppress all checks on a line:
  (def if-x 1) ; nolint

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `
Examples:
  lispc lint file.lisp                                   # Lint a single file
  lispc lint --json file.lisp                            # Output diagnostics as JSON
  lispc lint --checks=shadowed-local file.lisp           # Run only specific checks
  lispc lint --list                                      # List available checks
  lispc lint --exclude='build' --exclude='vendor' ./...  # Exclude directories
  cat file.lisp | lispc lint                             # Lint from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			analyzers := append(lint.DefaultAnalyzers(), cfg.analyzers...)
			if lintListAll {
				for _, a := range analyzers {
					fmt.Fprintln(stdout, a.Name)
				}
				return nil
			}
			analyzers, err := selectAnalyzers(analyzers, lintChecks)
			if err != nil {
				return err
			}

			logger := cfg.newLogger()
			defer logger.Sync() //nolint:errcheck
			l := &lint.Linter{
				Analyzers: analyzers,
				Compiler:  cfg.newCompiler(logger),
			}

			var diags []lint.Diagnostic
			if len(args) == 0 {
				src, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				diags, err = l.LintFile(src, "<stdin>")
				if err != nil {
					return err
				}
			} else {
				paths, err := expandArgs(args, lintExcludes)
				if err != nil {
					return err
				}
				for _, path := range paths {
					ds, err := lintFile(l, path)
					if err != nil {
						return err
					}
					diags = append(diags, ds...)
				}
			}

			if len(diags) == 0 {
				return nil
			}
			if lintJSON {
				if err := lint.FormatJSON(stdout, diags); err != nil {
					return err
				}
			} else if err := renderLintDiagnostics(cmd.ErrOrStderr(), diags); err != nil {
				return err
			}
			return &ExitError{Code: 1}
		},
	}

	cmd.Flags().BoolVar(&lintJSON, "json", false,
		"Output diagnostics as JSON.")
	cmd.Flags().StringVar(&lintChecks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	cmd.Flags().BoolVar(&lintListAll, "list", false,
		"List available checks and exit.")
	cmd.Flags().StringArrayVar(&lintExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}

// selectAnalyzers returns the analyzers named in the comma separated list
// checks, or all of them when checks is empty.
func selectAnalyzers(analyzers []*lint.Analyzer, checks string) ([]*lint.Analyzer, error) {
	if checks == "" {
		return analyzers, nil
	}
	selected := make(map[string]bool)
	for _, name := range strings.Split(checks, ",") {
		selected[strings.TrimSpace(name)] = true
	}
	var filtered []*lint.Analyzer
	for _, a := range analyzers {
		if selected[a.Name] {
			filtered = append(filtered, a)
			delete(selected, a.Name)
		}
	}
	for name := range selected {
		return nil, fmt.Errorf("unknown check: %s", name)
	}
	return filtered, nil
}

func lintFile(l *lint.Linter, path string) ([]lint.Diagnostic, error) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l.LintFile(src, path)
}
