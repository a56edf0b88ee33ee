// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/formatter"
	"github.com/luthersystems/lispc/parser/rdparser"
	"github.com/luthersystems/lispc/sourcemap"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

type fmtOptions struct {
	write      bool
	diff       bool
	list       bool
	indentSize int
	width      int
	excludes   []string
	output     string
	sourceMap  bool
}

// FmtCommand returns the fmt command.
func FmtCommand() *cobra.Command {
	o := &fmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt [flags] [files...]",
		Short: "Format lisp source files",
		Long: `Format lisp source files, similar to gofmt for Go.

Normalizes whitespace and indentation and lays out forms according to Lisp
conventions.  A form that fits within --width columns is written on one line.
The formatter is idempotent.

With no files, reads from stdin and writes to stdout.
With files, prints formatted output to stdout unless -w or -o is given.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -d          Display a diff of changes
  -l          List files that would be changed
  -o FILE     Write the formatted forms of all inputs to FILE

With -o, --source-map also writes FILE.map, mapping every line of FILE back
to the form it was printed from.  "lispc trace" uses these maps.

Examples:
  lispc fmt file.lisp                  Print formatted output
  lispc fmt -w ./...                   Format a tree in place
  lispc fmt -d file.lisp               Show what would change
  lispc fmt -l *.lisp                  List files needing formatting
  lispc fmt -o out.lisp a.lisp b.lisp  Concatenate and write out.lisp.map
  cat file.lisp | lispc fmt            Format from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := formatter.DefaultConfig()
			cfg.IndentSize = o.indentSize
			cfg.Width = o.width

			if o.sourceMap && o.output == "" {
				return errors.New("--source-map requires -o")
			}
			if len(args) == 0 {
				return fmtStdin(cmd.InOrStdin(), cmd.OutOrStdout(), cfg)
			}
			paths, err := expandArgs(args, o.excludes)
			if err != nil {
				return err
			}
			if o.output != "" {
				return fmtOutput(o, paths, cfg)
			}

			var failed bool
			for _, path := range paths {
				changed, err := fmtFile(cmd.OutOrStdout(), o, path, cfg)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					failed = true
				} else if o.list && changed {
					failed = true
				}
			}
			if failed {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&o.write, "write", "w", false,
		"Write result to (source) file instead of stdout.")
	cmd.Flags().BoolVarP(&o.diff, "diff", "d", false,
		"Display diffs instead of rewriting files.")
	cmd.Flags().BoolVarP(&o.list, "list", "l", false,
		"List files whose formatting differs from lispc fmt's.")
	cmd.Flags().IntVar(&o.indentSize, "indent-size", 2,
		"Number of spaces per indentation level.")
	cmd.Flags().IntVar(&o.width, "width", 80,
		"Column limit for forms written on one line.")
	cmd.Flags().StringArrayVar(&o.excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	cmd.Flags().StringVarP(&o.output, "output", "o", "",
		"Write the formatted forms of all files to this file.")
	cmd.Flags().BoolVar(&o.sourceMap, "source-map", false,
		"With -o, also write a source map next to the output.")
	return cmd
}

func fmtStdin(r io.Reader, w io.Writer, cfg *formatter.Config) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	out, err := formatter.Format(src, cfg)
	if err != nil {
		return fmt.Errorf("<stdin>: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func fmtFile(w io.Writer, o *fmtOptions, path string, cfg *formatter.Config) (bool, error) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	out, err := formatter.FormatFile(src, path, cfg)
	if err != nil {
		return false, err
	}

	changed := !bytes.Equal(src, out)

	if o.list {
		if changed {
			fmt.Fprintln(w, path)
		}
		return changed, nil
	}

	if o.diff {
		if changed {
			return true, printUnifiedDiff(w, path, src, out)
		}
		return false, nil
	}

	if o.write {
		if !changed {
			return false, nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return false, fmt.Errorf("%s: %w", path, err)
		}
		return true, os.WriteFile(path, out, info.Mode().Perm())
	}

	// Default: print to stdout
	_, err = w.Write(out)
	return changed, err
}

// fmtOutput formats the forms of every file in paths into o.output and
// writes its source map when requested.
func fmtOutput(o *fmtOptions, paths []string, cfg *formatter.Config) error {
	reader := rdparser.NewReader()
	layout := rdparser.NewLayout()
	var all []form.Form
	for _, path := range paths {
		f, err := os.Open(path) //nolint:gosec // CLI tool reads user-specified files
		if err != nil {
			return err
		}
		forms, fileLayout, err := reader.ReadLayout(path, f)
		f.Close() //nolint:errcheck
		if err != nil {
			return err
		}
		all = append(all, forms...)
		layout.Merge(fileLayout)
	}
	out, gen, err := formatter.FormatForms(all, layout, filepath.Base(o.output), cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(o.output, out, 0o644); err != nil { //nolint:gosec
		return err
	}
	if !o.sourceMap {
		return nil
	}
	return writeSourceMap(o.output+".map", gen)
}

func writeSourceMap(path string, gen *sourcemap.Generator) (err error) {
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	_, err = gen.WriteTo(f)
	return err
}

func printUnifiedDiff(w io.Writer, path string, original, formatted []byte) error {
	return difflib.WriteUnifiedDiff(w, difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(formatted)),
		FromFile: path + ".orig",
		ToFile:   path,
		Context:  3,
	})
}
