// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/lispc/ast"
	"github.com/luthersystems/lispc/astutil"
	"github.com/luthersystems/lispc/compiler"
	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/printer"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// AnalyzeCommand returns the analyze command.
func AnalyzeCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var format string
	cmd := &cobra.Command{
		Use:   "analyze [flags] [files...]",
		Short: "Analyze lisp source and print the syntax tree",
		Long: `Analyze lisp source files and print the typed syntax tree of each.

Every node is printed with its location and the context in which its value
is consumed (statement, expression or return).  Structure definitions list
their fields as keywords.  Forms that fail to analyze are reported on stderr
and the command exits with status 1.

With no files, reads from stdin.  Files are analyzed concurrently; --jobs
limits how many at once.

Formats:
  tree   Indented outline, one node per line (default)
  yaml   YAML document per unit

Examples:
  lispc analyze file.lisp
  lispc analyze --format=yaml ./...
  echo '(defstruct Point x y)' | lispc analyze`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var write func(io.Writer, *compiler.Unit) error
			switch format {
			case "tree":
				write = writeTree
			case "yaml":
				write = writeYAML
			default:
				return fmt.Errorf("unknown format: %q", format)
			}

			logger := cfg.newLogger()
			defer logger.Sync() //nolint:errcheck
			c := cfg.newCompiler(logger)

			var units []*compiler.Unit
			if len(args) == 0 {
				u, err := c.AnalyzeSource("<stdin>", cmd.InOrStdin())
				if err != nil {
					return err
				}
				units = append(units, u)
			} else {
				paths, err := expandArgs(args, nil)
				if err != nil {
					return err
				}
				var werr error
				units, werr = c.AnalyzeFiles(context.Background(), paths)
				if werr != nil {
					logger.Debug("analysis stopped", zap.Error(werr))
				}
			}

			var errs error
			for _, u := range units {
				if u == nil {
					continue
				}
				if err := write(cmd.OutOrStdout(), u); err != nil {
					return err
				}
				errs = multierr.Append(errs, u.Err())
			}
			if errs == nil {
				return nil
			}
			if err := renderErrors(cmd.ErrOrStderr(), errs); err != nil {
				return err
			}
			return &ExitError{Code: 1}
		},
	}
	cmd.Flags().StringVar(&format, "format", "tree",
		`Output format: "tree" or "yaml".`)
	return cmd
}

func writeTree(w io.Writer, u *compiler.Unit) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "unit %s\n", u.Name)
	astutil.Walk(u.Nodes, func(n, parent ast.Node, depth int) {
		fmt.Fprintf(&buf, "%s%s", strings.Repeat("  ", depth+1), nodeKind(n))
		if detail := nodeDetail(n); detail != "" {
			fmt.Fprintf(&buf, " %s", detail)
		}
		fmt.Fprintf(&buf, " [%d:%d %s]\n", n.Loc().Line, n.Loc().Col, n.Env().Context())
	})
	_, err := buf.WriteTo(w)
	return err
}

// nodeView is the YAML representation of a node.
type nodeView struct {
	Kind      string      `yaml:"kind"`
	Loc       string      `yaml:"loc"`
	Context   string      `yaml:"context"`
	Namespace string      `yaml:"namespace,omitempty"`
	Name      string      `yaml:"name,omitempty"`
	Params    []string    `yaml:"params,omitempty"`
	Keywords  []string    `yaml:"keywords,omitempty"`
	Variadic  bool        `yaml:"variadic,omitempty"`
	Value     string      `yaml:"value,omitempty"`
	Children  []*nodeView `yaml:"children,omitempty"`
}

type unitView struct {
	Unit   string      `yaml:"unit"`
	Nodes  []*nodeView `yaml:"nodes"`
	Errors []string    `yaml:"errors,omitempty"`
}

func viewOf(n ast.Node) *nodeView {
	v := shallowView(n)
	for _, c := range astutil.Children(n) {
		v.Children = append(v.Children, viewOf(c))
	}
	return v
}

// shallowView returns the view of n without its children.
func shallowView(n ast.Node) *nodeView {
	v := &nodeView{
		Kind:    nodeKind(n),
		Loc:     n.Loc().String(),
		Context: n.Env().Context().String(),
	}
	switch n := n.(type) {
	case *ast.DefStruct:
		v.Namespace, v.Name = n.Namespace, n.Name.Name
		v.Params = symbolNames(n.Params)
		for _, kw := range n.ParamsAsKeywords() {
			v.Keywords = append(v.Keywords, printer.Print(kw))
		}
	case *ast.Def:
		v.Namespace, v.Name = n.Namespace, n.Name.Name
	case *ast.Fn:
		v.Params, v.Variadic = symbolNames(n.Params), n.Variadic
	case *ast.Let:
		for _, b := range n.Bindings {
			v.Params = append(v.Params, b.Name.Name)
		}
	case *ast.Ns:
		v.Name = n.Namespace()
	case *ast.LocalRef:
		v.Name = n.Name.FullName()
	case *ast.GlobalRef:
		v.Name = n.Name.FullName()
	case *ast.Literal:
		v.Value = printer.Print(n.Value)
	case *ast.Quote:
		v.Value = printer.Print(n.Value)
	}
	return v
}

func writeYAML(w io.Writer, u *compiler.Unit) error {
	uv := &unitView{Unit: u.Name, Nodes: []*nodeView{}}
	for _, n := range u.Nodes {
		uv.Nodes = append(uv.Nodes, viewOf(n))
	}
	for _, err := range u.Errors {
		uv.Errors = append(uv.Errors, err.Error())
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(uv); err != nil {
		return err
	}
	return enc.Close()
}

func nodeKind(n ast.Node) string {
	switch n.(type) {
	case *ast.Literal:
		return "literal"
	case *ast.DefStruct:
		return "defstruct"
	case *ast.LocalRef:
		return "local"
	case *ast.GlobalRef:
		return "global"
	case *ast.Def:
		return "def"
	case *ast.Fn:
		return "fn"
	case *ast.If:
		return "if"
	case *ast.Do:
		return "do"
	case *ast.Let:
		return "let"
	case *ast.Quote:
		return "quote"
	case *ast.Call:
		return "call"
	case *ast.Vector:
		return "vector"
	case *ast.MapLiteral:
		return "map"
	case *ast.Ns:
		return "ns"
	}
	return fmt.Sprintf("%T", n)
}

func nodeDetail(n ast.Node) string {
	v := shallowView(n)
	var parts []string
	if v.Name != "" {
		name := v.Name
		if v.Namespace != "" {
			name = v.Namespace + "/" + name
		}
		parts = append(parts, name)
	}
	if len(v.Keywords) > 0 {
		parts = append(parts, "("+strings.Join(v.Keywords, " ")+")")
	} else if len(v.Params) > 0 {
		parts = append(parts, "["+strings.Join(v.Params, " ")+"]")
	}
	if v.Value != "" {
		parts = append(parts, v.Value)
	}
	return strings.Join(parts, " ")
}

func symbolNames(syms []form.Symbol) []string {
	names := make([]string, len(syms))
	for i, s := range syms {
		names[i] = s.Name
	}
	return names
}
