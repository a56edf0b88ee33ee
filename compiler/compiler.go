// Copyright © 2024 The ELPS authors

// Package compiler drives the analysis of whole compilation units.
//
// A unit is read into forms, then each top-level form is analyzed in
// statement context.  An (ns name) form switches the namespace of the forms
// after it.  By default the compiler keeps going after a form fails to
// analyze and collects every error; WithFailFast stops at the first one.
package compiler

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/lispc/analysis"
	"github.com/luthersystems/lispc/ast"
	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/lexenv"
	"github.com/luthersystems/lispc/parser/rdparser"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Unit is the result of analyzing one source.
type Unit struct {
	Name string
	// Forms holds every top-level form read from the source.
	Forms []form.Form
	// Nodes holds the nodes of the forms that analyzed without error, in
	// source order.
	Nodes []ast.Node
	// Errors holds the analysis errors, in source order.
	Errors []error
}

// Err returns the errors of u combined into one, or nil.
func (u *Unit) Err() error {
	return multierr.Combine(u.Errors...)
}

// Compiler analyzes compilation units.  A Compiler may be used
// concurrently.
type Compiler struct {
	logger    *zap.Logger
	namespace string
	failFast  bool
	analyzer  *analysis.Analyzer
	jobs      int
}

// New returns a Compiler configured by opts.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		logger:    zap.NewNop(),
		namespace: DefaultNamespace,
		analyzer:  analysis.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyzer returns the form analyzer used by c.
func (c *Compiler) Analyzer() *analysis.Analyzer {
	return c.analyzer
}

// AnalyzeSource reads and analyzes the source r named name.  A read error
// is returned as is and no unit is produced.  Analysis errors are recorded
// in the unit.
func (c *Compiler) AnalyzeSource(name string, r io.Reader) (*Unit, error) {
	forms, err := rdparser.NewReader().Read(name, r)
	if err != nil {
		c.logger.Debug("read failed", zap.String("unit", name), zap.Error(err))
		return nil, err
	}
	return c.AnalyzeForms(name, forms), nil
}

// AnalyzeForms analyzes forms as the unit name.
func (c *Compiler) AnalyzeForms(name string, forms []form.Form) *Unit {
	logger := c.logger.With(zap.String("unit", name))
	logger.Debug("analyzing unit", zap.Int("forms", len(forms)))
	u := &Unit{Name: name, Forms: forms}
	env := lexenv.New(c.namespace)
	for _, f := range forms {
		n, err := c.analyzer.Analyze(f, env)
		if err != nil {
			logger.Debug("analysis error", zap.Stringer("loc", f.Loc()), zap.Error(err))
			u.Errors = append(u.Errors, err)
			if c.failFast {
				break
			}
			continue
		}
		u.Nodes = append(u.Nodes, n)
		if ns, ok := n.(*ast.Ns); ok {
			env = env.WithNamespace(ns.Namespace())
			logger.Debug("namespace", zap.String("ns", ns.Namespace()))
		}
	}
	logger.Debug("analyzed unit", zap.Int("nodes", len(u.Nodes)), zap.Int("errors", len(u.Errors)))
	return u
}

// AnalyzeFile analyzes the file at path.
func (c *Compiler) AnalyzeFile(path string) (*Unit, error) {
	f, err := os.Open(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.AnalyzeSource(path, f)
}

// AnalyzeFiles analyzes the files at paths concurrently and returns their
// units in the order of paths.  A file that cannot be read as forms yields
// a unit whose only error is the read error.  The returned error is
// non-nil if a file cannot be opened, ctx is done, or fail-fast is set and
// a unit has errors.
func (c *Compiler) AnalyzeFiles(ctx context.Context, paths []string) ([]*Unit, error) {
	units := make([]*Unit, len(paths))
	group, ctx := errgroup.WithContext(ctx)
	if c.jobs > 0 {
		group.SetLimit(c.jobs)
	}
	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(path) //nolint:gosec // CLI tool reads user-specified files
			if err != nil {
				return err
			}
			defer f.Close()
			u, err := c.AnalyzeSource(path, f)
			if err != nil {
				u = &Unit{Name: path, Errors: []error{err}}
			}
			units[i] = u
			if c.failFast && len(u.Errors) > 0 {
				return fmt.Errorf("%s: %w", path, u.Errors[0])
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return units, err
	}
	return units, nil
}
