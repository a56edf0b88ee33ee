// Copyright © 2024 The ELPS authors

package compiler

import (
	"github.com/luthersystems/lispc/analysis"
	"go.uber.org/zap"
)

// DefaultNamespace is the namespace of a unit before any ns form.
const DefaultNamespace = "user"

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger receiving progress and error events.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

// WithNamespace sets the initial namespace of every unit.
func WithNamespace(ns string) Option {
	return func(c *Compiler) { c.namespace = ns }
}

// WithFailFast stops the analysis of a unit at its first error.  When
// analyzing several files it also stops the remaining files.
func WithFailFast(failFast bool) Option {
	return func(c *Compiler) { c.failFast = failFast }
}

// WithAnalyzer replaces the default form analyzer.
func WithAnalyzer(a *analysis.Analyzer) Option {
	return func(c *Compiler) { c.analyzer = a }
}

// WithJobs bounds the number of files analyzed concurrently.  A value less
// than one means no bound.
func WithJobs(n int) Option {
	return func(c *Compiler) { c.jobs = n }
}
