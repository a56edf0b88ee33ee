// Copyright © 2024 The ELPS authors

package cmd

import (
	"github.com/luthersystems/lispc/compiler"
	"github.com/luthersystems/lispc/lint"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Option configures an exported command factory (LintCommand,
// AnalyzeCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	compilerOpts []compiler.Option
	analyzers    []*lint.Analyzer
	logger       *zap.Logger
}

// WithCompilerOptions appends options to the compiler built from the
// command line flags.  They take precedence over the flags.
func WithCompilerOptions(opts ...compiler.Option) Option {
	return func(c *cmdConfig) { c.compilerOpts = append(c.compilerOpts, opts...) }
}

// WithAnalyzers adds lint checks to the built-in set so that embedders can
// run their own checks from the lint command.
func WithAnalyzers(analyzers ...*lint.Analyzer) Option {
	return func(c *cmdConfig) { c.analyzers = append(c.analyzers, analyzers...) }
}

// WithLogger sets the logger used by the command instead of the one chosen
// by --verbose.
func WithLogger(logger *zap.Logger) Option {
	return func(c *cmdConfig) { c.logger = logger }
}

func newCmdConfig(opts []Option) *cmdConfig {
	c := &cmdConfig{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newLogger returns the configured logger.  With --verbose a development
// logger writing to stderr is used; otherwise logging is disabled.
func (c *cmdConfig) newLogger() *zap.Logger {
	if c.logger != nil {
		return c.logger
	}
	if viper.GetBool("verbose") {
		if logger, err := zap.NewDevelopment(); err == nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (c *cmdConfig) newCompiler(logger *zap.Logger) *compiler.Compiler {
	ns := viper.GetString("namespace")
	if ns == "" {
		ns = compiler.DefaultNamespace
	}
	opts := []compiler.Option{
		compiler.WithLogger(logger),
		compiler.WithNamespace(ns),
		compiler.WithFailFast(viper.GetBool("fail-fast")),
		compiler.WithJobs(viper.GetInt("jobs")),
	}
	return compiler.New(append(opts, c.compilerOpts...)...)
}
