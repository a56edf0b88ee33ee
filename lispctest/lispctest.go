// Copyright © 2018 The ELPS authors

// Package lispctest provides helpers for tests that read and analyze lisp
// source.
package lispctest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/lispc/compiler"
	"github.com/luthersystems/lispc/form"
	"github.com/luthersystems/lispc/parser"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// TestFile is the unit name given to sources read by the helpers.
const TestFile = "test.lisp"

// ReadForms reads every form in source and fails the test on a read error.
func ReadForms(t testing.TB, source string) []form.Form {
	t.Helper()
	forms, err := parser.NewReader().Read(TestFile, strings.NewReader(source))
	require.NoError(t, err)
	return forms
}

// NewCompiler returns a compiler that logs to the test log.
func NewCompiler(t testing.TB, opts ...compiler.Option) *compiler.Compiler {
	opts = append([]compiler.Option{compiler.WithLogger(zaptest.NewLogger(t))}, opts...)
	return compiler.New(opts...)
}

// AnalyzeUnit reads and analyzes source.  Analysis errors are left in the
// unit for the caller to inspect.
func AnalyzeUnit(t testing.TB, source string, opts ...compiler.Option) *compiler.Unit {
	t.Helper()
	u, err := NewCompiler(t, opts...).AnalyzeSource(TestFile, strings.NewReader(source))
	require.NoError(t, err)
	return u
}

// MustAnalyze is AnalyzeUnit for sources expected to analyze cleanly.
func MustAnalyze(t testing.TB, source string, opts ...compiler.Option) *compiler.Unit {
	t.Helper()
	u := AnalyzeUnit(t, source, opts...)
	require.NoError(t, u.Err())
	return u
}

// WriteFiles creates files under a temporary directory and returns the
// directory.  Keys are slash separated paths relative to the directory.
func WriteFiles(t testing.TB, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

// BenchmarkAnalyze returns a benchmark that reads and analyzes the file at
// path with c.
func BenchmarkAnalyze(path string, c *compiler.Compiler) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			u, err := c.AnalyzeSource(filepath.Base(path), bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Read failure: %v", err)
			}
			if err := u.Err(); err != nil {
				b.Fatalf("Analysis failure: %v", err)
			}
		}
	}
}
