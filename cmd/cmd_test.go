// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/luthersystems/lispc/lispctest"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// execute runs cmd with args, feeding it stdin, and returns what it wrote.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// testLogger returns a debug logger writing to the test log through
// lispctest.Logger.
func testLogger(t *testing.T) *zap.Logger {
	w := lispctest.NewLogger(t)
	t.Cleanup(w.Flush)
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

// exitCode returns the code of an ExitError, 0 for nil and -1 for any other
// error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return -1
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 3}
	assert.Equal(t, "exit status 3", err.Error())
	assert.Equal(t, 3, exitCode(err))
	assert.Equal(t, -1, exitCode(errors.New("boom")))
	assert.Equal(t, 0, exitCode(nil))
}

func TestRootCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"analyze", "lint", "fmt", "sourcemap", "trace", "doc"} {
		assert.Contains(t, names, want)
	}
	for _, name := range []string{"color", "namespace", "fail-fast", "jobs", "verbose", "config"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing flag: %s", name)
	}
}

func TestAnalyzeCommand_Tree(t *testing.T) {
	stdout, stderr, err := execute(t, AnalyzeCommand(), "(defstruct Point x y)\n(def p (make-point 1 2))\n")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "unit <stdin>\n")
	assert.Contains(t, stdout, "  defstruct user/Point (:x :y) [1:1 statement]\n")
	assert.Contains(t, stdout, "  def user/p [2:1 statement]\n")
	assert.Contains(t, stdout, "    call [2:8 expression]\n")
	assert.Contains(t, stdout, "      global make-point [2:9 expression]\n")
	assert.Contains(t, stdout, "      literal 1 [2:20 expression]\n")
}

func TestAnalyzeCommand_YAML(t *testing.T) {
	stdout, _, err := execute(t, AnalyzeCommand(), "(defstruct Point [x y])", "--format=yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "<stdin>")
	assert.Contains(t, stdout, "kind: defstruct")
	assert.Contains(t, stdout, "name: Point")
	assert.Contains(t, stdout, ":x")
	assert.Contains(t, stdout, ":y")
	assert.Contains(t, stdout, "context: statement")
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	stdout, stderr, err := execute(t, AnalyzeCommand(), "(def x 1)\n(let [1 2] x)\n")
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, stdout, "def user/x")
	assert.Contains(t, stderr, "error:")
	assert.Contains(t, stderr, "<stdin>:2:")
}

func TestAnalyzeCommand_Files(t *testing.T) {
	dir := lispctest.WriteFiles(t, map[string]string{
		"a.lisp":     "(def a 1)\n",
		"sub/b.lisp": "(ns geom)\n(def b a)\n",
	})
	stdout, _, err := execute(t, AnalyzeCommand(WithLogger(testLogger(t))), "", dir+"/...")
	require.NoError(t, err)
	assert.Contains(t, stdout, "def user/a")
	assert.Contains(t, stdout, "ns geom")
	assert.Contains(t, stdout, "def geom/b")
}

func TestAnalyzeCommand_BadFormat(t *testing.T) {
	_, _, err := execute(t, AnalyzeCommand(), "", "--format=xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format: "xml"`)
}

func TestDocCommand(t *testing.T) {
	stdout, _, err := execute(t, DocCommand(), "")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# lispc language reference")

	stdout, _, err = execute(t, DocCommand(), "", "let")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(let [name init ...] body ...)")
	assert.NotContains(t, stdout, "## ")

	_, _, err = execute(t, DocCommand(), "", "macro")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown topic: macro")
}
