// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/lispc/lispctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceCommand(t *testing.T) {
	dir := lispctest.WriteFiles(t, map[string]string{
		"a.lisp": "(def x\n  1)\n\n(def y\n  2)\n",
	})
	src := filepath.Join(dir, "a.lisp")
	out := filepath.Join(dir, "out.lisp")
	_, _, err := execute(t, FmtCommand(), "", "-o", out, "--source-map", src)
	require.NoError(t, err)

	input := "error: boom\n  at " + out + ":2\n  at other.lisp:9\n"
	stdout, _, err := execute(t, TraceCommand(), input)
	require.NoError(t, err)
	assert.Equal(t, "error: boom\n  at "+src+":4\n  at other.lisp:9\n", stdout)

	log := filepath.Join(dir, "trace.txt")
	require.NoError(t, os.WriteFile(log, []byte(out+":1\n"), 0o600))
	stdout, _, err = execute(t, TraceCommand(), "", "--cache-size=1", log)
	require.NoError(t, err)
	assert.Equal(t, src+":1\n", stdout)
}

func TestTraceCommand_CorruptMap(t *testing.T) {
	dir := t.TempDir()
	gen := filepath.Join(dir, "gen.lisp")
	require.NoError(t, os.WriteFile(gen+".map", []byte("{"), 0o600))
	stdout, stderr, err := execute(t, TraceCommand(), gen+":3\n")
	assert.Equal(t, 1, exitCode(err))
	assert.Equal(t, gen+":3\n", stdout)
	assert.Contains(t, stderr, "error:")
}
