// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/lispc/lispctest"
	"github.com/luthersystems/lispc/sourcemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFmtCommand_Stdin(t *testing.T) {
	stdout, _, err := execute(t, FmtCommand(), "(def   x\n   1)")
	require.NoError(t, err)
	assert.Equal(t, "(def x 1)\n", stdout)
}

func TestFmtCommand_Width(t *testing.T) {
	stdout, _, err := execute(t, FmtCommand(), "(def add (fn [a b] (+ a b)))", "--width=20")
	require.NoError(t, err)
	assert.Equal(t, "(def add\n  (fn [a b] (+ a b)))\n", stdout)
}

func TestFmtCommand_ReadError(t *testing.T) {
	_, _, err := execute(t, FmtCommand(), "(def x")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "<stdin>: "), err.Error())
}

func TestFmtCommand_ListAndWrite(t *testing.T) {
	dir := lispctest.WriteFiles(t, map[string]string{
		"messy.lisp": "(def  x  1)\n",
		"tidy.lisp":  "(def y 2)\n",
	})
	messy := filepath.Join(dir, "messy.lisp")

	stdout, _, err := execute(t, FmtCommand(), "", "-l", dir+"/...")
	assert.Equal(t, 1, exitCode(err))
	assert.Equal(t, messy+"\n", stdout)

	_, _, err = execute(t, FmtCommand(), "", "-w", dir+"/...")
	require.NoError(t, err)
	b, err := os.ReadFile(messy)
	require.NoError(t, err)
	assert.Equal(t, "(def x 1)\n", string(b))

	stdout, _, err = execute(t, FmtCommand(), "", "-l", dir+"/...")
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestFmtCommand_WriteKeepsComments(t *testing.T) {
	src := "; nolint:shadowed-local\n(def  x 1) ; keep me\n\n(def y 'z)\n"
	dir := lispctest.WriteFiles(t, map[string]string{"c.lisp": src})
	path := filepath.Join(dir, "c.lisp")

	_, _, err := execute(t, FmtCommand(), "", "-w", path)
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "; nolint:shadowed-local\n(def x 1) ; keep me\n\n(def y 'z)\n", string(b))

	stdout, _, err := execute(t, FmtCommand(), "", "-l", path)
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestFmtCommand_Diff(t *testing.T) {
	dir := lispctest.WriteFiles(t, map[string]string{"a.lisp": "(def  x  1)\n(f)\n"})
	path := filepath.Join(dir, "a.lisp")
	stdout, _, err := execute(t, FmtCommand(), "", "-d", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "--- "+path+".orig\n")
	assert.Contains(t, stdout, "+++ "+path+"\n")
	assert.Contains(t, stdout, "@@ -1,")
	assert.Contains(t, stdout, "-(def  x  1)\n")
	assert.Contains(t, stdout, "+(def x 1)\n")
	assert.Contains(t, stdout, " (f)\n")
}

func TestFmtCommand_SourceMap(t *testing.T) {
	dir := lispctest.WriteFiles(t, map[string]string{
		"a.lisp": "(def x\n  1)\n",
		"b.lisp": "\n\n(def y\n  x)\n",
	})
	a, b := filepath.Join(dir, "a.lisp"), filepath.Join(dir, "b.lisp")
	out := filepath.Join(dir, "out.lisp")

	_, _, err := execute(t, FmtCommand(), "", "-o", out, "--source-map", a, b)
	require.NoError(t, err)

	text, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "(def x 1)\n(def y x)\n", string(text))

	raw, err := os.ReadFile(out + ".map")
	require.NoError(t, err)
	f, err := sourcemap.ParseFile(raw)
	require.NoError(t, err)
	assert.Equal(t, "out.lisp", f.File)
	assert.Equal(t, []string{a, b}, f.Sources)

	cons, err := f.Consumer()
	require.NoError(t, err)
	seg, ok := cons.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, b, cons.Source(seg.SourceIndex))
	assert.Equal(t, 3, seg.OriginalLine)
}

func TestFmtCommand_SourceMapNeedsOutput(t *testing.T) {
	_, _, err := execute(t, FmtCommand(), "(f)", "--source-map")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires -o")
}
