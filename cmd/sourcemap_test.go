// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/lispc/sourcemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestMap writes a source map for gen.lisp in which generated line 1
// maps to src.lisp lines 4 and 2, and generated line 3 to line 7.
func writeTestMap(t *testing.T) string {
	t.Helper()
	g := sourcemap.NewGenerator("gen.lisp")
	for _, m := range []sourcemap.Mapping{
		{Generated: sourcemap.Position{Line: 1, Column: 0}, Original: sourcemap.Position{Line: 4, Column: 0}, Source: "src.lisp", Name: "def"},
		{Generated: sourcemap.Position{Line: 1, Column: 5}, Original: sourcemap.Position{Line: 2, Column: 3}, Source: "src.lisp"},
		{Generated: sourcemap.Position{Line: 3, Column: 2}, Original: sourcemap.Position{Line: 7, Column: 1}, Source: "src.lisp"},
	} {
		require.NoError(t, g.AddMapping(m))
	}
	path := filepath.Join(t.TempDir(), "gen.lisp.map")
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = g.WriteTo(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return path
}

func TestSourceMapLookup(t *testing.T) {
	path := writeTestMap(t)

	stdout, _, err := execute(t, SourceMapCommand(), "", "lookup", path, "1")
	require.NoError(t, err)
	assert.Equal(t, "src.lisp:2:4\n", stdout)

	_, stderr, err := execute(t, SourceMapCommand(), "", "lookup", path, "2")
	assert.Equal(t, 1, exitCode(err))
	assert.Equal(t, "line 2 has no mapping\n", stderr)

	_, _, err = execute(t, SourceMapCommand(), "", "lookup", path, "zero")
	require.Error(t, err)
}

func TestSourceMapDecode(t *testing.T) {
	path := writeTestMap(t)
	stdout, _, err := execute(t, SourceMapCommand(), "", "decode", path)
	require.NoError(t, err)
	assert.Equal(t, "1:1 -> src.lisp:4:1 def\n1:6 -> src.lisp:2:4\n3:3 -> src.lisp:7:2\n", stdout)
}

func TestSourceMapDecode_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.map")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":3,"sources":[],"names":[],"mappings":"AAAA,"}`), 0o600))
	_, _, err := execute(t, SourceMapCommand(), "", "decode", path)
	require.Error(t, err)
	var corrupt *sourcemap.CorruptMappingError
	assert.ErrorAs(t, err, &corrupt)
}

func TestSourceMapVLQ(t *testing.T) {
	stdout, _, err := execute(t, SourceMapCommand(), "", "vlq", "0", "0", "16", "1")
	require.NoError(t, err)
	assert.Equal(t, "AAgBC\n", stdout)

	stdout, _, err = execute(t, SourceMapCommand(), "", "vlq", "--decode", "AAgBC", "D")
	require.NoError(t, err)
	assert.Equal(t, "0 0 16 1\n-1\n", stdout)

	_, _, err = execute(t, SourceMapCommand(), "", "vlq", "x")
	require.Error(t, err)
}
