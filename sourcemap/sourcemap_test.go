// Copyright © 2024 The ELPS authors

package sourcemap

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/lispc/parser/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func add(t *testing.T, g *Generator, genLine, genCol, origLine, origCol int) {
	t.Helper()
	require.NoError(t, g.AddMapping(Mapping{
		Generated: Position{Line: genLine, Column: genCol},
		Original:  Position{Line: origLine, Column: origCol},
		Source:    "main.lisp",
	}))
}

func TestMinimumOriginalLineWins(t *testing.T) {
	g := NewGenerator("out.php")
	add(t, g, 1, 0, 5, 0)
	add(t, g, 1, 10, 3, 0)
	mappings := g.Mappings()
	assert.Equal(t, "AAIA,UAFA", mappings)

	c, err := Decode(mappings)
	require.NoError(t, err)
	line, ok := c.OriginalLine(1)
	require.True(t, ok)
	assert.Equal(t, 3, line)
}

func TestMinimumOriginalLineSamePosition(t *testing.T) {
	g := NewGenerator("out.php")
	add(t, g, 1, 0, 5, 0)
	add(t, g, 1, 0, 3, 0)
	c, err := Decode(g.Mappings())
	require.NoError(t, err)
	line, ok := c.OriginalLine(1)
	require.True(t, ok)
	assert.Equal(t, 3, line)
	segs := c.Segments(1)
	require.Len(t, segs, 2)
	assert.Equal(t, 5, segs[0].OriginalLine)
}

func TestStateCarriesAcrossLines(t *testing.T) {
	g := NewGenerator("out.php")
	add(t, g, 2, 2, 2, 3)
	add(t, g, 1, 4, 1, 0)
	assert.Equal(t, "IAAA;FACG", g.Mappings())

	c, err := Decode("IAAA;FACG")
	require.NoError(t, err)
	assert.Equal(t, []Segment{{GeneratedColumn: 2, HasSource: true, OriginalLine: 2, OriginalColumn: 3, NameIndex: -1}}, c.Segments(2))
}

func TestEmptyLines(t *testing.T) {
	g := NewGenerator("out.php")
	add(t, g, 3, 0, 7, 0)
	assert.Equal(t, ";;AAMA", g.Mappings())

	c, err := Decode(";;AAMA")
	require.NoError(t, err)
	assert.Equal(t, []int{3}, c.Lines())
	for _, line := range []int{0, 1, 2, 4, 100} {
		_, ok := c.OriginalLine(line)
		assert.False(t, ok, "line %d", line)
	}
	line, ok := c.OriginalLine(3)
	require.True(t, ok)
	assert.Equal(t, 7, line)
}

func TestRoundTripMinimum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 50; iter++ {
		g := NewGenerator("out.php")
		want := make(map[int]int)
		for i := 0; i < 200; i++ {
			genLine := rng.Intn(40) + 1
			origLine := rng.Intn(500) + 1
			add(t, g, genLine, rng.Intn(80), origLine, rng.Intn(80))
			if lo, ok := want[genLine]; !ok || origLine < lo {
				want[genLine] = origLine
			}
		}
		c, err := Decode(g.Mappings())
		require.NoError(t, err)
		for genLine := 1; genLine <= 41; genLine++ {
			got, ok := c.OriginalLine(genLine)
			lo, mapped := want[genLine]
			require.Equal(t, mapped, ok, "line %d", genLine)
			if mapped {
				require.Equal(t, lo, got, "line %d", genLine)
			}
		}
	}
}

func TestDecodeDeterministic(t *testing.T) {
	const mappings = "AAAA,IAEC;;ACAA,EAAE;gBAAoB"
	c1, err := Decode(mappings)
	require.NoError(t, err)
	c2, err := Decode(mappings)
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
	for _, line := range c1.Lines() {
		assert.Equal(t, c1.Segments(line), c2.Segments(line))
	}
}

func TestGeneratedOnlySegments(t *testing.T) {
	g := NewGenerator("out.php")
	require.NoError(t, g.AddMapping(Mapping{Generated: Position{Line: 1, Column: 0}}))
	add(t, g, 1, 0, 5, 0)
	require.NoError(t, g.AddMapping(Mapping{Generated: Position{Line: 2, Column: 3}}))
	assert.Equal(t, "A,AAIA;G", g.Mappings())

	c, err := Decode(g.Mappings())
	require.NoError(t, err)
	line, ok := c.OriginalLine(1)
	require.True(t, ok)
	assert.Equal(t, 5, line)
	_, ok = c.OriginalLine(2)
	assert.False(t, ok)
	assert.Equal(t, []int{1, 2}, c.Lines())
}

func TestNames(t *testing.T) {
	g := NewGenerator("out.php")
	require.NoError(t, g.AddMapping(Mapping{
		Generated: Position{Line: 1, Column: 0},
		Original:  Position{Line: 1, Column: 0},
		Source:    "a.lisp",
		Name:      "point",
	}))
	require.NoError(t, g.AddMapping(Mapping{
		Generated: Position{Line: 1, Column: 6},
		Original:  Position{Line: 2, Column: 0},
		Source:    "b.lisp",
		Name:      "x",
	}))
	assert.Equal(t, "AAAAA,MCCAC", g.Mappings())

	f := g.SourceMap()
	assert.Equal(t, []string{"a.lisp", "b.lisp"}, f.Sources)
	assert.Equal(t, []string{"point", "x"}, f.Names)

	c, err := f.Consumer()
	require.NoError(t, err)
	segs := c.Segments(1)
	require.Len(t, segs, 2)
	assert.Equal(t, "b.lisp", c.Source(segs[1].SourceIndex))
	assert.Equal(t, "x", c.Name(segs[1].NameIndex))
	assert.Equal(t, "", c.Source(9))
	assert.Equal(t, "", c.Name(-1))
}

func TestAddMappingInvalid(t *testing.T) {
	g := NewGenerator("out.php")
	assert.ErrorIs(t, g.AddMapping(Mapping{}), ErrInvalidPosition)
	assert.ErrorIs(t, g.AddMapping(Mapping{Generated: Position{Line: 1, Column: -1}}), ErrInvalidPosition)
	assert.ErrorIs(t, g.AddMapping(Mapping{
		Generated: Position{Line: 1},
		Original:  Position{Line: 0, Column: 4},
	}), ErrInvalidPosition)
	assert.Equal(t, "", g.Mappings())
}

func TestFromLocation(t *testing.T) {
	assert.Equal(t, Position{Line: 2, Column: 3}, FromLocation(token.Location{Line: 2, Col: 4}))
	assert.Equal(t, Position{}, FromLocation(token.Location{}))
}

func TestDecodeCorrupt(t *testing.T) {
	for _, test := range []struct {
		mappings string
		line     int
		segment  int
		err      error
	}{
		{"AAAA,", 1, 2, ErrEmptySegment},
		{",AAAA", 1, 1, ErrEmptySegment},
		{"AAAA;AAAA,,AAAA", 2, 2, ErrEmptySegment},
		{"AA", 1, 1, ErrFieldCount},
		{"AAAAAA", 1, 1, ErrFieldCount},
		{"AAAA;g", 2, 1, ErrUnterminated},
		{"A!AA", 1, 1, ErrInvalidDigit},
		{"D", 1, 1, ErrNegative},
		{"AAAA;ADAA", 2, 1, ErrNegative},
	} {
		t.Run(test.mappings, func(t *testing.T) {
			c, err := Decode(test.mappings)
			assert.Nil(t, c)
			var cerr *CorruptMappingError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, test.line, cerr.Line)
			assert.Equal(t, test.segment, cerr.Segment)
			assert.ErrorIs(t, err, test.err)
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	g := NewGenerator("out.php")
	g.SetSourceRoot("src")
	add(t, g, 1, 0, 4, 2)

	var buf bytes.Buffer
	n, err := g.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.JSONEq(t, `{"version":3,"file":"out.php","sourceRoot":"src","sources":["main.lisp"],"names":[],"mappings":"AAGE"}`, buf.String())

	f, err := ParseFile(buf.Bytes())
	require.NoError(t, err)
	c, err := f.Consumer()
	require.NoError(t, err)
	seg, ok := c.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "src/main.lisp", c.Source(seg.SourceIndex))
	assert.Equal(t, 4, seg.OriginalLine)
	assert.Equal(t, 2, seg.OriginalColumn)
}

func TestParseFileErrors(t *testing.T) {
	_, err := ParseFile([]byte(`{"version":2,"mappings":""}`))
	assert.Error(t, err)
	_, err = ParseFile([]byte(`not json`))
	assert.Error(t, err)

	f, err := ParseFile([]byte(`{"version":3,"sources":[],"names":[],"mappings":"AA"}`))
	require.NoError(t, err)
	_, err = f.Consumer()
	var cerr *CorruptMappingError
	assert.ErrorAs(t, err, &cerr)
}

func writeMap(t *testing.T, dir, name string, g *Generator) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := g.WriteTo(&buf)
	require.NoError(t, err)
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o600))
	return p
}

func TestCache(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator("gen.php")
	add(t, g, 1, 0, 9, 0)
	p := writeMap(t, dir, "gen.php.map", g)

	reg := prometheus.NewRegistry()
	cache, err := NewCache(2, reg)
	require.NoError(t, err)

	c1, err := cache.Load(p)
	require.NoError(t, err)
	c2, err := cache.Load(p)
	require.NoError(t, err)
	assert.Same(t, c1, c2)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(cache.hits))
	assert.Equal(t, float64(1), testutil.ToFloat64(cache.misses))

	_, err = cache.Load(filepath.Join(dir, "missing.map"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 1, cache.Len())

	_, err = NewCache(0, nil)
	assert.Error(t, err)
}

func TestTracer(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator("gen.php")
	add(t, g, 1, 0, 9, 0)
	add(t, g, 2, 0, 12, 0)
	add(t, g, 2, 8, 11, 0)
	writeMap(t, dir, "gen.php.map", g)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.php.map"), []byte("{"), 0o600))

	cache, err := NewCache(8, nil)
	require.NoError(t, err)
	tr := NewTracer(cache)

	gen := filepath.Join(dir, "gen.php")
	input := strings.Join([]string{
		"Error: boom",
		"  at main (" + gen + ":2)",
		"  at init (" + gen + ":1)",
		"  at other (" + gen + ":7)",
		"  at lib (/usr/lib/other.php:3)",
	}, "\n")
	var out bytes.Buffer
	require.NoError(t, tr.Rewrite(strings.NewReader(input), &out))
	assert.Equal(t, strings.Join([]string{
		"Error: boom",
		"  at main (main.lisp:11)",
		"  at init (main.lisp:9)",
		"  at other (" + gen + ":7)",
		"  at lib (/usr/lib/other.php:3)",
		"",
	}, "\n"), out.String())

	line, err := tr.RewriteLine("at x (" + filepath.Join(dir, "bad.php") + ":1)")
	assert.Error(t, err)
	assert.Contains(t, line, "bad.php:1")
}
