// Copyright © 2024 The ELPS authors

// Package sourcemap encodes and decodes source maps relating lines of
// generated code back to the source they were compiled from.
//
// Mappings use the compact segment format of version 3 source maps.  Each
// generated line is a comma separated list of segments and lines are
// separated by semicolons.  A segment holds one, four or five base64 VLQ
// values: the generated column, then the source index, original line and
// original column, then optionally a name index.  Every value is a delta
// from the same field of the previous segment, and the running values carry
// over from one generated line to the next.
//
// This includes the generated column, which standard version 3 consumers
// reset to zero at each line.  Such consumers read original lines and
// sources correctly but misplace generated columns after the first line.
// Maps written here are meant to be read back with Decode.
package sourcemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrInvalidPosition is returned by AddMapping for a negative or missing
// position.
var ErrInvalidPosition = errors.New("invalid position")

// Mapping relates a position in generated output to a position in a
// source file.
type Mapping struct {
	Generated Position
	// Original is the zero Position for generated text with no source.
	Original Position
	// Source names the original file.
	Source string
	// Name is the optional original identifier at the position.
	Name string
}

type entry struct {
	gen    Position
	orig   Position
	source int
	name   int
}

// Generator accumulates mappings for one generated file.  A Generator is
// not safe for concurrent use.
type Generator struct {
	file       string
	sourceRoot string
	sources    []string
	sourceIdx  map[string]int
	names      []string
	nameIdx    map[string]int
	entries    []entry
}

// NewGenerator returns a Generator for the generated file named file.
func NewGenerator(file string) *Generator {
	return &Generator{
		file:      file,
		sourceIdx: make(map[string]int),
		nameIdx:   make(map[string]int),
	}
}

// SetSourceRoot sets the prefix a consumer applies to source names.
func (g *Generator) SetSourceRoot(root string) {
	g.sourceRoot = root
}

// AddMapping records m.
func (g *Generator) AddMapping(m Mapping) error {
	if !m.Generated.IsValid() || m.Generated.Column < 0 {
		return fmt.Errorf("%w: generated %d:%d", ErrInvalidPosition, m.Generated.Line, m.Generated.Column)
	}
	e := entry{gen: m.Generated, source: -1, name: -1}
	if m.Original != (Position{}) {
		if !m.Original.IsValid() || m.Original.Column < 0 {
			return fmt.Errorf("%w: original %d:%d", ErrInvalidPosition, m.Original.Line, m.Original.Column)
		}
		e.orig = m.Original
		e.source = intern(m.Source, &g.sources, g.sourceIdx)
		if m.Name != "" {
			e.name = intern(m.Name, &g.names, g.nameIdx)
		}
	}
	g.entries = append(g.entries, e)
	return nil
}

func intern(s string, list *[]string, index map[string]int) int {
	if i, ok := index[s]; ok {
		return i
	}
	i := len(*list)
	*list = append(*list, s)
	index[s] = i
	return i
}

// Mappings returns the encoded mappings.  Mappings are ordered by generated
// position and mappings at the same position keep the order they were
// added in.
func (g *Generator) Mappings() string {
	entries := append([]entry(nil), g.entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].gen.less(entries[j].gen)
	})

	var buf []byte
	var col, source, origLine, origCol, name int
	line := 1
	for i, e := range entries {
		if e.gen.Line > line {
			for ; line < e.gen.Line; line++ {
				buf = append(buf, ';')
			}
		} else if i > 0 {
			buf = append(buf, ',')
		}
		buf = AppendVLQ(buf, e.gen.Column-col)
		col = e.gen.Column
		if e.source < 0 {
			continue
		}
		buf = AppendVLQ(buf, e.source-source)
		buf = AppendVLQ(buf, e.orig.Line-1-origLine)
		buf = AppendVLQ(buf, e.orig.Column-origCol)
		source, origLine, origCol = e.source, e.orig.Line-1, e.orig.Column
		if e.name >= 0 {
			buf = AppendVLQ(buf, e.name-name)
			name = e.name
		}
	}
	return string(buf)
}

// SourceMap returns the source map of the recorded mappings.  It declares
// version 3, but its generated column runs on across lines as described in
// the package documentation.
func (g *Generator) SourceMap() *File {
	return &File{
		Version:    3,
		File:       g.file,
		SourceRoot: g.sourceRoot,
		Sources:    append([]string{}, g.sources...),
		Names:      append([]string{}, g.names...),
		Mappings:   g.Mappings(),
	}
}

// WriteTo writes the JSON source map to w.  Generated columns in the
// mappings are not reset per line, so only original lines are portable to
// other version 3 consumers.
func (g *Generator) WriteTo(w io.Writer) (int64, error) {
	b, err := json.Marshal(g.SourceMap())
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}
