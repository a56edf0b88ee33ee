// Copyright © 2024 The ELPS authors

package sourcemap

import (
	"encoding/json"
	"fmt"
	"path"
)

// File is a source map in the version 3 JSON layout.  Its mappings keep the
// generated column running across lines, which differs from standard
// version 3 mappings where it restarts at zero on every line.
type File struct {
	Version    int      `json:"version"`
	File       string   `json:"file,omitempty"`
	SourceRoot string   `json:"sourceRoot,omitempty"`
	Sources    []string `json:"sources"`
	Names      []string `json:"names"`
	Mappings   string   `json:"mappings"`
}

// ParseFile parses a JSON source map.
func ParseFile(b []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("source map: %w", err)
	}
	if f.Version != 3 {
		return nil, fmt.Errorf("source map: unsupported version %d", f.Version)
	}
	return &f, nil
}

// Consumer decodes the mappings of f.  Source names returned by the
// consumer are joined to the source root.
func (f *File) Consumer() (*Consumer, error) {
	c, err := Decode(f.Mappings)
	if err != nil {
		return nil, err
	}
	c.sources = make([]string, len(f.Sources))
	for i, s := range f.Sources {
		if f.SourceRoot != "" && !path.IsAbs(s) {
			s = path.Join(f.SourceRoot, s)
		}
		c.sources[i] = s
	}
	c.names = append([]string(nil), f.Names...)
	return c, nil
}
