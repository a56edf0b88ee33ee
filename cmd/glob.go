// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/luthersystems/lispc/compiler"
)

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// source files found recursively under the given directory. Non-pattern
// arguments pass through unchanged. Paths matching any exclude pattern are
// dropped.
func expandArgs(args []string, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok {
			if dir == "" {
				dir = "."
			}
			files, err := compiler.FindSources(dir)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		} else {
			out = append(out, arg)
		}
	}
	return filterExcludes(out, excludes), nil
}

// filterExcludes drops the paths matching any of the exclude patterns.
func filterExcludes(paths []string, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var out []string
	for _, p := range paths {
		if !matchesAny(p, excludes) {
			out = append(out, p)
		}
	}
	return out
}

// matchesAny reports whether a pattern matches the full path, its base
// name, or any directory component.
func matchesAny(path string, patterns []string) bool {
	components := splitPath(path)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
		for _, c := range components {
			if ok, _ := filepath.Match(pat, c); ok {
				return true
			}
		}
	}
	return false
}

// splitPath returns the components of path, base name first.
func splitPath(path string) []string {
	var parts []string
	for {
		dir, file := filepath.Split(filepath.Clean(path))
		if file != "" {
			parts = append(parts, file)
		}
		dir = strings.TrimSuffix(dir, string(filepath.Separator))
		if dir == "" || dir == path {
			return parts
		}
		path = dir
	}
}
