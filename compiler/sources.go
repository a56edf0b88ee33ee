// Copyright © 2024 The ELPS authors

package compiler

import (
	"os"
	"path/filepath"
	"sort"
)

// SourceExt is the file extension of source files.
const SourceExt = ".lisp"

// FindSources walks the directory tree at root and returns the sorted paths
// of the source files in it.  Hidden directories and node_modules are
// skipped, as are directories that cannot be read.
func FindSources(root string) ([]string, error) {
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != root && shouldSkipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == SourceExt {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// shouldSkipDir returns true for hidden directories (e.g. .git) and
// node_modules.
func shouldSkipDir(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	if len(name) > 0 && name[0] == '.' {
		return true
	}
	return name == "node_modules"
}
