// Package pathutil converts between absolute and relative paths. Orbit
// works internally in absolute paths (spec.md's DesignUnit.File and
// cache.Cache slot paths are both absolute), but user-facing output — a
// blueprint summary, an `orbit show` listing — reads better relative to
// the project root. This package is the conversion boundary between the
// two, operating on plain strings and string slices.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts absPath to a path relative to rootDir. It falls back
// to the original path when conversion fails, when absPath is already
// relative, or when absPath falls outside rootDir (where an absolute path
// reads less ambiguously than a "../../.." climb).
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}
	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return absPath
	}
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}
	return relPath
}

// ToRelativeAll applies ToRelative to every path in paths, returning a new
// slice (the input is never mutated).
func ToRelativeAll(paths []string, rootDir string) []string {
	if len(paths) == 0 {
		return paths
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = ToRelative(p, rootDir)
	}
	return out
}
