package utils

import (
	"path/filepath"
	"strings"
)

// FileExtension returns the extension of a path without the leading dot,
// e.g. "Main.java" -> "java". Empty when the path has no extension.
func FileExtension(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// SplitPathComponents splits a path on the host separator. Forward
// slashes are always accepted as well, since report files frequently
// carry POSIX paths regardless of the platform that reads them.
func SplitPathComponents(path string) []string {
	cleaned := strings.ReplaceAll(path, "\\", "/")
	return strings.Split(cleaned, "/")
}

// PathEndsWithComponents reports whether the trailing components of path
// equal want, component by component. This tolerates differing path roots
// between a report and the caller's filesystem view.
func PathEndsWithComponents(path string, want []string) bool {
	if len(want) == 0 {
		return false
	}
	parts := SplitPathComponents(path)
	if len(parts) < len(want) {
		return false
	}
	tail := parts[len(parts)-len(want):]
	for i := range want {
		if tail[i] != want[i] {
			return false
		}
	}
	return true
}
