package imports

import (
	"path/filepath"

	"nga/internal/paths"
)

// relativeExtensions are tried by the path resolver for relative specifiers.
var relativeExtensions = []string{".ts", ".tsx", ".d.ts"}

// moduleExtensions are tried when locating a module file.
var moduleExtensions = []string{".ts", ".tsx", ".js", ".d.ts"}

// findModuleFile locates the file a module path refers to: the literal
// path, then path+ext, then path/index+ext, extensions in moduleExtensions
// order. Only regular files match.
func findModuleFile(path string) (string, bool) {
	if paths.IsFile(path) {
		return path, true
	}
	for _, ext := range moduleExtensions {
		if candidate := path + ext; paths.IsFile(candidate) {
			return candidate, true
		}
	}
	for _, ext := range moduleExtensions {
		if candidate := filepath.Join(path, "index"+ext); paths.IsFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}
