package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// NodeModulesDir is the package-install directory name.
const NodeModulesDir = "node_modules"

// CanonicalizePath converts an absolute path to a workspace-relative canonical path
// - Resolves symlinks to real paths
// - Makes path relative to the workspace root
// - Returns a relative path with forward slashes
func CanonicalizePath(absolutePath string, workspaceRoot string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(workspaceRoot)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = workspaceRoot
		} else {
			return "", err
		}
	}

	relativePath, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(relativePath), nil
}

// IsWithinWorkspace checks if a path is within the workspace root
func IsWithinWorkspace(path string, workspaceRoot string) bool {
	canonical, err := CanonicalizePath(path, workspaceRoot)
	if err != nil {
		return false
	}
	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}

// Normalize lexically removes "." segments and folds ".." into the preceding
// segment. Leading ".." segments of a relative path are kept. The file system
// is never consulted.
func Normalize(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}

// RelativeTo returns path relative to base with forward slashes when path is
// inside base, and path unchanged otherwise.
func RelativeTo(path string, base string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

// IsNodeModules reports whether any segment of path is node_modules.
func IsNodeModules(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == NodeModulesDir {
			return true
		}
	}
	return false
}

// ToSlash normalizes a path by converting separators to forward slashes
func ToSlash(path string) string {
	return filepath.ToSlash(path)
}

// JoinWorkspacePath joins a workspace root with a canonical path
func JoinWorkspacePath(workspaceRoot string, canonicalPath string) string {
	normalizedPath := strings.ReplaceAll(canonicalPath, "\\", "/")
	parts := strings.Split(normalizedPath, "/")
	return filepath.Join(append([]string{workspaceRoot}, parts...)...)
}

// IsFile reports whether path names an existing regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path names an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
