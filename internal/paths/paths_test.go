package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/ws/apps/shell/src/./app/../lib/a.ts", "/ws/apps/shell/src/lib/a.ts"},
		{"a/b/../../c", "c"},
		{"../../a", "../../a"},
		{"a/../../b", "../b"},
		{"./a/./b", "a/b"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ToSlash(Normalize(filepath.FromSlash(tt.in)))
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRelativeTo(t *testing.T) {
	base := filepath.FromSlash("/ws")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"inside", "/ws/libs/ui/button.ts", "libs/ui/button.ts"},
		{"outside", "/other/x.ts", "/other/x.ts"},
		{"sibling prefix", "/wsx/a.ts", "/wsx/a.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToSlash(RelativeTo(filepath.FromSlash(tt.path), base))
			if got != tt.want {
				t.Errorf("RelativeTo(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsNodeModules(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/ws/node_modules/rxjs/index.d.ts", true},
		{"node_modules", true},
		{"/ws/libs/node_modules_backup/a.ts", false},
		{"/ws/libs/a.ts", false},
	}

	for _, tt := range tests {
		if got := IsNodeModules(filepath.FromSlash(tt.path)); got != tt.want {
			t.Errorf("IsNodeModules(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestCanonicalizePath(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "apps", "shell", "main.ts")
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := CanonicalizePath(file, root)
	if err != nil {
		t.Fatalf("CanonicalizePath() error = %v", err)
	}
	if got != "apps/shell/main.ts" {
		t.Errorf("CanonicalizePath() = %q, want apps/shell/main.ts", got)
	}
	if !IsWithinWorkspace(file, root) {
		t.Error("file should be within workspace")
	}
	if IsWithinWorkspace(filepath.Dir(root), root) {
		t.Error("parent should not be within workspace")
	}
}

func TestIsFileIsDir(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.ts")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if !IsFile(file) || IsDir(file) {
		t.Error("a.ts should be a file")
	}
	if IsFile(root) || !IsDir(root) {
		t.Error("root should be a directory")
	}
	if IsFile(filepath.Join(root, "missing.ts")) {
		t.Error("missing file reported as existing")
	}
}

func TestJoinWorkspacePath(t *testing.T) {
	got := JoinWorkspacePath("/ws", "libs/ui/a.ts")
	if got != filepath.Join("/ws", "libs", "ui", "a.ts") {
		t.Errorf("JoinWorkspacePath() = %q", got)
	}
}
