package files

import "testing"

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		ignore bool
	}{
		{"plain source file", "src/main.go", false},
		{"node_modules anywhere", "app/node_modules/react/index.js", true},
		{"node_modules case-insensitive", "app/NODE_MODULES/react/index.js", true},
		{"vendor dir", "vendor/github.com/pkg/errors/errors.go", true},
		{"git metadata", ".git/HEAD", true},
		{"build output", "frontend/dist/bundle.js", true},
		{"pycache", "lib/__pycache__/mod.cpython-311.pyc", true},
		{"hidden file not allow-listed", ".secret", true},
		{"hidden dir segment", "src/.hidden/file.go", true},
		{"gitignore allowed", ".gitignore", false},
		{"nested gitignore allowed", "sub/dir/.gitignore", false},
		{"env example allowed", ".env.example", false},
		{"env local allowed via prefix", ".env.local", false},
		{"editorconfig allowed", ".editorconfig", false},
		{"zip extension", "assets/data.zip", true},
		{"png extension", "logo.PNG", true},
		{"exe extension", "bin/tool.exe", true},
		{"markdown kept", "docs/README.md", false},
		{"dockerfile kept", "Dockerfile", false},
		{"yaml kept", "config/app.yaml", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldIgnore(tt.path); got != tt.ignore {
				t.Errorf("ShouldIgnore(%q) = %v, want %v", tt.path, got, tt.ignore)
			}
		})
	}
}

func TestShouldIgnoreIsPure(t *testing.T) {
	paths := []string{"src/main.go", ".git/config", "a/b/c.zip", ".env.example"}
	for _, p := range paths {
		first := ShouldIgnore(p)
		for i := 0; i < 10; i++ {
			if ShouldIgnore(p) != first {
				t.Fatalf("ShouldIgnore(%q) changed answers between calls", p)
			}
		}
	}
}

func TestFilterPaths(t *testing.T) {
	in := []string{"main.go", "node_modules/x.js", "README.md", "img.png"}
	got := FilterPaths(in)
	want := []string{"main.go", "README.md"}
	if len(got) != len(want) {
		t.Fatalf("FilterPaths returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FilterPaths[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
