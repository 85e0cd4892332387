package pathutil

import "testing"

func TestToRelative(t *testing.T) {
	tests := []struct {
		name     string
		absPath  string
		rootDir  string
		expected string
	}{
		{"simple relative path", "/home/user/project/src/main.vhd", "/home/user/project", "src/main.vhd"},
		{"root level file", "/home/user/project/Orbit.toml", "/home/user/project", "Orbit.toml"},
		{"same directory", "/home/user/project", "/home/user/project", "."},
		{"already relative path", "src/main.vhd", "/home/user/project", "src/main.vhd"},
		{"path outside root falls back to absolute", "/other/location/file.vhd", "/home/user/project", "/other/location/file.vhd"},
		{"empty root directory", "/home/user/project/file.vhd", "", "/home/user/project/file.vhd"},
		{"empty absolute path", "", "/home/user/project", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRelative(tt.absPath, tt.rootDir); got != tt.expected {
				t.Errorf("ToRelative(%q, %q) = %q, want %q", tt.absPath, tt.rootDir, got, tt.expected)
			}
		})
	}
}

func TestToRelativeAllPreservesOrderAndLength(t *testing.T) {
	root := "/home/user/project"
	in := []string{
		"/home/user/project/a.vhd",
		"/home/user/project/sub/b.vhd",
		"/outside/c.vhd",
	}
	out := ToRelativeAll(in, root)
	want := []string{"a.vhd", "sub/b.vhd", "/outside/c.vhd"}
	if len(out) != len(want) {
		t.Fatalf("got %d results, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, out[i], want[i])
		}
	}
}

func TestToRelativeAllEmptySlice(t *testing.T) {
	if got := ToRelativeAll(nil, "/home/user/project"); got != nil {
		t.Errorf("expected nil for nil input, got %v", got)
	}
}
