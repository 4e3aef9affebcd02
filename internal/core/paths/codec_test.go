package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		cwd  string
		want string
	}{
		{"simple path", "/home/devkit/foo/bar", "home-devkit-foo-bar"},
		{"hidden directory", "/home/devkit/.local/foo", "home-devkit--local-foo"},
		{"root-level", "/srv", "srv"},
		{"trailing component with dash", "/home/devkit/my-proj", "home-devkit-my-proj"},
		{"underscores preserved", "/home/devkit/my_proj", "home-devkit-my_proj"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.cwd); got != tt.want {
				t.Errorf("Encode(%q) = %q, want %q", tt.cwd, got, tt.want)
			}
		})
	}
}

// Re-encoding the slash-expanded form of an encoding must be stable for
// paths without dot components.
func TestEncodeIdempotent(t *testing.T) {
	cwd := "/home/devkit/foo/bar"
	encoded := Encode(cwd)
	decoded := "/" + strings.ReplaceAll(encoded, "-", "/")
	if got := Encode(decoded); got != encoded {
		t.Errorf("Encode(%q) = %q, want %q", decoded, got, encoded)
	}
}

func TestCandidates(t *testing.T) {
	got := Candidates("/home/devkit/foo")
	want := []string{"home-devkit-foo", "-home-devkit-foo"}
	if len(got) != len(want) {
		t.Fatalf("Candidates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Candidates()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCandidatesWithUnderscores(t *testing.T) {
	got := Candidates("/home/devkit/my_proj")
	want := []string{
		"home-devkit-my_proj",
		"-home-devkit-my_proj",
		"home-devkit-my-proj",
		"-home-devkit-my-proj",
	}
	if len(got) != len(want) {
		t.Fatalf("Candidates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Candidates()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindProjectDir(t *testing.T) {
	root := t.TempDir()

	// Only the leading-dash variant exists on disk.
	if err := os.Mkdir(filepath.Join(root, "-home-devkit-foo"), 0755); err != nil {
		t.Fatal(err)
	}

	got := FindProjectDir(root, "/home/devkit/foo")
	if got != filepath.Join(root, "-home-devkit-foo") {
		t.Errorf("FindProjectDir() = %q, want leading-dash variant", got)
	}
}

func TestFindProjectDirMissing(t *testing.T) {
	root := t.TempDir()
	if got := FindProjectDir(root, "/no/such/project"); got != "" {
		t.Errorf("FindProjectDir() = %q, want empty for unknown project", got)
	}
}
