package pathfilter

import (
	"path/filepath"
	"testing"
)

func TestGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		path   string
		marker string
		want   string
	}{
		{"nested project", "/home/ci/Portal/Module/Api/Api.csproj", "Portal", "Module/Api/*;"},
		{"top-level project", "/home/ci/Portal/Shared/Shared.csproj", "Portal", "Shared/*;"},
		{"project at root", "/home/ci/Portal/Root.csproj", "Portal", "*;"},
		{"marker missing", "/a/b/B.csproj", "Portal", "a/b/*;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Glob(filepath.FromSlash(tt.path), tt.marker)
			if got != tt.want {
				t.Errorf("Glob(%q) = %q, want %q", tt.path, got, tt.want)
			}
			if again := Glob(filepath.FromSlash(tt.path), tt.marker); again != got {
				t.Errorf("Glob is not stable: %q then %q", got, again)
			}
		})
	}
}

func TestGlobWithin(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/home/runner/work/Portal/Portal")
	tests := []struct {
		path string
		want string
	}{
		{"/home/runner/work/Portal/Portal/Module/Api/Api.csproj", "Module/Api/*;"},
		{"/home/runner/work/Portal/Portal/Root.csproj", "*;"},
	}
	for _, tt := range tests {
		if got := GlobWithin(filepath.FromSlash(tt.path), root); got != tt.want {
			t.Errorf("GlobWithin(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestGlobSameDirectory(t *testing.T) {
	t.Parallel()

	a := Glob(filepath.FromSlash("/r/Portal/Module/Api/Api.csproj"), "Portal")
	b := Glob(filepath.FromSlash("/r/Portal/Module/Api/Other.csproj"), "Portal")
	if a != b {
		t.Errorf("globs differ for the same directory: %q vs %q", a, b)
	}
}

func TestReduce(t *testing.T) {
	t.Parallel()

	got := Reduce([]string{"Shared/*;", "Module/Api/*;", "Shared/*;", "Module/Subscriber/*;"})
	want := "Module/Api/*; Module/Subscriber/*; Shared/*;"
	if got != want {
		t.Errorf("Reduce = %q, want %q", got, want)
	}
	if Reduce(nil) != "" {
		t.Errorf("Reduce(nil) = %q, want empty", Reduce(nil))
	}
}

func TestCanonicalDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []string{"b;", "a;", "b;"}
	_ = Canonical(in)
	if in[0] != "b;" || in[1] != "a;" || in[2] != "b;" {
		t.Errorf("input mutated: %v", in)
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	filter := "Module/Api/*; Shared/*;"
	tests := []struct {
		path string
		want bool
	}{
		{"Module/Api/Controllers/Orders.cs", true},
		{"Module/Api/Api.csproj", true},
		{"/Shared/Shared.csproj", true},
		{"Module/Subscriber/Program.cs", false},
		{"README.md", false},
	}

	for _, tt := range tests {
		if got := Matches(filter, tt.path); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
