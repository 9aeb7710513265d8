package fenced

import "testing"

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		open    string
		closing string
		want    string
		wantOK  bool
	}{
		{"double quotes", `Include="a\b.csproj" />`, `"`, `"`, `a\b.csproj`, true},
		{"single quotes", `projects: 'x/y.csproj'`, `'`, `'`, "x/y.csproj", true},
		{"first span wins", `"one" "two"`, `"`, `"`, "one", true},
		{"distinct markers", "<<payload>> tail", "<<", ">>", "payload", true},
		{"empty payload", `key: ""`, `"`, `"`, "", true},
		{"no open marker", "plain text", `"`, `"`, "", false},
		{"no closing marker", `unterminated "value`, `"`, `"`, "", false},
		{"embedded marker truncates", `"it"s"`, `"`, `"`, "it", true},
		{"empty markers", "anything", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Extract(tt.line, tt.open, tt.closing)
			if ok != tt.wantOK {
				t.Fatalf("Extract(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestPrefixed(t *testing.T) {
	t.Parallel()

	if got, ok := Prefixed(`"a" b`, `"`, `"`); !ok || got != "a" {
		t.Errorf("Prefixed at start = %q, %v; want %q, true", got, ok, "a")
	}
	if _, ok := Prefixed(` "a"`, `"`, `"`); ok {
		t.Error("Prefixed should reject a line not starting with the open marker")
	}
}
