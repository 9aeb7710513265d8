package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/viper"

	"github.com/papapumpkin/depfilter/internal/discover"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"RootDir", cfg.RootDir, "."},
		{"RepoMarker", cfg.RepoMarker, ""},
		{"PipelineFile", cfg.PipelineFile, "azure-pipelines.yml"},
		{"ProjectExt", cfg.ProjectExt, "csproj"},
		{"OutputFile", cfg.OutputFile, ".azure-pathfilter"},
		{"Hops", cfg.Hops, 1},
		{"CacheSize", cfg.CacheSize, 0},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if !reflect.DeepEqual(cfg.Exclude, discover.DefaultExclude) {
		t.Errorf("Exclude = %v, want %v", cfg.Exclude, discover.DefaultExclude)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "root_dir",
			envKey: "DEPFILTER_ROOT_DIR",
			envVal: "/src/portal",
			field:  func(c Config) any { return c.RootDir },
			want:   "/src/portal",
		},
		{
			name:   "repo_marker",
			envKey: "DEPFILTER_REPO_MARKER",
			envVal: "SE-CustomerPortal",
			field:  func(c Config) any { return c.RepoMarker },
			want:   "SE-CustomerPortal",
		},
		{
			name:   "hops",
			envKey: "DEPFILTER_HOPS",
			envVal: "3",
			field:  func(c Config) any { return c.Hops },
			want:   3,
		},
		{
			name:   "cache_size",
			envKey: "DEPFILTER_CACHE_SIZE",
			envVal: "256",
			field:  func(c Config) any { return c.CacheSize },
			want:   256,
		},
		{
			name:   "verbose",
			envKey: "DEPFILTER_VERBOSE",
			envVal: "true",
			field:  func(c Config) any { return c.Verbose },
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			viper.SetEnvPrefix("DEPFILTER")
			viper.AutomaticEnv()
			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			if got := tt.field(cfg); got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"negative hops", "hops", -1},
		{"negative cache", "cache_size", -5},
		{"empty pipeline file", "pipeline_file", ""},
		{"empty extension", "project_ext", ""},
		{"empty output", "output_file", ""},
		{"bad exclude", "exclude", []string{"[oops"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			viper.Set(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%v: expected error", tt.key, tt.val)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	if err := LoadEnvFile(filepath.Join(dir, ".env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}

	t.Setenv("DEPFILTER_OUTPUT_FILE", "from-env")
	path := filepath.Join(dir, ".env")
	content := "DEPFILTER_OUTPUT_FILE=from-dotenv\nDEPFILTER_PROJECT_EXT=vbproj\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DEPFILTER_PROJECT_EXT", "")
	os.Unsetenv("DEPFILTER_PROJECT_EXT")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("DEPFILTER_OUTPUT_FILE"); got != "from-env" {
		t.Errorf("existing variable overridden: %q", got)
	}
	if got := os.Getenv("DEPFILTER_PROJECT_EXT"); got != "vbproj" {
		t.Errorf("DEPFILTER_PROJECT_EXT = %q, want vbproj", got)
	}
}
