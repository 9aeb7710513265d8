package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/papapumpkin/depfilter/internal/discover"
)

// Config holds all runtime configuration for a depfilter run.
// Values are populated from .depfilter.yaml, DEPFILTER_* env vars (optionally
// seeded from a .env file), and CLI flags.
type Config struct {
	RootDir      string   `mapstructure:"root_dir"`
	RepoMarker   string   `mapstructure:"repo_marker"`
	PipelineFile string   `mapstructure:"pipeline_file"`
	ProjectExt   string   `mapstructure:"project_ext"`
	OutputFile   string   `mapstructure:"output_file"`
	Hops         int      `mapstructure:"hops"`
	CacheSize    int      `mapstructure:"cache_size"`
	Exclude      []string `mapstructure:"exclude"`
	Verbose      bool     `mapstructure:"verbose"`
}

// LoadEnvFile loads variables from path into the process environment without
// overriding values that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("root_dir", ".")
	viper.SetDefault("repo_marker", "")
	viper.SetDefault("pipeline_file", "azure-pipelines.yml")
	viper.SetDefault("project_ext", "csproj")
	viper.SetDefault("output_file", ".azure-pathfilter")
	viper.SetDefault("hops", 1)
	viper.SetDefault("cache_size", 0)
	viper.SetDefault("exclude", discover.DefaultExclude)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the resolvers cannot run with.
func (c Config) Validate() error {
	switch {
	case c.PipelineFile == "":
		return errors.New("pipeline_file must not be empty")
	case c.ProjectExt == "":
		return errors.New("project_ext must not be empty")
	case c.OutputFile == "":
		return errors.New("output_file must not be empty")
	case c.Hops < 0:
		return fmt.Errorf("hops must be >= 0, got %d", c.Hops)
	case c.CacheSize < 0:
		return fmt.Errorf("cache_size must be >= 0, got %d", c.CacheSize)
	}
	return discover.ValidatePatterns(c.Exclude)
}

// AbsRoot returns RootDir made absolute against the working directory.
func (c Config) AbsRoot() (string, error) {
	abs, err := filepath.Abs(c.RootDir)
	if err != nil {
		return "", fmt.Errorf("resolving root_dir %q: %w", c.RootDir, err)
	}
	return abs, nil
}
