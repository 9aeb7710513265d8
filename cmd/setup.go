package cmd

import (
	"fmt"
	"os"

	"github.com/papapumpkin/depfilter/internal/config"
	"github.com/papapumpkin/depfilter/internal/logging"
	"github.com/papapumpkin/depfilter/internal/scan"
)

// setup loads configuration and builds the scanner every command shares.
func setup() (config.Config, *scan.Scanner, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	s, err := scan.New(cfg, logging.New(os.Stderr, cfg.Verbose))
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, s, nil
}

// failures summarizes results that could not be resolved.
func failures(results []scan.Result) error {
	if failed := scan.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d pipeline(s) could not be resolved", len(failed))
	}
	return nil
}
