package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/depfilter/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "depfilter",
	Short: "Generate Azure DevOps path filters from project references",
	Long: "depfilter finds every pipeline descriptor under a repository, follows the project\n" +
		"references of the projects each pipeline builds, and writes the directory globs\n" +
		"that should trigger it to a side-car file beside the pipeline.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default .depfilter.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.StringP("root-dir", "r", ".", "root directory to search from")
	flags.String("repo-marker", "", "repository root directory name (default: anchor at --root-dir itself)")
	flags.Int("hops", 1, "reference levels followed beyond a pipeline's own projects")
	flags.Int("cache-size", 0, "memoize up to N parsed projects per run (0 parses every reference)")

	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("root_dir", flags.Lookup("root-dir"))
	_ = viper.BindPFlag("repo_marker", flags.Lookup("repo-marker"))
	_ = viper.BindPFlag("hops", flags.Lookup("hops"))
	_ = viper.BindPFlag("cache_size", flags.Lookup("cache-size"))
}

func initConfig() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".depfilter")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("DEPFILTER")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
