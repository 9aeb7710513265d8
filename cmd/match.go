package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/depfilter/internal/pathfilter"
	"github.com/papapumpkin/depfilter/internal/ui"
)

var matchCmd = &cobra.Command{
	Use:   "match <pipeline-descriptor> <changed-path>...",
	Short: "Show which changed paths would trigger a pipeline",
	Long: "Changed paths are repository-relative and slash-separated, as printed by\n" +
		"`git diff --name-only`. Paths that trigger the pipeline are echoed to stdout.",
	Args: cobra.MinimumNArgs(2),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	printer := ui.New()
	_, s, err := setup()
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	r, err := s.Resolve(args[0])
	if err != nil {
		printer.Error(err.Error())
		return err
	}
	for _, changed := range args[1:] {
		matched := pathfilter.Matches(r.Filter, changed)
		printer.Match(changed, matched)
		if matched {
			fmt.Fprintln(cmd.OutOrStdout(), changed)
		}
	}
	return nil
}
