package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/depfilter/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <pipeline-descriptor>",
	Short: "Display a pipeline's projects, their references, and its path filter",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
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
	printer.PipelineDetail(r.Pipeline, r.Filter)
	fmt.Fprintln(cmd.OutOrStdout(), r.Filter)
	return nil
}
