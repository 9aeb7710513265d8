package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/depfilter/internal/scan"
	"github.com/papapumpkin/depfilter/internal/sidecar"
	"github.com/papapumpkin/depfilter/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fail if any side-car path filter differs from the computed one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := ui.New()
		cfg, s, err := setup()
		if err != nil {
			printer.Error(err.Error())
			return err
		}
		return check(cmd.Context(), printer, s, cfg.OutputFile)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func check(ctx context.Context, printer *ui.Printer, s *scan.Scanner, outputFile string) error {
	results, err := s.Scan(ctx)
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	stale := 0
	for _, r := range results {
		status, err := sidecar.Check(r.Path, outputFile, r.Filter)
		if err != nil {
			return err
		}
		path := sidecar.Path(r.Path, outputFile)
		if status != sidecar.StatusCurrent {
			stale++
			printer.Stale(path, status.String())
			continue
		}
		printer.UpToDate(path)
	}

	printer.CheckSummary(len(results), stale)
	if stale > 0 {
		return fmt.Errorf("%d stale path filter file(s)", stale)
	}
	return nil
}
