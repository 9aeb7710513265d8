package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/depfilter/internal/report"
	"github.com/papapumpkin/depfilter/internal/scan"
	"github.com/papapumpkin/depfilter/internal/ui"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a TOML summary of every pipeline's dependencies and filter",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().String("out", "", "report path (default <root-dir>/"+report.DefaultPath+")")
	reportCmd.Flags().Bool("keep-going", false, "record unreadable pipelines in the report instead of failing")
	reportCmd.Flags().Bool("check", false, "compare against the existing report instead of writing it")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	keepGoing, _ := cmd.Flags().GetBool("keep-going")
	checkOnly, _ := cmd.Flags().GetBool("check")

	printer := ui.New()
	cfg, s, err := setup()
	if err != nil {
		printer.Error(err.Error())
		return err
	}
	s.KeepGoing = keepGoing
	if out == "" {
		out = filepath.Join(s.Root, filepath.FromSlash(report.DefaultPath))
	}

	if checkOnly {
		return checkReport(cmd.Context(), printer, s, out, cfg.Hops)
	}
	return writeReport(cmd.Context(), printer, s, out, cfg.Hops)
}

func writeReport(ctx context.Context, printer *ui.Printer, s *scan.Scanner, out string, hops int) error {
	results, err := s.Scan(ctx)
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	r := report.Build(results, s.Root, s.Options.Marker, hops, time.Now())
	if err := report.Save(out, r); err != nil {
		printer.Error(err.Error())
		return err
	}
	printer.ReportWritten(out, len(r.Pipelines))
	return failures(results)
}

// checkReport fails when the report at out no longer matches a fresh scan.
func checkReport(ctx context.Context, printer *ui.Printer, s *scan.Scanner, out string, hops int) error {
	results, err := s.Scan(ctx)
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	prev, err := report.Load(out)
	if err != nil {
		printer.Error(err.Error())
		return err
	}
	changes := report.Diff(prev, report.Build(results, s.Root, s.Options.Marker, hops, time.Now()))
	for _, c := range changes {
		printer.Stale(c.Path, c.Reason)
	}
	if len(changes) > 0 {
		return fmt.Errorf("%d pipeline(s) differ from %s", len(changes), out)
	}
	printer.UpToDate(out)
	return failures(results)
}
