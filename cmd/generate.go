package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/depfilter/internal/config"
	"github.com/papapumpkin/depfilter/internal/discover"
	"github.com/papapumpkin/depfilter/internal/scan"
	"github.com/papapumpkin/depfilter/internal/sidecar"
	"github.com/papapumpkin/depfilter/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Compute path filters and write them beside each pipeline",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().Bool("dry-run", false, "print filters without writing side-car files")
	generateCmd.Flags().Bool("keep-going", false, "report unreadable pipelines and continue with the rest")
	generateCmd.Flags().Bool("watch", false, "regenerate whenever a descriptor changes")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	keepGoing, _ := cmd.Flags().GetBool("keep-going")
	watch, _ := cmd.Flags().GetBool("watch")

	printer := ui.New()
	cfg, s, err := setup()
	if err != nil {
		printer.Error(err.Error())
		return err
	}
	s.KeepGoing = keepGoing || watch

	results, err := generate(cmd.Context(), printer, s, cfg.OutputFile, dryRun)
	if !watch {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchAndRegenerate(ctx, printer, s, cfg, results, dryRun)
}

// generate runs one scan, prints every pipeline, and writes side-car files
// unless dryRun is set. Failed pipelines are reported and skipped; the
// returned error notes them after every other file has been written.
func generate(ctx context.Context, printer *ui.Printer, s *scan.Scanner, outputFile string, dryRun bool) ([]scan.Result, error) {
	results, err := s.Scan(ctx)
	if err != nil {
		printer.Error(err.Error())
		return nil, err
	}

	for _, r := range results {
		if r.Err != nil {
			printer.Error(r.Err.Error())
			continue
		}
		printer.PipelineSummary(r.Pipeline.Name, len(r.Pipeline.Projects), r.Filter)
	}
	if dryRun {
		return results, failures(results)
	}

	printer.CreatingFilterFiles()
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		path, err := sidecar.Write(r.Path, outputFile, r.Filter)
		if err != nil {
			printer.Error(err.Error())
			return results, err
		}
		printer.FilterFileWritten(path)
	}
	printer.Done()
	return results, failures(results)
}

// watchAndRegenerate reruns generate after every descriptor change until ctx
// is cancelled. The watched directory set is rebuilt after each run.
func watchAndRegenerate(ctx context.Context, printer *ui.Printer, s *scan.Scanner, cfg config.Config, results []scan.Result, dryRun bool) error {
	for {
		w, err := discover.NewWatcher(cfg.PipelineFile, cfg.ProjectExt)
		if err != nil {
			return err
		}
		dirs := append([]string{s.Root}, scan.WatchDirs(results)...)
		if err := w.Start(dirs); err != nil {
			w.Stop()
			return err
		}
		printer.Watching(len(dirs))

		select {
		case <-ctx.Done():
			w.Stop()
			return nil
		case path, ok := <-w.Changes:
			w.Stop()
			if !ok {
				return nil
			}
			printer.Changed(path)
		}

		// Keep the previous watch set when a pass fails outright.
		if next, err := generate(ctx, printer, s, cfg.OutputFile, dryRun); next != nil {
			results = next
		} else if ctx.Err() != nil {
			return nil
		} else if err != nil {
			printer.Info("waiting for the next change")
		}
	}
}
