package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ndewijer/finance-ingest/internal/ingest"
	"github.com/ndewijer/finance-ingest/internal/logger"
)

func newIngestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [file...]",
		Short: "Process files waiting in the input directory once and exit",
		Long: `Process files already placed in {base}/json_in and route them like the
watcher does. With no arguments every waiting file is processed; otherwise only
the named files are. Arguments are reduced to their base name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log := logger.New(cfg.Log.Level)
			ctx := cmd.Context()

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.orchestrator.Prepare(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				n, err := a.orchestrator.PollOnce(ctx)
				fmt.Fprintf(out, "processed %d file(s)\n", n)
				return err
			}

			var errs []error
			for _, arg := range args {
				report, err := a.orchestrator.IngestFile(ctx, filepath.Base(arg))
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", arg, err))
					continue
				}
				printReport(cmd, report)
			}
			return errors.Join(errs...)
		},
	}
}

func printReport(cmd *cobra.Command, r ingest.Report) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s (records=%d inserted=%d duplicates=%d)\n",
		r.FileName, r.Outcome, r.Destination, r.Records, r.Inserted, r.Duplicates)
}
