package main

import (
	"fmt"
	"io"

	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
	"github.com/ogurasousui/turnover-analytics/internal/platform/app"
	"github.com/spf13/cobra"
)

type importOptions struct {
	src    fileSourceOptions
	dryRun bool
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a roster spreadsheet (CSV or XLSX) as a new snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts.src.file = args[0]

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			rosterCfg := opts.src.apply(cfg.Roster)

			var (
				svc     *roster.Service
				closeFn = func() {}
			)
			if opts.dryRun {
				svc, err = app.NewRosterService(rosterCfg, nil, nil)
			} else {
				svc, closeFn, err = openStore(ctx, cfg)
			}
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := ingestFile(ctx, svc, opts.src.file, rosterCfg)
			if err != nil {
				return err
			}

			printImportSummary(cmd.OutOrStdout(), res, opts.dryRun)
			return nil
		},
	}

	opts.src.bind(cmd, "")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Normalize and report without persisting")

	return cmd
}

func printImportSummary(w io.Writer, res *roster.IngestResult, dryRun bool) {
	mode := "persisted"
	if dryRun {
		mode = "dry-run"
	}
	diag := res.Batch.Diagnostics

	fmt.Fprintf(w, "snapshot %s (%s)\n", res.Batch.ID, mode)
	fmt.Fprintf(w, "rows=%d imported=%d skipped=%d empty=%d\n", diag.TotalRows, res.Imported, res.Skipped, diag.EmptyRows)
	for _, e := range diag.Errors {
		fmt.Fprintf(w, "  row %d: %s %q: %s\n", e.Row, e.Field, e.Value, e.Reason)
	}
	if hidden := res.Skipped - len(diag.Errors); hidden > 0 {
		fmt.Fprintf(w, "  ... %d more skipped rows not listed\n", hidden)
	}
}
