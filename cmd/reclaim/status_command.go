package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"reclaim/internal/fileutil"
	"reclaim/internal/queue"
	"reclaim/internal/services"
)

type statusOptions struct {
	outputDir string
}

func newStatusCommand(flags *rootFlags) *cobra.Command {
	opts := &statusOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the run ledger for an output directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := loadApp(flags)
			if err != nil {
				return err
			}
			return executeStatus(cmd.Context(), application, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.outputDir, "output", "", "output directory holding the ledger")

	return cmd
}

func executeStatus(ctx context.Context, application *app, opts *statusOptions, out io.Writer) error {
	outputDir := firstNonEmpty(opts.outputDir, application.cfg.Paths.OutputDir)
	if outputDir == "" {
		return services.Wrap(services.ErrUsage, "cli", "status",
			"output directory is required (flag or config)", nil)
	}

	ledgerPath := filepath.Join(outputDir, ledgerFileName)
	if !fileutil.FileExists(ledgerPath) {
		fmt.Fprintf(out, "no ledger at %s; nothing has been processed yet\n", ledgerPath)
		return nil
	}

	store, err := queue.Open(ctx, ledgerPath)
	if err != nil {
		return err
	}
	defer store.Close()

	items, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "ledger is empty")
		return nil
	}

	fmt.Fprintln(out, renderStatusTable(items))

	counts, err := store.CountsByStatus(ctx)
	if err != nil {
		return err
	}
	for _, status := range []queue.Status{
		queue.StatusPending, queue.StatusDecoding, queue.StatusDecoded,
		queue.StatusFailed, queue.StatusCommitted,
	} {
		if counts[status] > 0 {
			fmt.Fprintf(out, "%s: %d\n", status, counts[status])
		}
	}
	return nil
}
