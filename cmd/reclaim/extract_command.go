package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"reclaim/internal/extraction"
	"reclaim/internal/logging"
	"reclaim/internal/queue"
	"reclaim/internal/services"
)

type extractOptions struct {
	quarantineDir string
	outputDir     string
}

func newExtractCommand(flags *rootFlags) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Decode quarantine containers without matching or committing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := loadApp(flags)
			if err != nil {
				return err
			}
			return executeExtract(cmd.Context(), application, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.quarantineDir, "quarantine", "", "directory holding quarantine containers")
	cmd.Flags().StringVar(&opts.outputDir, "output", "", "directory receiving work dirs")

	return cmd
}

func executeExtract(ctx context.Context, application *app, opts *extractOptions, out io.Writer) error {
	cfg := application.cfg

	quarantineDir := firstNonEmpty(opts.quarantineDir, cfg.Paths.QuarantineDir)
	outputDir := firstNonEmpty(opts.outputDir, cfg.Paths.OutputDir)
	if quarantineDir == "" || outputDir == "" {
		return services.Wrap(services.ErrUsage, "cli", "extract",
			"quarantine and output directories are required (flags or config)", nil)
	}

	sessionID := uuid.NewString()
	ctx = services.WithSessionID(ctx, sessionID)

	dec := buildDecoder(cfg)

	preflight := extraction.NewManager(quarantineDir, outputDir, cfg.Decoder.ContainerExtension, dec)
	if _, err := preflight.Scan(); err != nil {
		return err
	}

	store, err := queue.Open(ctx, filepath.Join(outputDir, ledgerFileName))
	if err != nil {
		return err
	}
	defer store.Close()

	manager := extraction.NewManager(quarantineDir, outputDir, cfg.Decoder.ContainerExtension,
		dec,
		extraction.WithStore(store),
		extraction.WithSessionID(sessionID),
		extraction.WithLogger(application.logger),
		extraction.WithArtifactSuffix(cfg.Decoder.OutputSuffix),
	)

	results, err := manager.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderExtractionTable(results))

	failures := 0
	for _, result := range results {
		if result.Err != nil {
			failures++
		}
	}
	logger := logging.NewComponentLogger(application.logger, "extract")
	logger.Info("extract complete",
		logging.Int("items", len(results)),
		logging.Int("failed", failures))
	if failures == len(results) {
		return services.Wrap(services.ErrExternalTool, "cli", "extract",
			fmt.Sprintf("all %d containers failed to decode", failures), nil)
	}
	return nil
}
