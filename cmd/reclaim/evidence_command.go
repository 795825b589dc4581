package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"reclaim/internal/logging"
	"reclaim/internal/services"
)

type evidenceOptions struct {
	evidenceText   string
	screenshotsDir string
}

func newEvidenceCommand(flags *rootFlags) *cobra.Command {
	opts := &evidenceOptions{}

	cmd := &cobra.Command{
		Use:   "evidence",
		Short: "Parse evidence sources and print the name/size candidates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := loadApp(flags)
			if err != nil {
				return err
			}
			return executeEvidence(cmd.Context(), application, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.evidenceText, "evidence", "", "text file with filename/size evidence")
	cmd.Flags().StringVar(&opts.screenshotsDir, "screenshots", "", "directory of screenshots to OCR")

	return cmd
}

func executeEvidence(ctx context.Context, application *app, opts *evidenceOptions, out io.Writer) error {
	cfg := application.cfg

	logger := logging.NewComponentLogger(application.logger, "evidence")
	sources := evidenceSources(cfg, opts.evidenceText, opts.screenshotsDir, logger)
	if len(sources) == 0 {
		return services.Wrap(services.ErrUsage, "cli", "evidence",
			"no evidence sources given (use --evidence or --screenshots, or set paths in config)", nil)
	}

	candidates, err := collectCandidates(ctx, cfg, sources, logger)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Fprintln(out, "no candidates found")
		return nil
	}

	fmt.Fprintln(out, renderCandidateTable(candidates))
	return nil
}
