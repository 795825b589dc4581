package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"reclaim/internal/commit"
	"reclaim/internal/extraction"
	"reclaim/internal/logging"
	"reclaim/internal/match"
	"reclaim/internal/queue"
	"reclaim/internal/review"
	"reclaim/internal/services"
)

type runOptions struct {
	quarantineDir  string
	outputDir      string
	evidenceText   string
	screenshotsDir string
	assumeYes      bool
}

func newRunCommand(flags *rootFlags) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Decode quarantine containers, match names, review, and commit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := loadApp(flags)
			if err != nil {
				return err
			}
			interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
			return executeRun(cmd.Context(), application, opts, os.Stdin, cmd.OutOrStdout(), interactive)
		},
	}

	cmd.Flags().StringVar(&opts.quarantineDir, "quarantine", "", "directory holding quarantine containers")
	cmd.Flags().StringVar(&opts.outputDir, "output", "", "directory receiving work dirs and recovered files")
	cmd.Flags().StringVar(&opts.evidenceText, "evidence", "", "text file with filename/size evidence")
	cmd.Flags().StringVar(&opts.screenshotsDir, "screenshots", "", "directory of screenshots to OCR for evidence")
	cmd.Flags().BoolVarP(&opts.assumeYes, "yes", "y", false, "accept suggested names without prompting")

	return cmd
}

// executeRun is the full pipeline: decode, gather evidence, match, review,
// commit. It is separated from cobra wiring so tests can drive it with
// scripted input.
func executeRun(ctx context.Context, application *app, opts *runOptions, in io.Reader, out io.Writer, interactive bool) error {
	cfg := application.cfg

	quarantineDir := firstNonEmpty(opts.quarantineDir, cfg.Paths.QuarantineDir)
	outputDir := firstNonEmpty(opts.outputDir, cfg.Paths.OutputDir)
	if quarantineDir == "" || outputDir == "" {
		return services.Wrap(services.ErrUsage, "cli", "run",
			"quarantine and output directories are required (flags or config)", nil)
	}

	sessionID := uuid.NewString()
	ctx = services.WithSessionID(ctx, sessionID)
	logger := logging.NewComponentLogger(application.logger, "run")
	logger = logging.WithContext(ctx, logger)

	dec := buildDecoder(cfg)

	// An empty quarantine must fail before anything lands in the output
	// tree, including the ledger.
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

	decoded := make([]extraction.ItemResult, 0, len(results))
	failures := 0
	for _, result := range results {
		if result.Err != nil {
			failures++
			continue
		}
		decoded = append(decoded, result)
	}
	logger.Info("decode phase complete",
		logging.Int("decoded", len(decoded)),
		logging.Int("failed", failures))
	if len(decoded) == 0 {
		return services.Wrap(services.ErrExternalTool, "cli", "run",
			fmt.Sprintf("all %d containers failed to decode", failures), nil)
	}

	sources := evidenceSources(cfg, opts.evidenceText, opts.screenshotsDir,
		logging.NewComponentLogger(application.logger, "ocr"))
	candidates, err := collectCandidates(ctx, cfg, sources, logger)
	if err != nil {
		return err
	}

	matcher := match.New(cfg.Matcher.Tolerance, cfg.Matcher.MinBlobBytes)
	rows := make([]review.Row, 0, len(decoded))
	for _, item := range decoded {
		row := review.Row{Hash: item.Hash, BlobSize: item.BlobSize}
		if suggestion, ok := matcher.Suggest(item.BlobSize, candidates); ok {
			row.Suggested = suggestion.Candidate.Name
			row.Final = suggestion.Candidate.Name
			row.RelError = suggestion.RelError
		}
		rows = append(rows, row)
	}

	var outcome review.Outcome
	switch {
	case opts.assumeYes:
		fmt.Fprintln(out, review.RenderTable(rows))
		outcome = review.OutcomeConfirmed
	case !interactive:
		return services.Wrap(services.ErrInteractive, "cli", "run",
			"stdin is not a terminal; re-run with --yes to accept suggestions unattended", nil)
	default:
		prompter := &review.LinePrompter{In: bufio.NewReader(in), Out: out}
		session := review.NewSession(rows, prompter, out)
		outcome, rows, err = session.Run()
		if err != nil {
			return err
		}
	}

	if outcome == review.OutcomeCancelled {
		fmt.Fprintln(out, "cancelled, nothing was written")
		logger.Info("run cancelled before commit")
		return nil
	}

	return commitRows(ctx, store, rows, decoded, out, logger)
}

// commitRows writes every named row next to its blob and records the outcome.
// Unnamed rows stay untouched in their work directories.
func commitRows(ctx context.Context, store *queue.Store,
	rows []review.Row, decoded []extraction.ItemResult, out io.Writer, logger *slog.Logger) error {

	blobByHash := make(map[string]string, len(decoded))
	for _, item := range decoded {
		blobByHash[item.Hash] = item.BlobPath
	}

	var result commit.Result
	skipped := 0
	for _, row := range rows {
		if row.Final == "" {
			skipped++
			continue
		}
		blobPath, ok := blobByHash[row.Hash]
		if !ok {
			skipped++
			continue
		}
		copied, err := commit.Commit(blobPath, row.Final)
		if err != nil {
			return err
		}
		if copied.Renamed {
			logger.Warn("name collision resolved",
				logging.String("item_hash", row.Hash),
				logging.String("requested", row.Final),
				logging.String("written", copied.Name))
		}
		if err := store.MarkCommitted(ctx, row.Hash, copied.Name); err != nil {
			logger.Warn("could not record commit", logging.String("item_hash", row.Hash), logging.Error(err))
		}
		fmt.Fprintf(out, "recovered %s -> %s\n", row.Hash, copied.Name)
		result.Copies = append(result.Copies, copied)
	}

	fmt.Fprintf(out, "committed %d file(s), %d left unnamed in work directories\n", result.Count(), skipped)
	logger.Info("commit phase complete",
		logging.Int("committed", result.Count()),
		logging.Int("unnamed", skipped))
	return nil
}
