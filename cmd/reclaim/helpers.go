package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"reclaim/internal/config"
	"reclaim/internal/decoder"
	"reclaim/internal/evidence"
	"reclaim/internal/logging"
	"reclaim/internal/ocr"
	"reclaim/internal/services"
)

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

// buildDecoder selects the configured external decoder or falls back to the
// built-in transform.
func buildDecoder(cfg *config.Config) decoder.Decoder {
	if cfg.Decoder.Binary == "" {
		return decoder.NewBuiltin()
	}
	return decoder.NewCLI(cfg.Decoder.Binary,
		decoder.WithArgs(cfg.Decoder.Args...),
		decoder.WithTimeout(time.Duration(cfg.Decoder.TimeoutSeconds)*time.Second),
		decoder.WithArtifactSuffix(cfg.Decoder.OutputSuffix),
	)
}

// evidenceSources assembles the configured evidence inputs. Flags override
// config; both a text file and a screenshots directory may be active at once.
func evidenceSources(cfg *config.Config, textPath, screenshotsDir string, logger *slog.Logger) []ocr.Source {
	var sources []ocr.Source
	if path := firstNonEmpty(textPath, cfg.Paths.EvidenceText); path != "" {
		sources = append(sources, ocr.TextFile{Path: path})
	}
	if dir := firstNonEmpty(screenshotsDir, cfg.Paths.ScreenshotsDir); dir != "" {
		sources = append(sources, ocr.Tesseract{
			Dir:      dir,
			Binary:   cfg.OCR.Binary,
			Language: cfg.OCR.Language,
			Timeout:  time.Duration(cfg.OCR.TimeoutSeconds) * time.Second,
			Logger:   logger,
		})
	}
	return sources
}

// collectCandidates gathers evidence text and parses it. With no sources or
// no text the run degrades to hash-only review instead of failing.
func collectCandidates(ctx context.Context, cfg *config.Config, sources []ocr.Source, logger *slog.Logger) ([]evidence.Candidate, error) {
	if len(sources) == 0 {
		logger.Warn("no evidence sources configured, names must be entered manually")
		return nil, nil
	}

	text, err := ocr.Combine(ctx, sources...)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		logger.Warn("evidence sources produced no text")
		return nil, nil
	}

	parser, err := evidence.NewParser(cfg.Matcher.LookaheadLines, cfg.Matcher.ExcludePattern)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "evidence", "build evidence parser", err)
	}

	candidates := parser.Parse(text)
	logger.Info("parsed evidence", logging.Int("candidates", len(candidates)))
	return candidates, nil
}
