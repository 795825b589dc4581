package main

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"reclaim/internal/config"
	"reclaim/internal/logging"
	"reclaim/internal/services"
)

// ledgerFileName is the run ledger inside the output directory.
const ledgerFileName = "reclaim.db"

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// app carries resolved configuration and the process logger into commands.
type app struct {
	cfg       *config.Config
	cfgPath   string
	cfgLoaded bool
	logger    *slog.Logger
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "reclaim",
		Short: "Recover quarantined files and their original names",
		Long: `reclaim decodes antivirus quarantine containers back into their original
payload bytes, then reconstructs the original filenames from evidence text
(saved listings or OCR of screenshots) by matching claimed sizes against the
recovered blobs. Nothing is written to the output directory until the
assignment is reviewed and confirmed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format (console, json)")

	root.AddCommand(newRunCommand(flags))
	root.AddCommand(newExtractCommand(flags))
	root.AddCommand(newEvidenceCommand(flags))
	root.AddCommand(newStatusCommand(flags))
	root.AddCommand(newConfigCommand(flags))

	return root
}

// loadApp resolves configuration and builds the process logger. Level and
// format flags override the config file.
func loadApp(flags *rootFlags) (*app, error) {
	cfg, cfgPath, loaded, err := config.Load(flags.configPath)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "config", "load configuration", err)
	}

	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Logging.Format = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "config", "validate configuration", err)
	}

	logPath := filepath.Join(cfg.Paths.LogDir, "reclaim.log")
	logger, err := logging.NewTee(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}, logPath)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "logging", "initialize logger", err)
	}

	return &app{cfg: cfg, cfgPath: cfgPath, cfgLoaded: loaded, logger: logger}, nil
}
