package main

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"reclaim/internal/config"
	"reclaim/internal/services"
)

func newConfigCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := loadApp(flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if application.cfgLoaded {
				fmt.Fprintf(out, "# loaded from %s\n", application.cfgPath)
			} else {
				fmt.Fprintf(out, "# defaults (no file at %s)\n", application.cfgPath)
			}
			encoded, err := toml.Marshal(application.cfg)
			if err != nil {
				return services.Wrap(nil, "cli", "config", "encode configuration", err)
			}
			fmt.Fprint(out, string(encoded))
			return nil
		},
	}

	var initPath string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented sample configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := initPath
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return services.Wrap(services.ErrConfiguration, "cli", "config", "resolve default config path", err)
				}
				path = defaultPath
			}
			expanded, err := config.ExpandPath(path)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "cli", "config", "resolve config path", err)
			}
			if err := config.CreateSample(expanded); err != nil {
				return services.Wrap(services.ErrConfiguration, "cli", "config", "write sample config", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", expanded)
			return nil
		},
	}
	initCmd.Flags().StringVar(&initPath, "path", "", "where to write the sample config")

	cmd.AddCommand(show)
	cmd.AddCommand(initCmd)
	return cmd
}
