package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"naitive/hub/internal/config"
	"naitive/hub/internal/version"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "gateway",
		Short: "NAItive AI Workspace Hub edge gateway",
		Long: `gateway serves the NAItive AI Workspace Hub dashboard and its mock API
behind a hostname allow-list.

Configuration is read from gateway.yaml in the current directory or
$HOME/.naitive-hub/, then overridden by HUB_ environment variables.
Example: HUB_SERVER_ADDR=:9090`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./gateway.yaml)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(config.NewViper(cfgFile))
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	root.AddCommand(
		newServeCmd(load),
		&cobra.Command{
			Use:   "config",
			Short: "Print the effective configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := load()
				if err != nil {
					return err
				}
				return cfg.Dump(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "gateway %s\n", version.Version)
				fmt.Fprintf(out, "  Commit:     %s\n", version.Commit)
				fmt.Fprintf(out, "  Built:      %s\n", version.BuildDate)
				fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
			},
		},
	)
	return root
}
