// Package main is the patchwork binary: the linked-data HTTP server plus
// maintenance commands sharing its configuration.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bbcarchdev/patchwork/internal/config"
	"github.com/bbcarchdev/patchwork/internal/version"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var env, logLevel string

	cmd := &cobra.Command{
		Use:           "patchwork",
		Short:         "Serve coreference graphs as linked data",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), env, logLevel)
		},
	}

	// ENV picks config/<env>.yaml and the log format.
	cmd.PersistentFlags().StringVar(&env, "env", config.GetEnv(), "Environment (local, dev, docker, prod)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context(), env, logLevel)
			},
		},
		&cobra.Command{
			Use:   "fetch <id>",
			Short: "Resolve an item and write it to stdout as N-Quads",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return fetch(cmd.Context(), env, logLevel, args[0], cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "update <id|uri|all>",
			Short: "Ask the ingestion component to re-process items",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return update(cmd.Context(), env, logLevel, args)
			},
		},
	)
	return cmd
}
