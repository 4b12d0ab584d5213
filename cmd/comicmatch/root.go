package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var envFileFlag string
	var logLevelFlag string
	var jsonFlag bool

	ctx := newCommandContext(&envFileFlag, &logLevelFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:           "comicmatch",
		Short:         "Search the comic catalog and fetch issue metadata",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", ".env", "Dotenv file to load before reading settings")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "Log level for diagnostics written to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Write results as JSON")

	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newEnhancedCommand(ctx))
	rootCmd.AddCommand(newVolumesCommand(ctx))
	rootCmd.AddCommand(newIssueCommand(ctx))
	rootCmd.AddCommand(newVolumeIssuesCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))

	return rootCmd
}
