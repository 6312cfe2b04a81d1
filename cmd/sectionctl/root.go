package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "sectionctl",
		Short:         "Build and edit section-based landing pages",
		Long:          `sectionctl serves the document API, renders pages, lints documents and runs the interactive page editor.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.site, "site", "", "site id, overrides site.id")

	root.AddCommand(
		newServeCmd(flags),
		newRenderCmd(flags),
		newEditCmd(flags),
		newTypesCmd(),
		newLintCmd(),
		newHistoryCmd(flags),
	)
	return root
}
