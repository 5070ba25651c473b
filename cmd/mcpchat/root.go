package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "mcpchat",
		Short:         "Session-scoped chat router with MCP tool dispatch",
		Long:          "mcpchat routes chat messages through intent classification and dispatches them to a tool-augmented MCP backend or a plain LLM fallback.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to YAML config file")

	cmd.AddCommand(newServeCmd(&cfgFile))

	return cmd
}
