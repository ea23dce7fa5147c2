package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	debugLogPath string
)

var rootCmd = &cobra.Command{
	Use:   "archon [request]",
	Short: "Task orchestration engine for coding requests",
	Long: `Archon decomposes natural-language coding requests into
dependency-ordered task trees, executes them through a tool registry with
retry and alternative-approach recovery, and learns which decompositions
succeed so similar requests can reuse them.

With a request argument, behaves like 'archon ask'.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runAsk(cmd, []string{strings.Join(args, " ")})
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (overrides discovery)")
	rootCmd.PersistentFlags().StringVar(&debugLogPath, "debug-log", "", "Write executor debug traces to this file")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
