package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archonlabs/archon/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("archon version %s\n", version.Get())
	},
}
