package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/towerlab/platekit"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the platekit version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("platekit version %s\n", strings.TrimSpace(platekit.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
