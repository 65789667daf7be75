package main

import (
	"github.com/spf13/cobra"

	"github.com/towerlab/platekit/internal/presentation/report"
)

var schematicCmd = &cobra.Command{
	Use:   "schematic",
	Short: "Build the tower schematic geometry",
	Long: `schematic loads the saved column parameters (or the worked-example
defaults) and derives the drawing geometry: plate positions, downcomers,
weirs, liquid levels and the nozzle ports.`,
	RunE: runSchematic,
}

func init() {
	rootCmd.AddCommand(schematicCmd)
}

func runSchematic(cmd *cobra.Command, args []string) error {
	kit, _, err := newToolkit(cmd)
	if err != nil {
		return err
	}

	s, err := kit.Schematic(cmd.Context())
	if err != nil {
		return err
	}
	return emit(cmd, s, report.Schematic(s))
}
