package main

import (
	"github.com/spf13/cobra"

	"github.com/towerlab/platekit/internal/config"
	"github.com/towerlab/platekit/internal/presentation/report"
)

var holesCmd = &cobra.Command{
	Use:   "holes",
	Short: "Lay out the plate holes and count them",
	Long: `holes loads the saved plate design (or the worked-example defaults)
and counts the holes. Valve plates get the full hole layout with the
diagonal link pattern; sieve plates get the analytic count and the
magnifier inset.`,
	RunE: runHoles,
}

func init() {
	holesCmd.Flags().String("tray", "", "Tray type, valve or sieve (overrides the saved selection)")
	rootCmd.AddCommand(holesCmd)
}

func runHoles(cmd *cobra.Command, args []string) error {
	kit, store, err := newToolkit(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.LoadHoles(cmd.Context(), store)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("tray"); v != "" {
		cfg.CurrentType = config.TrayKind(v)
	}

	result, err := kit.CountHoles(cfg)
	if err != nil {
		return err
	}

	design := cfg.Active()
	var markdown string
	if result.Type == config.TraySieve {
		markdown = report.SieveHoles(design, result.Count, result.Inset)
	} else {
		markdown = report.ValveHoles(design, result.Layout)
	}
	return emit(cmd, result, markdown)
}
