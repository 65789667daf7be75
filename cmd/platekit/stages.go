package main

import (
	"github.com/spf13/cobra"

	"github.com/towerlab/platekit"
	"github.com/towerlab/platekit/internal/config"
	"github.com/towerlab/platekit/internal/presentation/report"
	"github.com/towerlab/platekit/pkg/ports"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "Count theoretical stages by the McCabe-Thiele construction",
	Long: `stages loads the saved stage-count parameters (or the worked-example
defaults), steps the staircase between the equilibrium curve and the
operating lines, and reports the stage count, the feed stage and the
staircase vertices.`,
	RunE: runStages,
}

func init() {
	f := stagesCmd.Flags()
	f.String("system", "", "Equilibrium system name (overrides the saved selection)")
	f.Float64("xd", 0, "Distillate purity target (overrides the saved value)")
	f.Float64("xw", 0, "Bottoms purity target (overrides the saved value)")
	f.Int("max-stages", 0, "Stage count ceiling (overrides the saved value)")
	rootCmd.AddCommand(stagesCmd)
}

func runStages(cmd *cobra.Command, args []string) error {
	kit, store, err := newToolkit(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.LoadStages(cmd.Context(), store)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("system"); v != "" {
		cfg.System = v
	}
	if cmd.Flags().Changed("xd") {
		cfg.XD, _ = cmd.Flags().GetFloat64("xd")
	}
	if cmd.Flags().Changed("xw") {
		cfg.XW, _ = cmd.Flags().GetFloat64("xw")
	}
	if cmd.Flags().Changed("max-stages") {
		cfg.MaxStages, _ = cmd.Flags().GetInt("max-stages")
	}

	result, err := kit.CountStages(cfg)
	if err != nil {
		return err
	}
	return emit(cmd, result, report.Stages(result))
}

// newToolkit assembles the library facade over the flag-selected store
// and catalog.
func newToolkit(cmd *cobra.Command) (*platekit.Toolkit, ports.ParamStore, error) {
	store, err := newStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := newCatalog(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}
	kit, err := platekit.New(
		platekit.WithStore(store),
		platekit.WithCatalog(catalog),
		platekit.WithLogger(log),
	)
	if err != nil {
		return nil, nil, err
	}
	return kit, store, nil
}
