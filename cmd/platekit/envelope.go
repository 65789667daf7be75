package main

import (
	"github.com/spf13/cobra"

	"github.com/towerlab/platekit/internal/config"
	"github.com/towerlab/platekit/internal/presentation/report"
	"github.com/towerlab/platekit/pkg/hydraulics"
)

var envelopeCmd = &cobra.Command{
	Use:   "envelope",
	Short: "Solve the tray hydraulic operating envelope",
	Long: `envelope loads the saved tray coefficients (or the worked-example
defaults), intersects the operating ray with the mist, flood, weeping and
liquid-load boundaries and reports the operating flexibility.`,
	RunE: runEnvelope,
}

func init() {
	f := envelopeCmd.Flags()
	f.String("tray", "", "Tray type, valve or sieve (overrides the saved selection)")
	f.Int("samples", 0, "Also sample each boundary at N liquid loads")
	rootCmd.AddCommand(envelopeCmd)
}

type envelopeOutput struct {
	Envelope *hydraulics.Envelope `json:"envelope"`
	Profile  *hydraulics.Profile  `json:"profile,omitempty"`
}

func runEnvelope(cmd *cobra.Command, args []string) error {
	_, store, err := newToolkit(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.LoadEnvelope(cmd.Context(), store)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("tray"); v != "" {
		cfg.TrayType = config.TrayKind(v)
	}

	problem := cfg.Problem()
	env, err := problem.Solve()
	if err != nil {
		return err
	}

	out := envelopeOutput{Envelope: env}
	if n, _ := cmd.Flags().GetInt("samples"); n > 0 {
		profile := problem.Sample(n)
		out.Profile = &profile
	}
	return emit(cmd, out, report.Envelope(env))
}
