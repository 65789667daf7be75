package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/towerlab/platekit/internal/adapters/file"
	"github.com/towerlab/platekit/internal/adapters/redis"
	"github.com/towerlab/platekit/internal/logging"
	"github.com/towerlab/platekit/internal/presentation/report"
	"github.com/towerlab/platekit/internal/systems"
	"github.com/towerlab/platekit/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "platekit",
	Short: "Plate-column design toolkit",
	Long: `platekit bundles the computation cores of a plate-column design
course: McCabe-Thiele stage counting, tray hydraulic operating envelopes,
hole layouts, and the column schematic, with shared parameter storage.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		report.PrintBanner(cmd.OutOrStdout())
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("params-dir", "", "Directory for parameter documents (default ~/.platekit/params)")
	pf.String("redis", "", "Redis address for parameter storage instead of the filesystem")
	pf.String("data-dir", "", "Directory of extra equilibrium system files")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.Bool("report", false, "Print a rendered report instead of JSON")
}

// newLogger builds the logger from the --log-level flag.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(raw)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// newStore picks the parameter store: Redis when --redis is given,
// otherwise one JSON file per app under --params-dir.
func newStore(cmd *cobra.Command) (ports.ParamStore, error) {
	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		return redis.New(addr, "", 0), nil
	}
	dir, _ := cmd.Flags().GetString("params-dir")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dir = home + "/.platekit/params"
	}
	return file.New(dir), nil
}

// newCatalog loads the embedded systems plus any --data-dir extras.
func newCatalog(cmd *cobra.Command) (*systems.Catalog, error) {
	catalog, err := systems.NewCatalog()
	if err != nil {
		return nil, err
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		if err := catalog.LoadDir(dir); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// emit prints the result: pretty JSON by default, a rendered markdown
// report with --report.
func emit(cmd *cobra.Command, result any, markdown string) error {
	if wantReport, _ := cmd.Flags().GetBool("report"); wantReport {
		out, err := report.NewRenderer(os.Stdout).Render(markdown)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
