package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/towerlab/platekit/internal/config"
	"github.com/towerlab/platekit/pkg/ports"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Inspect and edit the saved parameter documents",
}

var paramsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the apps and whether they have a saved document",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore(cmd)
		if err != nil {
			return err
		}
		saved, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		savedSet := make(map[string]bool, len(saved))
		for _, app := range saved {
			savedSet[app] = true
		}
		for _, app := range config.Apps {
			state := "defaults"
			if savedSet[app] {
				state = "saved"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", app, state)
		}
		return nil
	},
}

var paramsShowCmd = &cobra.Command{
	Use:   "show <app>",
	Short: "Print the effective parameter document of an app",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore(cmd)
		if err != nil {
			return err
		}
		doc, err := effectiveDoc(cmd, store, args[0])
		if err != nil {
			return err
		}
		var pretty json.RawMessage = doc
		out, err := json.MarshalIndent(pretty, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var paramsSetCmd = &cobra.Command{
	Use:   "set <app> [json]",
	Short: "Merge a JSON fragment into an app's parameter document",
	Long: `set loads the app's current document (saved or defaults), applies the
JSON fragment on top and saves the result. The fragment comes from the
argument or, when absent, from stdin.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore(cmd)
		if err != nil {
			return err
		}
		fragment, err := readFragment(cmd, args)
		if err != nil {
			return err
		}
		return applyFragment(cmd, store, args[0], fragment)
	},
}

var paramsResetCmd = &cobra.Command{
	Use:   "reset <app>",
	Short: "Discard an app's saved document, reverting to the defaults",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore(cmd)
		if err != nil {
			return err
		}
		if !knownApp(args[0]) {
			return fmt.Errorf("unknown app %q", args[0])
		}
		return config.Reset(cmd.Context(), store, args[0])
	},
}

func init() {
	paramsCmd.AddCommand(paramsListCmd, paramsShowCmd, paramsSetCmd, paramsResetCmd)
	rootCmd.AddCommand(paramsCmd)
}

func knownApp(app string) bool {
	for _, known := range config.Apps {
		if app == known {
			return true
		}
	}
	return false
}

// effectiveDoc returns the saved document, or the defaults for apps with
// nothing saved.
func effectiveDoc(cmd *cobra.Command, store ports.ParamStore, app string) ([]byte, error) {
	if !knownApp(app) {
		return nil, fmt.Errorf("unknown app %q", app)
	}
	ctx := cmd.Context()
	switch app {
	case config.AppStages:
		cfg, err := config.LoadStages(ctx, store)
		if err != nil {
			return nil, err
		}
		return json.Marshal(cfg)
	case config.AppEnvelope:
		cfg, err := config.LoadEnvelope(ctx, store)
		if err != nil {
			return nil, err
		}
		return json.Marshal(cfg)
	case config.AppHoles:
		cfg, err := config.LoadHoles(ctx, store)
		if err != nil {
			return nil, err
		}
		return json.Marshal(cfg)
	default:
		cfg, err := config.LoadTower(ctx, store)
		if err != nil {
			return nil, err
		}
		return json.Marshal(cfg)
	}
}

func readFragment(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 2 {
		return []byte(args[1]), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("reading fragment from stdin: %w", err)
	}
	return data, nil
}

// applyFragment decodes the fragment over the loaded typed record, so
// unknown keys fail and partial fragments keep the untouched fields.
func applyFragment(cmd *cobra.Command, store ports.ParamStore, app string, fragment []byte) error {
	if !knownApp(app) {
		return fmt.Errorf("unknown app %q", app)
	}
	ctx := cmd.Context()
	switch app {
	case config.AppStages:
		cfg, err := config.LoadStages(ctx, store)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(fragment, &cfg); err != nil {
			return fmt.Errorf("invalid fragment: %w", err)
		}
		return config.SaveStages(ctx, store, cfg)
	case config.AppEnvelope:
		cfg, err := config.LoadEnvelope(ctx, store)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(fragment, &cfg); err != nil {
			return fmt.Errorf("invalid fragment: %w", err)
		}
		return config.SaveEnvelope(ctx, store, cfg)
	case config.AppHoles:
		cfg, err := config.LoadHoles(ctx, store)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(fragment, &cfg); err != nil {
			return fmt.Errorf("invalid fragment: %w", err)
		}
		return config.SaveHoles(ctx, store, cfg)
	default:
		cfg, err := config.LoadTower(ctx, store)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(fragment, &cfg); err != nil {
			return fmt.Errorf("invalid fragment: %w", err)
		}
		return config.SaveTower(ctx, store, cfg)
	}
}
