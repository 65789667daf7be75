package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/towerlab/platekit/internal/access"
	"github.com/towerlab/platekit/internal/launch"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List and launch the bundled course apps",
}

var appsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered apps and their access windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		launcher, gate, err := newLauncher(cmd)
		if err != nil {
			return err
		}
		checkAccess, _ := cmd.Flags().GetBool("check")

		for _, app := range launcher.Apps() {
			line := fmt.Sprintf("%-12s %s", app.Name, app.Title)
			if window, ok := gate.Window(app.Name); ok {
				line += fmt.Sprintf("  [%s .. %s]", window.Start, window.End)
			}
			if checkAccess {
				verdict, err := launcher.Status(cmd.Context(), app.Name)
				if err != nil {
					return err
				}
				line += "  " + string(verdict)
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

var appsLaunchCmd = &cobra.Command{
	Use:   "launch <name>",
	Short: "Launch a registered app, subject to its access window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		launcher, _, err := newLauncher(cmd)
		if err != nil {
			return err
		}
		if err := launcher.Launch(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "launched %s\n", args[0])
		return nil
	},
}

func init() {
	appsCmd.PersistentFlags().String("registry", "apps.yaml", "App registry file (YAML or JSON)")
	appsListCmd.Flags().Bool("check", false, "Also query the network clock and print each app's access verdict")
	appsCmd.AddCommand(appsListCmd, appsLaunchCmd)
	rootCmd.AddCommand(appsCmd)
}

// newLauncher wires the registry file and the access gate of the current
// binary. The gate profile comes from the overlay trailer of the
// executable itself; plain builds run as teacher with no limits.
func newLauncher(cmd *cobra.Command) (*launch.Launcher, *access.Gate, error) {
	registryPath, _ := cmd.Flags().GetString("registry")
	registry, err := launch.LoadRegistry(registryPath)
	if err != nil {
		return nil, nil, err
	}

	profile := access.TeacherProfile()
	if exe, err := os.Executable(); err == nil {
		if p, err := access.ReadOverlay(exe); err == nil {
			profile = p
		}
	}
	gate := access.NewGate(profile, access.NewNetworkClock())

	launcher := launch.New(
		launch.WithRegistry(registry),
		launch.WithGate(gate),
	)
	return launcher, gate, nil
}
