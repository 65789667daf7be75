package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/towerlab/platekit/internal/access"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Export a student build with access windows stamped in",
	Long: `bundle copies a platekit binary and appends a student profile trailer
holding per-app access windows. The exported binary enforces the windows
against network time; outside a window the app refuses to launch.

Windows take the form app=start..end where each bound is a date
(2006-01-02) or a minute timestamp (2006-01-02 15:04), read in Beijing
time. A date-only end covers the whole day.`,
	Example: `  platekit bundle --out dist/platekit-student \
    --window stages=2026-09-01..2026-09-30 \
    --window envelope=2026-09-15..2026-10-15 12:00`,
	RunE: runBundle,
}

func init() {
	f := bundleCmd.Flags()
	f.String("src", "", "Binary to stamp (default: this executable)")
	f.String("out", "", "Output path for the student build")
	f.StringArray("window", nil, "Access window, app=start..end (repeatable)")
	_ = bundleCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(bundleCmd)
}

func runBundle(cmd *cobra.Command, args []string) error {
	src, _ := cmd.Flags().GetString("src")
	if src == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolving current executable: %w", err)
		}
		src = exe
	}
	out, _ := cmd.Flags().GetString("out")

	raw, _ := cmd.Flags().GetStringArray("window")
	limits := make(map[string]access.Window, len(raw))
	for _, spec := range raw {
		app, window, err := parseWindowSpec(spec)
		if err != nil {
			return err
		}
		limits[app] = window
	}

	if err := access.WriteOverlay(src, out, limits); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s with %d window(s)\n", out, len(limits))
	return nil
}

func parseWindowSpec(spec string) (string, access.Window, error) {
	app, bounds, ok := strings.Cut(spec, "=")
	if !ok {
		return "", access.Window{}, fmt.Errorf("invalid window %q: want app=start..end", spec)
	}
	start, end, ok := strings.Cut(bounds, "..")
	if !ok {
		return "", access.Window{}, fmt.Errorf("invalid window %q: want app=start..end", spec)
	}
	return strings.TrimSpace(app), access.Window{
		Start: strings.TrimSpace(start),
		End:   strings.TrimSpace(end),
	}, nil
}
