package report

import (
	"fmt"
	"strings"

	"github.com/towerlab/platekit/pkg/domain"
	"github.com/towerlab/platekit/pkg/hydraulics"
	"github.com/towerlab/platekit/pkg/mccabe"
	"github.com/towerlab/platekit/pkg/tower"
	"github.com/towerlab/platekit/pkg/tray"
)

// Stages formats a stage-count result as markdown.
func Stages(res *mccabe.Result) string {
	var b strings.Builder
	b.WriteString("# Theoretical stages\n\n")
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Stages | %d |\n", res.Stages)
	fmt.Fprintf(&b, "| Feed stage | %d |\n", res.FeedStage)
	fmt.Fprintf(&b, "| Section split x | %.4f |\n", res.SplitX)
	if len(res.Vertices) > 0 {
		last := res.Vertices[len(res.Vertices)-1]
		fmt.Fprintf(&b, "| Final liquid x | %.4f |\n", last.X)
	}
	writeConditions(&b, res.Conditions)
	return b.String()
}

// Envelope formats an operating-envelope result as markdown.
func Envelope(env *hydraulics.Envelope) string {
	var b strings.Builder
	b.WriteString("# Operating envelope\n\n")
	fmt.Fprintf(&b, "Operating line slope: %.4f\n\n", env.RaySlope)

	if len(env.Crossings) >= 2 {
		fmt.Fprintf(&b, "| | Ls (m3/s) | Vs (m/s) | boundary |\n|---|---|---|---|\n")
		fmt.Fprintf(&b, "| Lower limit | %.6f | %.4f | %s |\n", env.VsMin.Ls, env.VsMin.Vs, env.VsMin.Boundary)
		fmt.Fprintf(&b, "| Upper limit | %.6f | %.4f | %s |\n", env.VsMax.Ls, env.VsMax.Vs, env.VsMax.Boundary)
		fmt.Fprintf(&b, "\nOperating flexibility: **%.3f**\n", env.Flexibility)
	} else {
		b.WriteString("The operating line does not cross a usable region.\n")
	}
	writeConditions(&b, env.Conditions)
	return b.String()
}

// ValveHoles formats a valve hole layout as markdown.
func ValveHoles(d tray.Design, layout *tray.Layout) string {
	var b strings.Builder
	b.WriteString("# Valve hole layout\n\n")
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Plate diameter | %.0f mm |\n", d.Diameter)
	fmt.Fprintf(&b, "| Hole pitch | %.1f x %.1f mm |\n", d.Pitch, d.EffectiveRowPitch())
	fmt.Fprintf(&b, "| Holes placed | **%d** |\n", layout.Count())
	fmt.Fprintf(&b, "| Lattice links | %d |\n", len(layout.Links))
	return b.String()
}

// SieveHoles formats a sieve hole estimate as markdown.
func SieveHoles(d tray.Design, count int, inset *tray.Inset) string {
	var b strings.Builder
	b.WriteString("# Sieve hole estimate\n\n")
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Plate diameter | %.0f mm |\n", d.Diameter)
	fmt.Fprintf(&b, "| Hole pitch | %.1f x %.1f mm |\n", d.Pitch, d.EffectiveRowPitch())
	fmt.Fprintf(&b, "| Estimated holes | **%d** |\n", count)
	if inset != nil {
		fmt.Fprintf(&b, "| Detail inset | r=%.1f mm, x%.2f, %d holes |\n",
			inset.Radius, inset.Magnification, len(inset.Holes))
	}
	return b.String()
}

// Schematic formats a column schematic as markdown.
func Schematic(s *tower.Schematic) string {
	var b strings.Builder
	b.WriteString("# Column schematic\n\n")
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Shell | D %.2f m, Z %.2f m |\n", 2*s.Radius, s.Height)
	fmt.Fprintf(&b, "| Plates | %d |\n", len(s.Plates))
	fmt.Fprintf(&b, "| Plate spacing | %.3f m |\n", s.PlateSpacing)
	fmt.Fprintf(&b, "| Feed plate | %d |\n", s.FeedPlate)
	fmt.Fprintf(&b, "| Sump level | %.3f m |\n", s.SumpLevel)
	fmt.Fprintf(&b, "| Reflux nozzle | y %.3f m, %s |\n", s.Reflux.Y, s.Reflux.Side)
	fmt.Fprintf(&b, "| Feed nozzle | y %.3f m, %s |\n", s.Feed.Y, s.Feed.Side)
	fmt.Fprintf(&b, "| Vapor nozzle | y %.3f m, %s |\n", s.Vapor.Y, s.Vapor.Side)
	writeConditions(&b, s.Conditions)
	return b.String()
}

func writeConditions(b *strings.Builder, conds domain.Conditions) {
	if len(conds) == 0 {
		return
	}
	b.WriteString("\n## Warnings\n\n")
	for _, c := range conds {
		fmt.Fprintf(b, "- %s\n", c)
	}
}
