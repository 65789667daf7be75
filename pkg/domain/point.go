package domain

import "math"

// Point is an (x, y) pair on the composition plane. Both coordinates are
// mole fractions for VLE work, but the type is reused wherever a plain
// plane point is needed (tray layouts, schematic geometry).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return finite(p.X) && finite(p.Y)
}

// OperatingLine is the linear mass-balance relation y = Slope*x + Intercept
// for one column section.
type OperatingLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at x.
func (l OperatingLine) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Finite reports whether both coefficients are finite numbers.
func (l OperatingLine) Finite() bool {
	return finite(l.Slope) && finite(l.Intercept)
}

// IntersectionX returns the abscissa where the two lines cross, and false
// when the slopes are equal and no single crossing exists.
func IntersectionX(a, b OperatingLine) (float64, bool) {
	if a.Slope == b.Slope {
		return 0, false
	}
	return (b.Intercept - a.Intercept) / (a.Slope - b.Slope), true
}

// Targets are the three characteristic compositions of a separation:
// distillate (XD), feed (XF) and bottoms (XW). No ordering is enforced;
// physically inconsistent values are the caller's problem and merely make
// the stepping loop terminate early or hit its cap.
type Targets struct {
	XD float64 `json:"xD"`
	XF float64 `json:"xF"`
	XW float64 `json:"xW"`
}

// Finite reports whether all three compositions are finite numbers.
func (t Targets) Finite() bool {
	return finite(t.XD) && finite(t.XF) && finite(t.XW)
}

// InUnitRange reports whether all three compositions lie in [0, 1].
func (t Targets) InUnitRange() bool {
	for _, v := range []float64{t.XD, t.XF, t.XW} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
