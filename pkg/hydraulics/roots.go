package hydraulics

import "math"

const (
	bracketSteps = 512
	bisectIters  = 120
)

// solveRay finds a zero of f on [lo, hi], preferring the bracket nearest to
// seed when f changes sign more than once. It scans a uniform grid for sign
// changes, then closes the chosen bracket by bisection with a final secant
// polish. Returns false when no sign change exists on the interval.
func solveRay(f func(float64) float64, seed, lo, hi float64) (float64, bool) {
	if !(hi > lo) {
		return 0, false
	}

	step := (hi - lo) / bracketSteps
	bestLo, bestHi := 0.0, 0.0
	bestDist := math.Inf(1)
	found := false

	prevX := lo
	prevF := f(lo)
	for i := 1; i <= bracketSteps; i++ {
		x := lo + float64(i)*step
		fx := f(x)

		if prevF == 0 {
			return prevX, true
		}
		if prevF*fx < 0 {
			mid := (prevX + x) / 2
			if d := math.Abs(mid - seed); d < bestDist {
				bestDist = d
				bestLo, bestHi = prevX, x
				found = true
			}
		}
		prevX, prevF = x, fx
	}
	if prevF == 0 {
		return prevX, true
	}
	if !found {
		return 0, false
	}

	a, b := bestLo, bestHi
	fa := f(a)
	for i := 0; i < bisectIters && b-a > 1e-16; i++ {
		m := (a + b) / 2
		fm := f(m)
		if fm == 0 {
			return m, true
		}
		if fa*fm < 0 {
			b = m
		} else {
			a, fa = m, fm
		}
	}

	// Secant polish inside the closed bracket.
	fb := f(b)
	if fb != fa {
		x := b - fb*(b-a)/(fb-fa)
		if x >= bestLo && x <= bestHi {
			return x, true
		}
	}
	return (a + b) / 2, true
}
