// Package vle models a binary vapor-liquid equilibrium curve known only at
// a finite set of sampled points, and exposes the two interpolants the rest
// of the toolkit relies on: the inverse lookup x = g(y) used by stage
// stepping and the forward lookup y = f(x) used for rendering.
package vle

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/towerlab/platekit/pkg/domain"
)

// Curve is an immutable sampled equilibrium relationship. It is safe for
// concurrent use once constructed.
//
// The inverse interpolant is a monotone (Fritsch-Butland) piecewise cubic,
// chosen so that lookups between samples cannot overshoot the unit square
// the way an unconstrained spline can. The forward interpolant is an Akima
// spline; it is only ever used to draw the curve, where smoothness matters
// more than monotonicity.
//
// Duplicate x values in the input are not rejected; interpolation behavior
// across a duplicated abscissa is undefined. Consecutive duplicates are
// collapsed (first occurrence wins) so the fit itself never fails on them.
type Curve struct {
	points []domain.Point

	inv *interp.FritschButland // x as a function of y
	fwd *interp.AkimaSpline    // y as a function of x

	xMin, xMax float64
	yMin, yMax float64

	// end-segment secant slopes, used for linear tail extrapolation
	invLoSlope, invHiSlope float64
	fwdLoSlope, fwdHiSlope float64
}

// New builds a Curve from sampled (x, y) pairs. Points are sorted by x
// ascending; at least two distinct abscissae are required. Non-finite
// samples are rejected.
func New(points []domain.Point) (*Curve, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("equilibrium curve needs at least 2 points: %w", domain.ErrInsufficientData)
	}

	sorted := make([]domain.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	for _, p := range sorted {
		if !p.Finite() {
			return nil, &domain.ValidationError{Key: "points", Reason: "sample is not a finite number", Value: p}
		}
	}

	c := &Curve{points: sorted}

	xs, ys := dedupeByFirst(sorted)
	if len(xs) < 2 {
		return nil, fmt.Errorf("equilibrium curve needs at least 2 distinct x values: %w", domain.ErrInsufficientData)
	}

	c.fwd = &interp.AkimaSpline{}
	if err := c.fwd.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fitting forward interpolant: %w", err)
	}
	c.xMin, c.xMax = xs[0], xs[len(xs)-1]
	c.fwdLoSlope = secant(xs[0], ys[0], xs[1], ys[1])
	c.fwdHiSlope = secant(xs[len(xs)-2], ys[len(xs)-2], xs[len(xs)-1], ys[len(xs)-1])

	// Invert: fit x as a function of y. The fit needs y strictly
	// increasing, so sort by y and collapse duplicates again.
	byY := make([]domain.Point, len(sorted))
	for i, p := range sorted {
		byY[i] = domain.Point{X: p.Y, Y: p.X} // swapped
	}
	sort.Slice(byY, func(i, j int) bool { return byY[i].X < byY[j].X })

	iys, ixs := dedupeByFirst(byY)
	if len(iys) < 2 {
		return nil, fmt.Errorf("equilibrium curve needs at least 2 distinct y values: %w", domain.ErrInsufficientData)
	}

	c.inv = &interp.FritschButland{}
	if err := c.inv.Fit(iys, ixs); err != nil {
		return nil, fmt.Errorf("fitting inverse interpolant: %w", err)
	}
	c.yMin, c.yMax = iys[0], iys[len(iys)-1]
	c.invLoSlope = secant(iys[0], ixs[0], iys[1], ixs[1])
	c.invHiSlope = secant(iys[len(iys)-2], ixs[len(iys)-2], iys[len(iys)-1], ixs[len(iys)-1])

	return c, nil
}

// InverseAt returns the liquid composition in equilibrium with the vapor
// composition y. The second return is false when y lies outside the sampled
// range; the value is then a linear extension of the end segment rather
// than a cubic extrapolation.
func (c *Curve) InverseAt(y float64) (float64, bool) {
	switch {
	case y < c.yMin:
		x0 := c.inv.Predict(c.yMin)
		return x0 + (y-c.yMin)*c.invLoSlope, false
	case y > c.yMax:
		x1 := c.inv.Predict(c.yMax)
		return x1 + (y-c.yMax)*c.invHiSlope, false
	default:
		return c.inv.Predict(y), true
	}
}

// ForwardAt returns the vapor composition in equilibrium with the liquid
// composition x, with the same out-of-range convention as InverseAt.
// It exists for renderers; stage counting never calls it.
func (c *Curve) ForwardAt(x float64) (float64, bool) {
	switch {
	case x < c.xMin:
		y0 := c.fwd.Predict(c.xMin)
		return y0 + (x-c.xMin)*c.fwdLoSlope, false
	case x > c.xMax:
		y1 := c.fwd.Predict(c.xMax)
		return y1 + (x-c.xMax)*c.fwdHiSlope, false
	default:
		return c.fwd.Predict(x), true
	}
}

// Samples returns a copy of the sorted sample points.
func (c *Curve) Samples() []domain.Point {
	out := make([]domain.Point, len(c.points))
	copy(out, c.points)
	return out
}

// Domain returns the sampled x range.
func (c *Curve) Domain() (lo, hi float64) { return c.xMin, c.xMax }

// Range returns the sampled y range.
func (c *Curve) Range() (lo, hi float64) { return c.yMin, c.yMax }

// dedupeByFirst splits points into coordinate slices, dropping points whose
// X repeats the previous one. Input must be sorted by X.
func dedupeByFirst(points []domain.Point) (xs, ys []float64) {
	xs = make([]float64, 0, len(points))
	ys = make([]float64, 0, len(points))
	for i, p := range points {
		if i > 0 && p.X == xs[len(xs)-1] {
			continue
		}
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	return xs, ys
}

func secant(x0, y0, x1, y1 float64) float64 {
	if x1 == x0 {
		return 0
	}
	return (y1 - y0) / (x1 - x0)
}
