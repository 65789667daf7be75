// Package mccabe counts theoretical stages of a binary distillation column
// by the McCabe-Thiele graphical construction, stepping between the sampled
// equilibrium curve and the two operating lines.
package mccabe

import (
	"github.com/towerlab/platekit/pkg/domain"
	"github.com/towerlab/platekit/pkg/vle"
)

// DefaultMaxStages caps stepping before the run is declared non-convergent.
const DefaultMaxStages = 100

// Input describes one stage-count problem.
type Input struct {
	Curve      *vle.Curve
	Rectifying domain.OperatingLine
	Stripping  domain.OperatingLine
	Targets    domain.Targets
}

// Result is the outcome of a count. Stages includes the final stage that
// carries the composition below the bottoms target. Vertices are the
// staircase corners in construction order, starting on the distillate
// diagonal point; a converged staircase closes with a drop back to the
// diagonal below the bottoms target, a capped one ends on the last
// equilibrium read.
//
// Conditions reports anomalies the construction survived. A non-empty set
// does not make the result unusable; callers decide how much they trust it.
type Result struct {
	Stages     int               `json:"stages"`
	FeedStage  int               `json:"feed_stage"`
	SplitX     float64           `json:"split_x"`
	Vertices   []domain.Point    `json:"vertices"`
	Conditions domain.Conditions `json:"conditions,omitempty"`
}

// Option tweaks counter behavior.
type Option func(*settings)

type settings struct {
	maxStages int
}

// WithMaxStages overrides the non-convergence cap. Values below 1 are
// ignored.
func WithMaxStages(n int) Option {
	return func(s *settings) {
		if n >= 1 {
			s.maxStages = n
		}
	}
}

// Count runs the construction. It returns an error only for invalid input
// (non-finite numbers, targets outside the unit interval, missing curve);
// every in-range anomaly is reported through Result.Conditions instead.
func Count(in Input, opts ...Option) (*Result, error) {
	cfg := settings{maxStages: DefaultMaxStages}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validate(in); err != nil {
		return nil, err
	}

	res := &Result{}

	// Intersection of the operating lines marks the switch from the
	// rectifying to the stripping section. Parallel lines have no
	// crossing; fall back to the feed composition and say so.
	splitX, ok := domain.IntersectionX(in.Rectifying, in.Stripping)
	if !ok {
		splitX = in.Targets.XF
		res.Conditions = res.Conditions.Add(domain.DegenerateOperatingLines)
	}
	res.SplitX = splitX

	xD, xW := in.Targets.XD, in.Targets.XW
	res.Vertices = append(res.Vertices, domain.Point{X: xD, Y: xD})

	// Degenerate separation: the column is a single stage by convention.
	if xD == xW {
		res.Stages = 1
		res.FeedStage = 1
		return res, nil
	}

	y := xD
	for {
		if res.Stages >= cfg.maxStages {
			res.Conditions = res.Conditions.Add(domain.NonConvergent)
			break
		}

		// Horizontal step: read the equilibrium liquid composition.
		x, inRange := in.Curve.InverseAt(y)
		if !inRange {
			res.Conditions = res.Conditions.Add(domain.EquilibriumDataOutOfRange)
		}
		res.Stages++
		res.Vertices = append(res.Vertices, domain.Point{X: x, Y: y})

		if res.FeedStage == 0 && x <= splitX {
			res.FeedStage = res.Stages
		}

		// The stage that carries the liquid below the bottoms target
		// is counted; the staircase closes with a drop to the diagonal
		// and the construction stops.
		if x < xW {
			res.Vertices = append(res.Vertices, domain.Point{X: x, Y: x})
			break
		}

		// Vertical step: drop onto whichever operating line governs
		// this section of the column.
		if x > splitX {
			y = in.Rectifying.At(x)
		} else {
			y = in.Stripping.At(x)
		}
		res.Vertices = append(res.Vertices, domain.Point{X: x, Y: y})
	}

	if res.FeedStage == 0 {
		res.FeedStage = res.Stages
	}
	return res, nil
}

func validate(in Input) error {
	if in.Curve == nil {
		return &domain.ValidationError{Key: "curve", Reason: "equilibrium curve is required"}
	}
	if !in.Rectifying.Finite() {
		return &domain.ValidationError{Key: "rectifying", Reason: "operating line coefficients must be finite", Value: in.Rectifying}
	}
	if !in.Stripping.Finite() {
		return &domain.ValidationError{Key: "stripping", Reason: "operating line coefficients must be finite", Value: in.Stripping}
	}
	if !in.Targets.Finite() {
		return &domain.ValidationError{Key: "targets", Reason: "compositions must be finite", Value: in.Targets}
	}
	if !in.Targets.InUnitRange() {
		return &domain.ValidationError{Key: "targets", Reason: "compositions must lie in [0, 1]", Value: in.Targets}
	}
	return nil
}
