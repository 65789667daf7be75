package hydraulics

import (
	"math"
	"sort"

	"github.com/towerlab/platekit/pkg/domain"
)

// tol absorbs root-finder noise when classifying crossings against the
// boundary curves and the liquid-rate bounds.
const tol = 1e-6

// Boundary names the limit a crossing sits on.
type Boundary string

const (
	BoundaryMist  Boundary = "mist"
	BoundaryFlood Boundary = "flood"
	BoundaryWeep  Boundary = "weep"
	BoundaryLsMin Boundary = "ls_min"
	BoundaryLsMax Boundary = "ls_max"
)

// Problem is one operating-envelope question: a tray design, the liquid
// load bounds and the current operating point (Ls, Vs).
type Problem struct {
	Tray  CurveSet
	LsMin float64
	LsMax float64
	OpLs  float64
	OpVs  float64
}

// Crossing is a point where the operating ray Vs = k·Ls meets one of the
// envelope boundaries.
type Crossing struct {
	Ls       float64  `json:"ls"`
	Vs       float64  `json:"vs"`
	Boundary Boundary `json:"boundary"`
}

// Envelope is the solved operating region along the ray through the
// operating point. Crossings holds only the crossings that lie inside the
// envelope (above weeping, below both upper limits, within the liquid
// bounds), sorted by ascending Vs. VsMin and VsMax are its extremes and
// Flexibility their ratio; when fewer than two crossings survive the
// filter there is no usable region and NoOperatingRegion is reported.
type Envelope struct {
	RaySlope    float64           `json:"ray_slope"`
	Crossings   []Crossing        `json:"crossings"`
	VsMin       Crossing          `json:"vs_min"`
	VsMax       Crossing          `json:"vs_max"`
	Flexibility float64           `json:"flexibility"`
	Conditions  domain.Conditions `json:"conditions,omitempty"`
}

// Solve finds every boundary crossing of the operating ray, filters them
// to the envelope interior and reduces the survivors to the operating
// flexibility. Invalid numeric input is the only error path.
func (p Problem) Solve() (*Envelope, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	k := 0.0
	if p.OpLs > lsFloor {
		k = p.OpVs / p.OpLs
	}
	env := &Envelope{RaySlope: k}

	var candidates []Crossing

	// Crossings with the three curves. The search interval extends a
	// little past the liquid bounds so roots just outside them are
	// found and then rejected by the range check, not silently missed.
	lo := math.Max(lsFloor, 0.5*p.LsMin)
	hi := 1.5 * p.LsMax
	for _, c := range []struct {
		f        func(float64) float64
		boundary Boundary
	}{
		{p.Tray.Mist, BoundaryMist},
		{p.Tray.Flood, BoundaryFlood},
		{p.Tray.Weep, BoundaryWeep},
	} {
		f := c.f
		ls, ok := solveRay(func(x float64) float64 { return f(x) - k*x }, p.OpLs, lo, hi)
		if !ok {
			continue
		}
		vs := k * ls
		if ls <= tol || vs <= tol {
			continue
		}
		if ls < p.LsMin-tol || ls > p.LsMax+tol {
			continue
		}
		switch c.boundary {
		case BoundaryMist, BoundaryFlood:
			if vs < p.Tray.Weep(ls)-tol {
				continue
			}
		case BoundaryWeep:
			if vs > p.Tray.Mist(ls)+tol || vs > p.Tray.Flood(ls)+tol {
				continue
			}
		}
		candidates = append(candidates, Crossing{Ls: ls, Vs: vs, Boundary: c.boundary})
	}

	// Crossings with the vertical liquid-rate bounds.
	if vs := k * p.LsMax; vs > tol && p.LsMax >= p.LsMin-tol {
		candidates = append(candidates, Crossing{Ls: p.LsMax, Vs: vs, Boundary: BoundaryLsMax})
	}
	if vs := k * p.LsMin; vs > tol && p.LsMin > 0 && p.LsMin <= p.LsMax+tol {
		candidates = append(candidates, Crossing{Ls: p.LsMin, Vs: vs, Boundary: BoundaryLsMin})
	}

	// Keep only crossings inside the envelope.
	for _, c := range candidates {
		upper := math.Min(p.Tray.Mist(c.Ls), p.Tray.Flood(c.Ls))
		if c.Vs < p.Tray.Weep(c.Ls)-tol || c.Vs > upper+tol {
			continue
		}
		if c.Ls < p.LsMin-tol || c.Ls > p.LsMax+tol {
			continue
		}
		env.Crossings = append(env.Crossings, c)
	}
	sort.Slice(env.Crossings, func(i, j int) bool { return env.Crossings[i].Vs < env.Crossings[j].Vs })

	if len(env.Crossings) < 2 {
		env.Conditions = env.Conditions.Add(domain.NoOperatingRegion)
		return env, nil
	}

	env.VsMin = env.Crossings[0]
	env.VsMax = env.Crossings[len(env.Crossings)-1]
	if env.VsMin.Vs > 0 {
		env.Flexibility = env.VsMax.Vs / env.VsMin.Vs
	}
	return env, nil
}

func (p Problem) validate() error {
	if p.Tray == nil {
		return &domain.ValidationError{Key: "tray", Reason: "tray curve set is required"}
	}
	for key, v := range map[string]float64{
		"ls_min": p.LsMin,
		"ls_max": p.LsMax,
		"op_ls":  p.OpLs,
		"op_vs":  p.OpVs,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &domain.ValidationError{Key: key, Reason: "must be a finite number", Value: v}
		}
	}
	if p.LsMax <= 0 {
		return &domain.ValidationError{Key: "ls_max", Reason: "must be positive", Value: p.LsMax}
	}
	if p.OpLs <= 0 {
		return &domain.ValidationError{Key: "op_ls", Reason: "must be positive", Value: p.OpLs}
	}
	if p.LsMin >= p.LsMax {
		return &domain.ValidationError{Key: "ls_min", Reason: "must be below ls_max", Value: p.LsMin}
	}
	return nil
}

// Profile is a sampled rendering of the three boundary curves over
// [LsMin, LsMax]. Samples that fall outside the drawable region are NaN:
// mist and flood are blanked where they dip under the weeping limit, and
// every curve is blanked at non-positive vapor loads.
type Profile struct {
	Ls    []float64 `json:"ls"`
	Mist  []float64 `json:"mist"`
	Flood []float64 `json:"flood"`
	Weep  []float64 `json:"weep"`
}

// Sample renders the boundary curves at n evenly spaced liquid loads.
func (p Problem) Sample(n int) Profile {
	if n < 2 {
		n = 2
	}
	prof := Profile{
		Ls:    make([]float64, n),
		Mist:  make([]float64, n),
		Flood: make([]float64, n),
		Weep:  make([]float64, n),
	}
	step := (p.LsMax - p.LsMin) / float64(n-1)
	for i := 0; i < n; i++ {
		ls := p.LsMin + float64(i)*step
		mist, flood, weep := p.Tray.Mist(ls), p.Tray.Flood(ls), p.Tray.Weep(ls)

		prof.Ls[i] = ls
		prof.Weep[i] = blankIf(weep, weep <= 0)
		prof.Mist[i] = blankIf(mist, mist <= weep+tol || mist <= 0)
		prof.Flood[i] = blankIf(flood, flood <= weep+tol || flood <= 0)
	}
	return prof
}

func blankIf(v float64, blank bool) float64 {
	if blank {
		return math.NaN()
	}
	return v
}
