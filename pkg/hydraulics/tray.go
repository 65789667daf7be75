// Package hydraulics computes the operating envelope of a tray column: the
// region of vapor/liquid load pairs bounded by the entrainment (mist),
// flooding and weeping limits, and the liquid-rate bounds of the downcomer.
package hydraulics

import "math"

// lsFloor keeps the fractional powers defined at zero liquid load.
const lsFloor = 1e-9

// CurveSet exposes the three boundary curves of a tray design as functions
// of the liquid load Ls (m³/s). All return a vapor load Vs (m³/s).
type CurveSet interface {
	Mist(ls float64) float64
	Flood(ls float64) float64
	Weep(ls float64) float64
}

// FloodCoeffs parameterizes the flooding limit, common to both tray types:
//
//	Vs² = C1 + C2·Ls² + C3·Ls^(2/3)
//
// Negative right-hand sides clamp to zero vapor load.
type FloodCoeffs struct {
	C1 float64 `json:"c1"`
	C2 float64 `json:"c2"`
	C3 float64 `json:"c3"`
}

func (f FloodCoeffs) at(ls float64) float64 {
	ls = math.Max(lsFloor, ls)
	v := f.C1 + f.C2*ls*ls + f.C3*math.Pow(ls, 2.0/3.0)
	if v < 0 {
		return 0
	}
	return math.Sqrt(v)
}

// ValveTray is a float-valve tray. Its entrainment limit is linear in Ls
// and its weeping limit is a constant minimum vapor load.
type ValveTray struct {
	MistSlope     float64     `json:"mist_slope"`
	MistIntercept float64     `json:"mist_intercept"`
	WeepVs        float64     `json:"weep_vs"`
	FloodLine     FloodCoeffs `json:"flood"`
}

func (t ValveTray) Mist(ls float64) float64  { return t.MistSlope*ls + t.MistIntercept }
func (t ValveTray) Flood(ls float64) float64 { return t.FloodLine.at(ls) }
func (t ValveTray) Weep(float64) float64     { return t.WeepVs }

// SieveTray is a sieve-plate tray. Entrainment and weeping both depend on
// the 2/3 power of the liquid load:
//
//	Vs,mist = C·Ls^(2/3) + D
//	Vs,weep = W1·sqrt(W2 + W3·Ls^(2/3))
type SieveTray struct {
	MistCoeff  float64     `json:"mist_coeff"`
	MistOffset float64     `json:"mist_offset"`
	WeepC1     float64     `json:"weep_c1"`
	WeepC2     float64     `json:"weep_c2"`
	WeepC3     float64     `json:"weep_c3"`
	FloodLine  FloodCoeffs `json:"flood"`
}

func (t SieveTray) Mist(ls float64) float64 {
	ls = math.Max(lsFloor, ls)
	return t.MistCoeff*math.Pow(ls, 2.0/3.0) + t.MistOffset
}

func (t SieveTray) Flood(ls float64) float64 { return t.FloodLine.at(ls) }

func (t SieveTray) Weep(ls float64) float64 {
	ls = math.Max(lsFloor, ls)
	v := t.WeepC2 + t.WeepC3*math.Pow(ls, 2.0/3.0)
	if v < 0 {
		return 0
	}
	return t.WeepC1 * math.Sqrt(v)
}

// DefaultValveTray returns the worked-example float-valve design.
func DefaultValveTray() ValveTray {
	return ValveTray{
		MistSlope:     -51.820977,
		MistIntercept: 4.484449735,
		WeepVs:        1.06300244,
		FloodLine:     FloodCoeffs{C1: 31.9418866, C2: -11224.46846, C3: -109.2073926},
	}
}

// DefaultSieveTray returns the worked-example sieve-plate design.
func DefaultSieveTray() SieveTray {
	return SieveTray{
		MistCoeff:  -10.07,
		MistOffset: 1.29,
		WeepC1:     3.025,
		WeepC2:     0.00961,
		WeepC3:     0.114,
		FloodLine:  FloodCoeffs{C1: 1.37, C2: -3176, C3: -13.16},
	}
}
