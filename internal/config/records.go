// Package config owns the parameter documents of the bundled apps: their
// typed records, defaults, persistence through a ports.ParamStore, and
// migration of documents written by older releases.
package config

import (
	"github.com/towerlab/platekit/pkg/domain"
	"github.com/towerlab/platekit/pkg/hydraulics"
	"github.com/towerlab/platekit/pkg/tower"
	"github.com/towerlab/platekit/pkg/tray"
)

// App names used as ParamStore document keys.
const (
	AppStages   = "stages"
	AppEnvelope = "envelope"
	AppHoles    = "holes"
	AppTower    = "tower"
)

// Apps lists every app with a parameter document.
var Apps = []string{AppStages, AppEnvelope, AppHoles, AppTower}

// StagesConfig parameterizes the stage-count app: operating lines, purity
// targets, the equilibrium system selection and the render knobs.
type StagesConfig struct {
	System         string  `json:"system_selection"`
	RectSlope      float64 `json:"rect_slope"`
	RectIntercept  float64 `json:"rect_intercept"`
	StripSlope     float64 `json:"strip_slope"`
	StripIntercept float64 `json:"strip_intercept"`
	XD             float64 `json:"xD"`
	XF             float64 `json:"xF"`
	XW             float64 `json:"xW"`
	MaxStages      int     `json:"max_stages"`
	PlotFontScale  float64 `json:"plot_font_scale"`
	LwSteps        float64 `json:"lw_steps"`
	LwMain         float64 `json:"lw_main"`
	LwVertical     float64 `json:"lw_vertical"`
}

// DefaultStages returns the worked-example separation.
func DefaultStages() StagesConfig {
	return StagesConfig{
		RectSlope:      0.53,
		RectIntercept:  0.44,
		StripSlope:     1.1,
		StripIntercept: -0.05,
		XD:             0.95,
		XF:             0.45,
		XW:             0.05,
		MaxStages:      100,
		PlotFontScale:  2.0,
		LwSteps:        0.8,
		LwMain:         1.5,
		LwVertical:     0.8,
	}
}

// Lines returns the operating lines of the record.
func (c StagesConfig) Lines() (rect, strip domain.OperatingLine) {
	rect = domain.OperatingLine{Slope: c.RectSlope, Intercept: c.RectIntercept}
	strip = domain.OperatingLine{Slope: c.StripSlope, Intercept: c.StripIntercept}
	return rect, strip
}

// Targets returns the composition targets of the record.
func (c StagesConfig) Targets() domain.Targets {
	return domain.Targets{XD: c.XD, XF: c.XF, XW: c.XW}
}

// TrayKind selects which tray record of a two-tray document is active.
type TrayKind string

const (
	TrayValve TrayKind = "valve"
	TraySieve TrayKind = "sieve"
)

// ValveEnvelope holds the envelope coefficients of a float-valve tray.
type ValveEnvelope struct {
	MistSlope     float64 `json:"mist_slope"`
	MistIntercept float64 `json:"mist_intercept"`
	WeepVs        float64 `json:"weep_vs"`
	FloodC1       float64 `json:"flood_c1"`
	FloodC2       float64 `json:"flood_c2"`
	FloodC3       float64 `json:"flood_c3"`
	LsMax         float64 `json:"ls_max"`
	LsMin         float64 `json:"ls_min"`
	OpVs          float64 `json:"op_vs"`
	OpLs          float64 `json:"op_ls"`
}

// SieveEnvelope holds the envelope coefficients of a sieve tray.
type SieveEnvelope struct {
	MistCoeff  float64 `json:"mist_coeff"`
	MistOffset float64 `json:"mist_offset"`
	WeepC1     float64 `json:"weep_c1"`
	WeepC2     float64 `json:"weep_c2"`
	WeepC3     float64 `json:"weep_c3"`
	FloodC1    float64 `json:"flood_c1"`
	FloodC2    float64 `json:"flood_c2"`
	FloodC3    float64 `json:"flood_c3"`
	LsMax      float64 `json:"ls_max"`
	LsMin      float64 `json:"ls_min"`
	OpVs       float64 `json:"op_vs"`
	OpLs       float64 `json:"op_ls"`
}

// EnvelopeConfig parameterizes the operating-envelope app. Both tray
// records are kept so switching types does not lose edits.
type EnvelopeConfig struct {
	TrayType TrayKind      `json:"tray_type"`
	Valve    ValveEnvelope `json:"valve"`
	Sieve    SieveEnvelope `json:"sieve"`
}

// DefaultEnvelope returns the worked-example coefficients for both trays.
func DefaultEnvelope() EnvelopeConfig {
	valve := hydraulics.DefaultValveTray()
	sieve := hydraulics.DefaultSieveTray()
	return EnvelopeConfig{
		TrayType: TrayValve,
		Valve: ValveEnvelope{
			MistSlope:     valve.MistSlope,
			MistIntercept: valve.MistIntercept,
			WeepVs:        valve.WeepVs,
			FloodC1:       valve.FloodLine.C1,
			FloodC2:       valve.FloodLine.C2,
			FloodC3:       valve.FloodLine.C3,
			LsMax:         0.0099495,
			LsMin:         0.00081888,
			OpVs:          2.154,
			OpLs:          0.00466,
		},
		Sieve: SieveEnvelope{
			MistCoeff:  sieve.MistCoeff,
			MistOffset: sieve.MistOffset,
			WeepC1:     sieve.WeepC1,
			WeepC2:     sieve.WeepC2,
			WeepC3:     sieve.WeepC3,
			FloodC1:    sieve.FloodLine.C1,
			FloodC2:    sieve.FloodLine.C2,
			FloodC3:    sieve.FloodLine.C3,
			LsMax:      0.00567,
			LsMin:      0.00056,
			OpVs:       0.621,
			OpLs:       0.0017,
		},
	}
}

// Problem assembles the hydraulics problem for the active tray type.
func (c EnvelopeConfig) Problem() hydraulics.Problem {
	if c.TrayType == TraySieve {
		s := c.Sieve
		return hydraulics.Problem{
			Tray: hydraulics.SieveTray{
				MistCoeff:  s.MistCoeff,
				MistOffset: s.MistOffset,
				WeepC1:     s.WeepC1,
				WeepC2:     s.WeepC2,
				WeepC3:     s.WeepC3,
				FloodLine:  hydraulics.FloodCoeffs{C1: s.FloodC1, C2: s.FloodC2, C3: s.FloodC3},
			},
			LsMin: s.LsMin,
			LsMax: s.LsMax,
			OpLs:  s.OpLs,
			OpVs:  s.OpVs,
		}
	}
	v := c.Valve
	return hydraulics.Problem{
		Tray: hydraulics.ValveTray{
			MistSlope:     v.MistSlope,
			MistIntercept: v.MistIntercept,
			WeepVs:        v.WeepVs,
			FloodLine:     hydraulics.FloodCoeffs{C1: v.FloodC1, C2: v.FloodC2, C3: v.FloodC3},
		},
		LsMin: v.LsMin,
		LsMax: v.LsMax,
		OpLs:  v.OpLs,
		OpVs:  v.OpVs,
	}
}

// HolesConfig parameterizes the hole-count app, one design per tray type.
type HolesConfig struct {
	CurrentType TrayKind    `json:"current_type"`
	Valve       tray.Design `json:"valve"`
	Sieve       tray.Design `json:"sieve"`
}

// DefaultHoles returns the worked-example plate designs.
func DefaultHoles() HolesConfig {
	return HolesConfig{
		CurrentType: TrayValve,
		Valve:       tray.DefaultValveDesign(),
		Sieve:       tray.DefaultSieveDesign(),
	}
}

// Active returns the design the document currently points at.
func (c HolesConfig) Active() tray.Design {
	if c.CurrentType == TraySieve {
		return c.Sieve
	}
	return c.Valve
}

// TowerConfig parameterizes the schematic app. It is the tower parameter
// record itself; older documents stored every field as a string.
type TowerConfig = tower.Params

// DefaultTower returns the worked-example column.
func DefaultTower() TowerConfig {
	return tower.DefaultParams()
}
