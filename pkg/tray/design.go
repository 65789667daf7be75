// Package tray lays out the perforations of a column tray: exact staggered
// enumeration for float-valve trays, area-based estimation for sieve
// plates, and the magnified detail inset used when individual sieve holes
// are too small to draw.
package tray

import (
	"math"

	"github.com/towerlab/platekit/pkg/domain"
)

// LayoutMode selects how the row pitch is derived from the hole pitch.
type LayoutMode string

const (
	// LayoutIsosceles uses the explicit RowPitch value.
	LayoutIsosceles LayoutMode = "isosceles"
	// LayoutEquilateral derives the row pitch as t·√3/2.
	LayoutEquilateral LayoutMode = "equilateral"
)

// Design holds the plate dimensions, all in millimetres.
type Design struct {
	Diameter       float64    `json:"diameter"`
	DowncomerWidth float64    `json:"wd"`
	WeirLength     float64    `json:"lw"`
	Pitch          float64    `json:"pitch_base"`
	RowPitch       float64    `json:"pitch_prime"`
	EdgeWidth      float64    `json:"wc"`
	HoleDiameter   float64    `json:"hole_dia"`
	SplashWidth    float64    `json:"ws"`
	Layout         LayoutMode `json:"layout_mode"`
}

// DefaultValveDesign returns the worked-example float-valve plate.
func DefaultValveDesign() Design {
	return Design{
		Diameter:       1600,
		DowncomerWidth: 199,
		WeirLength:     1056,
		Pitch:          75,
		RowPitch:       65,
		EdgeWidth:      60,
		HoleDiameter:   39,
		SplashWidth:    100,
		Layout:         LayoutIsosceles,
	}
}

// DefaultSieveDesign returns the worked-example sieve plate.
func DefaultSieveDesign() Design {
	return Design{
		Diameter:       1600,
		DowncomerWidth: 199,
		WeirLength:     1056,
		Pitch:          20,
		RowPitch:       17.32,
		EdgeWidth:      60,
		HoleDiameter:   10,
		SplashWidth:    100,
		Layout:         LayoutEquilateral,
	}
}

// EffectiveRowPitch resolves the row pitch for the selected layout mode.
func (d Design) EffectiveRowPitch() float64 {
	if d.Layout == LayoutEquilateral {
		return d.Pitch * math.Sqrt(3) / 2
	}
	return d.RowPitch
}

// Validate checks the dimensions that every layout computation relies on.
func (d Design) Validate() error {
	if math.IsNaN(d.Diameter) || d.Diameter <= 0 {
		return &domain.ValidationError{Key: "diameter", Reason: "must be positive", Value: d.Diameter}
	}
	if math.IsNaN(d.Pitch) || d.Pitch <= 0 {
		return &domain.ValidationError{Key: "pitch_base", Reason: "must be positive", Value: d.Pitch}
	}
	if rp := d.EffectiveRowPitch(); math.IsNaN(rp) || rp <= 0 {
		return &domain.ValidationError{Key: "pitch_prime", Reason: "must be positive", Value: rp}
	}
	return nil
}

// geometry bundles the derived radii shared by the valve and sieve paths.
type geometry struct {
	radius     float64 // tower wall
	weirY      float64 // downcomer weir line
	runwayR    float64 // active circle after the edge band
	runwayY    float64 // active half-height after the splash band
	holeRadius float64
	clearance  float64 // beam standoff, Wc/4
	beamXs     [3]float64
}

func (d Design) derive() geometry {
	r := d.Diameter / 2
	weirY := r - d.DowncomerWidth
	return geometry{
		radius:     r,
		weirY:      weirY,
		runwayR:    r - d.EdgeWidth,
		runwayY:    weirY - d.SplashWidth,
		holeRadius: d.HoleDiameter / 2,
		clearance:  d.EdgeWidth / 4,
		beamXs:     [3]float64{0, -d.Diameter / 4, d.Diameter / 4},
	}
}
