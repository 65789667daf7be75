// Package tower derives the geometry of a plate-column schematic: shell,
// plate stack with alternating downcomers, liquid levels and the nozzle
// positions for reflux, feed and boilup vapor.
package tower

import (
	"math"

	"github.com/towerlab/platekit/pkg/domain"
)

// liquidSlope is the liquid gradient across a plate, inlet over outlet.
const liquidSlope = 0.07

// Section classifies a plate relative to the feed.
type Section string

const (
	SectionRectifying Section = "rectifying"
	SectionStripping  Section = "stripping"
)

// Side is the shell side a downcomer or nozzle sits on.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Params are the column dimensions, lengths in metres.
type Params struct {
	Diameter       float64 `json:"D"`
	Height         float64 `json:"Z"`
	RectPlates     int     `json:"N_rect"`
	StripPlates    int     `json:"N_strip"`
	DowncomerWidth float64 `json:"W_d"`
	WeirHeight     float64 `json:"H_weir"`
	CrestHeight    float64 `json:"H_liq_weir"`
	DowncomerLevel float64 `json:"H_d"`
	BottomGap      float64 `json:"h_b"`
}

// DefaultParams returns the worked-example column.
func DefaultParams() Params {
	return Params{
		Diameter:       1.6,
		Height:         13.95,
		RectPlates:     22,
		StripPlates:    10,
		DowncomerWidth: 0.192,
		WeirHeight:     0.049,
		CrestHeight:    0.021,
		DowncomerLevel: 0.13763,
		BottomGap:      0.0485,
	}
}

// Plate is one tray of the stack, geometry resolved to shell coordinates.
// Y is the plate deck elevation; the downcomer hangs from the weir at
// WeirX down to DowncomerBottomY, holding liquid up to DowncomerLevelY.
type Plate struct {
	Index            int     `json:"index"` // 1-based from the top
	Y                float64 `json:"y"`
	Section          Section `json:"section"`
	DowncomerSide    Side    `json:"downcomer_side"`
	WeirX            float64 `json:"weir_x"`
	DowncomerBottomY float64 `json:"downcomer_bottom_y"`
	DowncomerLevelY  float64 `json:"downcomer_level_y"`
	InletDepth       float64 `json:"inlet_depth"`
	OutletDepth      float64 `json:"outlet_depth"`
}

// Port is a nozzle position on the shell.
type Port struct {
	Y    float64 `json:"y"`
	Side Side    `json:"side"`
}

// Schematic is the fully derived drawing model.
type Schematic struct {
	Radius       float64           `json:"radius"`
	Height       float64           `json:"height"`
	HeadHeight   float64           `json:"head_height"`
	PlateSpacing float64           `json:"plate_spacing"`
	FeedPlate    int               `json:"feed_plate"`
	SumpLevel    float64           `json:"sump_level"`
	Plates       []Plate           `json:"plates"`
	Reflux       Port              `json:"reflux"`
	Feed         Port              `json:"feed"`
	Vapor        Port              `json:"vapor"`
	Conditions   domain.Conditions `json:"conditions,omitempty"`
}

// Build resolves the schematic. A bottom gap taller than the weir is a
// design smell, not an error; it is reported as a condition so surfaces
// can warn without blocking the drawing.
func (p Params) Build() (*Schematic, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	total := p.RectPlates + p.StripPlates
	spacing := p.Height / float64(total+2)
	radius := p.Diameter / 2
	feedPlate := p.RectPlates + 1

	s := &Schematic{
		Radius:       radius,
		Height:       p.Height,
		HeadHeight:   p.Diameter * 0.25,
		PlateSpacing: spacing,
		FeedPlate:    feedPlate,
		SumpLevel:    1.5 * spacing * 0.4,
	}
	if p.BottomGap > p.WeirHeight {
		s.Conditions = s.Conditions.Add(domain.BottomGapAboveWeir)
	}

	inletDepth := p.WeirHeight + p.CrestHeight + liquidSlope
	outletDepth := p.WeirHeight + p.CrestHeight

	for i := 1; i <= total; i++ {
		y := p.Height - 1.5*spacing - float64(i-1)*spacing

		plate := Plate{
			Index:            i,
			Y:                y,
			Section:          SectionRectifying,
			DowncomerBottomY: y - spacing + p.BottomGap,
			DowncomerLevelY:  y + p.WeirHeight + p.CrestHeight - p.DowncomerLevel,
			InletDepth:       inletDepth,
			OutletDepth:      outletDepth,
		}
		if i >= feedPlate {
			plate.Section = SectionStripping
		}
		// Downcomers alternate sides so liquid crosses each deck.
		if i%2 != 0 {
			plate.DowncomerSide = SideRight
			plate.WeirX = radius - p.DowncomerWidth
		} else {
			plate.DowncomerSide = SideLeft
			plate.WeirX = -radius + p.DowncomerWidth
		}
		s.Plates = append(s.Plates, plate)
	}

	s.Reflux = Port{Y: p.Height - spacing, Side: SideLeft}

	s.Feed = Port{Y: p.Height - spacing*float64(p.RectPlates+1), Side: SideLeft}
	if p.RectPlates%2 != 0 {
		s.Feed.Side = SideRight
	}

	s.Vapor = Port{Y: p.Height - spacing*float64(total+1), Side: SideLeft}
	if s.Vapor.Y < s.SumpLevel {
		s.Vapor.Y = s.SumpLevel + 0.5*spacing
	}
	if total%2 == 0 {
		s.Vapor.Side = SideRight
	}

	return s, nil
}

func (p Params) validate() error {
	for key, v := range map[string]float64{
		"D":          p.Diameter,
		"Z":          p.Height,
		"W_d":        p.DowncomerWidth,
		"H_weir":     p.WeirHeight,
		"H_liq_weir": p.CrestHeight,
		"H_d":        p.DowncomerLevel,
		"h_b":        p.BottomGap,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &domain.ValidationError{Key: key, Reason: "must be a finite number", Value: v}
		}
	}
	if p.Diameter <= 0 {
		return &domain.ValidationError{Key: "D", Reason: "must be positive", Value: p.Diameter}
	}
	if p.Height <= 0 {
		return &domain.ValidationError{Key: "Z", Reason: "must be positive", Value: p.Height}
	}
	if p.RectPlates < 1 || p.StripPlates < 1 {
		return &domain.ValidationError{Key: "N_rect", Reason: "both sections need at least one plate"}
	}
	if p.DowncomerWidth >= p.Diameter/2 {
		return &domain.ValidationError{Key: "W_d", Reason: "must be below the column radius", Value: p.DowncomerWidth}
	}
	return nil
}
