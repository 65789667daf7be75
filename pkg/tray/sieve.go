package tray

import (
	"math"
	"sort"

	"github.com/towerlab/platekit/pkg/domain"
)

// insetTargetHoles is how many holes the magnified detail inset shows.
const insetTargetHoles = 50

// SieveCount estimates the hole count of a sieve plate by area: the active
// region (circle clipped by the splash bands) minus the beam standoff
// strips, divided by the t·t' cell one staggered hole occupies. Sieve holes
// are too many to enumerate, which is why this path is an estimate.
func (d Design) SieveCount() (int, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}

	g := d.derive()
	if g.runwayR <= 0 || g.runwayY <= 0 {
		return 0, nil
	}

	var active float64
	if g.runwayY >= g.runwayR {
		active = math.Pi * g.runwayR * g.runwayR
	} else {
		// Circle minus the two segments cut off above and below the
		// splash bands.
		r, h := g.runwayR, g.runwayY
		segment := r*r*math.Acos(h/r) - h*math.Sqrt(r*r-h*h)
		active = math.Pi*r*r - 2*segment
	}

	exclusionWidth := 2 * (g.clearance + g.holeRadius)
	var beams float64
	for _, bx := range g.beamXs {
		if math.Abs(bx) >= g.runwayR {
			continue
		}
		half := math.Min(math.Sqrt(g.runwayR*g.runwayR-bx*bx), g.runwayY)
		beams += 2 * half * exclusionWidth
	}

	net := active - beams
	if net < 0 {
		net = 0
	}
	return int(net / (d.Pitch * d.EffectiveRowPitch())), nil
}

// Inset is the magnified detail circle drawn in the upper-right quadrant
// of a sieve plate schematic. Hole coordinates are absolute (plate frame),
// already scaled by Magnification.
type Inset struct {
	Center        domain.Point   `json:"center"`
	Radius        float64        `json:"radius"`
	Magnification float64        `json:"magnification"`
	Holes         []domain.Point `json:"holes"`
	Links         [][2]int       `json:"links"`
}

// MagnifierInset places the detail circle tangent to the splash band from
// below and to the active circle from the left, picks a magnification that
// fits about fifty holes, and lays a staggered patch inside it.
func (d Design) MagnifierInset() (*Inset, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	g := d.derive()
	if g.runwayR <= 0 || g.runwayY <= 0 {
		return nil, &domain.ValidationError{Key: "diameter", Reason: "no active region to magnify"}
	}

	radius := math.Min(g.runwayR, g.runwayY) * 0.55
	centerY := g.runwayY - radius

	var centerX float64
	if distSq := (g.runwayR - radius) * (g.runwayR - radius); distSq >= centerY*centerY {
		centerX = math.Sqrt(distSq - centerY*centerY)
	}

	pitch, rowPitch := d.Pitch, d.EffectiveRowPitch()
	magnification := 1.0
	if unit := pitch * rowPitch; unit > 0 {
		// Oversample by half so the clipped patch still fills the
		// target count.
		magnification = math.Sqrt(math.Pi * radius * radius / (insetTargetHoles * 1.5 * unit))
		if magnification < 0.5 {
			magnification = 0.5
		}
	}

	scaledPitch := pitch * magnification
	scaledRowPitch := rowPitch * magnification
	scaledHoleR := g.holeRadius * magnification

	type candidate struct {
		dist float64
		x, y float64
	}
	rowsNeeded := int(radius/scaledRowPitch) + 2
	colsNeeded := int(radius/scaledPitch) + 2

	var patch []candidate
	for r := -rowsNeeded; r <= rowsNeeded; r++ {
		y := float64(r) * scaledRowPitch
		offset := 0.0
		if r%2 != 0 {
			offset = scaledPitch / 2
		}
		for c := -colsNeeded; c <= colsNeeded; c++ {
			x := float64(c)*scaledPitch + offset
			dist := math.Hypot(x, y)
			if dist+scaledHoleR <= radius*1.1 {
				patch = append(patch, candidate{dist: dist, x: x, y: y})
			}
		}
	}
	sort.Slice(patch, func(i, j int) bool { return patch[i].dist < patch[j].dist })
	if len(patch) > insetTargetHoles {
		patch = patch[:insetTargetHoles]
	}

	inset := &Inset{
		Center:        domain.Point{X: centerX, Y: centerY},
		Radius:        radius,
		Magnification: magnification,
	}
	local := make([]domain.Point, len(patch))
	for i, c := range patch {
		local[i] = domain.Point{X: c.x, Y: c.y}
		inset.Holes = append(inset.Holes, domain.Point{X: centerX + c.x, Y: centerY + c.y})
	}
	inset.Links = diagonalLinks(local, scaledPitch, scaledRowPitch, scaledPitch*0.1)
	return inset, nil
}
