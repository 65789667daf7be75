package tray

import (
	"math"
	"sort"

	"github.com/towerlab/platekit/pkg/domain"
)

// linkWindow bounds how far ahead the adjacency scan looks. Holes are
// ordered row-major, so neighbours are never further apart than this.
const linkWindow = 50

// Layout is an exact hole placement. Links pairs indexes of Holes that are
// diagonal neighbours (one row apart, half a pitch sideways), the pattern
// renderers draw as the stagger lattice.
type Layout struct {
	Holes []domain.Point `json:"holes"`
	Links [][2]int       `json:"links"`
}

// Count returns the number of placed holes.
func (l *Layout) Count() int { return len(l.Holes) }

// ValveLayout enumerates every valve position on the plate: a staggered
// grid clipped to the active circle, the splash band and the weir lines,
// with a standoff strip cleared around each support beam.
func (d Design) ValveLayout() (*Layout, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	g := d.derive()
	pitch := d.Pitch
	rowPitch := d.EffectiveRowPitch()

	// Hole centers must keep a full radius inside every bound.
	yLimit := g.runwayY - g.holeRadius
	safeR := g.runwayR - g.holeRadius
	beamExclusion := g.clearance + g.holeRadius

	layout := &Layout{}
	rows := gridRows(rowPitch, yLimit)
	for i, y := range rows {
		offset := 0.0
		if i%2 != 0 {
			offset = pitch / 2
		}

		maxX := safeR*safeR - y*y
		if maxX <= 0 {
			continue
		}
		maxX = math.Sqrt(maxX)

		for _, x := range gridCols(pitch, offset, maxX) {
			if nearBeam(x, g.beamXs, beamExclusion) {
				continue
			}
			layout.Holes = append(layout.Holes, domain.Point{X: x, Y: y})
		}
	}

	layout.Links = diagonalLinks(layout.Holes, pitch, rowPitch, 0.1)
	return layout, nil
}

// gridRows returns the row ordinates j·pitch for all j with |y| <= limit,
// sorted ascending. Row parity for the stagger offset follows this order.
func gridRows(pitch, limit float64) []float64 {
	if limit < 0 {
		return nil
	}
	var rows []float64
	for j := 0; float64(j)*pitch <= limit; j++ {
		rows = append(rows, float64(j)*pitch)
	}
	for j := 1; float64(j)*pitch <= limit; j++ {
		rows = append(rows, -float64(j)*pitch)
	}
	sort.Float64s(rows)
	return rows
}

// gridCols returns the abscissae k·pitch+offset with |x| <= maxX, sorted
// ascending and deduplicated.
func gridCols(pitch, offset, maxX float64) []float64 {
	var xs []float64
	for k := 0; ; k++ {
		x := float64(k)*pitch + offset
		if x > maxX {
			break
		}
		xs = append(xs, x)
	}
	for k := 1; ; k++ {
		x := -float64(k)*pitch + offset
		if x < -maxX {
			break
		}
		xs = append(xs, x)
	}
	sort.Float64s(xs)

	out := xs[:0]
	for i, x := range xs {
		if i > 0 && x == out[len(out)-1] {
			continue
		}
		out = append(out, x)
	}
	return out
}

func nearBeam(x float64, beams [3]float64, exclusion float64) bool {
	for _, bx := range beams {
		if math.Abs(x-bx) < exclusion {
			return true
		}
	}
	return false
}

// diagonalLinks pairs holes one row pitch apart vertically and half a
// pitch apart horizontally, within the given matching tolerance.
func diagonalLinks(holes []domain.Point, pitch, rowPitch, tol float64) [][2]int {
	var links [][2]int
	for i, a := range holes {
		end := i + linkWindow
		if end > len(holes) {
			end = len(holes)
		}
		for j := i + 1; j < end; j++ {
			b := holes[j]
			dy := math.Abs(a.Y - b.Y)
			dx := math.Abs(a.X - b.X)
			if math.Abs(dy-rowPitch) < tol && math.Abs(dx-pitch/2) < tol {
				links = append(links, [2]int{i, j})
			}
		}
	}
	return links
}
