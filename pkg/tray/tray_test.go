package tray

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towerlab/platekit/pkg/domain"
)

// smallDesign is sized so the valve layout can be enumerated by hand:
// three rows (y = -30, 0, 30), beams at x = 0 and ±50.
func smallDesign() Design {
	return Design{
		Diameter:       200,
		DowncomerWidth: 40,
		WeirLength:     120,
		Pitch:          30,
		RowPitch:       30,
		EdgeWidth:      20,
		HoleDiameter:   10,
		SplashWidth:    20,
		Layout:         LayoutIsosceles,
	}
}

func TestValveLayoutHandCounted(t *testing.T) {
	// Outer rows hold x = ±30, ±60 (x = 0 cleared by the center beam);
	// the middle staggered row holds x = ±15, ±75 (±45 cleared by the
	// side beams). Twelve holes, eight diagonal links.
	layout, err := smallDesign().ValveLayout()
	require.NoError(t, err)

	assert.Equal(t, 12, layout.Count())
	assert.Len(t, layout.Links, 8)
}

func TestValveLayoutRespectsBounds(t *testing.T) {
	d := DefaultValveDesign()
	layout, err := d.ValveLayout()
	require.NoError(t, err)
	require.NotEmpty(t, layout.Holes)

	g := d.derive()
	yLimit := g.runwayY - g.holeRadius
	safeR := g.runwayR - g.holeRadius
	exclusion := g.clearance + g.holeRadius

	for _, h := range layout.Holes {
		assert.LessOrEqual(t, math.Abs(h.Y), yLimit+1e-9)
		assert.LessOrEqual(t, math.Hypot(h.X, h.Y), safeR+1e-9)
		for _, bx := range g.beamXs {
			assert.GreaterOrEqual(t, math.Abs(h.X-bx), exclusion)
		}
	}
}

func TestValveLayoutIsSymmetric(t *testing.T) {
	layout, err := DefaultValveDesign().ValveLayout()
	require.NoError(t, err)

	seen := make(map[domain.Point]bool, len(layout.Holes))
	for _, h := range layout.Holes {
		seen[h] = true
	}
	for _, h := range layout.Holes {
		assert.True(t, seen[domain.Point{X: -h.X, Y: h.Y}], "mirror of %+v across x", h)
		assert.True(t, seen[domain.Point{X: h.X, Y: -h.Y}], "mirror of %+v across y", h)
	}
}

func TestValveLayoutLinksAreDiagonalNeighbours(t *testing.T) {
	d := DefaultValveDesign()
	layout, err := d.ValveLayout()
	require.NoError(t, err)
	require.NotEmpty(t, layout.Links)

	rowPitch := d.EffectiveRowPitch()
	for _, link := range layout.Links {
		a, b := layout.Holes[link[0]], layout.Holes[link[1]]
		assert.InDelta(t, rowPitch, math.Abs(a.Y-b.Y), 0.1)
		assert.InDelta(t, d.Pitch/2, math.Abs(a.X-b.X), 0.1)
	}
}

func TestSieveCountWorkedExample(t *testing.T) {
	// Area method over the default plate: active region ~1.36 m²
	// equivalent, beam strips removed, one hole per 20x17.32 mm cell.
	count, err := DefaultSieveDesign().SieveCount()
	require.NoError(t, err)
	assert.InDelta(t, 3579, count, 2)
}

func TestSieveCountZeroWhenNoActiveRegion(t *testing.T) {
	d := DefaultSieveDesign()
	d.DowncomerWidth = 701 // splash band swallows the whole plate
	count, err := d.SieveCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEffectiveRowPitchEquilateral(t *testing.T) {
	d := smallDesign()
	d.Layout = LayoutEquilateral
	assert.InDelta(t, 30*math.Sqrt(3)/2, d.EffectiveRowPitch(), 1e-12)

	d.Layout = LayoutIsosceles
	assert.Equal(t, 30.0, d.EffectiveRowPitch())
}

func TestMagnifierInsetGeometry(t *testing.T) {
	d := DefaultSieveDesign()
	inset, err := d.MagnifierInset()
	require.NoError(t, err)

	g := d.derive()
	assert.InDelta(t, math.Min(g.runwayR, g.runwayY)*0.55, inset.Radius, 1e-9)
	// Tangent to the splash band from below.
	assert.InDelta(t, g.runwayY, inset.Center.Y+inset.Radius, 1e-9)
	// Tangent to the active circle from the inside.
	assert.InDelta(t, g.runwayR, math.Hypot(inset.Center.X, inset.Center.Y)+inset.Radius, 1e-6)

	assert.GreaterOrEqual(t, inset.Magnification, 0.5)
	assert.LessOrEqual(t, len(inset.Holes), insetTargetHoles)
	assert.NotEmpty(t, inset.Holes)

	for _, h := range inset.Holes {
		dist := math.Hypot(h.X-inset.Center.X, h.Y-inset.Center.Y)
		assert.LessOrEqual(t, dist, inset.Radius*1.1+1e-9)
	}
}

func TestValidateRejectsBadDimensions(t *testing.T) {
	cases := map[string]func(*Design){
		"zero diameter":  func(d *Design) { d.Diameter = 0 },
		"negative pitch": func(d *Design) { d.Pitch = -5 },
		"zero row pitch": func(d *Design) { d.RowPitch = 0 },
		"nan diameter":   func(d *Design) { d.Diameter = math.NaN() },
		"nan row pitch":  func(d *Design) { d.RowPitch = math.NaN() },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			d := smallDesign()
			mutate(&d)

			err := d.Validate()
			require.Error(t, err)

			var verr *domain.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}
