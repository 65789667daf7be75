package hydraulics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towerlab/platekit/pkg/domain"
)

func valveProblem() Problem {
	return Problem{
		Tray:  DefaultValveTray(),
		LsMin: 0.00081888,
		LsMax: 0.0099495,
		OpLs:  0.00466,
		OpVs:  2.154,
	}
}

func sieveProblem() Problem {
	return Problem{
		Tray:  DefaultSieveTray(),
		LsMin: 0.00056,
		LsMax: 0.00567,
		OpLs:  0.0017,
		OpVs:  0.621,
	}
}

func TestSolveValveWorkedExample(t *testing.T) {
	env, err := valveProblem().Solve()
	require.NoError(t, err)

	// For the valve defaults the ray leaves the envelope through the
	// entrainment line; the flooding crossing lies past Ls,max and the
	// vertical bound crossings fall outside the envelope.
	require.Len(t, env.Crossings, 2)
	assert.Empty(t, env.Conditions)

	assert.Equal(t, BoundaryWeep, env.VsMin.Boundary)
	assert.InDelta(t, 1.06300244, env.VsMin.Vs, 1e-6)

	assert.Equal(t, BoundaryMist, env.VsMax.Boundary)
	assert.InDelta(t, 4.0324, env.VsMax.Vs, 1e-3)
	assert.InDelta(t, 0.0087233, env.VsMax.Ls, 1e-5)

	assert.InDelta(t, 3.7934, env.Flexibility, 1e-3)
}

func TestSolveSieveWorkedExample(t *testing.T) {
	env, err := sieveProblem().Solve()
	require.NoError(t, err)

	// The sieve defaults flood before they entrain: the mist crossing
	// sits above the flooding curve and is filtered out.
	require.Len(t, env.Crossings, 2)
	assert.Empty(t, env.Conditions)

	assert.Equal(t, BoundaryWeep, env.VsMin.Boundary)
	assert.InDelta(t, 0.3118, env.VsMin.Vs, 5e-3)

	assert.Equal(t, BoundaryFlood, env.VsMax.Boundary)
	assert.InDelta(t, 1.0392, env.VsMax.Vs, 5e-3)

	assert.InDelta(t, 3.333, env.Flexibility, 5e-2)
}

func TestSolveCrossingsLieOnRay(t *testing.T) {
	for name, p := range map[string]Problem{"valve": valveProblem(), "sieve": sieveProblem()} {
		t.Run(name, func(t *testing.T) {
			env, err := p.Solve()
			require.NoError(t, err)

			k := p.OpVs / p.OpLs
			assert.InDelta(t, k, env.RaySlope, 1e-12)
			for _, c := range env.Crossings {
				assert.InDelta(t, k*c.Ls, c.Vs, 1e-6, "crossing on %s", c.Boundary)
			}
		})
	}
}

func TestSolveCrossingsSortedByVs(t *testing.T) {
	env, err := valveProblem().Solve()
	require.NoError(t, err)

	for i := 1; i < len(env.Crossings); i++ {
		assert.LessOrEqual(t, env.Crossings[i-1].Vs, env.Crossings[i].Vs)
	}
}

func TestSolveNoOperatingRegion(t *testing.T) {
	// A ray this shallow stays under the weeping limit across the whole
	// liquid range, so no envelope exists along it.
	p := valveProblem()
	p.OpLs = 0.005
	p.OpVs = 0.05

	env, err := p.Solve()
	require.NoError(t, err)

	assert.True(t, env.Conditions.Has(domain.NoOperatingRegion))
	assert.Less(t, len(env.Crossings), 2)
	assert.Zero(t, env.Flexibility)
}

func TestSolveRejectsInvalidInput(t *testing.T) {
	cases := map[string]func(*Problem){
		"nil tray":            func(p *Problem) { p.Tray = nil },
		"non-positive ls max": func(p *Problem) { p.LsMax = 0 },
		"non-positive op ls":  func(p *Problem) { p.OpLs = -1 },
		"inverted ls bounds":  func(p *Problem) { p.LsMin = p.LsMax + 1 },
		"nan op vs":           func(p *Problem) { p.OpVs = math.NaN() },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := valveProblem()
			mutate(&p)

			_, err := p.Solve()
			require.Error(t, err)

			var verr *domain.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestSampleBlanksCurvesUnderWeep(t *testing.T) {
	p := valveProblem()
	prof := p.Sample(50)

	require.Len(t, prof.Ls, 50)
	assert.Equal(t, p.LsMin, prof.Ls[0])
	assert.InDelta(t, p.LsMax, prof.Ls[49], 1e-12)

	for i, ls := range prof.Ls {
		weep := p.Tray.Weep(ls)
		if !math.IsNaN(prof.Mist[i]) {
			assert.Greater(t, prof.Mist[i], weep, "mist sample %d", i)
		}
		if !math.IsNaN(prof.Flood[i]) {
			assert.Greater(t, prof.Flood[i], weep, "flood sample %d", i)
		}
	}
}

func TestDefaultTrayCurveShapes(t *testing.T) {
	valve := DefaultValveTray()
	assert.Less(t, valve.Mist(0.009), valve.Mist(0.001), "entrainment limit falls with liquid load")
	assert.Equal(t, valve.Weep(0.001), valve.Weep(0.009), "valve weeping limit is flat")

	sieve := DefaultSieveTray()
	assert.Greater(t, sieve.Weep(0.005), sieve.Weep(0.001), "sieve weeping limit rises with liquid load")
	assert.Greater(t, sieve.Flood(0.001), sieve.Flood(0.005), "flooding limit falls with liquid load")
}
