package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func beijingTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", value, Beijing())
	require.NoError(t, err)
	return ts
}

func TestWindowEvaluate(t *testing.T) {
	w := Window{Start: "2026-03-01", End: "2026-06-30"}

	cases := map[string]struct {
		now  string
		want Verdict
	}{
		"before start":       {"2026-02-28 23:59:59", VerdictNotStarted},
		"at start":           {"2026-03-01 00:00:00", VerdictValid},
		"inside":             {"2026-05-01 12:00:00", VerdictValid},
		"end of last day":    {"2026-06-30 23:59:59", VerdictValid},
		"just past last day": {"2026-07-01 00:00:00", VerdictExpired},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := w.Evaluate(beijingTime(t, tc.now))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWindowEvaluate_MinutePrecision(t *testing.T) {
	w := Window{Start: "2026-03-01 08:00", End: "2026-03-01 18:00"}

	got, err := w.Evaluate(beijingTime(t, "2026-03-01 07:59:59"))
	require.NoError(t, err)
	assert.Equal(t, VerdictNotStarted, got)

	got, err = w.Evaluate(beijingTime(t, "2026-03-01 18:00:00"))
	require.NoError(t, err)
	assert.Equal(t, VerdictValid, got)

	got, err = w.Evaluate(beijingTime(t, "2026-03-01 18:00:01"))
	require.NoError(t, err)
	assert.Equal(t, VerdictExpired, got)
}

func TestWindowEvaluate_BadFormat(t *testing.T) {
	for _, w := range []Window{
		{Start: "01/03/2026", End: "2026-06-30"},
		{Start: "2026-03-01", End: "soon"},
		{Start: "", End: "2026-06-30"},
	} {
		_, err := w.Evaluate(time.Now())
		assert.Error(t, err, "window %+v", w)
	}
}

type fixedClock struct {
	now time.Time
	err error
}

func (c fixedClock) Now(context.Context) (time.Time, error) {
	return c.now, c.err
}

func TestGateCheck_TeacherAlwaysValid(t *testing.T) {
	g := NewGate(TeacherProfile(), nil)

	v, err := g.Check(context.Background(), "stages")
	require.NoError(t, err)
	assert.Equal(t, VerdictValid, v)
}

func TestGateCheck_StudentLimits(t *testing.T) {
	profile := Profile{
		Mode: ModeStudent,
		Limits: map[string]Window{
			"stages": {Start: "2026-03-01", End: "2026-06-30"},
		},
	}
	clock := fixedClock{now: beijingTime(t, "2026-07-15 10:00:00")}
	g := NewGate(profile, clock)

	v, err := g.Check(context.Background(), "stages")
	require.NoError(t, err)
	assert.Equal(t, VerdictExpired, v)

	// Unlisted apps stay open.
	v, err = g.Check(context.Background(), "tower")
	require.NoError(t, err)
	assert.Equal(t, VerdictValid, v)
}

func TestGateCheck_ClockFailureBlocks(t *testing.T) {
	profile := Profile{
		Mode: ModeStudent,
		Limits: map[string]Window{
			"stages": {Start: "2020-01-01", End: "2099-12-31"},
		},
	}
	g := NewGate(profile, fixedClock{err: errors.New("offline")})

	v, err := g.Check(context.Background(), "stages")
	require.NoError(t, err)
	assert.Equal(t, VerdictClockUnavailable, v)
}

func TestGateCheck_UTCInstantConvertedToBeijing(t *testing.T) {
	profile := Profile{
		Mode: ModeStudent,
		Limits: map[string]Window{
			"stages": {Start: "2026-03-02", End: "2026-03-05"},
		},
	}
	// 2026-03-01 20:00 UTC is already 2026-03-02 04:00 in Beijing.
	clock := fixedClock{now: time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)}
	g := NewGate(profile, clock)

	v, err := g.Check(context.Background(), "stages")
	require.NoError(t, err)
	assert.Equal(t, VerdictValid, v)
}
