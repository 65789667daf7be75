package access

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Verdict is the outcome of a window check.
type Verdict string

const (
	// VerdictValid means the app is open right now.
	VerdictValid Verdict = "valid"
	// VerdictNotStarted means the window has not opened yet.
	VerdictNotStarted Verdict = "not_started"
	// VerdictExpired means the window has closed.
	VerdictExpired Verdict = "expired"
	// VerdictClockUnavailable means no trusted time source answered.
	// Checks never fall back to the local clock.
	VerdictClockUnavailable Verdict = "clock_unavailable"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04"
)

var beijingOnce = sync.OnceValue(func() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
})

// Beijing returns the timezone all windows are interpreted in.
func Beijing() *time.Location {
	return beijingOnce()
}

func parseBound(s string) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(layoutDateTime, s, Beijing()); err == nil {
		return t, false, nil
	}
	if t, err := time.ParseInLocation(layoutDate, s, Beijing()); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q (want %s or %s)", s, layoutDate, layoutDateTime)
}

// bounds resolves the window into concrete instants. A date-only end
// bound covers the whole day, through 23:59:59.
func (w Window) bounds() (start, end time.Time, err error) {
	start, _, err = parseBound(w.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	end, dateOnly, err := parseBound(w.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}
	if dateOnly {
		end = end.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}
	return start, end, nil
}

// Evaluate checks the instant against the window.
func (w Window) Evaluate(now time.Time) (Verdict, error) {
	start, end, err := w.bounds()
	if err != nil {
		return "", err
	}
	switch {
	case now.Before(start):
		return VerdictNotStarted, nil
	case now.After(end):
		return VerdictExpired, nil
	default:
		return VerdictValid, nil
	}
}

// Clock yields the current trusted time.
type Clock interface {
	Now(ctx context.Context) (time.Time, error)
}

// Gate combines a build profile with a clock and answers per-app checks.
type Gate struct {
	profile Profile
	clock   Clock
}

// NewGate builds a gate for the given profile. clock may be nil for
// teacher builds, where it is never consulted.
func NewGate(profile Profile, clock Clock) *Gate {
	return &Gate{profile: profile, clock: clock}
}

// Window returns the limit configured for app, if any.
func (g *Gate) Window(app string) (Window, bool) {
	w, ok := g.profile.Limits[app]
	return w, ok
}

// Check decides whether app may run now. Teacher builds and unlisted
// apps are always valid; for limited apps the network clock is
// mandatory and a failed fetch yields VerdictClockUnavailable.
func (g *Gate) Check(ctx context.Context, app string) (Verdict, error) {
	if !g.profile.IsStudent() {
		return VerdictValid, nil
	}
	w, ok := g.profile.Limits[app]
	if !ok {
		return VerdictValid, nil
	}
	if g.clock == nil {
		return VerdictClockUnavailable, nil
	}
	now, err := g.clock.Now(ctx)
	if err != nil {
		return VerdictClockUnavailable, nil
	}
	return w.Evaluate(now.In(Beijing()))
}
