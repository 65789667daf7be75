package access

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaobao(t *testing.T) {
	ts, err := parseTaobao([]byte(`{"api":"mtop.common.getTimestamp","data":{"t":"1767225600000"}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1767225600), ts.Unix())
	assert.Equal(t, Beijing().String(), ts.Location().String())
}

func TestParseSuning(t *testing.T) {
	ts, err := parseSuning([]byte(`{"sysTime2":"2026-03-01 12:30:45","sysTime1":"20260301123045"}`))
	require.NoError(t, err)
	assert.Equal(t, beijingTime(t, "2026-03-01 12:30:45"), ts)
}

func TestParseTencent(t *testing.T) {
	ts, err := parseTencent([]byte(`QZOutputJson={"s":"o","t":1767225600,"ip":"1.2.3.4"};`))
	require.NoError(t, err)
	assert.Equal(t, int64(1767225600), ts.Unix())

	// Fallback: bare datetime in the body.
	ts, err = parseTencent([]byte(`time now 2026-03-01 12:30:45 ok`))
	require.NoError(t, err)
	assert.Equal(t, beijingTime(t, "2026-03-01 12:30:45"), ts)

	_, err = parseTencent([]byte(`nothing useful`))
	assert.Error(t, err)
}

func TestParseWorldTime(t *testing.T) {
	ts, err := parseWorldTime([]byte(`{"datetime":"2026-03-01T12:30:45.123456+08:00","timezone":"Asia/Shanghai"}`))
	require.NoError(t, err)
	assert.Equal(t, beijingTime(t, "2026-03-01 12:30:45").Unix(), ts.Unix())
}

func timeServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNetworkClock_FirstUsableAnswerWins(t *testing.T) {
	good := timeServer(t, http.StatusOK, `{"sysTime2":"2026-03-01 12:00:00"}`)
	bad := timeServer(t, http.StatusInternalServerError, ``)
	garbage := timeServer(t, http.StatusOK, `not even json`)

	clock := NewNetworkClock(WithSources(
		Source{Name: "bad", URL: bad.URL, Parse: parseSuning},
		Source{Name: "garbage", URL: garbage.URL, Parse: parseSuning},
		Source{Name: "good", URL: good.URL, Parse: parseSuning},
	))

	now, err := clock.Now(context.Background())
	require.NoError(t, err)
	assert.Equal(t, beijingTime(t, "2026-03-01 12:00:00"), now)
}

func TestNetworkClock_AllSourcesFail(t *testing.T) {
	bad := timeServer(t, http.StatusBadGateway, ``)

	clock := NewNetworkClock(WithSources(
		Source{Name: "bad1", URL: bad.URL, Parse: parseSuning},
		Source{Name: "bad2", URL: bad.URL, Parse: parseTaobao},
	))

	_, err := clock.Now(context.Background())
	assert.ErrorIs(t, err, ErrClockUnavailable)
}

func TestNetworkClock_NoSources(t *testing.T) {
	clock := NewNetworkClock(WithSources())

	_, err := clock.Now(context.Background())
	assert.ErrorIs(t, err, ErrClockUnavailable)
}

func TestNetworkClock_SlowSourceDoesNotBlockFastOne(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(slow.Close)
	fast := timeServer(t, http.StatusOK, `{"sysTime2":"2026-03-01 08:00:00"}`)

	clock := NewNetworkClock(
		WithSources(
			Source{Name: "slow", URL: slow.URL, Parse: parseSuning},
			Source{Name: "fast", URL: fast.URL, Parse: parseSuning},
		),
		WithFetchTimeout(5*time.Second),
	)

	start := time.Now()
	now, err := clock.Now(context.Background())
	require.NoError(t, err)
	assert.Equal(t, beijingTime(t, "2026-03-01 08:00:00"), now)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNetworkClock_Timeout(t *testing.T) {
	stuck := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(stuck.Close)

	clock := NewNetworkClock(
		WithSources(Source{Name: "stuck", URL: stuck.URL, Parse: parseSuning}),
		WithFetchTimeout(50*time.Millisecond),
	)

	_, err := clock.Now(context.Background())
	assert.ErrorIs(t, err, ErrClockUnavailable)
}
