package access

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"
)

// ErrClockUnavailable is returned when no time source yields a usable
// answer. Callers must not substitute the local clock.
var ErrClockUnavailable = errors.New("no network time source available")

// Source is one HTTP time endpoint with its response parser.
type Source struct {
	Name  string
	URL   string
	Parse func(body []byte) (time.Time, error)
}

// DefaultSources lists the public endpoints queried by default,
// domestic ones first.
func DefaultSources() []Source {
	return []Source{
		{
			Name:  "taobao",
			URL:   "http://api.m.taobao.com/rest/api3.do?api=mtop.common.getTimestamp",
			Parse: parseTaobao,
		},
		{
			Name:  "suning",
			URL:   "http://quan.suning.com/getSysTime.do",
			Parse: parseSuning,
		},
		{
			Name:  "tencent",
			URL:   "http://vv.video.qq.com/checktime?otype=json",
			Parse: parseTencent,
		},
		{
			Name:  "worldtime",
			URL:   "http://worldtimeapi.org/api/timezone/Asia/Shanghai",
			Parse: parseWorldTime,
		},
	}
}

// parseTaobao reads {"data":{"t":"<millis>"}}.
func parseTaobao(body []byte) (time.Time, error) {
	var payload struct {
		Data struct {
			T string `json:"t"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return time.Time{}, fmt.Errorf("taobao response: %w", err)
	}
	millis, err := strconv.ParseInt(payload.Data.T, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("taobao timestamp %q: %w", payload.Data.T, err)
	}
	return time.UnixMilli(millis).In(Beijing()), nil
}

// parseSuning reads {"sysTime2":"2006-01-02 15:04:05"}, already Beijing local.
func parseSuning(body []byte) (time.Time, error) {
	var payload struct {
		SysTime2 string `json:"sysTime2"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return time.Time{}, fmt.Errorf("suning response: %w", err)
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", payload.SysTime2, Beijing())
	if err != nil {
		return time.Time{}, fmt.Errorf("suning time %q: %w", payload.SysTime2, err)
	}
	return t, nil
}

var (
	tencentStampRe = regexp.MustCompile(`"t":(\d+)`)
	tencentDateRe  = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`)
)

// parseTencent handles the JSONP-ish checktime body: a unix-seconds
// "t" field, or a bare datetime as fallback.
func parseTencent(body []byte) (time.Time, error) {
	if m := tencentStampRe.FindSubmatch(body); m != nil {
		secs, err := strconv.ParseInt(string(m[1]), 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("tencent timestamp: %w", err)
		}
		return time.Unix(secs, 0).In(Beijing()), nil
	}
	if m := tencentDateRe.Find(body); m != nil {
		t, err := time.ParseInLocation("2006-01-02 15:04:05", string(m), Beijing())
		if err != nil {
			return time.Time{}, fmt.Errorf("tencent time %q: %w", m, err)
		}
		return t, nil
	}
	return time.Time{}, errors.New("tencent response: no timestamp found")
}

// parseWorldTime reads the worldtimeapi datetime field for Asia/Shanghai.
func parseWorldTime(body []byte) (time.Time, error) {
	var payload struct {
		Datetime string `json:"datetime"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return time.Time{}, fmt.Errorf("worldtime response: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, payload.Datetime)
	if err != nil {
		return time.Time{}, fmt.Errorf("worldtime datetime %q: %w", payload.Datetime, err)
	}
	return t.In(Beijing()), nil
}

// NetworkClock queries all sources concurrently and returns the first
// usable answer.
type NetworkClock struct {
	client  *http.Client
	sources []Source
	timeout time.Duration
}

// ClockOption configures a NetworkClock.
type ClockOption func(*NetworkClock)

// WithSources replaces the default source list.
func WithSources(sources ...Source) ClockOption {
	return func(c *NetworkClock) {
		c.sources = sources
	}
}

// WithHTTPClient sets the client used for fetches.
func WithHTTPClient(client *http.Client) ClockOption {
	return func(c *NetworkClock) {
		c.client = client
	}
}

// WithFetchTimeout bounds the whole Now call.
func WithFetchTimeout(d time.Duration) ClockOption {
	return func(c *NetworkClock) {
		c.timeout = d
	}
}

// NewNetworkClock builds a clock over the default public sources.
func NewNetworkClock(opts ...ClockOption) *NetworkClock {
	c := &NetworkClock{
		client:  &http.Client{Timeout: 3 * time.Second},
		sources: DefaultSources(),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now fetches the current Beijing time. All sources race; the first
// successful parse wins and the rest are canceled. When every source
// fails it returns ErrClockUnavailable.
func (c *NetworkClock) Now(ctx context.Context) (time.Time, error) {
	if len(c.sources) == 0 {
		return time.Time{}, ErrClockUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	results := make(chan time.Time, len(c.sources))
	done := make(chan struct{}, len(c.sources))

	for _, src := range c.sources {
		go func(src Source) {
			defer func() { done <- struct{}{} }()
			t, err := c.fetch(ctx, src)
			if err == nil {
				results <- t
			}
		}(src)
	}

	for range c.sources {
		select {
		case t := <-results:
			return t, nil
		case <-done:
		case <-ctx.Done():
			return time.Time{}, fmt.Errorf("%w: %v", ErrClockUnavailable, ctx.Err())
		}
	}

	// Every worker finished; a straggler may still have posted a result.
	select {
	case t := <-results:
		return t, nil
	default:
		return time.Time{}, ErrClockUnavailable
	}
}

func (c *NetworkClock) fetch(ctx context.Context, src Source) (time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return time.Time{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := c.client.Do(req)
	if err != nil {
		return time.Time{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("%s: status %d", src.Name, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return time.Time{}, err
	}
	return src.Parse(body)
}
