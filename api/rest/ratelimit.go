package rest

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gh-reports/app-installation-report/logger"
)

const (
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"
	headerRetryAfter    = "Retry-After"
)

// rateLimitTransport applies the rate limit policy of the report:
// a primary rate limit is retried once after its reset time, as long as the wait is
// within maxWait; a secondary (abuse) rate limit is logged and never retried.
type rateLimitTransport struct {
	base    http.RoundTripper
	maxWait time.Duration
	log     *logger.Logger
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	switch classifyRateLimit(resp) {
	case secondaryRateLimit:
		t.log.Warnf("SecondaryRateLimit detected for request %s %s", req.Method, req.URL)
		return resp, nil
	case primaryRateLimit:
		t.log.Warnf("Request quota exhausted for request %s %s", req.Method, req.URL)
	default:
		return resp, nil
	}

	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	wait := t.resetWait(resp)
	if wait > t.maxWait {
		t.log.Warnf("Rate limit resets in %s, longer than the %s allowed; not retrying", wait, t.maxWait)
		return resp, nil
	}

	t.log.Infof("Retrying after %d seconds!", int(wait.Round(time.Second)/time.Second))
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if err := t.sleep(req.Context(), wait); err != nil {
		return nil, err
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	return t.base.RoundTrip(retry)
}

func (t *rateLimitTransport) resetWait(resp *http.Response) time.Duration {
	reset, err := strconv.ParseInt(resp.Header.Get(headerRateReset), 10, 64)
	if err != nil {
		return 0
	}
	wait := time.Unix(reset, 0).Sub(t.now())
	if wait < 0 {
		return 0
	}
	// the reset timestamp has a one second resolution
	return wait + time.Second
}

type rateLimitKind int

const (
	notRateLimited rateLimitKind = iota
	primaryRateLimit
	secondaryRateLimit
)

func classifyRateLimit(resp *http.Response) rateLimitKind {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return notRateLimited
	}
	if resp.Header.Get(headerRetryAfter) != "" {
		return secondaryRateLimit
	}
	if resp.Header.Get(headerRateRemaining) == "0" {
		return primaryRateLimit
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return secondaryRateLimit
	}
	return notRateLimited
}
