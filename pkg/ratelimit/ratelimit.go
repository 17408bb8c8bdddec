// Package ratelimit throttles outbound requests with a token bucket whose rate
// adapts to how the remote side responds: it grows on success and shrinks when
// the server signals overload. It never retries; callers decide what to do with
// a failed request.
//
//	lim := ratelimit.NewAdaptiveLimiter(2, 1, 10, 1, 0.5)
//	if err := lim.Wait(ctx); err != nil {
//	    return err
//	}
//	lim.Observe(doRequest())
package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// cooldown is how long a rate reduction holds before successes may raise it again.
const cooldown = 10 * time.Second

// AdaptiveLimiter is safe for concurrent use.
type AdaptiveLimiter struct {
	mu        sync.RWMutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
	now       func() time.Time
}

// NewAdaptiveLimiter creates a limiter starting at initial requests per second,
// bounded by [min, max]. Fractional rates are allowed (0.5 is one request
// every two seconds). stepUp is added after a success, stepDown multiplies
// the rate after an overload signal (0.5 halves it).
func NewAdaptiveLimiter(initial, min, max, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if initial <= 0 {
		initial = 1
	}
	if min <= 0 || min > initial {
		min = initial
	}
	if max < initial {
		max = initial
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, burstFor(initial)),
		minLimit: min,
		maxLimit: max,
		stepUp:   stepUp,
		stepDown: stepDown,
		now:      time.Now,
	}
}

// Wait blocks until a token is available or ctx is done.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success raises the rate unless an overload was seen recently.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.now().Sub(a.lastError) > cooldown {
		a.adjust(a.limiter.Limit() + a.stepUp)
	}
}

// RateLimited lowers the rate after the remote side signalled overload.
func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = a.now()
	a.adjust(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
	log.Debug().Str("component", "ratelimit").Float64("rps", float64(a.limiter.Limit())).Msg("rate lowered")
}

// Observe feeds the outcome of one request back into the limiter. Errors that
// carry a 429 or 5xx status lower the rate, nil raises it, anything else is
// ignored.
func (a *AdaptiveLimiter) Observe(err error) {
	switch {
	case err == nil:
		a.Success()
	case IsOverload(err):
		a.RateLimited()
	}
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

// CurrentBurst returns the current burst size.
func (a *AdaptiveLimiter) CurrentBurst() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.limiter.Burst()
}

func (a *AdaptiveLimiter) adjust(newLimit rate.Limit) {
	if newLimit > a.maxLimit {
		newLimit = a.maxLimit
	} else if newLimit < a.minLimit {
		newLimit = a.minLimit
	}
	if newLimit != a.limiter.Limit() {
		a.limiter.SetLimit(newLimit)
		a.limiter.SetBurst(burstFor(newLimit))
	}
}

// StatusError is implemented by errors that carry an HTTP status code.
type StatusError interface {
	error
	StatusCode() int
}

// HTTPStatusError is a StatusError for a non-2xx response.
type HTTPStatusError struct {
	URL  string
	Code int
}

func (e *HTTPStatusError) Error() string {
	return "unexpected status " + http.StatusText(e.Code) + " from " + e.URL
}

func (e *HTTPStatusError) StatusCode() int { return e.Code }

// IsOverload reports whether err carries a 429 or 5xx status.
func IsOverload(err error) bool {
	var se StatusError
	if !errors.As(err, &se) {
		return false
	}
	code := se.StatusCode()
	return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
}

func burstFor(l rate.Limit) int {
	return max(1, int(l))
}
