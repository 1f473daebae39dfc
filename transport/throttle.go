// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	// ErrMustNotBeZero is returned by NewThrottle and WithThrottle when
	// the rate or the burst is not positive.
	ErrMustNotBeZero = errors.New("must be greater than zero")
	// ErrWaitingFailed wraps the limiter's error when a request cannot
	// wait for a token.
	ErrWaitingFailed = errors.New("throttle waiting failed")
	// ErrContextEnded wraps the context error when the request context
	// ends before or while waiting for a token.
	ErrContextEnded = errors.New("throttle context ended")
)

// throttle is an http.RoundTripper, using the time/rate token bucket
// limiter to restrict outbound calls.
type throttle struct {
	limiter *rate.Limiter
	rps     int
	burst   int
	next    http.RoundTripper
	logger  *zap.Logger
}

// NewThrottle returns an http.RoundTripper that limits outbound
// requests through next to rps per second, with bursts of up to burst.
// A request waiting for a token gives up when its context ends.
func NewThrottle(rps, burst int, logger *zap.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, ErrMustNotBeZero)
	}
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &throttle{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		rps:     rps,
		burst:   burst,
		next:    next,
		logger:  logger,
	}, nil
}

func (t *throttle) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	if t.limiter.Allow() {
		return t.next.RoundTrip(r)
	}

	t.logger.Debug("throttle tokens exhausted",
		zap.Int("rate", t.rps), zap.Int("burst", t.burst), zap.String("path", r.URL.Path))
	start := time.Now()
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}
	t.logger.Debug("throttle wait complete", zap.Duration("waited", time.Since(start)))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return t.next.RoundTrip(r)
}
