// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// Option configures a transport built by New.
type Option func(*options) error

type options struct {
	connectTimeout  time.Duration
	readTimeout     time.Duration
	followRedirects bool
	disableHTTP2    bool
	throttle        *throttleConfig
	base            http.RoundTripper
	logger          *zap.Logger
}

type throttleConfig struct {
	rps   int
	burst int
}

// WithConnectTimeout limits how long establishing a TCP connection may
// take. Zero means no limit.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("connect timeout must not be negative")
		}
		o.connectTimeout = d
		return nil
	}
}

// WithReadTimeout limits how long any single read from the connection
// may block, whether waiting for response headers or body bytes. Zero
// means no limit.
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("read timeout must not be negative")
		}
		o.readTimeout = d
		return nil
	}
}

// WithFollowRedirects makes the transport follow redirects instead of
// returning 3xx responses.
func WithFollowRedirects() Option {
	return func(o *options) error {
		o.followRedirects = true
		return nil
	}
}

// WithoutHTTP2 disables HTTP/2 negotiation.
func WithoutHTTP2() Option {
	return func(o *options) error {
		o.disableHTTP2 = true
		return nil
	}
}

// WithThrottle limits outgoing requests to rps per second with bursts
// of up to burst requests.
func WithThrottle(rps, burst int) Option {
	return func(o *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, ErrMustNotBeZero)
		}
		o.throttle = &throttleConfig{rps: rps, burst: burst}
		return nil
	}
}

// WithRoundTripper replaces the base http.Transport. Connect and read
// timeouts and HTTP/2 configuration only apply to the default base.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *options) error {
		if rt == nil {
			return errors.New("round tripper must not be nil")
		}
		o.base = rt
		return nil
	}
}

// WithLogger sets the logger used by the throttle.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// New builds an HTTP transport backed by a new *http.Client.
func New(opts ...Option) (*HTTP, error) {
	c, err := NewClient(opts...)
	if err != nil {
		return nil, err
	}
	return &HTTP{Doer: c}, nil
}

// NewClient builds the *http.Client used by New.
func NewClient(opts ...Option) (*http.Client, error) {
	var o options
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("applying transport option: %w", err)
		}
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	rt := o.base
	if rt == nil {
		t, err := newHTTPTransport(&o)
		if err != nil {
			return nil, err
		}
		rt = t
	}
	if o.throttle != nil {
		var err error
		rt, err = NewThrottle(o.throttle.rps, o.throttle.burst, o.logger, rt)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
	}

	c := &http.Client{Transport: rt}
	if !o.followRedirects {
		c.CheckRedirect = noRedirect
	}
	return c, nil
}

func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

func newHTTPTransport(o *options) (*http.Transport, error) {
	t := http.DefaultTransport.(*http.Transport).Clone()
	dialer := &net.Dialer{
		Timeout:   o.connectTimeout,
		KeepAlive: 30 * time.Second,
	}
	readTimeout := o.readTimeout
	t.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		c, err := dialer.DialContext(ctx, network, addr)
		if err != nil || readTimeout <= 0 {
			return c, err
		}
		return &readTimeoutConn{Conn: c, timeout: readTimeout}, nil
	}
	t.ResponseHeaderTimeout = o.readTimeout
	if o.disableHTTP2 {
		t.ForceAttemptHTTP2 = false
		t.TLSNextProto = make(map[string]func(string, *tls.Conn) http.RoundTripper)
		return t, nil
	}
	if err := http2.ConfigureTransport(t); err != nil {
		return nil, fmt.Errorf("configuring http2: %w", err)
	}
	return t, nil
}

// readTimeoutConn refreshes the read deadline before every read, so
// the timeout bounds each blocking read rather than the whole exchange.
type readTimeoutConn struct {
	net.Conn
	timeout time.Duration
}

func (c *readTimeoutConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}
