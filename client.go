// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"context"
	"errors"
	"net/http"
	urlpkg "net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/gogama/asynchttp/pool"
	"github.com/gogama/asynchttp/request"
	"github.com/gogama/asynchttp/transport"
)

var (
	defaultTransport = &transport.HTTP{}
	errNilDescriptor = errors.New("asynchttp: nil descriptor")
)

// A Client submits HTTP requests for asynchronous execution. Its zero
// value is a valid configuration.
//
// The zero value client opens connections through a transport.HTTP
// backed by http.DefaultClient, runs requests on pool.Default (one
// goroutine per request), runs no event handlers, and logs nothing.
//
// Every request method returns as soon as the request is submitted.
// The request's outcome is reported to the Dispatcher passed in, for
// example a Pipeline:
//
//	client := &asynchttp.Client{}
//	d := asynchttp.NewTextPipeline(&asynchttp.Funcs[string]{
//		Success: func(status int, body string) { ... },
//		Error:   func(err error, body string) { ... },
//	})
//	err := client.Get(ctx, "https://example.com", d)
//
// A Client is safe for concurrent use by multiple goroutines. Clients
// hold default headers and, through their transport, cached TCP
// connections, so they should be reused instead of created as needed.
type Client struct {
	// Transport opens a connection for each request.
	//
	// If Transport is nil, a transport.HTTP using http.DefaultClient is
	// used. Use transport.New to configure connect and read timeouts.
	Transport transport.Opener
	// Pool runs the submitted requests.
	//
	// If Pool is nil, pool.Default is used.
	Pool pool.Pool
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during a request.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
	// Logger receives the client's logs. Requests which cannot be
	// submitted are logged at Error level; request start and finish at
	// Debug level.
	//
	// If Logger is nil, nothing is logged.
	Logger *zap.Logger
	// RawParams selects the legacy parameter encoding, which does not
	// escape keys and values. Only set it to talk to servers which
	// depend on that quirk.
	RawParams bool

	mu      sync.RWMutex
	headers map[string]string
}

// AddHeader adds a default header sent with every subsequent request.
// A header set on an individual request with WithHeader or ContentType
// takes precedence.
//
// Empty or invalid names and values are ignored.
func (c *Client) AddHeader(key, value string) {
	if !request.ValidHeader(key, value) {
		c.logger().Debug("ignoring invalid header", zap.String("key", key))
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.headers == nil {
		c.headers = make(map[string]string)
	}
	c.headers[http.CanonicalHeaderKey(key)] = value
}

// AddHeaders adds every entry of headers as with AddHeader.
func (c *Client) AddHeaders(headers map[string]string) {
	for k, v := range headers {
		c.AddHeader(k, v)
	}
}

// ClearHeaders removes all default headers.
func (c *Client) ClearHeaders() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers = nil
}

// Headers returns a copy of the default headers.
func (c *Client) Headers() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		h[k] = v
	}
	return h
}

// Do submits the request described by desc and returns without waiting
// for it to run.
//
// The default headers are added to a copy of desc, unless desc already
// sets them. If desc is a GET, params are encoded into the URL query
// string. Otherwise params are sent as the request body, unless desc
// has a Body of its own, and the Content-Type defaults to
// application/x-www-form-urlencoded.
//
// If the connection cannot be opened or the pool refuses the request,
// the error is logged and returned, and d receives no events at all.
// Otherwise d receives Start, then Success or Failure, then Finish, on
// the pool's goroutine. The context governs the whole request; see
// Runner.Run for how cancellation is reported.
//
// Do panics if d is nil.
func (c *Client) Do(ctx context.Context, desc *request.Descriptor, params *request.Params, d Dispatcher) error {
	if d == nil {
		panic("asynchttp: nil dispatcher")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.logger()
	if desc == nil {
		logger.Error("cannot build request", zap.Error(errNilDescriptor))
		return errNilDescriptor
	}

	desc, err := c.prepare(desc, params)
	if err != nil {
		logger.Error("cannot build request", zap.Stringer("request", desc), zap.Error(err))
		return err
	}

	conn, err := c.opener().Open(desc.URL)
	if err != nil {
		logger.Error("cannot open connection",
			zap.String("request_id", desc.ID),
			zap.Stringer("request", desc),
			zap.Error(err))
		return err
	}

	r := &Runner{
		Conn:       conn,
		Descriptor: desc,
		Params:     params,
		RawParams:  c.RawParams,
		Dispatcher: d,
		Handlers:   c.Handlers,
		Logger:     c.Logger,
	}
	err = c.pool().Submit(func() { r.Run(ctx) })
	if err != nil {
		_ = conn.Close()
		logger.Error("request not submitted",
			zap.String("request_id", desc.ID),
			zap.Stringer("request", desc),
			zap.Error(err))
		return err
	}
	return nil
}

func (c *Client) prepare(desc *request.Descriptor, params *request.Params) (*request.Descriptor, error) {
	c.mu.RLock()
	for k, v := range c.headers {
		if desc.Header.Get(k) == "" {
			desc = desc.WithHeader(k, v)
		}
	}
	c.mu.RUnlock()

	if params.Len() == 0 {
		return desc, nil
	}

	if desc.Method != http.MethodGet {
		if desc.Body == nil && desc.Header.Get("Content-Type") == "" {
			desc = desc.WithHeader("Content-Type", "application/x-www-form-urlencoded")
		}
		return desc, nil
	}

	query := params.Encode()
	if c.RawParams {
		query = params.EncodeRaw()
	}
	u, err := urlpkg.Parse(request.WithQuery(desc.URL.String(), query))
	if err != nil {
		return desc, err
	}
	d2 := *desc
	d2.URL = u
	return &d2, nil
}

// Get issues a GET to the specified URL. Parameters given with
// WithParams are added to the query string.
//
// A malformed URL is logged and returned as an error, and d receives no
// events.
func (c *Client) Get(ctx context.Context, url string, d Dispatcher, opts ...Option) error {
	return c.send(ctx, http.MethodGet, url, d, opts)
}

// Post issues a POST to the specified URL. Parameters given with
// WithParams form the request body.
func (c *Client) Post(ctx context.Context, url string, d Dispatcher, opts ...Option) error {
	return c.send(ctx, http.MethodPost, url, d, opts)
}

// Put issues a PUT to the specified URL. Parameters given with
// WithParams form the request body.
func (c *Client) Put(ctx context.Context, url string, d Dispatcher, opts ...Option) error {
	return c.send(ctx, http.MethodPut, url, d, opts)
}

// Delete issues a DELETE to the specified URL. Parameters given with
// WithParams form the request body.
func (c *Client) Delete(ctx context.Context, url string, d Dispatcher, opts ...Option) error {
	return c.send(ctx, http.MethodDelete, url, d, opts)
}

func (c *Client) send(ctx context.Context, method, url string, d Dispatcher, opts []Option) error {
	if d == nil {
		panic("asynchttp: nil dispatcher")
	}
	desc, params, err := build(method, url, opts)
	if err != nil {
		c.logger().Error("cannot build request",
			zap.String("method", method),
			zap.String("url", url),
			zap.Error(err))
		return err
	}
	return c.Do(ctx, desc, params, d)
}

// CloseIdleConnections invokes the same method on the client's
// transport.
//
// If the transport has no CloseIdleConnections method, this method does
// nothing.
func (c *Client) CloseIdleConnections() {
	if ic, ok := c.opener().(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) opener() transport.Opener {
	if c.Transport == nil {
		return defaultTransport
	}
	return c.Transport
}

func (c *Client) pool() pool.Pool {
	if c.Pool == nil {
		return pool.Default
	}
	return c.Pool
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
