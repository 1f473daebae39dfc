// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gogama/asynchttp/request"
)

var (
	// ErrConnected is returned when a Conn is modified after its
	// response has been requested.
	ErrConnected = errors.New("asynchttp/transport: already connected")
	// ErrClosed is returned when a closed Conn is used.
	ErrClosed = errors.New("asynchttp/transport: connection closed")
	// ErrNoBody is returned when a body is requested for a GET.
	ErrNoBody = errors.New("asynchttp/transport: GET request cannot have a body")
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	Do(r *http.Request) (*http.Response, error)
}

// An Opener opens connections.
//
// Implementations of Opener must be safe for concurrent use by multiple
// goroutines.
type Opener interface {
	// Open returns a new, unconnected Conn targeting u.
	Open(u *url.URL) (Conn, error)
}

// A Conn is a single-use connection for one request.
//
// A Conn is not safe for concurrent use.
type Conn interface {
	// SetMethod sets the request method. The default is GET.
	SetMethod(method string) error
	// SetHeader sets a request header, replacing any previous value.
	SetHeader(key, value string)
	// Body returns a writer for the request body. The body is sent when
	// the response is requested.
	Body() (io.WriteCloser, error)
	// Response sends the request, if not yet sent, and returns the
	// response. Repeated calls return the same response. The response
	// body remains owned by the Conn and is closed by Close.
	Response(ctx context.Context) (*http.Response, error)
	// Close releases the connection and any response body.
	Close() error
}

// HTTP is an Opener whose connections send requests through an
// HTTPDoer. The zero value uses http.DefaultClient.
type HTTP struct {
	// Doer sends the requests. If nil, http.DefaultClient is used.
	Doer HTTPDoer
}

// Open returns a new Conn for u.
func (t *HTTP) Open(u *url.URL) (Conn, error) {
	if u == nil {
		return nil, errors.New("asynchttp/transport: nil URL")
	}
	doer := t.Doer
	if doer == nil {
		doer = http.DefaultClient
	}
	return &conn{
		doer:   doer,
		url:    u,
		method: http.MethodGet,
		header: make(http.Header),
	}, nil
}

// CloseIdleConnections closes idle connections on the underlying
// HTTPDoer, if it supports that.
func (t *HTTP) CloseIdleConnections() {
	doer := t.Doer
	if doer == nil {
		doer = http.DefaultClient
	}
	if ic, ok := doer.(interface{ CloseIdleConnections() }); ok {
		ic.CloseIdleConnections()
	}
}

type conn struct {
	doer   HTTPDoer
	url    *url.URL
	method string
	header http.Header
	body   *bodyWriter
	resp   *http.Response
	err    error
	sent   bool
	closed bool
}

func (c *conn) SetMethod(method string) error {
	if c.closed {
		return ErrClosed
	}
	if c.sent {
		return ErrConnected
	}
	if !request.ValidMethod(method) {
		return fmt.Errorf("asynchttp/transport: unsupported method %q", method)
	}
	c.method = method
	return nil
}

func (c *conn) SetHeader(key, value string) {
	if c.sent || c.closed {
		return
	}
	c.header.Set(key, value)
}

func (c *conn) Body() (io.WriteCloser, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.sent {
		return nil, ErrConnected
	}
	if c.method == http.MethodGet {
		return nil, ErrNoBody
	}
	if c.body == nil {
		c.body = &bodyWriter{}
	}
	return c.body, nil
}

func (c *conn) Response(ctx context.Context) (*http.Response, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.sent {
		return c.resp, c.err
	}
	c.sent = true

	var body io.Reader
	if c.body != nil && c.body.buf.Len() > 0 {
		body = bytes.NewReader(c.body.buf.Bytes())
	}
	r, err := http.NewRequestWithContext(ctx, c.method, c.url.String(), body)
	if err != nil {
		c.err = WrapError(c.method, c.url, err)
		return nil, c.err
	}
	r.Header = c.header
	c.resp, err = c.doer.Do(r)
	if err != nil {
		c.resp = nil
		c.err = WrapError(c.method, c.url, err)
	}
	return c.resp, c.err
}

func (c *conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.resp != nil && c.resp.Body != nil {
		return c.resp.Body.Close()
	}
	return nil
}

type bodyWriter struct {
	buf    bytes.Buffer
	closed bool
}

func (w *bodyWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}
	return w.buf.Write(p)
}

func (w *bodyWriter) Close() error {
	w.closed = true
	return nil
}

// WrapError wraps err in a *url.Error describing the request, unless it
// already is one.
func WrapError(method string, u *url.URL, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(method),
		URL: u.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
