// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/gogama/asynchttp/request"
	"github.com/gogama/asynchttp/transport"
)

// recorder is a Callback which records the calls it receives.
type recorder[T any] struct {
	mu     sync.Mutex
	calls  []string
	status int
	body   T
	err    error
}

func (r *recorder[T]) OnStart() {
	r.add("start")
}

func (r *recorder[T]) OnSuccess(statusCode int, body T) {
	r.mu.Lock()
	r.status = statusCode
	r.body = body
	r.mu.Unlock()
	r.add("success")
}

func (r *recorder[T]) OnError(err error, body T) {
	r.mu.Lock()
	r.err = err
	r.body = body
	r.mu.Unlock()
	r.add("error")
}

func (r *recorder[T]) OnFinish() {
	r.add("finish")
}

func (r *recorder[T]) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder[T]) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// fakeConn is a transport.Conn with a canned response.
type fakeConn struct {
	method     string
	header     http.Header
	body       *bytes.Buffer
	bodyClosed bool
	methodErr  error
	bodyErr    error
	resp       *http.Response
	respErr    error
	onResponse func(ctx context.Context)
	onHeader   func()
	closed     int
}

func newFakeConn(resp *http.Response, err error) *fakeConn {
	return &fakeConn{
		method:  http.MethodGet,
		header:  make(http.Header),
		resp:    resp,
		respErr: err,
	}
}

func (c *fakeConn) SetMethod(method string) error {
	if c.methodErr != nil {
		return c.methodErr
	}
	c.method = method
	return nil
}

func (c *fakeConn) SetHeader(key, value string) {
	if c.onHeader != nil {
		c.onHeader()
	}
	c.header.Set(key, value)
}

func (c *fakeConn) Body() (io.WriteCloser, error) {
	if c.bodyErr != nil {
		return nil, c.bodyErr
	}
	c.body = &bytes.Buffer{}
	return &fakeBody{c}, nil
}

func (c *fakeConn) Response(ctx context.Context) (*http.Response, error) {
	if c.onResponse != nil {
		c.onResponse(ctx)
	}
	if c.respErr != nil {
		return nil, c.respErr
	}
	return c.resp, nil
}

func (c *fakeConn) Close() error {
	c.closed++
	return nil
}

type fakeBody struct {
	c *fakeConn
}

func (b *fakeBody) Write(p []byte) (int, error) {
	return b.c.body.Write(p)
}

func (b *fakeBody) Close() error {
	b.c.bodyClosed = true
	return nil
}

func fakeResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Status:     fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
		Header:     http.Header{"Content-Type": {"text/plain"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

type mockOpener struct {
	mock.Mock
}

func newMockOpener(t *testing.T) *mockOpener {
	m := &mockOpener{}
	m.Test(t)
	return m
}

func (m *mockOpener) Open(u *url.URL) (transport.Conn, error) {
	args := m.Called(u)
	err := args.Error(1)
	if c, ok := args.Get(0).(transport.Conn); ok {
		return c, err
	}
	return nil, err
}

type mockOpenerWithCloseIdleConnections struct {
	mockOpener
}

func (m *mockOpenerWithCloseIdleConnections) CloseIdleConnections() {
	m.Called()
}

type mockPool struct {
	mock.Mock
}

func (m *mockPool) Submit(task func()) error {
	return m.Called(task).Error(0)
}

type mockDoer struct {
	mock.Mock
}

func newMockDoer(t *testing.T) *mockDoer {
	m := &mockDoer{}
	m.Test(t)
	return m
}

func (m *mockDoer) Do(ctx context.Context, desc *request.Descriptor, params *request.Params, d Dispatcher) error {
	return m.Called(ctx, desc, params, d).Error(0)
}

type mockDoerWithCloseIdleConnections struct {
	mockDoer
}

func (m *mockDoerWithCloseIdleConnections) CloseIdleConnections() {
	m.Called()
}

// traceDispatcher records the events dispatched to it and reads
// responses with the default policy.
type traceDispatcher struct {
	mu   sync.Mutex
	evts []Event
	envs []request.Envelope
}

func (d *traceDispatcher) Respond(ctx context.Context, c transport.Conn, e *request.Envelope) Event {
	return ReadResponse(ctx, c, e, nil)
}

func (d *traceDispatcher) Dispatch(evt Event, e *request.Envelope) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.evts = append(d.evts, evt)
	d.envs = append(d.envs, *e)
}

func (d *traceDispatcher) events() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Event(nil), d.evts...)
}

func (d *traceDispatcher) last() request.Envelope {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.envs[len(d.envs)-1]
}
