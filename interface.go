// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"context"
	"net/http"

	"github.com/gogama/asynchttp/request"
)

// Doer is the interface that wraps the basic Do method.
//
// Do submits the request described by desc for asynchronous execution
// and returns without waiting for it. The request's lifecycle is
// reported to d. For GET requests, params are added to the URL query
// string; for other methods they form the request body unless desc has
// a Body. Client implements the Doer interface, and any other Doer
// implementation must behave substantially the same as Client.Do.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Doer interface {
	Do(ctx context.Context, desc *request.Descriptor, params *request.Params, d Dispatcher) error
}

// Getter is the interface that wraps the basic Get method.
//
// Any Doer can be used to emulate a Getter via the Get function.
type Getter interface {
	Get(ctx context.Context, url string, d Dispatcher, opts ...Option) error
}

// Poster is the interface that wraps the basic Post method.
//
// Any Doer can be used to emulate a Poster via the Post function.
type Poster interface {
	Post(ctx context.Context, url string, d Dispatcher, opts ...Option) error
}

// Putter is the interface that wraps the basic Put method.
//
// Any Doer can be used to emulate a Putter via the Put function.
type Putter interface {
	Put(ctx context.Context, url string, d Dispatcher, opts ...Option) error
}

// Deleter is the interface that wraps the basic Delete method.
//
// Any Doer can be used to emulate a Deleter via the Delete function.
type Deleter interface {
	Delete(ctx context.Context, url string, d Dispatcher, opts ...Option) error
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any connections which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
//
// If the underlying implementation does not support this ability,
// CloseIdleConnections does nothing.
type IdleCloser interface {
	CloseIdleConnections()
}

// Executor is the interface that groups the basic Do, Get, Post, Put,
// Delete, and CloseIdleConnections methods.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Executor interface {
	Doer
	Getter
	Poster
	Putter
	Deleter
	IdleCloser
}

// An Option adjusts one request made through Get, Post, Put or Delete.
type Option func(*call) error

type call struct {
	header      map[string]string
	contentType string
	params      *request.Params
	body        []byte
}

// ContentType sets the Content-Type header of the request. An empty
// content type is ignored.
func ContentType(ct string) Option {
	return func(c *call) error {
		c.contentType = ct
		return nil
	}
}

// WithParams attaches form parameters to the request. The parameters
// are encoded when the request runs, not when the option is applied.
func WithParams(p *request.Params) Option {
	return func(c *call) error {
		c.params = p
		return nil
	}
}

// WithBody sets the request body and its content type. The body may be
// any of the types supported by request.BodyBytes, namely: string;
// []byte; io.Reader; and io.ReadCloser. An io.Reader is read fully
// when the option is applied. A body takes precedence over parameters
// and is ignored for GET.
func WithBody(contentType string, body interface{}) Option {
	return func(c *call) error {
		b, err := request.BodyBytes(body)
		if err != nil {
			return err
		}
		if b == nil {
			b = []byte{}
		}
		c.body = b
		if contentType != "" {
			c.contentType = contentType
		}
		return nil
	}
}

// WithHeader sets one request header. Empty or invalid names and values
// are ignored.
func WithHeader(key, value string) Option {
	return func(c *call) error {
		if c.header == nil {
			c.header = make(map[string]string)
		}
		c.header[key] = value
		return nil
	}
}

// build turns a method, URL and options into a descriptor and parameter
// set ready for Do.
func build(method, url string, opts []Option) (*request.Descriptor, *request.Params, error) {
	var c call
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return nil, nil, err
		}
	}
	desc, err := request.NewDescriptor(method, url, c.header)
	if err != nil {
		return nil, nil, err
	}
	if c.contentType != "" {
		desc = desc.WithHeader("Content-Type", c.contentType)
	}
	if c.body != nil {
		desc = desc.WithBody(c.body)
	}
	return desc, c.params, nil
}

func send(ctx context.Context, doer Doer, method, url string, d Dispatcher, opts []Option) error {
	desc, params, err := build(method, url, opts)
	if err != nil {
		return err
	}
	return doer.Do(ctx, desc, params, d)
}

// Get uses the specified Doer to issue a GET to the specified URL,
// using the same policies as doer.Do.
func Get(ctx context.Context, doer Doer, url string, d Dispatcher, opts ...Option) error {
	return send(ctx, doer, http.MethodGet, url, d, opts)
}

// Post uses the specified Doer to issue a POST to the specified URL,
// using the same policies as doer.Do.
func Post(ctx context.Context, doer Doer, url string, d Dispatcher, opts ...Option) error {
	return send(ctx, doer, http.MethodPost, url, d, opts)
}

// Put uses the specified Doer to issue a PUT to the specified URL,
// using the same policies as doer.Do.
func Put(ctx context.Context, doer Doer, url string, d Dispatcher, opts ...Option) error {
	return send(ctx, doer, http.MethodPut, url, d, opts)
}

// Delete uses the specified Doer to issue a DELETE to the specified
// URL, using the same policies as doer.Do.
func Delete(ctx context.Context, doer Doer, url string, d Dispatcher, opts ...Option) error {
	return send(ctx, doer, http.MethodDelete, url, d, opts)
}

// Inflate converts any non-nil Doer into an Executor. This may be
// helpful for interop across library boundaries, i.e. if code that only
// has access to a Doer needs to call a function that requires an
// Executor.
func Inflate(d Doer) Executor {
	if d == nil {
		panic("asynchttp: nil doer")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	doer Doer
}

func (i inflated) Do(ctx context.Context, desc *request.Descriptor, params *request.Params, d Dispatcher) error {
	return i.doer.Do(ctx, desc, params, d)
}

func (i inflated) Get(ctx context.Context, url string, d Dispatcher, opts ...Option) error {
	return Get(ctx, i.doer, url, d, opts...)
}

func (i inflated) Post(ctx context.Context, url string, d Dispatcher, opts ...Option) error {
	return Post(ctx, i.doer, url, d, opts...)
}

func (i inflated) Put(ctx context.Context, url string, d Dispatcher, opts ...Option) error {
	return Put(ctx, i.doer, url, d, opts...)
}

func (i inflated) Delete(ctx context.Context, url string, d Dispatcher, opts ...Option) error {
	return Delete(ctx, i.doer, url, d, opts...)
}

func (i inflated) CloseIdleConnections() {
	if ic, ok := i.doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}
