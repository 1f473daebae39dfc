// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"context"
	"io"

	"github.com/gogama/asynchttp/request"
	"github.com/gogama/asynchttp/sink"
	"github.com/gogama/asynchttp/status"
	"github.com/gogama/asynchttp/transport"
)

// A Dispatcher turns the raw lifecycle of a request into callbacks.
//
// The runner calls Respond once to read the response, then calls
// Dispatch once for each event, always in the order Start, Success or
// Failure, Finish. Both are called on the worker goroutine; Dispatch
// decides where the resulting callbacks run.
type Dispatcher interface {
	// Respond reads the response from c into e and returns Success or
	// Failure. It must not deliver anything itself.
	Respond(ctx context.Context, c transport.Conn, e *request.Envelope) Event
	// Dispatch delivers evt for the request described by e.
	Dispatch(evt Event, e *request.Envelope)
}

// DispatcherFuncs is an adapter to allow the use of ordinary functions
// as a Dispatcher. A nil RespondFunc reads the response with
// status.DefaultPolicy; a nil DispatchFunc discards events.
type DispatcherFuncs struct {
	RespondFunc  func(ctx context.Context, c transport.Conn, e *request.Envelope) Event
	DispatchFunc func(evt Event, e *request.Envelope)
}

// Respond calls f.RespondFunc, or ReadResponse if it is nil.
func (f DispatcherFuncs) Respond(ctx context.Context, c transport.Conn, e *request.Envelope) Event {
	if f.RespondFunc == nil {
		return ReadResponse(ctx, c, e, status.DefaultPolicy)
	}
	return f.RespondFunc(ctx, c, e)
}

// Dispatch calls f.DispatchFunc if it is set.
func (f DispatcherFuncs) Dispatch(evt Event, e *request.Envelope) {
	if f.DispatchFunc != nil {
		f.DispatchFunc(evt, e)
	}
}

// ReadResponse is the standard implementation of Dispatcher.Respond.
//
// It requests the response from c and reads the whole body into e,
// whatever the status code. If the transport fails, e.Err is set to
// the error and Failure is returned. Otherwise, if policy classifies
// the status code as a failure, e.Err is set to a *request.StatusError
// and Failure is returned; else Success is returned.
func ReadResponse(ctx context.Context, c transport.Conn, e *request.Envelope, policy status.Policy) Event {
	resp, err := c.Response(ctx)
	if err != nil {
		e.Err = err
		return Failure
	}

	e.StatusCode = resp.StatusCode
	e.Status = resp.Status
	e.Header = resp.Header
	if resp.Body != nil {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			d := e.Descriptor
			e.Err = transport.WrapError(d.Method, d.URL, err)
			return Failure
		}
		e.Body = body
	}

	if policy == nil {
		policy = status.DefaultPolicy
	}
	if !policy.Success(resp.StatusCode) {
		e.Err = &request.StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
		return Failure
	}
	return Success
}

// A Pipeline is a Dispatcher which decodes response bodies to T and
// delivers events to a Callback through a sink.
//
// A successful response whose body fails to decode is delivered to
// OnError with the decode error and the zero T. The body of a failed
// response is decoded on a best-effort basis: if it decodes, OnError
// receives the value; if not, OnError receives the zero T. In both
// cases the error passed to OnError is the request's error.
//
// A Pipeline holds no per-request state, so one Pipeline may serve any
// number of requests, concurrently.
type Pipeline[T any] struct {
	decode   Decoder[T]
	callback Callback[T]
	sink     sink.Sink
	policy   status.Policy
}

// A PipelineOption configures a Pipeline.
type PipelineOption func(*pipelineOptions)

type pipelineOptions struct {
	sink   sink.Sink
	policy status.Policy
}

// WithSink sets the sink that runs callbacks. The default is
// sink.Inline, which runs callbacks on the worker goroutine.
func WithSink(s sink.Sink) PipelineOption {
	return func(o *pipelineOptions) {
		o.sink = s
	}
}

// WithStatusPolicy sets the status policy that decides which status
// codes are successes. The default is status.DefaultPolicy.
func WithStatusPolicy(p status.Policy) PipelineOption {
	return func(o *pipelineOptions) {
		o.policy = p
	}
}

// NewPipeline returns a Pipeline decoding bodies with decode and
// delivering them to callback.
func NewPipeline[T any](decode Decoder[T], callback Callback[T], opts ...PipelineOption) *Pipeline[T] {
	if decode == nil {
		panic("asynchttp: nil decoder")
	}
	if callback == nil {
		panic("asynchttp: nil callback")
	}
	o := pipelineOptions{
		sink:   sink.Inline,
		policy: status.DefaultPolicy,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sink == nil {
		o.sink = sink.Inline
	}
	if o.policy == nil {
		o.policy = status.DefaultPolicy
	}
	return &Pipeline[T]{
		decode:   decode,
		callback: callback,
		sink:     o.sink,
		policy:   o.policy,
	}
}

// NewTextPipeline returns a Pipeline delivering bodies as strings.
func NewTextPipeline(callback Callback[string], opts ...PipelineOption) *Pipeline[string] {
	return NewPipeline(Text, callback, opts...)
}

// NewBytesPipeline returns a Pipeline delivering bodies as byte
// slices.
func NewBytesPipeline(callback Callback[[]byte], opts ...PipelineOption) *Pipeline[[]byte] {
	return NewPipeline(Bytes, callback, opts...)
}

// NewJSONPipeline returns a Pipeline delivering bodies as parsed JSON
// objects or arrays.
func NewJSONPipeline(callback Callback[JSONValue], opts ...PipelineOption) *Pipeline[JSONValue] {
	return NewPipeline(JSON, callback, opts...)
}

// Respond reads the response using the pipeline's status policy.
func (p *Pipeline[T]) Respond(ctx context.Context, c transport.Conn, e *request.Envelope) Event {
	return ReadResponse(ctx, c, e, p.policy)
}

// Dispatch decodes the body, for Success and Failure, and delivers the
// matching callback through the sink.
func (p *Pipeline[T]) Dispatch(evt Event, e *request.Envelope) {
	cb := p.callback
	switch evt {
	case Start:
		p.sink.Deliver(cb.OnStart)
	case Success:
		statusCode := e.StatusCode
		v, err := p.decode(e.Body)
		if err != nil {
			var zero T
			p.sink.Deliver(func() { cb.OnError(err, zero) })
			return
		}
		p.sink.Deliver(func() { cb.OnSuccess(statusCode, v) })
	case Failure:
		err := e.Err
		var v T
		if e.Body != nil {
			if decoded, decodeErr := p.decode(e.Body); decodeErr == nil {
				v = decoded
			}
		}
		p.sink.Deliver(func() { cb.OnError(err, v) })
	case Finish:
		p.sink.Deliver(cb.OnFinish)
	}
}
