// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gogama/asynchttp/request"
	"github.com/gogama/asynchttp/transient"
	"github.com/gogama/asynchttp/transport"
)

// A Runner executes one request on an already opened connection and
// reports its lifecycle to a Dispatcher.
//
// Most programs never build a Runner directly: Client builds one per
// request and submits its Run method to a pool. A Runner is used once.
type Runner struct {
	// Conn is the connection the request is sent on. Run always closes
	// it.
	Conn transport.Conn
	// Descriptor describes the request. Its method and headers are
	// applied to Conn.
	Descriptor *request.Descriptor
	// Params are written to the request body when the method is not
	// GET and the Descriptor has no Body. May be nil.
	Params *request.Params
	// RawParams selects the unescaped legacy parameter encoding.
	RawParams bool
	// Dispatcher receives the request events. It must not be nil.
	Dispatcher Dispatcher
	// Handlers are run for each event before it is dispatched. May be
	// nil.
	Handlers *HandlerGroup
	// Logger receives debug logs. If nil, nothing is logged.
	Logger *zap.Logger
}

// Run executes the request.
//
// Run emits Start, then exactly one of Success or Failure, then Finish.
// The context is checked after Start and again before the body is
// written; if it is done at either point, or if the transport fails
// after it is done, Run abandons the request silently: neither Success
// nor Failure is emitted, but Finish still is. A response that was read
// in full is always delivered, even when its status code is a failure
// and the context ended after it arrived.
//
// Run panics if the Dispatcher is nil.
func (r *Runner) Run(ctx context.Context) {
	if r.Dispatcher == nil {
		panic("asynchttp: nil dispatcher")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &request.Envelope{Descriptor: r.Descriptor}
	defer func() {
		if err := r.Conn.Close(); err != nil {
			logger.Debug("close failed", zap.String("request_id", r.Descriptor.ID), zap.Error(err))
		}
	}()

	e.Start = time.Now()
	r.emit(Start, e)
	logger.Debug("request started",
		zap.String("request_id", r.Descriptor.ID),
		zap.String("method", r.Descriptor.Method),
		zap.Stringer("url", r.Descriptor.URL))

	evt := r.execute(ctx, e)
	if evt.Terminal() {
		r.emit(evt, e)
	}

	e.End = time.Now()
	r.emit(Finish, e)

	fields := []zap.Field{
		zap.String("request_id", r.Descriptor.ID),
		zap.Int("status", e.StatusCode),
		zap.Duration("duration", e.Duration()),
	}
	if e.Err != nil {
		fields = append(fields,
			zap.Stringer("category", transient.Categorize(e.Err)),
			zap.Error(e.Err))
	}
	if !evt.Terminal() {
		fields = append(fields, zap.Bool("abandoned", true))
	}
	logger.Debug("request finished", fields...)
}

// execute sends the request and reads the response. It returns Success
// or Failure, or Finish if the request was abandoned because ctx is
// done.
func (r *Runner) execute(ctx context.Context, e *request.Envelope) Event {
	if ctx.Err() != nil {
		e.Err = ctx.Err()
		return Finish
	}

	if err := r.prepare(ctx); err != nil {
		e.Err = err
		if ctx.Err() != nil {
			return Finish
		}
		return Failure
	}

	evt := r.Dispatcher.Respond(ctx, r.Conn, e)
	var statusErr *request.StatusError
	if evt == Failure && ctx.Err() != nil && !errors.As(e.Err, &statusErr) {
		return Finish
	}
	return evt
}

func (r *Runner) prepare(ctx context.Context) error {
	d := r.Descriptor
	if err := r.Conn.SetMethod(d.Method); err != nil {
		return transport.WrapError(d.Method, d.URL, err)
	}
	for k, vs := range d.Header {
		if len(vs) > 0 {
			r.Conn.SetHeader(k, vs[0])
		}
	}

	if d.Method == http.MethodGet {
		return nil
	}
	payload := d.Body
	if payload == nil && r.Params != nil {
		if r.RawParams {
			payload = []byte(r.Params.EncodeRaw())
		} else {
			payload = []byte(r.Params.Encode())
		}
	}
	if payload == nil {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	w, err := r.Conn.Body()
	if err != nil {
		return transport.WrapError(d.Method, d.URL, err)
	}
	if _, err = w.Write(payload); err != nil {
		_ = w.Close()
		return transport.WrapError(d.Method, d.URL, err)
	}
	if err = w.Close(); err != nil {
		return transport.WrapError(d.Method, d.URL, err)
	}
	return nil
}

func (r *Runner) emit(evt Event, e *request.Envelope) {
	r.Handlers.run(evt, e)
	r.Dispatcher.Dispatch(evt, e)
}
