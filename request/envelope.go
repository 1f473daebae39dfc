// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gogama/asynchttp/transient"
)

// An Envelope carries the state of a single request as it moves through
// its lifecycle.
//
// The runner creates one Envelope per request and updates it as the
// request progresses. Dispatchers and event handlers receive the same
// Envelope for every event of the request; they should treat its
// exported fields as read-only.
type Envelope struct {
	// Descriptor is the request being run. It is never nil.
	Descriptor *Descriptor

	// Start is the time the request started running. It is set before
	// the start event fires and remains constant thereafter.
	Start time.Time

	// End is the time the request finished running. It contains the
	// zero value until just before the finish event fires.
	End time.Time

	// StatusCode is the HTTP status code of the response, or zero if no
	// response was received.
	StatusCode int

	// Status is the HTTP status line of the response, e.g. "200 OK", or
	// the empty string if no response was received.
	Status string

	// Header holds the response headers, or nil if no response was
	// received.
	Header http.Header

	// Body is the complete response body, read from the response
	// regardless of whether the status code indicates success. It is
	// nil if no response was received or reading it failed.
	Body []byte

	// Err is the failure, if any. It is nil on success.
	//
	// Err is set to a *url.Error when the transport failed, and to a
	// *StatusError when a response was received but its status code was
	// classified as a failure.
	Err error
}

// Duration returns the duration of the request.
//
// If the request has not yet started, the duration is zero. If it has
// ended, the duration is End minus Start. Otherwise it is the current
// time minus Start.
func (e *Envelope) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the request has started.
func (e *Envelope) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the request has ended.
func (e *Envelope) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err reports a client-side timeout.
func (e *Envelope) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// Canceled indicates whether Err reports that the request context was
// cancelled.
func (e *Envelope) Canceled() bool {
	return errors.Is(e.Err, context.Canceled)
}

// A StatusError reports a response whose status code the status policy
// classified as a failure.
type StatusError struct {
	StatusCode int
	Status     string
}

func (err *StatusError) Error() string {
	if err.Status != "" {
		return "asynchttp: unsuccessful status " + err.Status
	}
	return "asynchttp: unsuccessful status " + strconv.Itoa(err.StatusCode)
}
