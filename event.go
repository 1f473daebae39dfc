// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

// An Event identifies a stage in the lifecycle of a request. Every
// request produces Start, then exactly one of Success or Failure, then
// Finish.
type Event int

const (
	// Start identifies the event that occurs when a request begins to
	// run on a worker, before any header is applied to the connection.
	//
	// When Start fires, the envelope's Descriptor and Start time are set
	// and nothing else.
	Start Event = iota
	// Success identifies the event that occurs when a response has been
	// received, its body read, and the status policy classified its
	// status code as a success.
	//
	// When Success fires, the envelope's StatusCode, Status, Header and
	// Body are set and Err is nil.
	//
	// Success is decided before the body is decoded. A Pipeline whose
	// decoder rejects the body calls the callback's OnError, but
	// handlers still see Success with a nil Err.
	Success
	// Failure identifies the event that occurs when the request failed,
	// either because the transport reported an error or because the
	// status policy classified the status code as a failure.
	//
	// When Failure fires, the envelope's Err is non-nil. If a response
	// was received, StatusCode, Status, Header and Body are also set.
	//
	// Failure does not fire for a request abandoned because its context
	// was cancelled.
	Failure
	// Finish identifies the event that occurs after the request has
	// completed, regardless of outcome.
	//
	// When Finish fires, the envelope is in the same state it was in
	// after the Success or Failure event EXCEPT that the End time is
	// set.
	Finish
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"Start",
	"Success",
	"Failure",
	"Finish",
}

// Events returns a slice containing all events which can occur during
// a request, in the order in which they would occur.
func Events() []Event {
	return []Event{
		Start,
		Success,
		Failure,
		Finish,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}

// Terminal reports whether evt is Success or Failure.
func (evt Event) Terminal() bool {
	return evt == Success || evt == Failure
}
