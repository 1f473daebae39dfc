// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"github.com/gogama/asynchttp/request"
)

// A HandlerGroup is a group of event handler chains which can be
// installed in a Client.
//
// Handlers run on the worker goroutine, before the event is handed to
// the request's Dispatcher, and see every request the client runs. Use
// them for cross-cutting concerns such as logging and metrics; use a
// Dispatcher for per-request results.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds an event handler to the back of the event handler chain
// for a specific event type.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("asynchttp: nil handler")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

func (g *HandlerGroup) run(evt Event, e *request.Envelope) {
	if g == nil {
		return
	}
	i := int(evt)
	if i < len(g.handlers) {
		for _, h := range g.handlers[i] {
			h.Handle(evt, e)
		}
	}
}

// A Handler handles the occurrence of an event during a request.
type Handler interface {
	Handle(Event, *request.Envelope)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers. If f is a function with appropriate
// signature, then HandlerFunc(f) is a Handler that calls f.
type HandlerFunc func(Event, *request.Envelope)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Envelope) {
	f(evt, e)
}
