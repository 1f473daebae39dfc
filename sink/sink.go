// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sink

// A Sink delivers a callback for execution.
//
// Deliver must arrange for f to run exactly once, unless the sink has
// been shut down, and must run callbacks from one caller in the order
// they were delivered. Implementations must be safe for concurrent use
// by multiple goroutines.
type Sink interface {
	Deliver(f func())
}

// Inline is a Sink that runs every callback synchronously on the
// goroutine calling Deliver.
var Inline Sink = inline{}

type inline struct{}

func (inline) Deliver(f func()) {
	f()
}

// The Func type is an adapter to allow the use of ordinary functions as
// sinks, for example to hand callbacks to an existing event loop.
type Func func(f func())

// Deliver calls s(f).
func (s Func) Deliver(f func()) {
	s(f)
}
