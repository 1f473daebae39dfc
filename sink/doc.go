// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package sink provides completion sinks, which decide on which goroutine
request callbacks run.

A request runs on a worker goroutine, but the code that consumes its
result frequently lives on a goroutine that owns some state, such as a
UI or game loop, an actor, or main. A Sink carries each callback from
the worker to wherever it should run.

Inline runs callbacks immediately on the worker goroutine. It is the
default, and makes tests deterministic when combined with a synchronous
pool.

Loop queues callbacks until the owning goroutine runs them:

	loop := sink.NewLoop()
	defer loop.Close()
	go submitRequests(loop)
	if err := loop.Run(ctx); err != nil {
		...
	}

Callbacks delivered through one Loop run one at a time, in the order
they were delivered.
*/
package sink
