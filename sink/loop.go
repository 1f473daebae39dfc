// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sink

import (
	"context"
	"sync"
)

// A Loop is a Sink that queues callbacks for a goroutine which runs
// them by calling Run or Drain. The queue is unbounded, so Deliver never
// blocks.
//
// Use NewLoop to create a Loop.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	notify chan struct{}
	done   chan struct{}
}

// NewLoop returns an empty, open Loop.
func NewLoop() *Loop {
	return &Loop{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Deliver queues f. If the loop has been closed, f is discarded.
func (l *Loop) Deliver(f func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, f)
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// Run runs queued callbacks on the calling goroutine until ctx is done
// or the loop is closed. When the loop is closed, Run first runs every
// callback still queued and then returns nil. When ctx is done, Run
// returns ctx.Err() without running the rest of the queue.
//
// Only one goroutine may call Run or Drain at a time.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		select {
		case <-l.notify:
		case <-l.done:
			l.Drain()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Drain runs every callback queued at the time of the call, and any
// queued by those callbacks, then returns the number run.
func (l *Loop) Drain() int {
	n := 0
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()
		if len(batch) == 0 {
			return n
		}
		for _, f := range batch {
			f()
		}
		n += len(batch)
	}
}

// Len returns the number of queued callbacks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Close stops the loop from accepting callbacks and makes Run return
// once the queue is empty. Close may be called more than once.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	close(l.done)
}
