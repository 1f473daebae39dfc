// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pool

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrShutdown is returned by Submit after a pool has been shut down.
var ErrShutdown = errors.New("asynchttp/pool: pool is shut down")

// A Pool runs submitted tasks.
//
// Submit either accepts task, in which case task will run exactly once,
// or returns an error, in which case task will never run.
type Pool interface {
	Submit(task func()) error
}

// Default is the pool used when none is configured: unbounded, one
// goroutine per task.
var Default = New(0)

// Sync is a Pool that runs each task on the goroutine calling Submit,
// and returns after the task returns.
var Sync Pool = syncPool{}

type syncPool struct{}

func (syncPool) Submit(task func()) error {
	task()
	return nil
}

// A Group is a Pool that runs each task on its own goroutine, with an
// optional limit on the number of tasks running at once.
type Group struct {
	mu       sync.Mutex // guards shutdown and wg.Add
	wg       sync.WaitGroup
	sem      chan struct{}
	shutdown bool
	running  atomic.Int64
}

// New returns a Group running at most max tasks at once. If max <= 0,
// concurrency is unlimited.
func New(max int) *Group {
	g := &Group{}
	if max > 0 {
		g.sem = make(chan struct{}, max)
	}
	return g
}

// Submit starts task on a new goroutine. If the group is bounded and
// full, the goroutine waits for a free slot before running task; Submit
// itself never blocks.
func (g *Group) Submit(task func()) error {
	if task == nil {
		panic("asynchttp/pool: nil task")
	}
	g.mu.Lock()
	if g.shutdown {
		g.mu.Unlock()
		return ErrShutdown
	}
	g.wg.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()
		if g.sem != nil {
			g.sem <- struct{}{}
			defer func() {
				<-g.sem
			}()
		}
		g.running.Add(1)
		defer g.running.Add(-1)
		task()
	}()
	return nil
}

// Running returns the number of tasks currently running.
func (g *Group) Running() int {
	return int(g.running.Load())
}

// Wait blocks until every accepted task has returned.
func (g *Group) Wait() {
	g.wg.Wait()
}

// Shutdown makes the group refuse new tasks. Tasks already accepted
// still run; use Wait to wait for them.
func (g *Group) Shutdown() {
	g.mu.Lock()
	g.shutdown = true
	g.mu.Unlock()
}
