// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package pool provides the worker pools on which requests run.
//
// The default pool, Default, starts one goroutine per submitted task
// with no upper bound. New(n) creates a pool that runs at most n tasks
// at once; tasks beyond the limit wait for a free slot. Sync runs each
// task on the submitting goroutine, which makes a whole request,
// callbacks included, run deterministically inside the Submit call.
package pool
