// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core value types Descriptor (describes one
HTTP request), Params (a concurrency-safe form parameter set) and
Envelope (describes the lifecycle state of one request).

A Descriptor is created fresh for every request and never changes after
the request is submitted, so one descriptor can never observe another
request's method or URL:

	d, err := request.NewDescriptor("POST", "https://example.com/login", nil)
	...

A Params value accumulates form parameters. It may be filled from any
number of goroutines and is encoded once, when the request is run:

	p := &request.Params{}
	p.Put("name", "Leonardo")
	p.Put("pass", "test")
	p.Encode() // "name=Leonardo&pass=test"

For GET requests the encoded parameters are appended to the URL query
string with WithQuery. For every other method they are written to the
request body as application/x-www-form-urlencoded.

An Envelope is the payload handed to dispatchers and event handlers
while a request runs. It is created by the runner, and handlers should
treat its exported fields as read-only.
*/
package request
