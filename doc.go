// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package asynchttp provides an asynchronous HTTP client: requests are
submitted to a worker pool and their outcome is delivered to callbacks,
on the worker goroutine or on a goroutine of your choosing.

Create a Client and a Dispatcher to begin making requests. A Pipeline is
a Dispatcher which decodes the response body and calls a Callback.

	client := &asynchttp.Client{}
	d := asynchttp.NewTextPipeline(&asynchttp.Funcs[string]{
		Success: func(status int, body string) { ... },
		Error:   func(err error, body string) { ... },
	})
	err := client.Get(ctx, "https://www.example.com", d)
	...
	params := request.NewParams(map[string]string{"name": "Leonardo"})
	err := client.Post(ctx, "https://www.example.com/login", d,
		asynchttp.WithParams(params))

Every request produces the events Start, then exactly one of Success or
Failure, then Finish. A response whose status code is 300 or more is a
Failure, and redirects are not followed; use WithStatusPolicy and
package status to change what counts as success. A request abandoned
because its context was cancelled produces Start and Finish only.

For JSON APIs, use NewJSONPipeline with JSONFuncs, which routes objects
and arrays to separate callbacks:

	d := asynchttp.NewJSONPipeline(&asynchttp.JSONFuncs{
		Object: func(status int, body map[string]interface{}) { ... },
		Array:  func(status int, body []interface{}) { ... },
		Error:  func(err error, body asynchttp.JSONValue) { ... },
	})

To run callbacks on a single goroutine which owns your application
state, give the pipeline a sink.Loop and run the loop on that goroutine:

	loop := sink.NewLoop()
	d := asynchttp.NewTextPipeline(cb, asynchttp.WithSink(loop))
	...
	err := loop.Run(ctx)

For control over connect and read timeouts, throttling, and HTTP/2, build
the client's transport with package transport:

	t, err := transport.New(
		transport.WithConnectTimeout(10*time.Second),
		transport.WithReadTimeout(30*time.Second))
	client := &asynchttp.Client{
		Transport: t,
	}

To hook into every request a client makes, install a handler into the
appropriate handler chain:

	handlers := &asynchttp.HandlerGroup{}
	handlers.PushBack(asynchttp.Finish, asynchttp.HandlerFunc(
		func(_ asynchttp.Event, e *request.Envelope) {
			log.Printf("%s took %s", e.Descriptor, e.Duration())
		}))
	client := &asynchttp.Client{
		Handlers: handlers,
	}

Package asynchttp also provides basic interfaces for each method of the
client (Doer, Getter, Poster, Putter, Deleter, and IdleCloser); a
combined interface that composes all the basic methods (Executor); and
utility functions for working with a Doer (Inflate, Get, Post, Put, and
Delete).
*/
package asynchttp
