// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package transport provides the connections on which requests are run.

An Opener opens a Conn for a URL. A Conn is a single-use connection
object: the runner sets the method and headers, optionally writes a
body, reads the response, and closes the Conn. No network I/O happens
until the response is requested.

HTTP is an Opener that runs each Conn through an HTTPDoer, typically an
*http.Client. Use New to build one with connect and read timeouts:

	t, err := transport.New(
		transport.WithConnectTimeout(5*time.Second),
		transport.WithReadTimeout(30*time.Second),
	)
	...
	client := &asynchttp.Client{Transport: t}

To run requests through a resty client instead of the standard one, wrap
it with Resty:

	t := &transport.HTTP{Doer: transport.Resty(resty.New())}

Redirects are not followed by transports built with New or NewResty,
so 3xx responses reach the status policy unchanged.
*/
package transport
