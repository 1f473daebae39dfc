// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package status provides policies that classify an HTTP response status
code as a success or a failure.

The default policy, DefaultPolicy, treats every status code of 300 and
above as a failure. Redirects are never followed by the client, so a 3xx
response is a failure under the default policy. To deliver redirect
responses to the success callback instead, install a higher threshold:

	pipeline := asynchttp.NewPipeline(asynchttp.Text, callback,
		asynchttp.WithStatusPolicy(status.Threshold(400)))

Policies compose with And and Or:

	// Treat 404 as success, e.g. for an idempotent DELETE.
	p := status.Threshold(300).Or(status.Codes(404))
*/
package status
