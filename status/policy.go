// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package status

// A Policy decides whether a response status code indicates success.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Success returns true if statusCode should be delivered as a
	// success, and false if it should be delivered as a failure.
	Success(statusCode int) bool
}

// PolicyFunc is a function implementing Policy. Use And and Or to
// compose policy functions.
type PolicyFunc func(statusCode int) bool

// DefaultThreshold is the lowest failing status code under
// DefaultPolicy.
const DefaultThreshold = 300

// DefaultPolicy classifies status codes below 300 as success and
// everything else, including 3xx redirects, as failure.
var DefaultPolicy Policy = Threshold(DefaultThreshold)

// Success calls f(statusCode).
func (f PolicyFunc) Success(statusCode int) bool {
	return f(statusCode)
}

// And composes two policies into a new policy that succeeds only if
// both succeed.
func (f PolicyFunc) And(g PolicyFunc) PolicyFunc {
	return func(statusCode int) bool {
		return f(statusCode) && g(statusCode)
	}
}

// Or composes two policies into a new policy that succeeds if either
// succeeds.
func (f PolicyFunc) Or(g PolicyFunc) PolicyFunc {
	return func(statusCode int) bool {
		return f(statusCode) || g(statusCode)
	}
}

// Threshold constructs a policy that classifies a status code as a
// success if it is below n.
func Threshold(n int) PolicyFunc {
	return func(statusCode int) bool {
		return statusCode < n
	}
}

// Codes constructs a policy that classifies exactly the listed status
// codes as successes.
func Codes(codes ...int) PolicyFunc {
	set := make(map[int]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return func(statusCode int) bool {
		_, ok := set[statusCode]
		return ok
	}
}
