// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"syscall"
)

// A Category is the cause category of a request failure, as reported
// by Categorize.
//
// Timeout, ConnRefused and ConnReset are transient: the same request
// sent later has some prospect of succeeding. Canceled means the caller
// abandoned the request. Not covers everything else, including a nil
// error.
type Category int

const (
	// Not indicates a nil error or any error outside the other
	// categories.
	Not Category = iota
	// Timeout indicates a client-side timeout, such as the connect or
	// read timeout configured on the transport. It is reported if the
	// error or any of its wrapped causes has a Timeout method that
	// reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (syscall.ECONNREFUSED).
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// connection (syscall.ECONNRESET).
	ConnReset
	// Canceled indicates the request context was cancelled. It takes
	// precedence over every other category.
	Canceled
)

var categoryNames = []string{
	"Not",
	"Timeout",
	"ConnRefused",
	"ConnReset",
	"Canceled",
}

// String returns the name of the category.
func (cat Category) String() string {
	if cat < 0 || int(cat) >= len(categoryNames) {
		return "Category(?)"
	}
	return categoryNames[cat]
}

// Transient reports whether a request that failed with an error of
// this category might succeed if sent again.
func (cat Category) Transient() bool {
	return cat == Timeout || cat == ConnRefused || cat == ConnReset
}

// Categorize returns the category of the given error. Wrapped causes
// are examined as well as err itself.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
