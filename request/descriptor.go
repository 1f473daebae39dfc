// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"fmt"
	"net/http"
	urlpkg "net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/http/httpguts"
)

// Supported request methods.
const (
	MethodGet    = http.MethodGet
	MethodPost   = http.MethodPost
	MethodPut    = http.MethodPut
	MethodDelete = http.MethodDelete
)

// A Descriptor describes a single logical HTTP request: its method,
// target URL and header set.
//
// A Descriptor is constructed once per request and must not be modified
// after it has been handed to a runner. Use WithHeader to derive a
// descriptor with additional headers.
type Descriptor struct {
	// ID uniquely identifies the request. It is only used to correlate
	// log entries and events; it is never sent on the wire.
	ID string

	// Method is one of MethodGet, MethodPost, MethodPut or MethodDelete.
	Method string

	// URL specifies the URL to access.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent. Each key
	// holds a single value.
	Header http.Header

	// Body, if non-nil, is sent as the request body. It takes
	// precedence over any form parameters. Ignored for GET.
	Body []byte
}

// NewDescriptor returns a new Descriptor given a method, URL, and
// optional header map. An empty method means GET.
//
// The header map is copied. Entries with an empty or invalid name or
// value are skipped.
func NewDescriptor(method, url string, header map[string]string) (*Descriptor, error) {
	if method == "" {
		method = MethodGet
	}
	method = strings.ToUpper(method)
	if !ValidMethod(method) {
		return nil, fmt.Errorf("asynchttp/request: unsupported method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &urlpkg.Error{Op: "parse", URL: url, Err: errNotAbsolute}
	}
	d := &Descriptor{
		ID:     uuid.NewString(),
		Method: method,
		URL:    u,
		Header: make(http.Header, len(header)),
	}
	for k, v := range header {
		if ValidHeader(k, v) {
			d.Header.Set(k, v)
		}
	}
	return d, nil
}

// WithHeader returns a copy of d with the header key set to value. The
// receiver is not modified. Invalid or empty keys and values are
// ignored, in which case the copy has the same headers as d.
func (d *Descriptor) WithHeader(key, value string) *Descriptor {
	d2 := new(Descriptor)
	*d2 = *d
	d2.Header = d.Header.Clone()
	if d2.Header == nil {
		d2.Header = make(http.Header)
	}
	if ValidHeader(key, value) {
		d2.Header.Set(key, value)
	}
	return d2
}

// WithBody returns a copy of d with the given body. The receiver is not
// modified, and body is not copied.
func (d *Descriptor) WithBody(body []byte) *Descriptor {
	d2 := new(Descriptor)
	*d2 = *d
	d2.Body = body
	return d2
}

// String returns the method and URL of the request, for logging.
func (d *Descriptor) String() string {
	return d.Method + " " + d.URL.String()
}

// ValidMethod reports whether method is one of the four supported HTTP
// methods.
func ValidMethod(method string) bool {
	switch method {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	default:
		return false
	}
}

// ValidHeader reports whether key and value are both non-empty and
// legal as an HTTP header field name and value.
func ValidHeader(key, value string) bool {
	return key != "" && value != "" &&
		httpguts.ValidHeaderFieldName(key) &&
		httpguts.ValidHeaderFieldValue(value)
}

var errNotAbsolute = errors.New("missing scheme or host")
