// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Params is a set of form parameters. Each key maps to exactly one
// value; putting an existing key replaces its value.
//
// The zero value is an empty set ready to use. Params is safe for
// concurrent use by multiple goroutines. A Params must not be copied
// after first use.
type Params struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewParams returns a parameter set holding the non-empty entries of
// source.
func NewParams(source map[string]string) *Params {
	p := &Params{}
	p.PutAll(source)
	return p
}

// Put sets key to value. If key or value is empty, Put does nothing.
func (p *Params) Put(key, value string) {
	if key == "" || value == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]string)
	}
	p.m[key] = value
}

// PutAll puts every entry of source, following the same rules as Put.
func (p *Params) PutAll(source map[string]string) {
	for k, v := range source {
		p.Put(k, v)
	}
}

// Get returns the value for key, and whether it was present.
func (p *Params) Get(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.m[key]
	return v, ok
}

// Len returns the number of parameters in the set. A nil set is empty.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.m)
}

// Clear removes every parameter from the set.
func (p *Params) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m = nil
}

// Encode encodes the parameters into "URL encoded" form
// ("bar=baz&foo=quux") sorted by key. Keys and values are escaped with
// url.QueryEscape.
//
// A nil or empty set encodes to the empty string.
func (p *Params) Encode() string {
	return p.encode(url.QueryEscape)
}

// EncodeRaw encodes the parameters like Encode, but without escaping
// keys or values. It exists for servers that depend on the legacy wire
// form; a key or value containing '&' or '=' produces an ambiguous
// encoding.
func (p *Params) EncodeRaw() string {
	return p.encode(func(s string) string { return s })
}

func (p *Params) encode(escape func(string) string) string {
	if p == nil {
		return ""
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p.m))
	for k := range p.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(k))
		b.WriteByte('=')
		b.WriteString(escape(p.m[k]))
	}
	return b.String()
}

// String returns the escaped encoding of the set.
func (p *Params) String() string {
	return p.Encode()
}

// WithQuery appends an encoded query to rawURL. The query is joined
// with '?' if rawURL has no query yet, and with '&' otherwise. A
// fragment, if present, stays at the end. An empty query leaves rawURL
// unchanged.
func WithQuery(rawURL, query string) string {
	if query == "" {
		return rawURL
	}
	var fragment string
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		rawURL, fragment = rawURL[:i], rawURL[i:]
	}
	sep := "&"
	if strings.IndexByte(rawURL, '?') < 0 {
		sep = "?"
	}
	return rawURL + sep + query + fragment
}
