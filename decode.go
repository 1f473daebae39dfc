// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// A Decoder converts a raw response body into the value handed to a
// callback. A decoder must not retain body.
type Decoder[T any] func(body []byte) (T, error)

// Text decodes the body as a string.
func Text(body []byte) (string, error) {
	return string(body), nil
}

// Bytes returns the body unchanged. A nil body stays nil.
func Bytes(body []byte) ([]byte, error) {
	return body, nil
}

// ErrEmptyJSON is returned by JSON for an empty or whitespace-only body.
var ErrEmptyJSON = errors.New("asynchttp: empty JSON body")

// A JSONTypeError is returned by JSON when the body is not a JSON
// object or array.
type JSONTypeError struct {
	// Prefix holds up to the first 16 bytes of the trimmed body.
	Prefix string
}

func (err *JSONTypeError) Error() string {
	return fmt.Sprintf("asynchttp: JSON body is not an object or array: %q", err.Prefix)
}

// A JSONError is returned by JSON when the body looks like an object or
// array but cannot be parsed.
type JSONError struct {
	Err error
}

func (err *JSONError) Error() string {
	return "asynchttp: malformed JSON body: " + err.Err.Error()
}

func (err *JSONError) Unwrap() error {
	return err.Err
}

// A JSONValue is a decoded JSON body. Exactly one of Object and Array
// is non-nil.
//
// Numbers are decoded as json.Number so that integers keep their exact
// value.
type JSONValue struct {
	Object map[string]interface{}
	Array  []interface{}
}

// IsObject reports whether the body was a JSON object.
func (v JSONValue) IsObject() bool {
	return v.Object != nil
}

// IsArray reports whether the body was a JSON array.
func (v JSONValue) IsArray() bool {
	return v.Array != nil
}

// IsZero reports whether v holds neither an object nor an array, which
// is the case for the value delivered with a decode failure.
func (v JSONValue) IsZero() bool {
	return v.Object == nil && v.Array == nil
}

// JSON decodes the body as a JSON object or array. Leading and trailing
// whitespace is ignored. Anything after the first value is an error.
func JSON(body []byte) (JSONValue, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return JSONValue{}, ErrEmptyJSON
	}

	switch body[0] {
	case '{':
		m := make(map[string]interface{})
		if err := decodeJSON(body, &m); err != nil {
			return JSONValue{}, err
		}
		return JSONValue{Object: m}, nil
	case '[':
		a := make([]interface{}, 0)
		if err := decodeJSON(body, &a); err != nil {
			return JSONValue{}, err
		}
		return JSONValue{Array: a}, nil
	default:
		prefix := body
		if len(prefix) > 16 {
			prefix = prefix[:16]
		}
		return JSONValue{}, &JSONTypeError{Prefix: string(prefix)}
	}
}

func decodeJSON(body []byte, v interface{}) error {
	d := json.NewDecoder(bytes.NewReader(body))
	d.UseNumber()
	if err := d.Decode(v); err != nil {
		return &JSONError{Err: err}
	}
	var extra json.RawMessage
	if err := d.Decode(&extra); err != io.EOF {
		return &JSONError{Err: errors.New("unexpected data after top-level value")}
	}
	return nil
}
