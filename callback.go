// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

// A Callback receives the outcome of a request, with the response body
// decoded to T.
//
// For every request, OnStart is called first, then exactly one of
// OnSuccess or OnError, then OnFinish. If the request is abandoned
// because its context was cancelled, neither OnSuccess nor OnError is
// called. All calls for one request happen on the goroutine chosen by
// the dispatcher's sink, one at a time.
type Callback[T any] interface {
	OnStart()
	OnSuccess(statusCode int, body T)
	OnError(err error, body T)
	OnFinish()
}

// Funcs is a Callback assembled from optional functions. A nil function
// field makes the corresponding callback a no-op.
type Funcs[T any] struct {
	Start   func()
	Success func(statusCode int, body T)
	Error   func(err error, body T)
	Finish  func()
}

// OnStart calls f.Start if it is set.
func (f *Funcs[T]) OnStart() {
	if f.Start != nil {
		f.Start()
	}
}

// OnSuccess calls f.Success if it is set.
func (f *Funcs[T]) OnSuccess(statusCode int, body T) {
	if f.Success != nil {
		f.Success(statusCode, body)
	}
}

// OnError calls f.Error if it is set.
func (f *Funcs[T]) OnError(err error, body T) {
	if f.Error != nil {
		f.Error(err, body)
	}
}

// OnFinish calls f.Finish if it is set.
func (f *Funcs[T]) OnFinish() {
	if f.Finish != nil {
		f.Finish()
	}
}

// JSONFuncs is a Callback for JSON bodies which routes a successful
// body to Object or Array depending on its top-level type. A nil
// function field makes the corresponding callback a no-op.
//
// On error, Error receives whatever the failure body decoded to: a
// JSONValue holding an object or array if the error body was valid
// JSON, or the zero JSONValue otherwise.
type JSONFuncs struct {
	Start  func()
	Object func(statusCode int, body map[string]interface{})
	Array  func(statusCode int, body []interface{})
	Error  func(err error, body JSONValue)
	Finish func()
}

// OnStart calls f.Start if it is set.
func (f *JSONFuncs) OnStart() {
	if f.Start != nil {
		f.Start()
	}
}

// OnSuccess calls f.Object or f.Array according to the type of body.
func (f *JSONFuncs) OnSuccess(statusCode int, body JSONValue) {
	switch {
	case body.IsObject():
		if f.Object != nil {
			f.Object(statusCode, body.Object)
		}
	case body.IsArray():
		if f.Array != nil {
			f.Array(statusCode, body.Array)
		}
	default:
		f.OnError(ErrEmptyJSON, body)
	}
}

// OnError calls f.Error if it is set.
func (f *JSONFuncs) OnError(err error, body JSONValue) {
	if f.Error != nil {
		f.Error(err, body)
	}
}

// OnFinish calls f.Finish if it is set.
func (f *JSONFuncs) OnFinish() {
	if f.Finish != nil {
		f.Finish()
	}
}
