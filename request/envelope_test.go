// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvelope(t *testing.T) {
	t.Run("lifecycle", func(t *testing.T) {
		e := &Envelope{}
		assert.False(t, e.Started())
		assert.False(t, e.Ended())
		assert.Equal(t, time.Duration(0), e.Duration())
		e.Start = time.Now().Add(-time.Second)
		assert.True(t, e.Started())
		assert.False(t, e.Ended())
		assert.True(t, e.Duration() >= time.Second)
		e.End = e.Start.Add(3 * time.Second)
		assert.True(t, e.Ended())
		assert.Equal(t, 3*time.Second, e.Duration())
	})
	t.Run("Timeout", func(t *testing.T) {
		assert.False(t, (&Envelope{}).Timeout())
		assert.False(t, (&Envelope{Err: errors.New("foo")}).Timeout())
		assert.True(t, (&Envelope{Err: &url.Error{Op: "Get", Err: syscall.ETIMEDOUT}}).Timeout())
	})
	t.Run("Canceled", func(t *testing.T) {
		assert.False(t, (&Envelope{}).Canceled())
		assert.True(t, (&Envelope{Err: &url.Error{Op: "Post", Err: context.Canceled}}).Canceled())
	})
}

func TestStatusError(t *testing.T) {
	assert.EqualError(t, &StatusError{StatusCode: 404, Status: "404 Not Found"},
		"asynchttp: unsuccessful status 404 Not Found")
	assert.EqualError(t, &StatusError{StatusCode: 599},
		"asynchttp: unsuccessful status 599")
}
