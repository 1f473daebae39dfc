// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sink

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInline(t *testing.T) {
	var calls int
	Inline.Deliver(func() { calls++ })
	Inline.Deliver(func() { calls++ })
	assert.Equal(t, 2, calls)
}

func TestFunc(t *testing.T) {
	var got []string
	s := Func(func(f func()) {
		got = append(got, "deliver")
		f()
	})
	s.Deliver(func() { got = append(got, "run") })
	assert.Equal(t, []string{"deliver", "run"}, got)
}

func TestLoop(t *testing.T) {
	t.Run("Drain", func(t *testing.T) {
		l := NewLoop()
		var order []int
		for i := 0; i < 3; i++ {
			i := i
			l.Deliver(func() { order = append(order, i) })
		}
		assert.Empty(t, order)
		assert.Equal(t, 3, l.Len())
		assert.Equal(t, 3, l.Drain())
		assert.Equal(t, []int{0, 1, 2}, order)
		assert.Equal(t, 0, l.Len())
		assert.Equal(t, 0, l.Drain())
	})
	t.Run("Drain nested", func(t *testing.T) {
		l := NewLoop()
		var order []string
		l.Deliver(func() {
			order = append(order, "outer")
			l.Deliver(func() { order = append(order, "inner") })
		})
		assert.Equal(t, 2, l.Drain())
		assert.Equal(t, []string{"outer", "inner"}, order)
	})
	t.Run("Run until Close", func(t *testing.T) {
		l := NewLoop()
		runner := make(chan int64, 1)
		var mu sync.Mutex
		var seen []int
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				i := i
				l.Deliver(func() {
					mu.Lock()
					seen = append(seen, i)
					mu.Unlock()
				})
			}
			l.Deliver(func() { runner <- 1 })
			l.Close()
		}()
		err := l.Run(context.Background())
		wg.Wait()
		require.NoError(t, err)
		assert.Len(t, runner, 1)
		require.Len(t, seen, 100)
		for i := range seen {
			assert.Equal(t, i, seen[i])
		}
	})
	t.Run("Run until context done", func(t *testing.T) {
		l := NewLoop()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err := l.Run(ctx)
		assert.Equal(t, context.DeadlineExceeded, err)
	})
	t.Run("Deliver after Close", func(t *testing.T) {
		l := NewLoop()
		l.Close()
		l.Close()
		l.Deliver(func() { t.Fatal("must not run") })
		assert.Equal(t, 0, l.Len())
		assert.NoError(t, l.Run(context.Background()))
	})
}
