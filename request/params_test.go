// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams(t *testing.T) {
	t.Run("zero value", func(t *testing.T) {
		var p Params
		assert.Equal(t, 0, p.Len())
		assert.Equal(t, "", p.Encode())
		assert.Equal(t, "", p.EncodeRaw())
	})
	t.Run("nil", func(t *testing.T) {
		var p *Params
		assert.Equal(t, 0, p.Len())
		assert.Equal(t, "", p.Encode())
		assert.Equal(t, "", p.EncodeRaw())
	})
	t.Run("put", func(t *testing.T) {
		p := &Params{}
		p.Put("name", "Leonardo")
		p.Put("pass", "test")
		assert.Equal(t, "name=Leonardo&pass=test", p.Encode())
		assert.Equal(t, "name=Leonardo&pass=test", p.EncodeRaw())
		assert.Equal(t, "name=Leonardo&pass=test", p.String())
	})
	t.Run("put replaces", func(t *testing.T) {
		p := &Params{}
		p.Put("pass", "test")
		p.Put("pass", "other")
		v, ok := p.Get("pass")
		assert.True(t, ok)
		assert.Equal(t, "other", v)
		assert.Equal(t, "pass=other", p.Encode())
	})
	t.Run("put empty is no-op", func(t *testing.T) {
		p := &Params{}
		p.Put("a", "1")
		before := p.Encode()
		p.Put("", "x")
		p.Put("x", "")
		p.Put("", "")
		assert.Equal(t, 1, p.Len())
		assert.Equal(t, before, p.Encode())
		_, ok := p.Get("x")
		assert.False(t, ok)
	})
	t.Run("put all", func(t *testing.T) {
		p := NewParams(map[string]string{"b": "2", "a": "1", "": "dropped", "c": ""})
		assert.Equal(t, 2, p.Len())
		assert.Equal(t, "a=1&b=2", p.Encode())
	})
	t.Run("clear", func(t *testing.T) {
		p := NewParams(map[string]string{"a": "1"})
		p.Clear()
		assert.Equal(t, 0, p.Len())
		assert.Equal(t, "", p.Encode())
		p.Put("b", "2")
		assert.Equal(t, "b=2", p.Encode())
	})
	t.Run("escaping", func(t *testing.T) {
		p := NewParams(map[string]string{"q": "a&b=c", "sp ace": "x y"})
		assert.Equal(t, "q=a%26b%3Dc&sp+ace=x+y", p.Encode())
		assert.Equal(t, "q=a&b=c&sp ace=x y", p.EncodeRaw())
	})
}

func TestParamsSegments(t *testing.T) {
	p := &Params{}
	keys := []string{"k3", "k1", "k2", "k1", "k0"}
	for i, k := range keys {
		p.Put(k, fmt.Sprintf("v%d", i))
	}
	segments := strings.Split(p.Encode(), "&")
	require.Len(t, segments, 4)
	seen := map[string]bool{}
	for _, s := range segments {
		kv := strings.SplitN(s, "=", 2)
		require.Len(t, kv, 2)
		assert.False(t, seen[kv[0]], "duplicate key %s", kv[0])
		seen[kv[0]] = true
	}
	assert.Equal(t, "k1=v3", segments[1])
}

func TestParamsConcurrent(t *testing.T) {
	p := &Params{}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				p.Put(fmt.Sprintf("k%d", j), fmt.Sprintf("v%d", i))
				_ = p.Encode()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, p.Len())
}

func TestWithQuery(t *testing.T) {
	testCases := []struct {
		url, query, expected string
	}{
		{"http://x/a", "", "http://x/a"},
		{"http://x/a", "b=1", "http://x/a?b=1"},
		{"http://x/a?c=2", "b=1", "http://x/a?c=2&b=1"},
		{"http://x/a#top", "b=1", "http://x/a?b=1#top"},
		{"http://x/a?c=2#top", "b=1", "http://x/a?c=2&b=1#top"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, WithQuery(testCase.url, testCase.query))
	}
}
