// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package asynchttp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	s, err := Text([]byte("héllo"))
	assert.NoError(t, err)
	assert.Equal(t, "héllo", s)
	s, err = Text(nil)
	assert.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestBytes(t *testing.T) {
	b, err := Bytes([]byte{0, 1, 2})
	assert.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, b)
}

func TestJSON(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		v, err := JSON([]byte("\n\t{\"n\": 12345678901234567890, \"s\": \"x\", \"o\": {}}  "))
		require.NoError(t, err)
		assert.True(t, v.IsObject())
		assert.False(t, v.IsArray())
		assert.Equal(t, json.Number("12345678901234567890"), v.Object["n"])
		assert.Equal(t, "x", v.Object["s"])
		assert.Equal(t, map[string]interface{}{}, v.Object["o"])
	})
	t.Run("empty object", func(t *testing.T) {
		v, err := JSON([]byte("{}"))
		require.NoError(t, err)
		assert.True(t, v.IsObject())
		assert.False(t, v.IsZero())
	})
	t.Run("empty array", func(t *testing.T) {
		v, err := JSON([]byte("[]"))
		require.NoError(t, err)
		assert.True(t, v.IsArray())
		assert.False(t, v.IsObject())
		assert.Empty(t, v.Array)
	})
	t.Run("errors", func(t *testing.T) {
		testCases := []struct {
			name  string
			body  string
			check func(t *testing.T, err error)
		}{
			{"empty", "", func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrEmptyJSON) }},
			{"whitespace", " \r\n ", func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrEmptyJSON) }},
			{"number", "42", func(t *testing.T, err error) {
				var typeErr *JSONTypeError
				require.ErrorAs(t, err, &typeErr)
				assert.Equal(t, "42", typeErr.Prefix)
			}},
			{"long prefix", "<!DOCTYPE html><html></html>", func(t *testing.T, err error) {
				var typeErr *JSONTypeError
				require.ErrorAs(t, err, &typeErr)
				assert.Equal(t, "<!DOCTYPE html><", typeErr.Prefix)
			}},
			{"malformed object", "{not json", func(t *testing.T, err error) {
				var jsonErr *JSONError
				require.ErrorAs(t, err, &jsonErr)
				var syntaxErr *json.SyntaxError
				assert.ErrorAs(t, err, &syntaxErr)
			}},
			{"malformed array", "[1,", func(t *testing.T, err error) {
				var jsonErr *JSONError
				assert.ErrorAs(t, err, &jsonErr)
			}},
			{"trailing data", `{"a":1} {"b":2}`, func(t *testing.T, err error) {
				var jsonErr *JSONError
				require.ErrorAs(t, err, &jsonErr)
				assert.Contains(t, err.Error(), "unexpected data after top-level value")
			}},
		}
		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				v, err := JSON([]byte(testCase.body))
				assert.True(t, v.IsZero())
				testCase.check(t, err)
			})
		}
	})
}
