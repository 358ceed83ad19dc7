// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"net/http"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecution_StatusCode(t *testing.T) {
	e := &Execution{}
	t.Run("no Response", func(t *testing.T) {
		require.Nil(t, e.Response)
		assert.Equal(t, 0, e.StatusCode())
	})
	t.Run("with Response", func(t *testing.T) {
		e.Response = &http.Response{StatusCode: 404}
		assert.Equal(t, 404, e.StatusCode())
	})
}

func TestExecution_Header(t *testing.T) {
	e := &Execution{}
	t.Run("no Response", func(t *testing.T) {
		assert.Nil(t, e.Header())
		assert.Empty(t, e.Header().Get("foo"))
	})
	t.Run("with Response", func(t *testing.T) {
		h := http.Header{
			"Foo": []string{"bar"},
			"Ham": []string{"eggs", "spam"},
		}
		e.Response = &http.Response{Header: h}
		assert.Equal(t, h, e.Header())
		assert.Equal(t, []string{"eggs", "spam"}, e.Header()["Ham"])
	})
}

func TestExecution_TimeMethods(t *testing.T) {
	t.Run("not started", func(t *testing.T) {
		e := &Execution{}
		assert.False(t, e.Started())
		assert.False(t, e.Ended())
		assert.Equal(t, time.Duration(0), e.Duration())
	})
	t.Run("started but not ended", func(t *testing.T) {
		e := &Execution{Start: time.Now()}
		assert.True(t, e.Started())
		assert.False(t, e.Ended())
		time.Sleep(2 * time.Millisecond)
		assert.GreaterOrEqual(t, e.Duration(), 2*time.Millisecond)
	})
	t.Run("ended", func(t *testing.T) {
		start := time.Now()
		e := &Execution{Start: start, End: start.Add(3 * time.Millisecond)}
		assert.True(t, e.Ended())
		assert.Equal(t, 3*time.Millisecond, e.Duration())
		time.Sleep(time.Millisecond)
		assert.Equal(t, 3*time.Millisecond, e.Duration())
	})
}

func TestExecution_Timeout(t *testing.T) {
	assert.False(t, (&Execution{}).Timeout())
	assert.False(t, (&Execution{Err: errors.New("foo")}).Timeout())
	assert.True(t, (&Execution{Err: syscall.ETIMEDOUT}).Timeout())
	assert.True(t, (&Execution{Err: &url.Error{Op: "Get", URL: "x", Err: syscall.ETIMEDOUT}}).Timeout())
}

func TestExecution_Value(t *testing.T) {
	t.Run("new Execution", func(t *testing.T) {
		e := &Execution{}
		assert.Nil(t, e.Value(funKey{}))
		e.SetValue(funKey{}, "bar")
		assert.Equal(t, "bar", e.Value(funKey{}))
	})
	t.Run("different keys", func(t *testing.T) {
		e := &Execution{}
		e.SetValue(funKey{}, "bar")
		e.SetValue(funkyKey{}, "baz")
		assert.Equal(t, "bar", e.Value(funKey{}))
		assert.Equal(t, "baz", e.Value(funkyKey{}))
	})
	t.Run("same key multiple times", func(t *testing.T) {
		e := &Execution{}
		e.SetValue(funKey{}, "ham")
		e.SetValue(funKey{}, "spam")
		assert.Equal(t, "spam", e.Value(funKey{}))
		assert.Nil(t, e.Value(funkyKey{}))
	})
}

type funKey struct{}

type funkyKey struct{}
