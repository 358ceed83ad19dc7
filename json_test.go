// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpop

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRequestHooks(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		h := &RequestHooks{URL: "https://example.com/widgets"}
		p, err := h.BuildRequest()
		require.NoError(t, err)
		assert.Equal(t, "GET", p.Method)
		assert.Equal(t, "https://example.com/widgets", p.URL.String())
		assert.Nil(t, p.Body)
		assert.Equal(t, context.Background(), p.Context())
	})
	t.Run("fields", func(t *testing.T) {
		type ctxKey struct{}
		ctx := context.WithValue(context.Background(), ctxKey{}, "v")
		h := &RequestHooks{
			Context: ctx,
			Method:  "PATCH",
			URL:     "https://example.com/widgets/1",
			Header:  http.Header{"X-A": {"1", "2"}},
			Body:    "patch",
		}
		p, err := h.BuildRequest()
		require.NoError(t, err)
		assert.Equal(t, "PATCH", p.Method)
		assert.Equal(t, []string{"1", "2"}, p.Header.Values("X-A"))
		assert.Equal(t, []byte("patch"), p.Body)
		assert.Equal(t, "v", p.Context().Value(ctxKey{}))
	})
	t.Run("bad URL", func(t *testing.T) {
		h := &RequestHooks{URL: "/relative"}
		_, err := h.BuildRequest()
		assert.Error(t, err)
	})
}

func TestJSONHooks(t *testing.T) {
	type widget struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	t.Run("BuildRequest", func(t *testing.T) {
		h := &JSONHooks[widget]{RequestHooks: RequestHooks{
			Method: "POST",
			URL:    "https://example.com/widgets",
			Body:   widget{Name: "sprocket"},
		}}
		p, err := h.BuildRequest()
		require.NoError(t, err)
		assert.Equal(t, "application/json", p.Header.Get("Accept"))
		assert.Equal(t, "application/json", p.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"id":0,"name":"sprocket"}`, string(p.Body))
	})
	t.Run("decode", func(t *testing.T) {
		h := &JSONHooks[widget]{RequestHooks: RequestHooks{URL: "https://example.com/widgets/7"}}
		tr := newMockTransport(t)
		op := &Operation{Hooks: h, Transport: tr, Logger: discardLogger}
		tr.On("Submit", mock.Anything, mock.Anything).Return(newMockPending(t)).Once()

		require.NoError(t, op.Start())
		tr.complete(Result{Response: &http.Response{StatusCode: 200}, Body: []byte(`{"id":7,"name":"gear"}`)})

		require.NoError(t, op.Wait(context.Background()))
		assert.Equal(t, widget{ID: 7, Name: "gear"}, h.Value)
	})
	t.Run("malformed", func(t *testing.T) {
		h := &JSONHooks[widget]{}
		err := h.ProcessBody([]byte("{"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "decode JSON body")
	})
	t.Run("required", func(t *testing.T) {
		h := &JSONHooks[widget]{Required: true}
		assert.Error(t, h.WillFinish())
		require.NoError(t, h.ProcessBody([]byte(`{"id":1}`)))
		assert.NoError(t, h.WillFinish())
	})
	t.Run("client error", func(t *testing.T) {
		h := &JSONHooks[map[string]any]{RequestHooks: RequestHooks{URL: "https://example.com/widgets/8"}}
		tr := newMockTransport(t)
		op := &Operation{Hooks: h, Transport: tr, Logger: discardLogger}
		tr.On("Submit", mock.Anything, mock.Anything).Return(newMockPending(t)).Once()

		require.NoError(t, op.Start())
		tr.complete(Result{Response: &http.Response{StatusCode: 404}, Body: []byte(`{"error":"gone"}`)})

		err := op.Wait(context.Background())
		assert.Equal(t, ClientError, KindOf(err))
		assert.Nil(t, h.Value)
	})
}
