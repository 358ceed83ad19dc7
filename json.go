// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gogama/httpop/request"
)

// RequestHooks is a Hooks implementation which builds its request plan
// from its fields and otherwise behaves like NopHooks. It covers the
// common case of an operation whose only custom behavior is the
// request itself.
type RequestHooks struct {
	NopHooks

	// Context is the plan context. If nil, context.Background() is
	// used.
	Context context.Context
	// Method is the request method. If empty, GET is used.
	Method string
	// URL is the absolute request URL.
	URL string
	// Header is merged into the plan's headers.
	Header http.Header
	// Body is the request body, of any type accepted by
	// request.BodyBytes.
	Body interface{}
}

// BuildRequest builds a plan from the fields of h.
func (h *RequestHooks) BuildRequest() (*request.Plan, error) {
	ctx := h.Context
	if ctx == nil {
		ctx = context.Background()
	}
	method := h.Method
	if method == "" {
		method = http.MethodGet
	}
	p, err := request.NewPlanWithContext(ctx, method, h.URL, h.Body)
	if err != nil {
		return nil, err
	}
	for k, vs := range h.Header {
		for _, v := range vs {
			p.Header.Add(k, v)
		}
	}
	return p, nil
}

// JSONHooks is a Hooks implementation which decodes a JSON response
// body into Value. Non-2xx/3xx responses fail the operation as usual.
//
// If Required is true, a response without a body fails the operation
// with a ProcessingError.
type JSONHooks[T any] struct {
	RequestHooks

	// Required makes a missing response body an error.
	Required bool
	// Value receives the decoded body.
	Value T

	decoded bool
}

// BuildRequest builds the plan and asks for a JSON response.
func (h *JSONHooks[T]) BuildRequest() (*request.Plan, error) {
	p, err := h.RequestHooks.BuildRequest()
	if err != nil {
		return nil, err
	}
	if p.Header.Get("Accept") == "" {
		p.Header.Set("Accept", "application/json")
	}
	if h.Body != nil && p.Header.Get("Content-Type") == "" {
		p.Header.Set("Content-Type", "application/json")
	}
	return p, nil
}

// ProcessBody decodes body into h.Value.
func (h *JSONHooks[T]) ProcessBody(body []byte) error {
	if err := json.Unmarshal(body, &h.Value); err != nil {
		return fmt.Errorf("httpop: decode JSON body: %w", err)
	}
	h.decoded = true
	return nil
}

// WillFinish enforces Required.
func (h *JSONHooks[T]) WillFinish() error {
	if h.Required && !h.decoded {
		return fmt.Errorf("httpop: response has no JSON body")
	}
	return nil
}
