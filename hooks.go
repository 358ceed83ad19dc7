// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpop

import (
	"net/http"

	"github.com/gogama/httpop/request"
)

// Hooks is the set of extension points an Operation calls during its
// lifecycle. Each API-specific operation supplies a Hooks value.
//
// Embed NopHooks in a struct to inherit the default behavior and
// override only the hooks you need, or use HookFuncs to supply
// individual hooks as function values.
//
// Hooks are called sequentially, never concurrently, but not
// necessarily on the goroutine which started the operation.
type Hooks interface {
	// BuildRequest returns the plan for the request to issue. An error
	// (or a nil plan) fails the operation with a ConfigurationError
	// before any network call is made.
	BuildRequest() (*request.Plan, error)

	// OnResponseHeaders is called for a response whose status code is
	// in the range 200-399. An error aborts further processing.
	OnResponseHeaders(statusCode int, header http.Header) error

	// OnClientError is called for a response whose status code is in
	// the range 400-499. The default returns a ClassifiedError of kind
	// ClientError. Return nil to treat the response as non-fatal and
	// continue to body processing.
	OnClientError(statusCode int, header http.Header) error

	// OnServiceError is called for a response whose status code is in
	// the range 500-599. The default returns a ClassifiedError of kind
	// ServerError. Return nil to continue to body processing.
	OnServiceError(statusCode int, header http.Header) error

	// ProcessBody consumes the fully buffered response body. It is only
	// called when the response has a non-empty body.
	ProcessBody(body []byte) error

	// WillFinish is the last chance to validate accumulated state
	// before the operation is declared successful.
	WillFinish() error
}

// NopHooks provides the default behavior of every hook. It is meant to
// be embedded.
type NopHooks struct{}

// BuildRequest returns ErrNoPlan.
func (NopHooks) BuildRequest() (*request.Plan, error) {
	return nil, ErrNoPlan
}

// OnResponseHeaders does nothing.
func (NopHooks) OnResponseHeaders(_ int, _ http.Header) error {
	return nil
}

// OnClientError returns a ClientError carrying the response metadata.
func (NopHooks) OnClientError(statusCode int, header http.Header) error {
	return NewClassifiedError(ClientError, statusCode, header, nil)
}

// OnServiceError returns a ServerError carrying the response metadata.
func (NopHooks) OnServiceError(statusCode int, header http.Header) error {
	return NewClassifiedError(ServerError, statusCode, header, nil)
}

// ProcessBody does nothing.
func (NopHooks) ProcessBody(_ []byte) error {
	return nil
}

// WillFinish does nothing.
func (NopHooks) WillFinish() error {
	return nil
}

// HookFuncs adapts optional function values to the Hooks interface. A
// nil function falls back to the NopHooks behavior.
type HookFuncs struct {
	BuildRequestFunc      func() (*request.Plan, error)
	OnResponseHeadersFunc func(statusCode int, header http.Header) error
	OnClientErrorFunc     func(statusCode int, header http.Header) error
	OnServiceErrorFunc    func(statusCode int, header http.Header) error
	ProcessBodyFunc       func(body []byte) error
	WillFinishFunc        func() error
}

// BuildRequest calls BuildRequestFunc.
func (h *HookFuncs) BuildRequest() (*request.Plan, error) {
	if h.BuildRequestFunc == nil {
		return NopHooks{}.BuildRequest()
	}
	return h.BuildRequestFunc()
}

// OnResponseHeaders calls OnResponseHeadersFunc.
func (h *HookFuncs) OnResponseHeaders(statusCode int, header http.Header) error {
	if h.OnResponseHeadersFunc == nil {
		return nil
	}
	return h.OnResponseHeadersFunc(statusCode, header)
}

// OnClientError calls OnClientErrorFunc.
func (h *HookFuncs) OnClientError(statusCode int, header http.Header) error {
	if h.OnClientErrorFunc == nil {
		return NopHooks{}.OnClientError(statusCode, header)
	}
	return h.OnClientErrorFunc(statusCode, header)
}

// OnServiceError calls OnServiceErrorFunc.
func (h *HookFuncs) OnServiceError(statusCode int, header http.Header) error {
	if h.OnServiceErrorFunc == nil {
		return NopHooks{}.OnServiceError(statusCode, header)
	}
	return h.OnServiceErrorFunc(statusCode, header)
}

// ProcessBody calls ProcessBodyFunc.
func (h *HookFuncs) ProcessBody(body []byte) error {
	if h.ProcessBodyFunc == nil {
		return nil
	}
	return h.ProcessBodyFunc(body)
}

// WillFinish calls WillFinishFunc.
func (h *HookFuncs) WillFinish() error {
	if h.WillFinishFunc == nil {
		return nil
	}
	return h.WillFinishFunc()
}
