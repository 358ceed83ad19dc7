// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/httpop/status"
	"github.com/gogama/httpop/transient"
)

// An Execution records the state of one operation as it moves through
// its lifecycle. The operation owns the Execution and updates it from
// whichever goroutine is driving the lifecycle; event handlers receive
// it while that goroutine is blocked on them, and the operation's owner
// may read it freely once the operation is done.
//
// Handlers should treat the exported fields as read-only. They may
// attach their own data with SetValue.
type Execution struct {
	// ID uniquely identifies the operation. It is assigned when the
	// operation starts and is sent as the X-Request-ID header by the
	// default transport.
	ID string

	// Plan is the request descriptor produced by the operation's
	// BuildRequest hook. It is nil until the hook succeeds.
	Plan *Plan

	// Start is the time the operation started.
	Start time.Time

	// End is the time the operation reached its terminal state.
	End time.Time

	// Response is the HTTP response delivered by the transport. Its
	// body has already been consumed into Body and closed. It is nil
	// until a response arrives, and remains nil if the transport failed
	// or the operation was cancelled first.
	Response *http.Response

	// Body is the fully buffered response body.
	Body []byte

	// Class is the classification of the response status code. It is
	// only meaningful when Response is non-nil.
	Class status.Class

	// Err is the error the operation failed with. It is set when the
	// operation finalizes as failed and is nil otherwise.
	Err error

	// Cancelled indicates the operation reached the Cancelled state.
	Cancelled bool

	data context.Context
}

// StatusCode returns the status code of the response, or 0 if there is
// no response.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the response headers, or a nil header if there is no
// response. The nil header is safe for read-only use.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		return nil
	}

	return e.Response.Header
}

// Duration returns zero before the operation starts, the time elapsed
// since Start while it runs, and End minus Start once it has ended.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return 0
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the operation has started.
func (e *Execution) Started() bool {
	return !e.Start.IsZero()
}

// Ended indicates whether the operation has reached a terminal state.
func (e *Execution) Ended() bool {
	return !e.End.IsZero()
}

// Timeout indicates whether Err is, or wraps, a timeout.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// SetValue stores arbitrary handler data in the execution. The key
// follows the rules of context.WithValue: non-nil, comparable, and
// preferably of an unexported type.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with key, or nil.
func (e *Execution) Value(key interface{}) interface{} {
	if e.data == nil {
		return nil
	}

	return e.data.Value(key)
}
