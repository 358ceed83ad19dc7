// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpop

import (
	"context"
	"net/http"

	"github.com/gogama/httpop/request"
)

// Runner is the interface that groups the basic Start, Cancel, and Done
// methods of an asynchronous unit of work.
//
// Operation implements Runner. Schedulers such as the queue package
// depend only on Runner.
type Runner interface {
	Start() error
	Cancel()
	Done() <-chan struct{}
}

// Run starts op and blocks until it reaches a terminal state. If ctx
// ends first, op is cancelled and Run waits for it to settle before
// returning.
//
// Run returns the operation's execution record together with the same
// error Wait would return, except that a cancellation caused by ctx is
// reported as ctx.Err().
func Run(ctx context.Context, op *Operation) (*request.Execution, error) {
	if err := op.Start(); err != nil {
		return op.Execution(), err
	}

	select {
	case <-op.Done():
	case <-ctx.Done():
		op.Cancel()
		<-op.Done()
		if op.State() == Cancelled {
			return op.Execution(), ctx.Err()
		}
	}

	return op.Execution(), op.Wait(context.Background())
}

// Get uses the specified Transport to issue a GET to the specified URL
// and blocks until the operation is done. Statuses 400-599 fail the
// operation with a ClassifiedError.
//
// To make a request with custom headers, use RequestHooks and Run.
func Get(ctx context.Context, t Transport, url string) (*request.Execution, error) {
	return runRequest(ctx, t, &RequestHooks{Context: ctx, Method: http.MethodGet, URL: url})
}

// Head uses the specified Transport to issue a HEAD to the specified URL
// and blocks until the operation is done.
func Head(ctx context.Context, t Transport, url string) (*request.Execution, error) {
	return runRequest(ctx, t, &RequestHooks{Context: ctx, Method: http.MethodHead, URL: url})
}

// Post uses the specified Transport to issue a POST to the specified
// URL and blocks until the operation is done.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.BodyBytes.
func Post(ctx context.Context, t Transport, url, contentType string, body interface{}) (*request.Execution, error) {
	h := &RequestHooks{
		Context: ctx,
		Method:  http.MethodPost,
		URL:     url,
		Body:    body,
	}
	if contentType != "" {
		h.Header = http.Header{"Content-Type": []string{contentType}}
	}
	return runRequest(ctx, t, h)
}

func runRequest(ctx context.Context, t Transport, h Hooks) (*request.Execution, error) {
	op := &Operation{Hooks: h, Transport: t}
	return Run(ctx, op)
}
