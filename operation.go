// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogama/httpop/request"
	"github.com/gogama/httpop/status"
	"github.com/google/uuid"
)

// HeaderRequestID is the request header carrying the operation ID.
const HeaderRequestID = "X-Request-ID"

// An Operation issues a single HTTP request as a cancellable,
// asynchronous unit of work.
//
// An operation moves through a fixed lifecycle: build the request plan,
// submit it to the transport, await the result, classify the response
// status, dispatch to the matching response hook, process the body,
// give the hooks a final say, and record a terminal state. Start kicks
// off the lifecycle without blocking; the transport's completion
// callback drives the rest. Owners learn the outcome from Done, Wait,
// State and Err.
//
// The exported fields configure the operation and must not be changed
// after Start. Only Hooks is required; the zero value of every other
// field is a valid configuration.
//
// An Operation is single-use. To retry a request, create a new
// Operation.
type Operation struct {
	// Hooks supplies the API-specific behavior. If nil, NopHooks is
	// used, and the operation fails with a ConfigurationError.
	Hooks Hooks
	// Transport issues the request. If nil, a zero DoerTransport is
	// used.
	Transport Transport
	// Handlers allows custom handler chains to be invoked at lifecycle
	// events. If nil, no handlers run.
	Handlers *HandlerGroup
	// Logger receives lifecycle records. If nil, slog.Default() is
	// used.
	Logger *slog.Logger

	mu        sync.Mutex
	state     State
	exec      request.Execution
	pending   Pending
	done      chan struct{}
	cancelled atomic.Bool
	fired     atomic.Bool
}

// New returns an operation using the given hooks and the default
// transport.
func New(h Hooks) *Operation {
	return &Operation{Hooks: h}
}

// Start begins the operation. It never blocks on network I/O: once the
// request plan is built and submitted to the transport, Start returns
// and the lifecycle continues on the transport's completion callback.
//
// Start returns ErrAlreadyStarted if the operation was started before,
// and ErrCancelled if it was cancelled before being started. Failures
// of the operation itself, including a failure to build the request
// plan, are not returned by Start but recorded as the operation's
// outcome.
func (op *Operation) Start() error {
	op.mu.Lock()
	if op.state == Cancelled {
		op.mu.Unlock()
		return ErrCancelled
	} else if !canTransition(op.state, Running) {
		op.mu.Unlock()
		return ErrAlreadyStarted
	}
	op.init()
	op.state = Running
	op.exec.ID = uuid.NewString()
	op.exec.Start = time.Now()
	op.mu.Unlock()

	op.logger().Debug("operation started", "op_id", op.exec.ID)
	op.Handlers.run(BeforeStart, &op.exec)

	p, err := op.buildRequest()
	if err != nil {
		op.finish(Failed, &ClassifiedError{Kind: ConfigurationError, Err: err})
		return nil
	}
	if p.Header == nil {
		p.Header = make(http.Header)
	}
	if p.Header.Get(HeaderRequestID) == "" {
		p.Header.Set(HeaderRequestID, op.exec.ID)
	}

	op.mu.Lock()
	op.exec.Plan = p
	op.mu.Unlock()

	if op.cancelled.Load() {
		op.finish(Cancelled, nil)
		return nil
	}

	op.Handlers.run(BeforeSubmit, &op.exec)
	pending := op.transport().Submit(p, op.complete)

	op.mu.Lock()
	if op.state.Terminal() {
		op.mu.Unlock()
		return nil
	}
	op.pending = pending
	cancelled := op.cancelled.Load()
	op.mu.Unlock()

	// Cancel ran between submission and recording the handle, so it
	// could not reach the transport call itself.
	if cancelled && pending != nil {
		pending.Cancel()
	}

	return nil
}

// Cancel cancels the operation. It is safe to call at any time, from
// any goroutine, any number of times.
//
// Cancelling an unstarted operation moves it straight to the Cancelled
// state. Cancelling a running operation cancels the in-flight transport
// call, if any, and the operation reaches the Cancelled state when the
// transport reports back, without running any further hooks.
// Cancelling an operation which has already reached a terminal state
// has no effect.
func (op *Operation) Cancel() {
	op.mu.Lock()
	if op.state.Terminal() || op.cancelled.Load() {
		op.mu.Unlock()
		return
	}
	op.cancelled.Store(true)
	if op.state == Unstarted {
		op.init()
		op.finishLocked(Cancelled, nil)
		op.mu.Unlock()
		op.afterFinish()
		return
	}
	pending := op.pending
	op.mu.Unlock()

	op.logger().Debug("operation cancel requested", "op_id", op.exec.ID)
	if pending != nil {
		pending.Cancel()
	}
}

// Done returns a channel which is closed after the operation reaches a
// terminal state and its AfterFinish handlers have returned. An
// AfterFinish handler must not wait on it.
func (op *Operation) Done() <-chan struct{} {
	op.mu.Lock()
	defer op.mu.Unlock()
	op.init()
	return op.done
}

// Wait blocks until the operation reaches a terminal state or ctx is
// done. It returns ctx.Err() if ctx ends first, ErrCancelled if the
// operation was cancelled, the operation's error if it failed, and nil
// if it succeeded. Wait does not cancel the operation.
func (op *Operation) Wait(ctx context.Context) error {
	select {
	case <-op.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	state, err := op.Outcome()
	if state == Cancelled {
		return ErrCancelled
	}
	return err
}

// State returns the current lifecycle state.
func (op *Operation) State() State {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.state
}

// Outcome returns the operation's state and, if it failed, its error.
// The error is always nil unless the state is Failed.
func (op *Operation) Outcome() (State, error) {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.state, op.exec.Err
}

// Err returns the error the operation failed with, or nil.
func (op *Operation) Err() error {
	_, err := op.Outcome()
	return err
}

// Succeeded reports whether the operation reached the Succeeded state.
func (op *Operation) Succeeded() bool {
	return op.State() == Succeeded
}

// IsCancelled reports whether Cancel was called before the operation
// reached a terminal state.
func (op *Operation) IsCancelled() bool {
	return op.cancelled.Load()
}

// StatusCode returns the status code of the response received by the
// operation, or 0 if none has been received.
func (op *Operation) StatusCode() int {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.exec.StatusCode()
}

// Header returns the headers of the response received by the
// operation, or nil if none has been received.
func (op *Operation) Header() http.Header {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.exec.Header()
}

// Execution returns the operation's execution record. Read it only
// after the operation is done: until then it is owned by the goroutine
// driving the lifecycle.
func (op *Operation) Execution() *request.Execution {
	return &op.exec
}

// complete is the transport callback.
func (op *Operation) complete(res Result) {
	if !op.fired.CompareAndSwap(false, true) {
		op.logger().Warn("transport completed operation more than once", "op_id", op.exec.ID)
		return
	}

	op.mu.Lock()
	op.pending = nil
	op.mu.Unlock()

	if op.cancelled.Load() {
		op.finish(Cancelled, nil)
		return
	}

	if res.Err != nil || res.Response == nil {
		err := res.Err
		if err == nil {
			err = errors.New("httpop: transport delivered neither response nor error")
		}
		ce := &ClassifiedError{Kind: TransportError, Err: err}
		if res.Response != nil {
			ce.StatusCode = res.Response.StatusCode
			ce.Header = res.Response.Header.Clone()
		}
		op.finish(Failed, ce)
		return
	}

	code := res.Response.StatusCode
	header := res.Response.Header
	class := status.Classify(code)
	op.mu.Lock()
	op.exec.Response = res.Response
	op.exec.Body = res.Body
	op.exec.Class = class
	op.mu.Unlock()
	op.Handlers.run(AfterResponse, &op.exec)

	h := op.hooks()
	if err := op.callHook(func() error { return dispatch(h, class, code, header) }); err != nil {
		op.finish(Failed, processingError(err))
		return
	}

	if res.Body != nil {
		if op.cancelled.Load() {
			op.finish(Cancelled, nil)
			return
		}
		op.Handlers.run(BeforeProcessBody, &op.exec)
		if err := op.callHook(func() error { return h.ProcessBody(res.Body) }); err != nil {
			op.finish(Failed, processingError(err))
			return
		}
	}

	if op.cancelled.Load() {
		op.finish(Cancelled, nil)
		return
	}
	if err := op.callHook(h.WillFinish); err != nil {
		op.finish(Failed, processingError(err))
		return
	}

	op.finish(Succeeded, nil)
}

// dispatch calls the response hook matching the status class. Ignored
// statuses call no hook.
func dispatch(h Hooks, class status.Class, code int, header http.Header) error {
	switch class {
	case status.Processable:
		return h.OnResponseHeaders(code, header)
	case status.ClientError:
		return h.OnClientError(code, header)
	case status.ServiceError:
		return h.OnServiceError(code, header)
	default:
		return nil
	}
}

func (op *Operation) buildRequest() (p *request.Plan, err error) {
	err = op.callHook(func() error {
		var buildErr error
		p, buildErr = op.hooks().BuildRequest()
		return buildErr
	})
	if err == nil && p == nil {
		err = ErrNoPlan
	}
	return
}

// callHook runs f, converting a panic into an error so that it cannot
// escape the transport's goroutine.
func (op *Operation) callHook(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("httpop: hook panicked: %v", r)
		}
	}()
	return f()
}

// finish records the terminal state. Only the first call has any
// effect. If the operation was cancelled, the terminal state is always
// Cancelled and no error is recorded. Done is closed only after the
// AfterFinish handlers have returned.
func (op *Operation) finish(s State, err error) {
	op.mu.Lock()
	if !op.finishLocked(s, err) {
		op.mu.Unlock()
		return
	}
	op.mu.Unlock()
	op.afterFinish()
}

func (op *Operation) finishLocked(s State, err error) bool {
	if op.cancelled.Load() {
		s, err = Cancelled, nil
	}
	if !canTransition(op.state, s) {
		return false
	}
	op.state = s
	op.exec.Err = err
	op.exec.Cancelled = s == Cancelled
	op.exec.End = time.Now()
	op.pending = nil
	return true
}

func (op *Operation) afterFinish() {
	op.Handlers.run(AfterFinish, &op.exec)

	e := &op.exec
	attrs := []any{
		"op_id", e.ID,
		"state", op.State().Name(),
		"duration_ms", e.Duration().Milliseconds(),
	}
	if e.Plan != nil {
		attrs = append(attrs, "method", e.Plan.Method, "url", RedactURL(e.Plan.URL))
	}
	if code := e.StatusCode(); code != 0 {
		attrs = append(attrs, "status", code)
	}
	if e.Err != nil {
		op.logger().Warn("operation failed", append(attrs, "kind", KindOf(e.Err).Name(), "error", e.Err.Error())...)
	} else {
		op.logger().Debug("operation finished", attrs...)
	}

	close(op.done)
}

// init must be called with mu held.
func (op *Operation) init() {
	if op.done == nil {
		op.done = make(chan struct{})
	}
}

func (op *Operation) hooks() Hooks {
	if op.Hooks == nil {
		return NopHooks{}
	}
	return op.Hooks
}

func (op *Operation) transport() Transport {
	if op.Transport == nil {
		return &DoerTransport{Logger: op.Logger}
	}
	return op.Transport
}

func (op *Operation) logger() *slog.Logger {
	if op.Logger == nil {
		return slog.Default()
	}
	return op.Logger
}
