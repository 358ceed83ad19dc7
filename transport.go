// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpop

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gogama/httpop/request"
	"github.com/gogama/httpop/timeout"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	Do(r *http.Request) (*http.Response, error)
}

// A Result is what a Transport delivers for a submitted request:
// either a response or an error.
type Result struct {
	// Response is the HTTP response. Its body has been consumed and
	// closed. It may be non-nil alongside Err if the response headers
	// arrived but reading the body failed.
	Response *http.Response
	// Body is the fully buffered response body, or nil if the response
	// had no content.
	Body []byte
	// Err is the transport-level error, if no complete response was
	// obtained.
	Err error
}

// A Transport issues HTTP requests asynchronously on behalf of
// operations.
//
// Submit must not block on network I/O. It must call done exactly once,
// on any goroutine (including, in principle, the calling one), and
// must support concurrent independent calls. The returned Pending
// handle cancels the call on a best-effort basis; a cancelled call
// still calls done, typically with a context.Canceled error.
type Transport interface {
	Submit(p *request.Plan, done func(Result)) Pending
}

// A Pending is the handle to an in-flight transport call.
type Pending interface {
	Cancel()
}

// The PendingFunc type is an adapter to allow the use of ordinary
// functions, such as a context.CancelFunc, as Pending handles.
type PendingFunc func()

// Cancel calls f().
func (f PendingFunc) Cancel() {
	f()
}

// DoerTransport is a Transport which runs each request on its own
// goroutine using an HTTPDoer. Its zero value is a valid configuration.
//
// Redirects are the HTTPDoer's business. The default doer,
// http.DefaultClient, follows up to 10 redirects, so operations using
// the zero DoerTransport only see final responses.
type DoerTransport struct {
	// HTTPDoer sends requests. If nil, http.DefaultClient is used.
	HTTPDoer HTTPDoer
	// TimeoutPolicy decides each request's timeout. If nil,
	// timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// UserAgent is set as the User-Agent header on requests which do
	// not already have one.
	UserAgent string
	// Logger receives one record per request. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Submit implements Transport.
func (t *DoerTransport) Submit(p *request.Plan, done func(Result)) Pending {
	ctx, cancel := context.WithCancel(p.Context())
	if d := t.timeoutPolicy().Timeout(p); d > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, d)
		parent := cancel
		cancel = func() {
			cancelTimeout()
			parent()
		}
	}

	r := p.ToRequest(ctx)
	if t.UserAgent != "" && r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.UserAgent)
	}

	go func() {
		defer cancel()
		done(t.do(p, r))
	}()

	return PendingFunc(cancel)
}

// send calls the doer, converting a panic into an error so that the
// operation still hears back exactly once.
func (t *DoerTransport) send(r *http.Request) (resp *http.Response, err error) {
	defer func() {
		if v := recover(); v != nil {
			resp, err = nil, fmt.Errorf("httpop: doer panicked: %v", v)
		}
	}()
	return t.doer().Do(r)
}

func (t *DoerTransport) do(p *request.Plan, r *http.Request) Result {
	start := time.Now()
	resp, err := t.send(r)
	if err != nil {
		t.logger().Warn("http request failed",
			"method", r.Method,
			"url", RedactURL(r.URL),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		return Result{Err: urlErrorWrap(p, err)}
	}

	body, err := readBody(resp)
	level := slog.LevelDebug
	if resp.StatusCode >= 400 || err != nil {
		level = slog.LevelWarn
	}
	t.logger().Log(r.Context(), level, "http request",
		"method", r.Method,
		"url", RedactURL(r.URL),
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if err != nil {
		return Result{Response: resp, Err: urlErrorWrap(p, err)}
	}
	return Result{Response: resp, Body: body}
}

func readBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	return b, nil
}

func (t *DoerTransport) doer() HTTPDoer {
	if t.HTTPDoer == nil {
		return http.DefaultClient
	}
	return t.HTTPDoer
}

func (t *DoerTransport) timeoutPolicy() timeout.Policy {
	if t.TimeoutPolicy == nil {
		return timeout.DefaultPolicy
	}
	return t.TimeoutPolicy
}

func (t *DoerTransport) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.Default()
	}
	return t.Logger
}

func urlErrorWrap(p *request.Plan, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(p.Method),
		URL: p.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
