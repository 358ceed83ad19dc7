// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

const nilCtxMsg = "httpop/request: nil context"

// A Plan describes the single HTTP request an operation will issue. It
// is the request descriptor returned by an operation's BuildRequest
// hook and handed to the operation's transport.
//
// Plan mirrors the client-side fields of http.Request, except the body,
// which is pre-buffered so a transport can replay it (for example when
// following a redirect that requires the body to be re-sent).
//
// The plan's context bounds the transport call. Cancelling the context
// has the same effect on the in-flight call as cancelling the
// operation, but only the operation's Cancel method marks the outcome
// as cancelled.
type Plan struct {
	// Method specifies the HTTP method. An empty string means GET.
	Method string

	// URL specifies the URL to access.
	URL *urlpkg.URL

	// Header contains the request header fields to send.
	Header http.Header

	// Body is the pre-buffered request body. A nil or empty body sends
	// no body.
	Body []byte

	// Close indicates the connection should be closed after the
	// response is read.
	Close bool

	// Host optionally overrides the Host header. If empty, URL.Host is
	// sent.
	Host string

	ctx context.Context
}

// NewPlan wraps NewPlanWithContext using the background context.
func NewPlan(method, url string, body interface{}) (*Plan, error) {
	return NewPlanWithContext(context.Background(), method, url, body)
}

// NewPlanWithContext returns a new Plan given a method, URL, and
// optional body. The body is converted with BodyBytes.
//
// An error is returned if the context is nil, the method is not a
// valid HTTP token, the URL cannot be parsed or is not absolute, or the
// body cannot be converted. An operation reports any such error as a
// configuration error.
func NewPlanWithContext(ctx context.Context, method, url string, body interface{}) (*Plan, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	if method == "" {
		method = http.MethodGet
	}
	if !httpguts.ValidHeaderFieldName(method) {
		return nil, fmt.Errorf("httpop/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("httpop/request: URL %q is not absolute", url)
	}
	u.Host = strings.TrimSuffix(u.Host, ":")
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	return &Plan{
		ctx:    ctx,
		Method: method,
		URL:    u,
		Header: make(http.Header),
		Body:   b,
		Host:   u.Host,
	}, nil
}

// Context returns the plan's context, defaulting to the background
// context.
func (p *Plan) Context() context.Context {
	if p.ctx != nil {
		return p.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of p with its context changed to
// ctx, which must be non-nil.
func (p *Plan) WithContext(ctx context.Context) *Plan {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	p2 := new(Plan)
	*p2 = *p
	p2.ctx = ctx
	return p2
}

// SetBasicAuth sets the plan's Authorization header to use HTTP Basic
// Authentication with the provided username and password.
func (p *Plan) SetBasicAuth(username, password string) {
	auth := username + ":" + password
	p.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(auth)))
}

// SetBearerToken sets the plan's Authorization header to carry the
// given bearer token.
func (p *Plan) SetBearerToken(token string) {
	p.Header.Set("Authorization", "Bearer "+token)
}

// ToRequest creates the http.Request corresponding to the plan. The
// context of the new request is ctx, which may not be nil. The header
// is cloned so that transports may add fields without mutating the
// plan.
func (p *Plan) ToRequest(ctx context.Context) *http.Request {
	var body io.Reader
	if len(p.Body) > 0 {
		body = bytes.NewReader(p.Body)
	}
	r, err := http.NewRequestWithContext(ctx, p.Method, p.URL.String(), body)
	if err != nil {
		// Only reachable for plans not built by NewPlan. Fall back to
		// copying the URL as-is and let the transport report the error.
		r = (&http.Request{Method: p.Method, URL: p.URL}).WithContext(ctx)
	}
	r.URL = p.URL
	r.Header = p.Header.Clone()
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Close = p.Close
	if p.Host != "" {
		r.Host = p.Host
	}
	return r
}
