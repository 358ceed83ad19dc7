// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"strings"
	"time"

	"github.com/gogama/httpop/request"
)

// A Policy decides the timeout for an HTTP request, given its plan.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to apply to the request described by
	// p. A non-positive value means the request is bounded only by the
	// plan's own context.
	Timeout(p *request.Plan) time.Duration
}

// The PolicyFunc type is an adapter to allow the use of ordinary
// functions as timeout policies.
type PolicyFunc func(p *request.Plan) time.Duration

// Timeout returns f(p).
func (f PolicyFunc) Timeout(p *request.Plan) time.Duration {
	return f(p)
}

// DefaultPolicy sets a fixed timeout of 30 seconds on every request.
var DefaultPolicy Policy = Fixed(30 * time.Second)

// Infinite is a policy which never times out. It returns zero, so the
// request carries no deadline beyond its plan's context.
var Infinite Policy = Fixed(0)

// Fixed constructs a timeout policy that always returns d.
func Fixed(d time.Duration) Policy {
	return fixed(d)
}

type fixed time.Duration

func (f fixed) Timeout(_ *request.Plan) time.Duration {
	return time.Duration(f)
}

// ByMethod constructs a timeout policy that looks up the plan's method
// (case-insensitively) in m and falls back to def if it is absent. Use
// it to give slow mutating requests a longer leash than reads:
//
//	p := timeout.ByMethod(5*time.Second, map[string]time.Duration{
//		"POST": 30 * time.Second,
//	})
func ByMethod(def time.Duration, m map[string]time.Duration) Policy {
	m2 := make(map[string]time.Duration, len(m))
	for k, v := range m {
		m2[strings.ToUpper(k)] = v
	}
	return PolicyFunc(func(p *request.Plan) time.Duration {
		if d, ok := m2[strings.ToUpper(p.Method)]; ok {
			return d
		}
		return def
	})
}
