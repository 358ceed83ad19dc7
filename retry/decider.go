// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/httpop"
	"github.com/gogama/httpop/transient"
)

// A Decider decides if a retry should be done.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
//
// Use the built-in constructors Times, StatusCode, Kind, and Before,
// and the built-in decider TransientErr; or implement your Decider. Use
// DeciderFunc to convert an ordinary function into a Decider, and to
// compose deciders logically using DeciderFunc.And and DeciderFunc.Or.
type Decider interface {
	Decide(a *Attempt) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface, and
// also provides the logical composition methods And and Or.
//
// Every DeciderFunc must be safe for concurrent use by multiple
// goroutines.
type DeciderFunc func(a *Attempt) bool

// DefaultTimes is the number of times DefaultPolicy will retry.
const DefaultTimes = 5

// DefaultDecider is a general-purpose retry decider suitable for
// common use cases. It will allow up to DefaultTimes retries (i.e. up
// to 6 total attempts), and will retry in the case of a transient error
// (TransientErr) or if the attempt failed on one of the following
// status codes: 429 (Too Many Requests); 502 (Bad Gateway); 503
// (Service Unavailable); or 504 (Gateway Timeout).
var DefaultDecider = Times(DefaultTimes).And(StatusCode(429, 502, 503, 504).Or(TransientErr))

// TransientErr is a decider that indicates a retry if the attempt's
// error is transient according to transient.Categorize.
var TransientErr DeciderFunc = transientErr

// Decide returns true if a retry should be done, and false otherwise,
// after examining the failed attempt.
func (f DeciderFunc) Decide(a *Attempt) bool {
	return f(a)
}

// And composes two retry deciders into a new decider which returns true
// if both sub-deciders return true, and false otherwise.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(a *Attempt) bool {
		return f(a) && g(a)
	}
}

// Or composes two retry deciders into a new decider which returns
// true if either of the two sub-deciders returns true, but false if
// they both return false.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(a *Attempt) bool {
		return f(a) || g(a)
	}
}

// Times constructs a retry decider which allows up to n retries. The
// returned decider returns true while the attempt index is less than
// n, and false otherwise.
func Times(n int) DeciderFunc {
	return func(a *Attempt) bool {
		return a.Index < n
	}
}

// Before constructs a retry decider allowing retries until a certain
// amount of time has elapsed since the start of the first attempt.
func Before(d time.Duration) DeciderFunc {
	return func(a *Attempt) bool {
		return a.Elapsed() < d
	}
}

// StatusCode constructs a retry decider allowing retries based on the
// HTTP response status code of the failed attempt.
func StatusCode(ss ...int) DeciderFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(a *Attempt) bool {
		for _, s := range ss2 {
			if a.StatusCode == s {
				return true
			}
		}
		return false
	}
}

// Kind constructs a retry decider allowing retries when the attempt
// failed with a ClassifiedError of one of the given kinds.
func Kind(ks ...httpop.Kind) DeciderFunc {
	ks2 := make([]httpop.Kind, len(ks))
	copy(ks2, ks)
	return func(a *Attempt) bool {
		k := httpop.KindOf(a.Err)
		for _, k2 := range ks2 {
			if k == k2 {
				return true
			}
		}
		return false
	}
}

func transientErr(a *Attempt) bool {
	return transient.Categorize(a.Err) != transient.Not
}
