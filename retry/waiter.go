// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// A Waiter decides how long Do sleeps after a failed attempt before it
// creates the next operation. Do only consults the Waiter once the
// Decider has chosen to retry.
//
// Implementations must be safe for concurrent use, since one policy may
// drive many Do calls at once.
type Waiter interface {
	Wait(a *Attempt) time.Duration
}

// The WaiterFunc type is an adapter to allow the use of ordinary
// functions as a Waiter.
type WaiterFunc func(a *Attempt) time.Duration

// Wait returns f(a).
func (f WaiterFunc) Wait(a *Attempt) time.Duration {
	return f(a)
}

// DefaultWaiter honors a Retry-After header of up to 10 seconds and
// otherwise backs off exponentially with full jitter, from 50
// milliseconds up to 1 second.
var DefaultWaiter = NewRetryAfterWaiter(NewExpWaiter(50*time.Millisecond, 1*time.Second, time.Now()), 10*time.Second)

// NewFixedWaiter returns a Waiter which always waits d.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *Attempt) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter returns a Waiter whose wait ceiling doubles with each
// attempt, starting at base and never exceeding max:
//
//	ceil := min(base * 2**a.Index, max)
//
// With a nil jitter the Waiter waits exactly ceil. Otherwise it waits a
// uniformly random duration in [0, ceil), the "Full Jitter" scheme from
// https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter.
// The jitter may be a seed (time.Time, int or int64), a rand.Source or
// a *rand.Rand.
//
// NewExpWaiter panics if base is not positive, if max is less than
// base, or if jitter has any other type.
func NewExpWaiter(base, max time.Duration, jitter interface{}) Waiter {
	if base < 1 {
		panic("httpop/retry: base must be positive")
	}
	if max < base {
		panic("httpop/retry: max must be at least base")
	}
	return &jitterExpWaiter{
		base: base,
		max:  max,
		rand: jitterToRand(jitter),
	}
}

type jitterExpWaiter struct {
	base time.Duration
	max  time.Duration

	mu   sync.Mutex
	rand *rand.Rand
}

func (w *jitterExpWaiter) Wait(a *Attempt) time.Duration {
	ceil := w.ceiling(a.Index)
	if w.rand == nil || ceil <= 0 {
		return ceil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Duration(w.rand.Int63n(int64(ceil)))
}

func (w *jitterExpWaiter) ceiling(i int) time.Duration {
	if i < 0 || i >= 63 {
		return w.max
	}
	ceil := w.base << uint(i)
	if ceil < w.base || ceil > w.max {
		return w.max
	}
	return ceil
}

func jitterToRand(jitter interface{}) *rand.Rand {
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		return rand.New(rand.NewSource(j.UnixNano()))
	case int:
		return rand.New(rand.NewSource(int64(j)))
	case int64:
		return rand.New(rand.NewSource(j))
	case *rand.Rand:
		if j == nil {
			panic("httpop/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		return rand.New(j)
	default:
		panic("httpop/retry: invalid jitter type")
	}
}

// NewRetryAfterWaiter returns a Waiter which waits as long as the
// failed attempt's Retry-After response header asks, capped at max.
// Attempts without a valid Retry-After header defer to fallback.
//
// Both forms of the header are understood: a number of seconds and an
// HTTP date, which is measured from the attempt's End time.
func NewRetryAfterWaiter(fallback Waiter, max time.Duration) Waiter {
	if fallback == nil {
		panic("httpop/retry: nil fallback waiter")
	}
	return &retryAfterWaiter{fallback: fallback, max: max}
}

type retryAfterWaiter struct {
	fallback Waiter
	max      time.Duration
}

func (w *retryAfterWaiter) Wait(a *Attempt) time.Duration {
	d, ok := retryAfter(a.Header.Get("Retry-After"), a.End)
	if !ok {
		return w.fallback.Wait(a)
	}
	if d > w.max {
		return w.max
	}
	return d
}

func retryAfter(v string, now time.Time) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return 0, false
	}
	if d := t.Sub(now); d > 0 {
		return d, true
	}
	return 0, true
}
