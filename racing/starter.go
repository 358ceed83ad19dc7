// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package racing

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// A Starter has the final say on whether a scheduled racer starts.
//
// Implementations of Starter must be safe for concurrent use by
// multiple goroutines, since one policy may drive many races at once.
type Starter interface {
	// Start reports whether the scheduled racer should join the race.
	// When it returns false, the racer is discarded and the race
	// continues with the racers already running, without scheduling
	// any more.
	Start(*Race) bool
}

// AlwaysStart is a Starter which starts every scheduled racer.
var AlwaysStart Starter = alwaysStarter{}

type alwaysStarter struct{}

func (alwaysStarter) Start(_ *Race) bool {
	return true
}

// A Limit caps the number of extra racers started per Period, across
// every race sharing the starter. A zero Period means no limit, and a
// zero MaxRacers with a positive Period refuses every racer.
type Limit struct {
	MaxRacers int
	Period    time.Duration
}

// NewThrottleStarter returns a Starter which refuses a racer when
// starting it would exceed any of the limits. Sharing one throttling
// starter between races caps the extra load hedging puts on a service.
//
// For example, this starter refuses new racers once 10 have started in
// the last half second or 15 in the last second:
//
//	s := racing.NewThrottleStarter(
//		racing.Limit{MaxRacers: 10, Period: 500 * time.Millisecond},
//		racing.Limit{MaxRacers: 15, Period: 1 * time.Second})
//
// Only extra racers count. The first operation of a race always starts.
func NewThrottleStarter(limits ...Limit) Starter {
	st := &throttleStarter{
		limiters: make([]*rate.Limiter, len(limits)),
	}
	for i, l := range limits {
		st.limiters[i] = newLimiter(l)
	}
	return st
}

func newLimiter(l Limit) *rate.Limiter {
	if l.Period <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	every := rate.Limit(float64(l.MaxRacers) / l.Period.Seconds())
	return rate.NewLimiter(every, l.MaxRacers)
}

type throttleStarter struct {
	mu       sync.Mutex
	limiters []*rate.Limiter
}

// Start takes one token from every limiter, or from none of them.
func (st *throttleStarter) Start(_ *Race) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now()
	taken := make([]*rate.Reservation, 0, len(st.limiters))
	for _, l := range st.limiters {
		r := l.ReserveN(now, 1)
		if !r.OK() || r.DelayFrom(now) > 0 {
			r.CancelAt(now)
			for _, t := range taken {
				t.CancelAt(now)
			}
			return false
		}
		taken = append(taken, r)
	}
	return true
}
