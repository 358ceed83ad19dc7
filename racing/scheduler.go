// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package racing

import (
	"time"
)

// A Scheduler schedules the start of the next racer.
//
// Schedule is called each time a racer starts, and returns how long to
// wait before starting the next one. A zero or negative duration means
// no further racer is scheduled.
//
// Implementations of Scheduler must be safe for concurrent use by
// multiple goroutines.
type Scheduler interface {
	Schedule(r *Race) time.Duration
}

// NewStaticScheduler constructs a Scheduler from a fixed list of
// offsets. Once n racers have started, the next racer is scheduled
// offsets[n-1] after the most recent start. Once every offset is used,
// no more racers are scheduled.
func NewStaticScheduler(offsets ...time.Duration) Scheduler {
	o := make([]time.Duration, len(offsets))
	copy(o, offsets)
	return staticScheduler(o)
}

type staticScheduler []time.Duration

func (sc staticScheduler) Schedule(r *Race) time.Duration {
	i := r.Racing - 1
	if i < 0 || i >= len(sc) {
		return 0
	}
	return sc[i]
}
