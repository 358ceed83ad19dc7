// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package racing

import (
	"time"
)

// Disabled is a racing policy which never starts a second racer, so Run
// behaves like httpop.Run on a single operation.
var Disabled Policy = disabled{}

// A Policy controls if and how racers are added to a race. A Policy is
// composed of the Scheduler and Starter interfaces.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	Scheduler
	Starter
}

type policy struct {
	scheduler Scheduler
	starter   Starter
}

// NewPolicy composes a Scheduler and a Starter into a racing Policy.
func NewPolicy(sc Scheduler, st Starter) Policy {
	if sc == nil {
		panic("httpop/racing: nil scheduler")
	}
	if st == nil {
		panic("httpop/racing: nil starter")
	}
	return policy{scheduler: sc, starter: st}
}

func (p policy) Schedule(r *Race) time.Duration {
	return p.scheduler.Schedule(r)
}

func (p policy) Start(r *Race) bool {
	return p.starter.Start(r)
}

type disabled struct{}

func (disabled) Schedule(_ *Race) time.Duration {
	return 0
}

func (disabled) Start(_ *Race) bool {
	return false
}
