// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package racing

import (
	"context"
	"errors"
	"time"

	"github.com/gogama/httpop"
)

// ErrNilOperation is returned by Run when the factory returns nil for
// the first racer.
var ErrNilOperation = errors.New("httpop/racing: factory returned nil operation")

// A Race describes the state of a race for the benefit of a Policy.
type Race struct {
	// Racing is the number of racers started so far.
	Racing int
	// Start is the time the first racer started.
	Start time.Time
}

// Run races operations created by newOp according to p and returns
// the winner: the first operation to succeed or, if none does, the
// operation that failed last. The error is the one httpop.Run would
// report for the returned operation.
//
// Every other racer is cancelled and has settled when Run returns. If
// ctx ends first, every racer is cancelled and Run returns the first
// racer with ctx.Err(). A nil policy means Disabled.
func Run(ctx context.Context, p Policy, newOp func() *httpop.Operation) (*httpop.Operation, error) {
	if p == nil {
		p = Disabled
	}

	r := &Race{Start: time.Now()}
	finished := make(chan *httpop.Operation)
	var ops []*httpop.Operation
	running := 0

	start := func() bool {
		op := newOp()
		if op == nil {
			return false
		}
		_ = op.Start()
		ops = append(ops, op)
		r.Racing++
		running++
		go func() {
			<-op.Done()
			finished <- op
		}()
		return true
	}

	settle := func(winner *httpop.Operation) {
		for _, op := range ops {
			if op != winner {
				op.Cancel()
			}
		}
		for running > 0 {
			<-finished
			running--
		}
	}

	if !start() {
		return nil, ErrNilOperation
	}

	var timer *time.Timer
	var timerC <-chan time.Time
	schedule := func() {
		timerC = nil
		if d := p.Schedule(r); d > 0 {
			timer = time.NewTimer(d)
			timerC = timer.C
		}
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	schedule()

	for {
		select {
		case <-ctx.Done():
			settle(nil)
			return ops[0], ctx.Err()
		case <-timerC:
			timerC = nil
			if p.Start(r) && start() {
				schedule()
			}
		case op := <-finished:
			running--
			if op.Succeeded() || running == 0 {
				settle(op)
				return op, op.Wait(context.Background())
			}
		}
	}
}
