// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"sync"

	"github.com/gogama/httpop"
)

// A strategy runs operations made by newOp until one outcome stands.
type strategy func(ctx context.Context, newOp func() *httpop.Operation) (*httpop.Operation, error)

// job adapts a strategy to httpop.Runner so it can be queued.
type job struct {
	url   string
	newOp func() *httpop.Operation
	run   strategy

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	started bool
	ended   bool
	op      *httpop.Operation
	err     error
}

func newJob(url string, newOp func() *httpop.Operation, run strategy) *job {
	ctx, cancel := context.WithCancel(context.Background())
	return &job{
		url:    url,
		newOp:  newOp,
		run:    run,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

func (j *job) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.ended {
		return httpop.ErrCancelled
	} else if j.started {
		return httpop.ErrAlreadyStarted
	}
	j.started = true

	go func() {
		op, err := j.run(j.ctx, j.newOp)
		j.end(op, err)
	}()
	return nil
}

func (j *job) Cancel() {
	j.cancel()

	j.mu.Lock()
	unstarted := !j.started
	j.mu.Unlock()
	if unstarted {
		j.end(nil, httpop.ErrCancelled)
	}
}

func (j *job) Done() <-chan struct{} {
	return j.done
}

func (j *job) end(op *httpop.Operation, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.ended {
		return
	}
	j.ended = true
	j.op, j.err = op, err
	j.cancel()
	close(j.done)
}

// result must only be called after Done is closed.
func (j *job) result() (*httpop.Operation, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.op, j.err
}
