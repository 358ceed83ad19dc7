// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogama/httpop"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// DefaultMaxConcurrent is the concurrency used when Config leaves
// MaxConcurrent unset.
const DefaultMaxConcurrent = 4

// Config configures a Queue.
type Config struct {
	// MaxConcurrent is the maximum number of runners running at once.
	// Zero means DefaultMaxConcurrent.
	MaxConcurrent int
	// RequestsPerSecond limits how often runners are started. Zero
	// means no limit.
	RequestsPerSecond float64
	// Burst is the number of runners that may start at once when the
	// rate limit allows. Zero means 1.
	Burst int
	// Logger receives queue records. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("httpop/queue: max concurrent must not be negative, got %d", c.MaxConcurrent)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("httpop/queue: requests per second must not be negative, got %g", c.RequestsPerSecond)
	}
	if c.Burst < 0 {
		return fmt.Errorf("httpop/queue: burst must not be negative, got %d", c.Burst)
	}
	return nil
}

// ErrCancelled is returned by Wait if the queue was cancelled.
var ErrCancelled = errors.New("httpop/queue: queue cancelled")

// A Queue runs runners with bounded concurrency. It is safe for
// concurrent use.
type Queue struct {
	sem     *semaphore.Weighted
	limiter *rate.Limiter
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	tracked map[httpop.Runner]struct{}

	queued  atomic.Int64
	running atomic.Int64
}

// New returns a queue configured by c. Invalid values are replaced by
// their defaults; call c.Validate first to reject them instead.
func New(c Config) *Queue {
	n := c.MaxConcurrent
	if n <= 0 {
		n = DefaultMaxConcurrent
	}
	var limiter *rate.Limiter
	if c.RequestsPerSecond > 0 {
		burst := c.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(c.RequestsPerSecond), burst)
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		sem:     semaphore.NewWeighted(int64(n)),
		limiter: limiter,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		tracked: make(map[httpop.Runner]struct{}),
	}
}

// Add queues r. It never blocks: r is started on another goroutine
// once a concurrency slot and a rate token are available. If the queue
// has been cancelled, r is cancelled instead.
func (q *Queue) Add(r httpop.Runner) {
	q.mu.Lock()
	q.tracked[r] = struct{}{}
	q.mu.Unlock()

	q.wg.Add(1)
	q.queued.Add(1)
	go q.run(r)
}

func (q *Queue) run(r httpop.Runner) {
	defer q.wg.Done()
	defer q.untrack(r)

	err := q.sem.Acquire(q.ctx, 1)
	q.queued.Add(-1)
	if err != nil {
		r.Cancel()
		return
	}
	defer q.sem.Release(1)

	if q.limiter != nil {
		if err := q.limiter.Wait(q.ctx); err != nil {
			r.Cancel()
			return
		}
	}

	q.running.Add(1)
	defer q.running.Add(-1)
	if err := r.Start(); err != nil {
		q.logger.Debug("queued runner not started", "error", err.Error())
		return
	}
	<-r.Done()
}

func (q *Queue) untrack(r httpop.Runner) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.tracked, r)
}

// Wait blocks until every runner added so far is done, or ctx ends.
// It returns ErrCancelled if the queue was cancelled and ctx.Err() if
// ctx ended first. Wait does not cancel anything.
func (q *Queue) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if q.ctx.Err() != nil {
			return ErrCancelled
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CancelAll cancels every runner in the queue, queued or running, and
// every runner added afterwards.
func (q *Queue) CancelAll() {
	q.cancel()

	q.mu.Lock()
	runners := make([]httpop.Runner, 0, len(q.tracked))
	for r := range q.tracked {
		runners = append(runners, r)
	}
	q.mu.Unlock()

	q.logger.Debug("cancelling queue", "runners", len(runners))
	for _, r := range runners {
		r.Cancel()
	}
}

// Queued returns the number of runners waiting for a slot.
func (q *Queue) Queued() int {
	return int(q.queued.Load())
}

// Running returns the number of runners started and not yet done.
func (q *Queue) Running() int {
	return int(q.running.Load())
}
