// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gogama/httpop"
)

// ErrNilOperation is returned by Do when the factory returns nil.
var ErrNilOperation = errors.New("httpop/retry: factory returned nil operation")

// Do runs operations created by newOp until one succeeds, p decides to
// stop, or ctx ends. It returns the last operation run and the error
// httpop.Run reported for it.
//
// If ctx ends while an operation is running, the operation is cancelled
// and Do returns ctx.Err(). If ctx ends while waiting to retry, Do
// returns the last operation with ctx.Err(). A cancelled operation is
// never retried. A nil policy means DefaultPolicy.
func Do(ctx context.Context, p Policy, newOp func() *httpop.Operation) (*httpop.Operation, error) {
	if p == nil {
		p = DefaultPolicy
	}

	start := time.Now()
	for i := 0; ; i++ {
		op := newOp()
		if op == nil {
			return nil, ErrNilOperation
		}

		_, err := httpop.Run(ctx, op)
		if err == nil {
			return op, nil
		}
		if ctx.Err() != nil || op.State() == httpop.Cancelled {
			return op, err
		}

		a := newAttempt(i, start, op)
		if !p.Decide(a) {
			return op, err
		}

		d := p.Wait(a)
		logger(op).Debug("retrying operation",
			"op_id", op.Execution().ID,
			"attempt", i+1,
			"wait_ms", d.Milliseconds(),
			"error", err.Error(),
		)
		if err := sleep(ctx, d); err != nil {
			return op, err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func logger(op *httpop.Operation) *slog.Logger {
	if op.Logger != nil {
		return op.Logger
	}
	return slog.Default()
}
