// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry runs an HTTP operation repeatedly until it succeeds or
// a policy says to stop.
//
// Operations never retry themselves: an httpop.Operation is single-use.
// Do therefore takes a factory which creates a fresh operation for each
// attempt, and after every failed attempt consults a Policy to decide
// whether to try again and how long to wait first.
//
// A Policy instance can be constructed using NewPolicy by providing a
// decision-maker, Decider, and a wait time calculator, Waiter. Both
// Decider and Waiter have constructors for common use cases, so that a
// useful policy can be quickly assembled:
//
//	decider := retry.Times(3).
//	               And(retry.Before(5 * time.Second)).
//	               And(retry.StatusCode(500).Or(retry.TransientErr))
//	waiter := retry.NewExpWaiter(100*time.Millisecond, 2*time.Second, time.Now())
//	policy := retry.NewPolicy(decider, waiter)
//
//	op, err := retry.Do(ctx, policy, func() *httpop.Operation {
//		return httpop.New(&getWidget{id: "42"})
//	})
//
// Cancelled operations are never retried.
package retry
