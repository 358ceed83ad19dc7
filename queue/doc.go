// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package queue runs many operations with bounded concurrency and an
// optional start rate limit.
//
// A Queue depends only on the httpop.Runner interface: it starts each
// runner when a concurrency slot and a rate token are available, and
// frees the slot when the runner's Done channel closes. Runners still
// waiting for a slot when the queue is cancelled are cancelled without
// ever being started.
//
//	q := queue.New(queue.Config{MaxConcurrent: 8, RequestsPerSecond: 20})
//	for _, id := range ids {
//		q.Add(httpop.New(&getWidget{id: id}))
//	}
//	err := q.Wait(ctx)
package queue
