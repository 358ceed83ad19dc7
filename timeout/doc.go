// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for the deadline an operation's
// transport places on a single HTTP request. Operations have no timeout
// of their own; the transport applies the policy when it submits the
// request, and a request that runs past its deadline completes with a
// transport error.
package timeout
