// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient sorts transport errors reported by an operation
// into transience categories. Caller-side retry deciders use it to tell
// a connection blip from a permanent failure, and metrics handlers use
// it to label transport errors.
//
// The package depends only on the standard library.
package transient
