// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"net/http"
	"time"

	"github.com/gogama/httpop"
)

// An Attempt describes a finished, unsuccessful attempt, for the
// benefit of a Policy deciding what to do next.
type Attempt struct {
	// Index is the zero-based attempt number. The first attempt has
	// index 0 and the first retry has index 1.
	Index int
	// Start is the time the first attempt started.
	Start time.Time
	// End is the time this attempt finished.
	End time.Time
	// StatusCode is the attempt's response status code, or 0 if no
	// response was received.
	StatusCode int
	// Header is the attempt's response header, or nil if no response
	// was received.
	Header http.Header
	// Err is the error the attempt failed with.
	Err error
	// Op is the attempt's operation. It is nil for attempts built by
	// hand, for example in tests.
	Op *httpop.Operation
}

func newAttempt(i int, start time.Time, op *httpop.Operation) *Attempt {
	return &Attempt{
		Index:      i,
		Start:      start,
		End:        time.Now(),
		StatusCode: op.StatusCode(),
		Header:     op.Header(),
		Err:        op.Err(),
		Op:         op,
	}
}

// Elapsed returns the time between the start of the first attempt and
// the end of this one.
func (a *Attempt) Elapsed() time.Duration {
	return a.End.Sub(a.Start)
}
