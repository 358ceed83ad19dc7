// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpop

// An Event identifies a point in an operation's lifecycle at which
// installed handlers run. Install event handlers to extend operations
// with cross-cutting features such as metrics and tracing.
type Event int

const (
	// BeforeStart identifies the event that occurs when an operation
	// starts, before its BuildRequest hook is called.
	//
	// When BeforeStart fires, the execution's ID and Start time are set
	// and its plan is nil.
	BeforeStart Event = iota
	// BeforeSubmit identifies the event that occurs after the request
	// plan has been built and before it is submitted to the transport.
	//
	// BeforeSubmit handlers may add headers to the execution's plan,
	// for example to propagate trace context.
	BeforeSubmit
	// AfterResponse identifies the event that occurs when the transport
	// delivers a response, before the status code is dispatched to the
	// response hooks.
	//
	// When AfterResponse fires, the execution's response, body and
	// status class are set. AfterResponse never fires for an operation
	// that was cancelled or whose transport failed.
	AfterResponse
	// BeforeProcessBody identifies the event that occurs after the
	// response hooks accepted the response and before the ProcessBody
	// hook is called. It only fires when there is a body to process.
	BeforeProcessBody
	// AfterFinish identifies the event that occurs once the operation
	// has reached its terminal state.
	//
	// AfterFinish fires exactly once per operation, including
	// operations that were cancelled before they started. When it
	// fires, the execution's End time is set and, for a failed
	// operation, so is its Err. The operation's Done channel is closed
	// only after every AfterFinish handler has returned.
	AfterFinish
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeStart",
	"BeforeSubmit",
	"AfterResponse",
	"BeforeProcessBody",
	"AfterFinish",
}

// Events returns a slice containing all events which can occur in an
// operation, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeStart,
		BeforeSubmit,
		AfterResponse,
		BeforeProcessBody,
		AfterFinish,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
