// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpop

// A State is the lifecycle state of an Operation.
type State int

const (
	// Unstarted is the state of a new operation.
	Unstarted State = iota
	// Running is the state of an operation between Start and its
	// terminal state.
	Running
	// Succeeded is the terminal state of an operation whose request
	// completed and whose hooks all returned without error.
	Succeeded
	// Failed is the terminal state of an operation which recorded an
	// error. The error is available from Operation.Err.
	Failed
	// Cancelled is the terminal state of an operation which was
	// cancelled before it could succeed or fail. No error is recorded.
	Cancelled
)

var stateNames = []string{
	"Unstarted",
	"Running",
	"Succeeded",
	"Failed",
	"Cancelled",
}

// transitions lists, for each state, the states it may move to.
var transitions = map[State][]State{
	Unstarted: {Running, Cancelled},
	Running:   {Succeeded, Failed, Cancelled},
}

// canTransition reports whether an operation may move from one state
// to another. Terminal states have no outgoing transitions.
func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether s is one of Succeeded, Failed or Cancelled.
func (s State) Terminal() bool {
	return s == Succeeded || s == Failed || s == Cancelled
}

// Name returns the name of the state.
func (s State) Name() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// String returns the name of the state.
func (s State) String() string {
	return s.Name()
}
