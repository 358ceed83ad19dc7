// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpop

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrCancelled is returned by Start when the operation was
	// cancelled before it could start, and by Wait when the operation
	// ended in the Cancelled state.
	ErrCancelled = errors.New("httpop: operation cancelled")

	// ErrAlreadyStarted is returned by Start on an operation which has
	// already been started.
	ErrAlreadyStarted = errors.New("httpop: operation already started")

	// ErrNoPlan is the configuration error reported when the hooks do
	// not build a request plan.
	ErrNoPlan = errors.New("httpop: no request plan")
)

// A Kind identifies the category of a ClassifiedError.
type Kind int

const (
	// ConfigurationError means the request plan could not be built. No
	// network call was made.
	ConfigurationError Kind = iota + 1
	// TransportError means no complete response was obtained, for
	// example because of a DNS, connection, TLS or timeout failure.
	TransportError
	// ClientError means the response status was in the range 400-499
	// and the operation's hooks did not recover from it.
	ClientError
	// ServerError means the response status was in the range 500-599
	// and the operation's hooks did not recover from it.
	ServerError
	// ProcessingError means a header, body or finishing hook failed.
	ProcessingError
)

var kindNames = map[Kind]string{
	ConfigurationError: "ConfigurationError",
	TransportError:     "TransportError",
	ClientError:        "ClientError",
	ServerError:        "ServerError",
	ProcessingError:    "ProcessingError",
}

// Name returns the name of the kind.
func (k Kind) Name() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "Unknown"
}

// String returns the name of the kind.
func (k Kind) String() string {
	return k.Name()
}

// A ClassifiedError is the failure value of an operation. It carries
// the error kind and, where a response was obtained, its status code
// and headers, so callers can inspect the failure without re-parsing
// anything.
//
// ClassifiedError values are immutable once constructed. The header is
// cloned on construction.
type ClassifiedError struct {
	// Kind is the error category.
	Kind Kind
	// StatusCode is the response status code, or 0 if no response was
	// obtained or none was attached.
	StatusCode int
	// Header holds the response headers, or nil.
	Header http.Header
	// Err is the underlying cause, if any. For TransportError it is
	// always a *url.Error.
	Err error
}

// NewClassifiedError returns a ClassifiedError of the given kind
// carrying a response's status code and headers. Hooks which want to
// attach response metadata to their own failures can use it too.
func NewClassifiedError(kind Kind, statusCode int, header http.Header, err error) *ClassifiedError {
	return &ClassifiedError{
		Kind:       kind,
		StatusCode: statusCode,
		Header:     header.Clone(),
		Err:        err,
	}
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	msg := "httpop: " + e.Kind.Name()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d %s)", msg, e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is and errors.As.
func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ClassifiedError of the same kind with
// no status code, or with the same status code. This lets callers match
// on a kind using a template:
//
//	errors.Is(err, &httpop.ClassifiedError{Kind: httpop.ClientError})
func (e *ClassifiedError) Is(target error) bool {
	t, ok := target.(*ClassifiedError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.StatusCode == 0 || e.StatusCode == t.StatusCode)
}

// AsClassified finds the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// KindOf returns the kind of the first ClassifiedError in err's chain,
// or 0 if there is none.
func KindOf(err error) Kind {
	if ce, ok := AsClassified(err); ok {
		return ce.Kind
	}
	return 0
}

// processingError surfaces a hook error as-is if it is already
// classified, and as a ProcessingError otherwise.
func processingError(err error) error {
	if _, ok := err.(*ClassifiedError); ok {
		return err
	}
	return &ClassifiedError{Kind: ProcessingError, Err: err}
}
