// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"io"
	"syscall"
)

// A Category is the transience category of an error, as reported by
// Categorize.
//
// Not means a fresh operation issuing the same request is unlikely to
// fare better. Every other category means it has a fair chance.
type Category int

const (
	// Not indicates a nil or non-transient error.
	Not Category = iota
	// Timeout indicates a client-side timeout. Categorize returns
	// Timeout if the error, or any error it wraps, has a Timeout method
	// reporting true.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (syscall.ECONNREFUSED), which commonly happens while a service is
	// restarting.
	ConnRefused
	// ConnReset indicates the remote host reset an established
	// connection (syscall.ECONNRESET).
	ConnReset
	// ConnClosed indicates the connection was closed before a complete
	// response was read (io.ErrUnexpectedEOF, or io.EOF surfaced by the
	// transport as a request error).
	ConnClosed
)

var categoryNames = []string{
	"Not",
	"Timeout",
	"ConnRefused",
	"ConnReset",
	"ConnClosed",
}

// Name returns the name of the category.
func (cat Category) Name() string {
	if cat < 0 || int(cat) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[cat]
}

// String returns the name of the category.
func (cat Category) String() string {
	return cat.Name()
}

// Categorize returns the transience category of err, examining the
// whole chain of wrapped errors. A Timeout method reporting true takes
// precedence over any errno found deeper in the chain.
//
// Context cancellation is never transient: an operation that was
// cancelled on purpose should not be retried.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var ht hasTimeout
	if errors.As(err, &ht) && ht.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return ConnClosed
	}

	return Not
}

// Is reports whether err is transient, i.e. Categorize(err) != Not.
func Is(err error) bool {
	return Categorize(err) != Not
}

type hasTimeout interface {
	Timeout() bool
}
