// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package status

// A Class identifies the handling path for an HTTP response status code.
type Class int

const (
	// Ignored identifies status codes outside the range 200-599, for
	// example informational 1XX codes. No response hook is invoked for
	// an ignored status and processing continues as if the response
	// headers were accepted.
	Ignored Class = iota
	// Processable identifies the success range 200-299 and the redirect
	// range 300-399.
	Processable
	// ClientError identifies the range 400-499.
	ClientError
	// ServiceError identifies the range 500-599.
	ServiceError
	// classSentinel provides the total number of classes typed as a
	// Class.
	classSentinel

	numClasses = int(classSentinel)
)

var classNames = []string{
	"Ignored",
	"Processable",
	"ClientError",
	"ServiceError",
}

// Classes returns a slice containing all status classes.
func Classes() []Class {
	return []Class{
		Ignored,
		Processable,
		ClientError,
		ServiceError,
	}
}

// Classify returns the class of the given HTTP status code.
func Classify(code int) Class {
	switch {
	case code >= 200 && code <= 399:
		return Processable
	case code >= 400 && code <= 499:
		return ClientError
	case code >= 500 && code <= 599:
		return ServiceError
	default:
		return Ignored
	}
}

// IsRedirect reports whether code is in the redirect range 300-399.
//
// Redirect codes classify as Processable; IsRedirect lets hooks which
// care about the distinction detect an unfollowed redirect.
func IsRedirect(code int) bool {
	return code >= 300 && code <= 399
}

// Name returns the name of the class.
func (c Class) Name() string {
	if c < 0 || int(c) >= numClasses {
		return "Unknown"
	}
	return classNames[int(c)]
}

// String returns the name of the class.
func (c Class) String() string {
	return c.Name()
}
