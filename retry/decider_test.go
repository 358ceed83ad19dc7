// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"errors"
	"fmt"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/httpop"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDecider(t *testing.T) {
	t.Run("Retryable status codes", func(t *testing.T) {
		codes := []int{429, 502, 503, 504}
		for i, code := range codes {
			a := Attempt{StatusCode: code}
			t.Run(fmt.Sprintf("codes[%d]=%d", i, code), func(t *testing.T) {
				for j := 0; j < DefaultTimes; j++ {
					a.Index = j
					assert.True(t, DefaultDecider(&a), fmt.Sprintf("Expect true for attempt %d", j))
				}
				a.Index = DefaultTimes
				assert.False(t, DefaultDecider(&a), fmt.Sprintf("Expect false for attempt %d", a.Index))
			})
		}
	})
	t.Run("Non-retryable status codes", func(t *testing.T) {
		codes := []int{400, 401, 402, 403, 404, 500}
		for i, code := range codes {
			a := Attempt{StatusCode: code}
			t.Run(fmt.Sprintf("codes[%d]=%d", i, code), func(t *testing.T) {
				a.Index = 0
				assert.False(t, DefaultDecider(&a), "Expect false for attempt 0")
				a.Index = 4
				assert.False(t, DefaultDecider(&a), "Expect false for attempt 4")
			})
		}
	})
	t.Run("Transient errors", func(t *testing.T) {
		for i, te := range transientErrs {
			a := Attempt{Err: te}
			t.Run(fmt.Sprintf("transientErrs[%d]=%v", i, te), func(t *testing.T) {
				for j := 0; j < DefaultTimes; j++ {
					a.Index = j
					assert.True(t, DefaultDecider(&a), fmt.Sprintf("Expect true for attempt %d", j))
				}
				a.Index = DefaultTimes
				assert.False(t, DefaultDecider(&a), fmt.Sprintf("Expect false for attempt %d", a.Index))
			})
		}
	})
	t.Run("Non-transient errors", func(t *testing.T) {
		for i, nte := range nonTransientErrs {
			a := Attempt{Err: nte}
			t.Run(fmt.Sprintf("nonTransientErrs[%d]=%v", i, nte), func(t *testing.T) {
				a.Index = 0
				assert.False(t, DefaultDecider(&a), "Expect false for attempt 0")
				a.Index = 4
				assert.False(t, DefaultDecider(&a), "Expect false for attempt 4")
			})
		}
	})
}

func TestTransientErr(t *testing.T) {
	a := Attempt{}
	for i, te := range transientErrs {
		t.Run(fmt.Sprintf("transientErrs[%d]=%v", i, te), func(t *testing.T) {
			a.Err = te
			assert.True(t, transientErr(&a))
			a.Err = &httpop.ClassifiedError{Kind: httpop.TransportError, Err: &url.Error{Err: te}}
			assert.True(t, transientErr(&a))
		})
	}
	for j, nte := range nonTransientErrs {
		t.Run(fmt.Sprintf("nonTransientErrs[%d]=%v", j, nte), func(t *testing.T) {
			a.Err = nte
			assert.False(t, transientErr(&a))
			a.Err = &url.Error{Err: nte}
			assert.False(t, transientErr(&a))
		})
	}
}

func TestDeciderAnd(t *testing.T) {
	true_ := DeciderFunc(func(_ *Attempt) bool { return true })
	false_ := DeciderFunc(func(_ *Attempt) bool { return false })
	tt := true_.And(true_)
	tf := true_.And(false_)
	ft := false_.And(true_)
	ff := false_.And(false_)
	assert.True(t, tt(&Attempt{}))
	assert.False(t, tf(&Attempt{}))
	assert.False(t, ft(&Attempt{}))
	assert.False(t, ff(&Attempt{}))
}

func TestDeciderOr(t *testing.T) {
	true_ := DeciderFunc(func(_ *Attempt) bool { return true })
	false_ := DeciderFunc(func(_ *Attempt) bool { return false })
	tt := true_.Or(true_)
	tf := true_.Or(false_)
	ft := false_.Or(true_)
	ff := false_.Or(false_)
	assert.True(t, tt(&Attempt{}))
	assert.True(t, tf(&Attempt{}))
	assert.True(t, ft(&Attempt{}))
	assert.False(t, ff(&Attempt{}))
}

func TestTimes(t *testing.T) {
	zero := Times(0)
	assert.False(t, zero(&Attempt{}))
	one := Times(1)
	assert.True(t, one(&Attempt{}))
	assert.False(t, one(&Attempt{Index: 1}))
	two := Times(2)
	assert.True(t, two(&Attempt{Index: 1}))
	assert.False(t, two(&Attempt{Index: 2}))
}

func TestBefore(t *testing.T) {
	start := time.Now()
	a := Attempt{Start: start, End: start.Add(time.Second), Index: 20}
	before := Before(time.Minute)
	assert.True(t, before(&a))
	a.End = start.Add(2 * time.Minute)
	assert.False(t, before(&a))
}

func TestStatusCode(t *testing.T) {
	empty := StatusCode()
	assert.False(t, empty(&Attempt{}))
	one := StatusCode(602)
	assert.False(t, one(&Attempt{}))
	a := Attempt{StatusCode: 200}
	assert.False(t, empty(&a))
	assert.False(t, one(&a))
	a.StatusCode = 602
	assert.True(t, one(&a))
	two := StatusCode(509, 602)
	assert.True(t, two(&a))
	a.StatusCode = 509
	assert.True(t, two(&a))
	a.StatusCode = 508
	assert.False(t, two(&a))
}

func TestKind(t *testing.T) {
	none := Kind()
	assert.False(t, none(&Attempt{Err: &httpop.ClassifiedError{Kind: httpop.ServerError}}))
	k := Kind(httpop.ServerError, httpop.TransportError)
	assert.True(t, k(&Attempt{Err: &httpop.ClassifiedError{Kind: httpop.ServerError, StatusCode: 500}}))
	assert.True(t, k(&Attempt{Err: fmt.Errorf("wrapped: %w", &httpop.ClassifiedError{Kind: httpop.TransportError})}))
	assert.False(t, k(&Attempt{Err: &httpop.ClassifiedError{Kind: httpop.ClientError, StatusCode: 404}}))
	assert.False(t, k(&Attempt{Err: errors.New("plain")}))
	assert.False(t, k(&Attempt{}))
}

var (
	transientErrs = []error{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.ETIMEDOUT,
	}
	nonTransientErrs = []error{
		nil,
		errors.New("ain't transient"),
		syscall.EHOSTUNREACH,
		syscall.ENETDOWN,
	}
)
