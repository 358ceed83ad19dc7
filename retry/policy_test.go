// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	t.Run("Decider", func(t *testing.T) {
		s := []int{429, 502, 503, 504}
		for i := 0; i < DefaultTimes; i++ {
			assert.True(t, DefaultPolicy.Decide(&Attempt{
				Index:      i,
				StatusCode: s[i%len(s)],
			}))
			assert.True(t, DefaultPolicy.Decide(&Attempt{
				Index: i,
				Err:   syscall.ECONNRESET,
			}))
		}
		assert.False(t, DefaultPolicy.Decide(&Attempt{
			Index: DefaultTimes,
			Err:   syscall.ETIMEDOUT,
		}))
	})
	t.Run("Waiter", func(t *testing.T) {
		m := []int{50, 100, 200, 400, 800, 1000}
		total := time.Duration(0)
		for i, max := range m {
			w := DefaultPolicy.Wait(&Attempt{Index: i})
			total += w
			assert.GreaterOrEqual(t, w, time.Duration(0))
			assert.LessOrEqual(t, w, time.Duration(max)*time.Millisecond)
		}
		assert.Greater(t, total, time.Duration(0))
	})
}

func TestNever(t *testing.T) {
	assert.False(t, Never.Decide(&Attempt{}))
	assert.False(t, Never.Decide(&Attempt{StatusCode: 503}))
}

func TestNewPolicy(t *testing.T) {
	p := &testPolicy{}
	t.Run("Bad Args", func(t *testing.T) {
		assert.PanicsWithValue(t, "httpop/retry: nil decider", func() { NewPolicy(nil, p) })
		assert.PanicsWithValue(t, "httpop/retry: nil waiter", func() { NewPolicy(p, nil) })
	})
	t.Run("Normal", func(t *testing.T) {
		P := NewPolicy(p, p)
		assert.True(t, P.Decide(&Attempt{}))
		assert.Equal(t, 1, p.d)
		assert.Equal(t, time.Second, P.Wait(&Attempt{}))
		assert.Equal(t, 1, p.w)
	})
}

type testPolicy struct {
	d int
	w int
}

func (p *testPolicy) Decide(_ *Attempt) bool {
	p.d++
	return true
}

func (p *testPolicy) Wait(_ *Attempt) time.Duration {
	p.w++
	return time.Second
}
