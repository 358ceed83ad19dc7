// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package racing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlwaysStart(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.True(t, AlwaysStart.Start(&Race{Racing: i}))
	}
}

func TestNewThrottleStarter(t *testing.T) {
	t.Run("no limits", func(t *testing.T) {
		st := newThrottleStarter(t)
		assert.Empty(t, st.limiters)
		for i := 0; i < 20; i++ {
			assert.True(t, st.Start(&Race{Racing: i}))
		}
	})
	t.Run("zero period", func(t *testing.T) {
		st := newThrottleStarter(t, Limit{MaxRacers: 1})
		for i := 0; i < 20; i++ {
			assert.True(t, st.Start(&Race{}))
		}
	})
	t.Run("zero racers", func(t *testing.T) {
		st := newThrottleStarter(t, Limit{Period: time.Millisecond})
		assert.False(t, st.Start(&Race{}))
		time.Sleep(5 * time.Millisecond)
		assert.False(t, st.Start(&Race{}))
	})
	t.Run("one limit", func(t *testing.T) {
		t.Parallel()
		st := newThrottleStarter(t, Limit{Period: 100 * time.Millisecond, MaxRacers: 2})
		assert.True(t, st.Start(&Race{}))
		assert.True(t, st.Start(&Race{}))
		assert.False(t, st.Start(&Race{}))
		time.Sleep(105 * time.Millisecond)
		assert.True(t, st.Start(&Race{}))
		assert.True(t, st.Start(&Race{}))
		assert.False(t, st.Start(&Race{}))
	})
	t.Run("two limits", func(t *testing.T) {
		t.Parallel()
		st := newThrottleStarter(t,
			Limit{Period: 25 * time.Millisecond, MaxRacers: 1},
			Limit{Period: 50 * time.Millisecond, MaxRacers: 2})
		assert.True(t, st.Start(&Race{}))
		assert.False(t, st.Start(&Race{}))
		time.Sleep(30 * time.Millisecond)
		assert.True(t, st.Start(&Race{}))
		assert.False(t, st.Start(&Race{}))
		time.Sleep(30 * time.Millisecond)
		assert.True(t, st.Start(&Race{}))
		assert.False(t, st.Start(&Race{}))
	})
	t.Run("refusal takes no tokens", func(t *testing.T) {
		st := newThrottleStarter(t,
			Limit{Period: time.Hour, MaxRacers: 2},
			Limit{Period: time.Hour, MaxRacers: 1})
		assert.True(t, st.Start(&Race{}))
		assert.False(t, st.Start(&Race{}))
		assert.False(t, st.Start(&Race{}))
		assert.InDelta(t, 1.0, st.limiters[0].Tokens(), 0.01)
	})
}

func newThrottleStarter(t *testing.T, limits ...Limit) *throttleStarter {
	st := NewThrottleStarter(limits...)
	require.IsType(t, &throttleStarter{}, st)
	return st.(*throttleStarter)
}
