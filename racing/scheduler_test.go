// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package racing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewStaticScheduler(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		sc := NewStaticScheduler()
		assert.Equal(t, time.Duration(0), sc.Schedule(&Race{}))
		assert.Equal(t, time.Duration(0), sc.Schedule(&Race{Racing: 1000}))
	})
	t.Run("Offset=Zero", func(t *testing.T) {
		sc := NewStaticScheduler(0)
		assert.Equal(t, time.Duration(0), sc.Schedule(&Race{}))
		assert.Equal(t, time.Duration(0), sc.Schedule(&Race{Racing: 1000}))
	})
	t.Run("Size=1", func(t *testing.T) {
		sc := NewStaticScheduler(time.Hour)
		assert.Equal(t, time.Duration(0), sc.Schedule(&Race{Racing: 0}))
		assert.Equal(t, time.Hour, sc.Schedule(&Race{Racing: 1}))
		assert.Equal(t, time.Duration(0), sc.Schedule(&Race{Racing: 2}))
	})
	t.Run("Size=2", func(t *testing.T) {
		sc := NewStaticScheduler(time.Millisecond, time.Second)
		assert.Equal(t, time.Duration(0), sc.Schedule(&Race{Racing: 0}))
		assert.Equal(t, time.Millisecond, sc.Schedule(&Race{Racing: 1}))
		assert.Equal(t, time.Second, sc.Schedule(&Race{Racing: 2}))
		assert.Equal(t, time.Duration(0), sc.Schedule(&Race{Racing: 1000}))
	})
}
