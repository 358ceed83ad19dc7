// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvents(t *testing.T) {
	assert.Len(t, eventNames, numEvents)
	assert.Len(t, Events(), numEvents)
	for i, evt := range Events() {
		assert.Equal(t, Event(i), evt)
	}
}

func TestEvent_Name(t *testing.T) {
	assert.Equal(t, "BeforeStart", BeforeStart.Name())
	assert.Equal(t, "BeforeSubmit", BeforeSubmit.Name())
	assert.Equal(t, "AfterResponse", AfterResponse.Name())
	assert.Equal(t, "BeforeProcessBody", BeforeProcessBody.Name())
	assert.Equal(t, "AfterFinish", AfterFinish.String())
}
