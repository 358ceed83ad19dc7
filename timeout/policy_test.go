// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"testing"
	"time"

	"github.com/gogama/httpop/request"
	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	assert.Equal(t, 30*time.Second, DefaultPolicy.Timeout(&request.Plan{}))
	assert.Equal(t, 30*time.Second, DefaultPolicy.Timeout(&request.Plan{Method: "POST"}))
}

func TestInfinite(t *testing.T) {
	assert.Equal(t, time.Duration(0), Infinite.Timeout(&request.Plan{}))
	assert.Equal(t, time.Duration(0), Infinite.Timeout(&request.Plan{Method: "POST"}))
}

func TestFixed(t *testing.T) {
	for _, d := range []time.Duration{0, time.Millisecond, time.Hour} {
		assert.Equal(t, d, Fixed(d).Timeout(&request.Plan{Method: "GET"}))
	}
}

func TestPolicyFunc(t *testing.T) {
	var got *request.Plan
	f := PolicyFunc(func(p *request.Plan) time.Duration {
		got = p
		return 7 * time.Second
	})
	p := &request.Plan{}
	assert.Equal(t, 7*time.Second, f.Timeout(p))
	assert.Same(t, p, got)
}

func TestByMethod(t *testing.T) {
	p := ByMethod(time.Second, map[string]time.Duration{
		"post": time.Minute,
		"PUT":  2 * time.Minute,
	})
	assert.Equal(t, time.Second, p.Timeout(&request.Plan{Method: "GET"}))
	assert.Equal(t, time.Minute, p.Timeout(&request.Plan{Method: "POST"}))
	assert.Equal(t, 2*time.Minute, p.Timeout(&request.Plan{Method: "put"}))
}
