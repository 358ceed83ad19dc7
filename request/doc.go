// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the two value types that flow through an
httpop.Operation: Plan, the request descriptor, and Execution, the
operation's observable state.

An operation's BuildRequest hook returns a Plan:

	func (h *myHooks) BuildRequest() (*request.Plan, error) {
		p, err := request.NewPlanWithContext(h.ctx, "GET", h.baseURL+"/items", nil)
		if err != nil {
			return nil, err
		}
		p.SetBearerToken(h.token)
		return p, nil
	}

A Plan looks like a stripped-down client-side http.Request whose body
is pre-buffered.

The Execution is created by the operation when it starts and is handed
to event handlers at each lifecycle event. After the operation is done,
the owner reads the captured status code, headers, body and error from
it.
*/
package request
