// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpop issues single HTTP requests as cancellable, asynchronous
operations with a fixed lifecycle and a small, typed error taxonomy.

An Operation is configured with a Hooks value that knows how to build
the request and how to interpret the response. Embed NopHooks to pick
up the default behavior and override only what the API needs:

	type getWidget struct {
		httpop.NopHooks
		id     string
		widget Widget
	}

	func (g *getWidget) BuildRequest() (*request.Plan, error) {
		return request.NewPlan("GET", "https://api.example.com/widgets/"+g.id, nil)
	}

	func (g *getWidget) ProcessBody(body []byte) error {
		return json.Unmarshal(body, &g.widget)
	}

Start the operation and wait for it, or cancel it at any time from any
goroutine:

	op := httpop.New(&getWidget{id: "42"})
	if err := op.Start(); err != nil {
		...
	}
	go func() {
		<-shutdown
		op.Cancel()
	}()
	err := op.Wait(ctx)

Response statuses are classified before any hook sees them: 200-399
go to OnResponseHeaders, 400-499 to OnClientError, 500-599 to
OnServiceError, and anything else is ignored. By default the error
hooks fail the operation with a ClassifiedError, so callers can branch
on the failure kind and status code:

	var ce *httpop.ClassifiedError
	if errors.As(err, &ce) && ce.Kind == httpop.ClientError && ce.StatusCode == 404 {
		...
	}

For simple cases, RequestHooks and JSONHooks build the request from
fields, and Get, Head, and Post run an operation synchronously.

Requests are issued by a Transport. The default, DoerTransport, runs
each request on its own goroutine using an HTTPDoer such as an
*http.Client, with a per-request timeout from package timeout:

	op := &httpop.Operation{
		Hooks: hooks,
		Transport: &httpop.DoerTransport{
			HTTPDoer:      &http.Client{...},
			TimeoutPolicy: timeout.Fixed(10 * time.Second),
		},
	}

To observe the lifecycle, install a handler into the appropriate
handler chain. Packages metrics and tracing provide ready-made
handlers.

	handlers := &httpop.HandlerGroup{}
	handlers.PushBack(httpop.AfterFinish, httpop.HandlerFunc(
		func(_ httpop.Event, e *request.Execution) {
			log.Printf("%s %s took %s", e.Plan.Method, e.Plan.URL, e.Duration())
		}),
	)

Operations never retry. To retry, create a fresh operation per attempt
using package retry, and to run many operations with bounded
concurrency use package queue.
*/
package httpop
