// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gogama/httpop"
	"github.com/gogama/httpop/internal/config"
	"github.com/gogama/httpop/queue"
	"github.com/gogama/httpop/racing"
	"github.com/gogama/httpop/retry"
	"github.com/gogama/httpop/timeout"
)

type request struct {
	method      string
	urls        []string
	body        []byte
	contentType string
}

func run(ctx context.Context, opts *options, stdout, stderr io.Writer, r request) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, opts); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(stderr, cfg.Log, opts.debug, opts.noColor)
	if err != nil {
		return err
	}
	header, err := buildHeader(cfg.Header, opts.headers)
	if err != nil {
		return err
	}
	var body interface{}
	if r.body != nil {
		body = r.body
		if r.contentType != "" && header.Get("Content-Type") == "" {
			header.Set("Content-Type", r.contentType)
		}
	}

	handlers := &httpop.HandlerGroup{}
	obs, err := newObservers(cfg, stderr, handlers)
	if err != nil {
		return err
	}

	transport := &httpop.DoerTransport{
		TimeoutPolicy: timeoutPolicy(cfg.Timeout),
		UserAgent:     cfg.UserAgent,
		Logger:        logger,
	}
	q := queue.New(queue.Config{
		MaxConcurrent:     cfg.Queue.MaxConcurrent,
		RequestsPerSecond: cfg.Queue.RequestsPerSecond,
		Burst:             cfg.Queue.Burst,
		Logger:            logger,
	})
	strat := newStrategy(cfg)

	jobs := make([]*job, len(r.urls))
	for i, u := range r.urls {
		newOp := func() *httpop.Operation {
			return &httpop.Operation{
				Hooks: &httpop.RequestHooks{
					Method: r.method,
					URL:    u,
					Header: header.Clone(),
					Body:   body,
				},
				Transport: transport,
				Handlers:  handlers,
				Logger:    logger,
			}
		}
		jobs[i] = newJob(u, newOp, strat)
		q.Add(jobs[i])
	}

	if err := q.Wait(ctx); err != nil {
		logger.Info("interrupted, cancelling requests", "error", err.Error())
		q.CancelAll()
		_ = q.Wait(context.Background())
	}

	failed := report(stdout, r.method, jobs, opts.showBody)
	if err := obs.close(context.Background(), stderr); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d requests did not succeed", failed, len(jobs))
	}
	return nil
}

func applyFlags(cfg *config.Config, opts *options) error {
	if opts.timeout != "" {
		d, err := time.ParseDuration(opts.timeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if opts.hedge != "" {
		d, err := time.ParseDuration(opts.hedge)
		if err != nil {
			return fmt.Errorf("invalid --hedge: %w", err)
		}
		cfg.Hedge.Delay = d
	}
	if opts.concurrency > 0 {
		cfg.Queue.MaxConcurrent = opts.concurrency
	}
	if opts.retries >= 0 {
		cfg.Retry.Attempts = opts.retries
	}
	return nil
}

func buildHeader(base map[string]string, lines []string) (http.Header, error) {
	h := make(http.Header)
	for k, v := range base {
		h.Set(k, v)
	}
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, want 'Name: value'", line)
		}
		h.Set(name, strings.TrimSpace(value))
	}
	return h, nil
}

func timeoutPolicy(d time.Duration) timeout.Policy {
	if d <= 0 {
		return timeout.Infinite
	}
	return timeout.Fixed(d)
}

func newStrategy(cfg *config.Config) strategy {
	switch {
	case cfg.Retry.Attempts > 0:
		var w retry.Waiter = retry.NewFixedWaiter(0)
		if cfg.Retry.Wait > 0 {
			w = retry.NewExpWaiter(cfg.Retry.Wait, 32*cfg.Retry.Wait, time.Now())
		}
		d := retry.Times(cfg.Retry.Attempts).And(retry.StatusCode(429, 502, 503, 504).Or(retry.TransientErr))
		p := retry.NewPolicy(d, retry.NewRetryAfterWaiter(w, 30*time.Second))
		return func(ctx context.Context, newOp func() *httpop.Operation) (*httpop.Operation, error) {
			return retry.Do(ctx, p, newOp)
		}
	case cfg.Hedge.Delay > 0:
		offsets := make([]time.Duration, cfg.Hedge.MaxRacers-1)
		for i := range offsets {
			offsets[i] = cfg.Hedge.Delay
		}
		p := racing.NewPolicy(racing.NewStaticScheduler(offsets...), racing.AlwaysStart)
		return func(ctx context.Context, newOp func() *httpop.Operation) (*httpop.Operation, error) {
			return racing.Run(ctx, p, newOp)
		}
	default:
		return func(ctx context.Context, newOp func() *httpop.Operation) (*httpop.Operation, error) {
			op := newOp()
			_, err := httpop.Run(ctx, op)
			return op, err
		}
	}
}

// report prints one line per job and returns how many did not succeed.
func report(w io.Writer, method string, jobs []*job, showBody bool) int {
	failed := 0
	for _, j := range jobs {
		op, err := j.result()
		if op == nil {
			failed++
			fmt.Fprintf(w, "%s %s - %s\n", method, j.url, httpop.Cancelled)
			continue
		}

		e := op.Execution()
		status := "-"
		if code := op.StatusCode(); code != 0 {
			status = fmt.Sprint(code)
		}
		fmt.Fprintf(w, "%s %s %s %s %s\n", method, j.url, status, op.State(), e.Duration().Round(time.Millisecond))
		if err != nil {
			failed++
			fmt.Fprintf(w, "  error: %v\n", err)
		}
		if showBody && len(e.Body) > 0 {
			_, _ = w.Write(e.Body)
			if e.Body[len(e.Body)-1] != '\n' {
				fmt.Fprintln(w)
			}
		}
	}
	return failed
}
