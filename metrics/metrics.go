// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics records Prometheus metrics for httpop operations.
//
// Install a Collector in an operation's handler group:
//
//	c := metrics.NewCollector(prometheus.DefaultRegisterer)
//	handlers := &httpop.HandlerGroup{}
//	c.Install(handlers)
package metrics

import (
	"strconv"

	"github.com/gogama/httpop"
	"github.com/gogama/httpop/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

type inFlightKey struct{}

// A Collector records operation metrics. It is safe for concurrent use
// and may be installed in any number of handler groups.
type Collector struct {
	operationsTotal    *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	operationsInFlight *prometheus.GaugeVec
	responsesTotal     *prometheus.CounterVec
}

// NewCollector creates a collector whose metrics are registered with
// reg. It panics if registration fails, for example because another
// collector was already registered with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	return &Collector{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "httpop_operations_total",
				Help: "Total number of finished operations",
			},
			[]string{"method", "outcome", "kind"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "httpop_operation_duration_seconds",
				Help:    "Duration of operations from start to terminal state in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "outcome"},
		),
		operationsInFlight: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "httpop_operations_in_flight",
				Help: "Number of operations started but not yet finished",
			},
			[]string{"method"},
		),
		responsesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "httpop_responses_total",
				Help: "Total number of responses received, by status code and class",
			},
			[]string{"method", "status_code", "class"},
		),
	}
}

// Install adds the collector's handlers to g.
func (c *Collector) Install(g *httpop.HandlerGroup) {
	g.PushBack(httpop.BeforeSubmit, c)
	g.PushBack(httpop.AfterResponse, c)
	g.PushBack(httpop.AfterFinish, c)
}

// Handle records metrics for evt.
func (c *Collector) Handle(evt httpop.Event, e *request.Execution) {
	if c == nil {
		return
	}

	switch evt {
	case httpop.BeforeSubmit:
		m := method(e)
		c.operationsInFlight.WithLabelValues(m).Inc()
		e.SetValue(inFlightKey{}, m)
	case httpop.AfterResponse:
		c.responsesTotal.WithLabelValues(method(e), strconv.Itoa(e.StatusCode()), e.Class.Name()).Inc()
	case httpop.AfterFinish:
		if m, ok := e.Value(inFlightKey{}).(string); ok {
			c.operationsInFlight.WithLabelValues(m).Dec()
		}
		m, o := method(e), Outcome(e)
		kind := ""
		if e.Err != nil {
			kind = httpop.KindOf(e.Err).Name()
		}
		c.operationsTotal.WithLabelValues(m, o, kind).Inc()
		c.operationDuration.WithLabelValues(m, o).Observe(e.Duration().Seconds())
	}
}

// Outcome returns the outcome label value for a finished execution.
func Outcome(e *request.Execution) string {
	switch {
	case e.Cancelled:
		return OutcomeCancelled
	case e.Err != nil:
		return OutcomeFailed
	default:
		return OutcomeSucceeded
	}
}

func method(e *request.Execution) string {
	if e.Plan == nil || e.Plan.Method == "" {
		return "NONE"
	}
	return e.Plan.Method
}
