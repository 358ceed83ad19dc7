// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package tracing records an OpenTelemetry client span for each httpop
// operation and propagates its trace context in the request headers.
package tracing

import (
	"github.com/gogama/httpop"
	"github.com/gogama/httpop/request"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// ScopeName is the instrumentation scope of the tracer.
const ScopeName = "github.com/gogama/httpop/tracing"

type spanKey struct{}

// A Tracer is an event handler which starts a span when an operation
// submits its request and ends it when the operation finishes.
//
// Operations cancelled or failed before submission produce no span.
type Tracer struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// NewTracer creates a Tracer using tp and the text map propagator p.
// A nil tp means the global tracer provider and a nil p the global
// propagator.
func NewTracer(tp trace.TracerProvider, p propagation.TextMapPropagator) *Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if p == nil {
		p = otel.GetTextMapPropagator()
	}
	return &Tracer{
		tracer:     tp.Tracer(ScopeName),
		propagator: p,
	}
}

// W3CPropagator returns the W3C trace context and baggage propagator.
func W3CPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// Install adds the tracer's handlers to g.
func (t *Tracer) Install(g *httpop.HandlerGroup) {
	g.PushBack(httpop.BeforeSubmit, t)
	g.PushBack(httpop.AfterResponse, t)
	g.PushBack(httpop.AfterFinish, t)
}

// Handle starts, annotates or ends the execution's span.
func (t *Tracer) Handle(evt httpop.Event, e *request.Execution) {
	switch evt {
	case httpop.BeforeSubmit:
		t.start(e)
	case httpop.AfterResponse:
		if span := SpanOf(e); span != nil {
			span.SetAttributes(
				semconv.HTTPResponseStatusCode(e.StatusCode()),
				attribute.String("httpop.status_class", e.Class.Name()),
			)
		}
	case httpop.AfterFinish:
		t.end(e)
	}
}

// SpanOf returns the span recorded for e, or nil.
func SpanOf(e *request.Execution) trace.Span {
	span, _ := e.Value(spanKey{}).(trace.Span)
	return span
}

func (t *Tracer) start(e *request.Execution) {
	p := e.Plan
	if p == nil {
		return
	}
	name := p.Method
	if name == "" {
		name = "GET"
	}
	ctx, span := t.tracer.Start(p.Context(), "HTTP "+name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(e.Start),
		trace.WithAttributes(
			semconv.HTTPRequestMethodKey.String(name),
			semconv.URLFull(httpop.RedactURL(p.URL)),
			attribute.String("httpop.op_id", e.ID),
		),
	)
	t.propagator.Inject(ctx, propagation.HeaderCarrier(p.Header))
	e.SetValue(spanKey{}, span)
}

func (t *Tracer) end(e *request.Execution) {
	span := SpanOf(e)
	if span == nil {
		return
	}
	switch {
	case e.Cancelled:
		span.SetAttributes(attribute.Bool("httpop.cancelled", true))
		span.SetStatus(codes.Unset, "cancelled")
	case e.Err != nil:
		span.RecordError(e.Err)
		span.SetAttributes(attribute.String("httpop.error_kind", httpop.KindOf(e.Err).Name()))
		span.SetStatus(codes.Error, e.Err.Error())
	default:
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(e.End))
}
