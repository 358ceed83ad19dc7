// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gogama/httpop"
	"github.com/gogama/httpop/internal/config"
	"github.com/gogama/httpop/metrics"
	"github.com/gogama/httpop/tracing"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newLogger(w io.Writer, c config.LogConfig, debug, noColor bool) (*slog.Logger, error) {
	level, err := config.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}

	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	})), nil
}

// observers installs the configured metrics and tracing handlers.
type observers struct {
	registry *prometheus.Registry
	tp       *sdktrace.TracerProvider
}

func newObservers(cfg *config.Config, w io.Writer, handlers *httpop.HandlerGroup) (*observers, error) {
	o := &observers{}

	if cfg.Metrics {
		o.registry = prometheus.NewRegistry()
		metrics.NewCollector(o.registry).Install(handlers)
	}

	if cfg.Trace {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		o.tp = sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		tracing.NewTracer(o.tp, tracing.W3CPropagator()).Install(handlers)
	}

	return o, nil
}

// close flushes spans and writes gathered metrics to w.
func (o *observers) close(ctx context.Context, w io.Writer) error {
	if o.tp != nil {
		if err := o.tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down tracer provider: %w", err)
		}
	}

	if o.registry != nil {
		families, err := o.registry.Gather()
		if err != nil {
			return fmt.Errorf("failed to gather metrics: %w", err)
		}
		for _, mf := range families {
			if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
				return fmt.Errorf("failed to write metrics: %w", err)
			}
		}
	}

	return nil
}
