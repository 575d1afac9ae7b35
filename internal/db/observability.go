// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/toeirei/usercrud/internal/db"

// Option configures a UserStore at Open time.
type Option func(*UserStore)

// WithTracer traces every store operation with the given tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *UserStore) {
		s.tel.tracer = tracer
	}
}

// WithMeter records operation counts, errors and durations with meter.
func WithMeter(meter metric.Meter) Option {
	return func(s *UserStore) {
		s.tel.initMetrics(meter)
	}
}

// WithDefaultTelemetry uses the global OpenTelemetry tracer and meter
// providers. They are no-ops until the process installs real ones.
func WithDefaultTelemetry() Option {
	return func(s *UserStore) {
		s.tel.tracer = otel.Tracer(instrumentationName)
		s.tel.initMetrics(otel.Meter(instrumentationName))
	}
}

type telemetry struct {
	tracer   trace.Tracer
	ops      metric.Int64Counter
	errs     metric.Int64Counter
	duration metric.Float64Histogram
}

func (t *telemetry) initMetrics(meter metric.Meter) {
	t.ops, _ = meter.Int64Counter("usercrud.db.ops",
		metric.WithDescription("Number of user store operations"),
		metric.WithUnit("{operation}"),
	)
	t.errs, _ = meter.Int64Counter("usercrud.db.errors",
		metric.WithDescription("Number of failed user store operations"),
		metric.WithUnit("{error}"),
	)
	t.duration, _ = meter.Float64Histogram("usercrud.db.duration",
		metric.WithDescription("User store operation duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000),
	)
}

// observe starts a span for op and returns the context to run it under plus
// a function that finishes the span and records metrics.
func (s *UserStore) observe(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	attrs := []attribute.KeyValue{
		attribute.String("db.system", s.dbType),
		attribute.String("db.operation", op),
	}

	var span trace.Span
	if s.tel.tracer != nil {
		ctx, span = s.tel.tracer.Start(ctx, "usercrud."+op,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(attrs...),
		)
	}

	return ctx, func(err error) {
		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			span.End()
		}
		set := metric.WithAttributes(attrs...)
		if s.tel.ops != nil {
			s.tel.ops.Add(ctx, 1, set)
		}
		if s.tel.duration != nil {
			s.tel.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, set)
		}
		if err != nil && s.tel.errs != nil {
			s.tel.errs.Add(ctx, 1, set)
		}
	}
}
