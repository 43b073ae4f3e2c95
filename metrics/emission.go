/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Kind names the level of the trace tree a span belongs to.
type Kind string

const (
	KindRun  Kind = "run"
	KindJob  Kind = "job"
	KindStep Kind = "step"
)

// Emission provides OpenTelemetry metrics for one emission pass.
type Emission struct {
	spans            metric.Int64Counter
	failures         metric.Int64Counter
	openSpans        metric.Int64Counter
	annotations      metric.Int64Counter
	annotationErrors metric.Int64Counter
	queueTime        metric.Float64Histogram
	attrEnricher     AttributeEnricher
}

// Option configures NewEmission.
type Option func(*options)

type options struct {
	provider metric.MeterProvider
}

// WithMeterProvider records through mp instead of the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.provider = mp }
}

// NewEmission creates the emission instruments under meterName.
func NewEmission(meterName string, opts ...Option) *Emission {
	o := options{provider: otel.GetMeterProvider()}
	for _, opt := range opts {
		opt(&o)
	}
	meter := o.provider.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	return &Emission{
		spans: counter(meter, meterName, "actionstrace.spans.emitted",
			"The number of spans emitted", "{spans}"),
		failures: counter(meter, meterName, "actionstrace.spans.failed",
			"The number of emitted spans whose conclusion is failure", "{spans}"),
		openSpans: counter(meter, meterName, "actionstrace.spans.open",
			"The number of spans left open because no completion time was reported", "{spans}"),
		annotations: counter(meter, meterName, "actionstrace.annotations.attached",
			"The number of annotation events attached to job spans", "{annotations}"),
		annotationErrors: counter(meter, meterName, "actionstrace.annotations.errors",
			"The number of jobs whose annotations could not be fetched", "{jobs}"),
		queueTime: histogram(meter, meterName, "actionstrace.job.queue_time",
			"Time between a job being created and starting", "s"),
	}
}

func counter(meter metric.Meter, meterName, name, desc, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		slog.Warn("Failed to create counter, metrics will be disabled", "error", err, "meter", meterName, "instrument", name)
		return noop.Int64Counter{}
	}
	return c
}

func histogram(meter metric.Meter, meterName, name, desc, unit string) metric.Float64Histogram {
	h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		slog.Warn("Failed to create histogram, metrics will be disabled", "error", err, "meter", meterName, "instrument", name)
		return noop.Float64Histogram{}
	}
	return h
}

// SetAttributeEnricher sets the enricher called before every measurement.
func (m *Emission) SetAttributeEnricher(enricher AttributeEnricher) {
	m.attrEnricher = enricher
}

func (m *Emission) attrs(ctx context.Context, base ...attribute.KeyValue) metric.MeasurementOption {
	if m.attrEnricher != nil {
		base = m.attrEnricher(ctx, base)
	}
	return metric.WithAttributes(base...)
}

// RecordSpan counts an emitted span. Failed conclusions are counted a second
// time on the failure counter, and open spans on the open counter.
func (m *Emission) RecordSpan(ctx context.Context, kind Kind, conclusion string, open bool) {
	opt := m.attrs(ctx,
		attribute.String("kind", string(kind)),
		attribute.String("conclusion", conclusion))
	m.spans.Add(ctx, 1, opt)
	if conclusion == "failure" {
		m.failures.Add(ctx, 1, opt)
	}
	if open {
		m.openSpans.Add(ctx, 1, opt)
	}
}

// RecordAnnotations counts the annotation events attached to one job span.
func (m *Emission) RecordAnnotations(ctx context.Context, n int) {
	if n == 0 {
		return
	}
	m.annotations.Add(ctx, int64(n), m.attrs(ctx))
}

// RecordAnnotationError counts a job whose annotations could not be fetched.
func (m *Emission) RecordAnnotationError(ctx context.Context) {
	m.annotationErrors.Add(ctx, 1, m.attrs(ctx))
}

// RecordQueueTime records a job's queue delay in seconds.
func (m *Emission) RecordQueueTime(ctx context.Context, seconds float64, attrs ...attribute.KeyValue) {
	m.queueTime.Record(ctx, seconds, m.attrs(ctx, attrs...))
}
