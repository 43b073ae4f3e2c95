/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflowtrace

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"chainguard.dev/actionstrace/metrics"
	"chainguard.dev/actionstrace/workflows"
)

// Emitter turns workflow history into spans. One Emitter serves one
// invocation: every span it writes carries the same execution id.
type Emitter struct {
	tracer      trace.Tracer
	executionID string
	src         workflows.Source
	metrics     *metrics.Emission
	now         func() time.Time
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithMetrics records emission metrics on m.
func WithMetrics(m *metrics.Emission) Option {
	return func(e *Emitter) { e.metrics = m }
}

// WithClock sets the clock used for the observed-at stamp on run spans.
func WithClock(now func() time.Time) Option {
	return func(e *Emitter) { e.now = now }
}

// New creates an Emitter writing to tracer and reading jobs and annotations from src.
func New(tracer trace.Tracer, executionID string, src workflows.Source, opts ...Option) *Emitter {
	e := &Emitter{
		tracer:      tracer,
		executionID: executionID,
		src:         src,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = metrics.NewEmission("chainguard.dev/actionstrace")
	}
	return e
}

// ExecutionID returns the id stamped on every span this Emitter writes.
func (e *Emitter) ExecutionID() string {
	return e.executionID
}

// EmittedRun pairs a run with the span written for it.
type EmittedRun struct {
	workflows.Run
	Span  trace.Span
	Start time.Time
}

// EmittedJob pairs a job with its span and the run it belongs to.
type EmittedJob struct {
	workflows.Job
	Parent *EmittedRun
	Span   trace.Span
	Start  time.Time

	// AnnotationErr is set when the job's annotations could not be fetched.
	AnnotationErr error
}

// EmittedStep pairs a step with its span and the job it belongs to.
type EmittedStep struct {
	workflows.Step
	Parent *EmittedJob
	Span   trace.Span
	Start  time.Time
}

// markFailed applies the error status and attributes when, and only when,
// the conclusion is failure.
func markFailed(span trace.Span, conclusion workflows.Conclusion, msg string) {
	if !conclusion.Failed() {
		return
	}
	span.SetStatus(codes.Error, msg)
	span.SetAttributes(KeyError.Bool(true), KeyErrorMessage.String(msg))
}

// endAt closes span at the historical completion time. Spans without one are
// left open and endAt reports false.
func endAt(span trace.Span, completed *time.Time) bool {
	if completed == nil {
		return false
	}
	span.End(trace.WithTimestamp(*completed))
	return true
}

func firstTime(ts ...*time.Time) (time.Time, bool) {
	for _, t := range ts {
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}

func optionalString(attrs []attribute.KeyValue, key attribute.Key, v *string) []attribute.KeyValue {
	if v == nil {
		return attrs
	}
	return append(attrs, key.String(*v))
}
