/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflowtrace

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"chainguard.dev/actionstrace/metrics"
)

// EmitSteps writes one span per step under its job's span, ordered job-major,
// step-minor.
func (e *Emitter) EmitSteps(ctx context.Context, jobs []EmittedJob) []EmittedStep {
	clog.FromContext(ctx).Infof("Emitting steps for %d jobs", len(jobs))

	var out []EmittedStep
	for i := range jobs {
		job := &jobs[i]
		parentCtx := trace.ContextWithSpan(context.Background(), job.Span)
		for _, step := range job.Steps {
			start, ok := firstTime(step.StartedAt, step.CompletedAt)
			if !ok {
				start = job.Start
			}

			attrs := []attribute.KeyValue{
				KeyExecutionID.String(e.executionID),
				KeyStepName.String(step.Name),
				KeyStepNumber.Int64(step.Number),
			}
			attrs = appendNanos(attrs, KeyStepStartedAt, step.StartedAt)
			attrs = appendNanos(attrs, KeyStepCompletedAt, step.CompletedAt)

			_, span := e.tracer.Start(parentCtx, step.Name,
				trace.WithTimestamp(start),
				trace.WithAttributes(attrs...))

			markFailed(span, step.Conclusion, fmt.Sprintf("Step %s failed", step.Name))

			closed := endAt(span, step.CompletedAt)
			e.metrics.RecordSpan(ctx, metrics.KindStep, string(step.Conclusion), !closed)

			out = append(out, EmittedStep{Step: step, Parent: job, Span: span, Start: start})
		}
	}
	return out
}
