/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflowtrace

import (
	"context"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"chainguard.dev/actionstrace/metrics"
	"chainguard.dev/actionstrace/workflows"
)

// EmitRuns writes one root span per run, in the order given. Each span starts
// at the run's start time and ends at its completion time; runs that are not
// completed stay open.
func (e *Emitter) EmitRuns(ctx context.Context, wf workflows.Workflow, runs []workflows.Run) []EmittedRun {
	log := clog.FromContext(ctx).With("workflow", wf.Name)
	log.Infof("Emitting %d runs", len(runs))

	out := make([]EmittedRun, 0, len(runs))
	for _, run := range runs {
		observed := e.now()
		completed := run.CompletedAt()

		start, ok := firstTime(run.RunStartedAt, completed)
		if !ok {
			start = observed
		}

		attrs := []attribute.KeyValue{
			KeyExecutionID.String(e.executionID),
			KeyWorkflowID.Int64(run.WorkflowID),
			KeyRunID.Int64(run.ID),
			KeyRunNumber.Int(run.RunNumber),
			KeyRunAttempt.Int(run.Attempt()),
			KeyRunHTMLURL.String(run.HTMLURL),
			KeyRunEvent.String(run.Event),
			KeyRunName.String(run.Name),
		}
		attrs = appendNanos(attrs, KeyRunStartedAt, run.RunStartedAt)
		attrs = appendNanos(attrs, KeyRunUpdatedAt, completed)
		attrs = append(attrs, KeyRunObservedAt.String(observed.Format(time.RFC3339Nano)))
		if run.Conclusion != "" {
			attrs = append(attrs, KeyRunConclusion.String(string(run.Conclusion)))
		}

		_, span := e.tracer.Start(ctx, run.DisplayName(),
			trace.WithNewRoot(),
			trace.WithTimestamp(start),
			trace.WithAttributes(attrs...))

		markFailed(span, run.Conclusion, fmt.Sprintf("Run %d failed", run.RunNumber))

		closed := endAt(span, completed)
		e.metrics.RecordSpan(ctx, metrics.KindRun, string(run.Conclusion), !closed)
		if !closed {
			log.With("run_id", run.ID).With("status", run.Status).Info("Run has not completed, leaving its span open")
		}

		out = append(out, EmittedRun{Run: run, Span: span, Start: start})
	}
	return out
}
