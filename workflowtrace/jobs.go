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
	"chainguard.dev/actionstrace/workflows"
)

// defaultEventName names annotation events on jobs without a conclusion.
const defaultEventName = "annotation"

// EmitJobs lists the jobs of every emitted run and writes one span per job
// under its run's span. The result is ordered run-major, job-minor, and each
// entry points back at the run it belongs to.
//
// An error listing a run's jobs aborts the pass. Spans written before the
// failure stay written.
func (e *Emitter) EmitJobs(ctx context.Context, repo workflows.Repository, runs []EmittedRun) ([]EmittedJob, error) {
	log := clog.FromContext(ctx)
	log.Infof("Emitting jobs for %d runs", len(runs))

	var out []EmittedJob
	for i := range runs {
		run := &runs[i]
		jobs, err := e.src.Jobs(ctx, repo, run.Run)
		if err != nil {
			return out, fmt.Errorf("listing jobs of run %d: %w", run.ID, err)
		}
		for _, job := range jobs {
			out = append(out, e.emitJob(ctx, repo, run, job))
		}
	}
	return out, nil
}

func (e *Emitter) emitJob(ctx context.Context, repo workflows.Repository, parent *EmittedRun, job workflows.Job) EmittedJob {
	log := clog.FromContext(ctx).With("run_id", parent.ID).With("job_id", job.ID)

	// Queued jobs have not started; they begin at their creation.
	start, ok := firstTime(job.StartedAt, job.CreatedAt)
	if !ok {
		start = parent.Start
	}

	attrs := []attribute.KeyValue{
		KeyRunsOn.String(workflows.NormalizeLabels(job.Labels).Joined()),
		KeyExecutionID.String(e.executionID),
		KeyJobID.Int64(job.ID),
		KeyJobRunID.Int64(job.RunID),
		KeyJobRunAttempt.Int64(job.Attempt()),
	}
	if job.RunnerGroupID != nil {
		attrs = append(attrs, KeyJobRunnerGroupID.Int64(*job.RunnerGroupID))
		attrs = optionalString(attrs, KeyJobRunnerGroupName, job.RunnerGroupName)
	}
	attrs = optionalString(attrs, KeyJobRunnerName, job.RunnerName)
	attrs = appendNanos(attrs, KeyJobStartedAt, job.StartedAt)
	attrs = appendNanos(attrs, KeyJobCompletedAt, job.CompletedAt)
	attrs = appendNanos(attrs, KeyJobCreatedAt, job.CreatedAt)
	if qt, ok := QueueSeconds(job.CreatedAt, job.StartedAt); ok {
		attrs = append(attrs, KeyJobQueueTime.Float64(qt))
		e.metrics.RecordQueueTime(ctx, qt, attribute.String("job", job.Name))
	}

	parentCtx := trace.ContextWithSpan(context.Background(), parent.Span)
	_, span := e.tracer.Start(parentCtx, job.Name,
		trace.WithTimestamp(start),
		trace.WithAttributes(attrs...))

	emitted := EmittedJob{Job: job, Parent: parent, Span: span, Start: start}

	anns, err := FetchAnnotations(ctx, e.src, repo, job.ID)
	if err != nil {
		log.Warnf("Skipping annotations: %v", err)
		e.metrics.RecordAnnotationError(ctx)
		emitted.AnnotationErr = err
	}
	name := string(job.Conclusion)
	if name == "" {
		name = defaultEventName
	}
	for _, a := range anns {
		span.AddEvent(name,
			trace.WithTimestamp(start),
			trace.WithAttributes(
				KeyAnnotationMessage.String(a.Message),
				KeyAnnotationLevel.String(a.Level),
				KeyAnnotationTitle.String(a.Title),
			))
	}
	e.metrics.RecordAnnotations(ctx, len(anns))

	markFailed(span, job.Conclusion, fmt.Sprintf("Job %s failed", job.Name))

	closed := endAt(span, job.CompletedAt)
	e.metrics.RecordSpan(ctx, metrics.KindJob, string(job.Conclusion), !closed)
	if !closed {
		log.With("status", job.Status).Info("Job has not completed, leaving its span open")
	}
	return emitted
}
