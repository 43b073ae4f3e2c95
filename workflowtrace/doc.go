/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package workflowtrace re-emits GitHub Actions workflow history as OpenTelemetry
traces that keep the original timing.

# Overview

Every run becomes a root span, every job a child of its run's span, and every
step a child of its job's span:

	ci (run 42)
	├── build (job)
	│   ├── Set up job (step)
	│   └── Run tests (step)
	└── lint (job)

Spans are opened at the recorded start time and ended at the recorded
completion time, so a run that took half an hour last week shows up as a
half-hour span last week. Work that has not completed keeps its span open.

A run, job or step whose conclusion is "failure" gets an error status and the
attributes error=true and error.message. Annotations on a job's check run are
attached to the job span as events. A job whose annotations cannot be fetched
is still emitted, just without events.

Each emitted record keeps a pointer to the record it was emitted under, so
EmittedJob.Parent is the run and EmittedStep.Parent is the job.

# Usage

	emitter := workflowtrace.New(tracer, executionID, src)
	summary, err := workflowtrace.NewOrchestrator(emitter).Run(ctx, workflowtrace.Request{
		Owner:    "chainguard-dev",
		Repo:     "driftlessaf",
		Workflow: "CI",
	})
*/
package workflowtrace
