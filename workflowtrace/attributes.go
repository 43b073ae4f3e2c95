/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflowtrace

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys set on emitted spans. Timestamps are nanoseconds since the
// Unix epoch.
const (
	KeyExecutionID = attribute.Key("execution.id")

	KeyWorkflowID    = attribute.Key("workflow.id")
	KeyRunID         = attribute.Key("run.id")
	KeyRunNumber     = attribute.Key("run.run_number")
	KeyRunAttempt    = attribute.Key("run.run_attempt")
	KeyRunHTMLURL    = attribute.Key("run.html_url")
	KeyRunEvent      = attribute.Key("run.event")
	KeyRunName       = attribute.Key("run.name")
	KeyRunStartedAt  = attribute.Key("run.run_started_at")
	KeyRunUpdatedAt  = attribute.Key("run.updated_at")
	KeyRunObservedAt = attribute.Key("run.observed_at")
	KeyRunConclusion = attribute.Key("run.conclusion")

	KeyRunsOn             = attribute.Key("runs_on")
	KeyJobID              = attribute.Key("job.id")
	KeyJobRunID           = attribute.Key("job.run_id")
	KeyJobRunAttempt      = attribute.Key("job.run_attempt")
	KeyJobRunnerGroupID   = attribute.Key("job.runner_group_id")
	KeyJobRunnerGroupName = attribute.Key("job.runner_group_name")
	KeyJobRunnerName      = attribute.Key("job.runner_name")
	KeyJobStartedAt       = attribute.Key("job.started_at")
	KeyJobCompletedAt     = attribute.Key("job.completed_at")
	KeyJobCreatedAt       = attribute.Key("job.created_at")
	KeyJobQueueTime       = attribute.Key("job.queue_time_seconds")

	KeyStepName        = attribute.Key("step.name")
	KeyStepNumber      = attribute.Key("step.number")
	KeyStepStartedAt   = attribute.Key("step.started_at")
	KeyStepCompletedAt = attribute.Key("step.completed_at")

	KeyError        = attribute.Key("error")
	KeyErrorMessage = attribute.Key("error.message")

	// Annotation event attributes.
	KeyAnnotationMessage = attribute.Key("message")
	KeyAnnotationLevel   = attribute.Key("annotation_level")
	KeyAnnotationTitle   = attribute.Key("title")
)

// appendNanos appends key with the normalized value of t, or nothing when t is absent.
func appendNanos(attrs []attribute.KeyValue, key attribute.Key, t *time.Time) []attribute.KeyValue {
	if ns, ok := Nanos(t); ok {
		return append(attrs, key.Int64(ns))
	}
	return attrs
}
