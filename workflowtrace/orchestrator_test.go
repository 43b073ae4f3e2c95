/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflowtrace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"chainguard.dev/actionstrace/metrics"
	"chainguard.dev/actionstrace/workflows"
)

// grid builds runs × jobs × steps of completed, successful history.
func grid(runs, jobsPerRun, stepsPerJob int) *fakeSource {
	src := &fakeSource{jobs: map[int64][]workflows.Job{}}
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for r := range runs {
		runID := int64(100 + r)
		start := base.Add(time.Duration(r) * time.Hour)
		end := start.Add(30 * time.Minute)
		src.runs = append(src.runs, workflows.Run{
			ID:           runID,
			WorkflowID:   testWorkflow.ID,
			RunNumber:    r + 1,
			Path:         testWorkflow.Path,
			RunStartedAt: &start,
			UpdatedAt:    &end,
			Status:       workflows.StatusCompleted,
			Conclusion:   workflows.ConclusionSuccess,
		})
		for j := range jobsPerRun {
			jobStart := start.Add(time.Duration(j) * time.Minute)
			jobEnd := jobStart.Add(time.Minute)
			job := workflows.Job{
				ID:          runID*10 + int64(j),
				RunID:       runID,
				Name:        fmt.Sprintf("job-%d", j),
				CreatedAt:   &jobStart,
				StartedAt:   &jobStart,
				CompletedAt: &jobEnd,
				Status:      workflows.StatusCompleted,
				Conclusion:  workflows.ConclusionSuccess,
			}
			for s := range stepsPerJob {
				job.Steps = append(job.Steps, workflows.Step{
					Number:      int64(s + 1),
					Name:        fmt.Sprintf("step-%d", s),
					StartedAt:   &jobStart,
					CompletedAt: &jobEnd,
					Status:      workflows.StatusCompleted,
					Conclusion:  workflows.ConclusionSuccess,
				})
			}
			src.jobs[runID] = append(src.jobs[runID], job)
		}
	}
	return src
}

var gridRequest = Request{Owner: "octo", Repo: "repo", Workflow: "CI"}

func TestOrchestratorSpanCounts(t *testing.T) {
	src := grid(2, 3, 2)
	e, sr := newTestEmitter(src)

	summary, err := NewOrchestrator(e).Run(context.Background(), gridRequest)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	ended := sr.Ended()
	if got, want := len(ended), 2+6+12; got != want {
		t.Fatalf("ended spans: got = %d, wanted = %d", got, want)
	}

	byID := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range ended {
		byID[s.SpanContext().SpanID().String()] = s
	}
	var runs, jobs, steps int
	for _, s := range ended {
		if !s.Parent().IsValid() {
			runs++
			continue
		}
		parent, ok := byID[s.Parent().SpanID().String()]
		if !ok {
			t.Errorf("span %q: parent was not emitted", s.Name())
			continue
		}
		if parent.Parent().IsValid() {
			steps++
			if !strings.HasPrefix(s.Name(), "step-") || !strings.HasPrefix(parent.Name(), "job-") {
				t.Errorf("grandchild %q of %q: wanted a step under a job", s.Name(), parent.Name())
			}
		} else {
			jobs++
			if !strings.HasPrefix(s.Name(), "job-") {
				t.Errorf("child %q: wanted a job", s.Name())
			}
		}
	}
	if diff := cmp.Diff([3]int{2, 6, 12}, [3]int{runs, jobs, steps}); diff != "" {
		t.Errorf("runs, jobs, steps (-want +got):\n%s", diff)
	}

	want := &Summary{
		ExecutionID: "exec-123",
		Repository:  "octo/repo",
		Workflow:    "CI",
		Jobs:        6,
		Steps:       12,
	}
	for i := range 2 {
		want.Runs = append(want.Runs, RunSummary{
			RunID:      int64(100 + i),
			RunNumber:  i + 1,
			Attempt:    1,
			Name:       "ci",
			Conclusion: workflows.ConclusionSuccess,
			Duration:   30 * time.Minute,
			Jobs:       3,
			Steps:      6,
		})
	}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Errorf("Summary (-want +got):\n%s", diff)
	}
}

func TestOrchestratorSkipSteps(t *testing.T) {
	src := grid(2, 3, 2)
	e, sr := newTestEmitter(src)

	req := gridRequest
	req.SkipSteps = true
	summary, err := NewOrchestrator(e).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got, want := len(sr.Ended()), 2+6; got != want {
		t.Errorf("ended spans: got = %d, wanted = %d", got, want)
	}
	for _, s := range sr.Ended() {
		if strings.HasPrefix(s.Name(), "step-") {
			t.Errorf("span %q: wanted no step spans", s.Name())
		}
	}
	if !summary.StepsSkipped || summary.Steps != 0 {
		t.Errorf("Summary: got StepsSkipped = %v, Steps = %d, wanted true and 0", summary.StepsSkipped, summary.Steps)
	}
}

func TestOrchestratorLookupFailures(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{{
		name:    "repository",
		req:     Request{Owner: "octo", Repo: "missing", Workflow: "CI"},
		wantErr: workflows.ErrRepositoryNotFound,
	}, {
		name:    "workflow",
		req:     Request{Owner: "octo", Repo: "repo", Workflow: "Release"},
		wantErr: workflows.ErrWorkflowNotFound,
	}, {
		name:    "missing workflow name",
		req:     Request{Owner: "octo", Repo: "repo"},
		wantErr: ErrInvalidRequest,
	}, {
		name:    "missing owner",
		req:     Request{Repo: "repo", Workflow: "CI"},
		wantErr: ErrInvalidRequest,
	}, {
		name:    "half open range",
		req:     Request{Owner: "octo", Repo: "repo", Workflow: "CI", Filter: workflows.RunFilter{End: "2024-01-31"}},
		wantErr: workflows.ErrHalfOpenRange,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, sr := newTestEmitter(grid(1, 1, 1))
			summary, err := NewOrchestrator(e).Run(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Run: got = %v, wanted = %v", err, tt.wantErr)
			}
			if summary != nil {
				t.Errorf("Summary: got = %+v, wanted = nil", summary)
			}
			// No spans are written when a lookup fails.
			if got := len(sr.Started()); got != 0 {
				t.Errorf("started spans: got = %d, wanted = 0", got)
			}
		})
	}
}

func TestOrchestratorSummaryFailures(t *testing.T) {
	src := grid(2, 2, 1)
	src.runs[1].Conclusion = workflows.ConclusionFailure
	src.jobs[101][0].Conclusion = workflows.ConclusionFailure
	src.jobs[101][0].Steps[0].Conclusion = workflows.ConclusionFailure
	src.annErrs = map[int64]error{1011: fmt.Errorf("boom")}
	src.runs[0].Status = workflows.StatusInProgress

	e, _ := newTestEmitter(src)
	summary, err := NewOrchestrator(e).Run(context.Background(), gridRequest)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	type tally struct{ Runs, Jobs, Steps, Annotations int }
	if diff := cmp.Diff(tally{1, 1, 1, 1}, tally{summary.FailedRuns, summary.FailedJobs, summary.FailedSteps, summary.AnnotationErrors}); diff != "" {
		t.Errorf("failures (-want +got):\n%s", diff)
	}

	if r := summary.Runs[0]; !r.Open || r.Duration != 0 {
		t.Errorf("in-progress run: got Open = %v, Duration = %v, wanted open with no duration", r.Open, r.Duration)
	}
	r := summary.Runs[1]
	if diff := cmp.Diff(tally{Jobs: 1, Steps: 1, Annotations: 1}, tally{Jobs: r.FailedJobs, Steps: r.FailedSteps, Annotations: r.AnnotationErrors}); diff != "" {
		t.Errorf("failed run (-want +got):\n%s", diff)
	}
}

func TestOrchestratorRecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	e := New(tp.Tracer("test"), "exec-123", grid(2, 3, 2),
		WithMetrics(metrics.NewEmission("test", metrics.WithMeterProvider(mp))))
	if _, err := NewOrchestrator(e).Run(context.Background(), gridRequest); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	var emitted int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "actionstrace.spans.emitted" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				emitted += dp.Value
			}
		}
	}
	if got, want := emitted, int64(2+6+12); got != want {
		t.Errorf("actionstrace.spans.emitted: got = %d, wanted = %d", got, want)
	}
}
