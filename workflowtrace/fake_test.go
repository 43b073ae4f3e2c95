/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflowtrace

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"chainguard.dev/actionstrace/workflows"
)

var (
	testRepo     = workflows.Repository{ID: 7, Owner: "octo", Name: "repo"}
	testWorkflow = workflows.Workflow{ID: 2, Name: "CI", Path: ".github/workflows/ci.yml"}
	observedAt   = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
)

type fakeSource struct {
	runs       []workflows.Run
	jobs       map[int64][]workflows.Job
	jobsErr    error
	anns       map[int64][]workflows.Annotation
	annErrs    map[int64]error
	annLookups []int64
}

var _ workflows.Source = (*fakeSource)(nil)

func (f *fakeSource) Repository(_ context.Context, owner, name string) (workflows.Repository, error) {
	if owner != testRepo.Owner || name != testRepo.Name {
		return workflows.Repository{}, fmt.Errorf("%w: %s/%s", workflows.ErrRepositoryNotFound, owner, name)
	}
	return testRepo, nil
}

func (f *fakeSource) Workflows(context.Context, workflows.Repository) ([]workflows.Workflow, error) {
	return []workflows.Workflow{{ID: 1, Name: "Lint"}, testWorkflow}, nil
}

func (f *fakeSource) Runs(_ context.Context, _ workflows.Repository, _ workflows.Workflow, filter workflows.RunFilter) ([]workflows.Run, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return f.runs, nil
}

func (f *fakeSource) Jobs(_ context.Context, _ workflows.Repository, run workflows.Run) ([]workflows.Job, error) {
	if f.jobsErr != nil {
		return nil, f.jobsErr
	}
	return f.jobs[run.ID], nil
}

func (f *fakeSource) Annotations(_ context.Context, _ workflows.Repository, jobID int64) ([]workflows.Annotation, error) {
	f.annLookups = append(f.annLookups, jobID)
	if err := f.annErrs[jobID]; err != nil {
		return nil, err
	}
	return f.anns[jobID], nil
}

func newTestEmitter(src workflows.Source) (*Emitter, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	e := New(tp.Tracer("test"), "exec-123", src, WithClock(func() time.Time { return observedAt }))
	return e, sr
}

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func ptr[T any](v T) *T { return &v }

func attrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value, len(s.Attributes()))
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

// checkAttrs reports every key of want whose value on s differs, and every
// key of absent that s carries.
func checkAttrs(t *testing.T, s sdktrace.ReadOnlySpan, want map[attribute.Key]any, absent ...attribute.Key) {
	t.Helper()
	got := attrs(s)
	for k, w := range want {
		v, ok := got[k]
		if !ok {
			t.Errorf("%s %s: missing, wanted = %v", s.Name(), k, w)
			continue
		}
		if diff := cmp.Diff(w, v.AsInterface()); diff != "" {
			t.Errorf("%s %s (-want +got):\n%s", s.Name(), k, diff)
		}
	}
	for _, k := range absent {
		if v, ok := got[k]; ok {
			t.Errorf("%s %s: got = %s, wanted it absent", s.Name(), k, v.Emit())
		}
	}
}

// onlySpan fails the test unless spans holds exactly one span.
func onlySpan(t *testing.T, spans []sdktrace.ReadOnlySpan, what string) sdktrace.ReadOnlySpan {
	t.Helper()
	if len(spans) != 1 {
		t.Fatalf("%s spans: got = %d, wanted = 1", what, len(spans))
	}
	return spans[0]
}

func spansNamed(spans []sdktrace.ReadOnlySpan, name string) []sdktrace.ReadOnlySpan {
	var out []sdktrace.ReadOnlySpan
	for _, s := range spans {
		if s.Name() == name {
			out = append(out, s)
		}
	}
	return out
}

func started(sr *tracetest.SpanRecorder) []sdktrace.ReadOnlySpan {
	var out []sdktrace.ReadOnlySpan
	for _, s := range sr.Started() {
		out = append(out, s)
	}
	return out
}
