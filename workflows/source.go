/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflows

import (
	"context"
	"fmt"
)

// Source retrieves workflow history from a hosting service.
// Implementations handle their own pagination and retries.
type Source interface {
	// Repository resolves owner/name. It returns an error wrapping
	// ErrRepositoryNotFound when the repository does not exist.
	Repository(ctx context.Context, owner, name string) (Repository, error)

	// Workflows lists the workflows defined in the repository, in API order.
	Workflows(ctx context.Context, repo Repository) ([]Workflow, error)

	// Runs lists the runs of a workflow, optionally restricted to a creation window.
	Runs(ctx context.Context, repo Repository, wf Workflow, filter RunFilter) ([]Run, error)

	// Jobs lists the jobs of a run, steps included.
	Jobs(ctx context.Context, repo Repository, run Run) ([]Job, error)

	// Annotations lists the check-run annotations recorded for a job.
	Annotations(ctx context.Context, repo Repository, jobID int64) ([]Annotation, error)
}

// FindWorkflow scans the repository's workflows and returns the first one
// whose name equals name.
func FindWorkflow(ctx context.Context, src Source, repo Repository, name string) (Workflow, error) {
	wfs, err := src.Workflows(ctx, repo)
	if err != nil {
		return Workflow{}, fmt.Errorf("listing workflows for %s: %w", repo.FullName(), err)
	}
	for _, wf := range wfs {
		if wf.Name == name {
			return wf, nil
		}
	}
	return Workflow{}, fmt.Errorf("%w: %q in %s", ErrWorkflowNotFound, name, repo.FullName())
}

// RunFilter restricts run listing to runs created within [Start, End].
// Both bounds are dates or timestamps in the API's search syntax.
type RunFilter struct {
	Start string
	End   string
}

// Validate rejects a filter with exactly one bound.
func (f RunFilter) Validate() error {
	if (f.Start == "") != (f.End == "") {
		return ErrHalfOpenRange
	}
	return nil
}

// IsZero reports whether the filter is unbounded.
func (f RunFilter) IsZero() bool {
	return f.Start == "" && f.End == ""
}

// Created renders the filter as a "created" search qualifier,
// "{start}..{end}", or "" when unbounded.
func (f RunFilter) Created() string {
	if f.IsZero() {
		return ""
	}
	return f.Start + ".." + f.End
}
