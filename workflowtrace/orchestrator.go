/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflowtrace

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/actionstrace/workflows"
)

// ErrInvalidRequest is returned for a Request missing required fields.
var ErrInvalidRequest = errors.New("invalid request")

// Request selects the workflow history to emit.
type Request struct {
	Owner    string
	Repo     string
	Workflow string
	Filter   workflows.RunFilter

	// SkipSteps emits runs and jobs only.
	SkipSteps bool
}

// Validate reports configuration errors before any lookup is made.
func (r Request) Validate() error {
	switch {
	case r.Owner == "":
		return fmt.Errorf("%w: owner is required", ErrInvalidRequest)
	case r.Repo == "":
		return fmt.Errorf("%w: repo is required", ErrInvalidRequest)
	case r.Workflow == "":
		return fmt.Errorf("%w: workflow is required", ErrInvalidRequest)
	}
	if err := r.Filter.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

// Orchestrator sequences lookups and emission for one Request.
type Orchestrator struct {
	src     workflows.Source
	emitter *Emitter
}

// NewOrchestrator drives emitter with the Source it was built over.
func NewOrchestrator(emitter *Emitter) *Orchestrator {
	return &Orchestrator{src: emitter.src, emitter: emitter}
}

// Run looks up the repository and workflow, then emits runs, jobs and
// (unless skipped) steps. Lookup failures return before any span is written.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Summary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	log := clog.FromContext(ctx).With("execution_id", o.emitter.ExecutionID())

	repo, err := o.src.Repository(ctx, req.Owner, req.Repo)
	if err != nil {
		return nil, fmt.Errorf("looking up repository: %w", err)
	}
	log.Infof("Found repository %s", repo.FullName())

	wf, err := workflows.FindWorkflow(ctx, o.src, repo, req.Workflow)
	if err != nil {
		return nil, fmt.Errorf("looking up workflow: %w", err)
	}
	log.With("workflow_id", wf.ID).Infof("Found workflow %q", wf.Name)

	runs, err := o.src.Runs(ctx, repo, wf, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	emittedRuns := o.emitter.EmitRuns(ctx, wf, runs)
	log.Infof("Processed %d runs", len(emittedRuns))

	emittedJobs, err := o.emitter.EmitJobs(ctx, repo, emittedRuns)
	if err != nil {
		return nil, err
	}
	log.Infof("Processed %d jobs", len(emittedJobs))

	var emittedSteps []EmittedStep
	if req.SkipSteps {
		log.Info("Skipping steps")
	} else {
		emittedSteps = o.emitter.EmitSteps(ctx, emittedJobs)
		log.Infof("Processed %d steps", len(emittedSteps))
	}

	s := Summarize(emittedRuns, emittedJobs, emittedSteps)
	s.ExecutionID = o.emitter.ExecutionID()
	s.Repository = repo.FullName()
	s.Workflow = wf.Name
	s.StepsSkipped = req.SkipSteps
	return s, nil
}
