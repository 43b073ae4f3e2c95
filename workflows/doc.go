/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package workflows defines read-only views of GitHub Actions workflow history.

# Overview

The types in this package mirror what the Actions API reports for a workflow:

  - Run: one execution of a workflow, with its attempt, trigger and timing
  - Job: one unit of work inside a run, with runner placement and timing
  - Step: one ordered action inside a job
  - Annotation: a diagnostic note attached to a job's check run

None of these types are owned by this program. They are fetched fresh on every
invocation through a Source and discarded once they have been emitted.

# Sources

Source abstracts the hosting API. Two implementations exist:

  - githubsource: the GitHub REST API via go-github
  - filesource: a recorded history file, for offline replay

# Usage

	repo, err := src.Repository(ctx, "chainguard-dev", "driftlessaf")
	if err != nil {
		return err
	}
	wf, err := workflows.FindWorkflow(ctx, src, repo, "CI")
	if err != nil {
		return err
	}
	runs, err := src.Runs(ctx, repo, wf, workflows.RunFilter{Start: "2024-01-01", End: "2024-01-31"})
*/
package workflows
