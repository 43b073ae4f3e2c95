/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflowtrace

import (
	"context"
	"fmt"

	"chainguard.dev/actionstrace/workflows"
)

// FetchAnnotations lists the annotations of a job's check run. On failure it
// returns an empty, non-nil list together with the error; callers treat the
// job as having no annotations and carry on.
func FetchAnnotations(ctx context.Context, src workflows.Source, repo workflows.Repository, jobID int64) ([]workflows.Annotation, error) {
	anns, err := src.Annotations(ctx, repo, jobID)
	if err != nil {
		return []workflows.Annotation{}, fmt.Errorf("fetching annotations for job %d: %w", jobID, err)
	}
	if anns == nil {
		anns = []workflows.Annotation{}
	}
	return anns, nil
}
