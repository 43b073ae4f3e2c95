/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflows

import "errors"

var (
	// ErrRepositoryNotFound is returned when the owner/name pair does not resolve.
	ErrRepositoryNotFound = errors.New("repository not found")
	// ErrWorkflowNotFound is returned when no workflow in the repository has the requested name.
	ErrWorkflowNotFound = errors.New("workflow not found")
	// ErrHalfOpenRange is returned when only one bound of a date range is supplied.
	ErrHalfOpenRange = errors.New("start and end must be supplied together")
)
