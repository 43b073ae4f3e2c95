/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflows

import (
	"path"
	"strings"
	"time"
)

// Status is the lifecycle state reported for a run, job or step.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusWaiting    Status = "waiting"
	StatusRequested  Status = "requested"
	StatusPending    Status = "pending"
)

// Conclusion is the terminal outcome of a run, job or step.
// The empty Conclusion means the API did not report one.
type Conclusion string

const (
	ConclusionSuccess        Conclusion = "success"
	ConclusionFailure        Conclusion = "failure"
	ConclusionCancelled      Conclusion = "cancelled"
	ConclusionSkipped        Conclusion = "skipped"
	ConclusionTimedOut       Conclusion = "timed_out"
	ConclusionNeutral        Conclusion = "neutral"
	ConclusionActionRequired Conclusion = "action_required"
	ConclusionStale          Conclusion = "stale"
)

// Failed reports whether the conclusion is exactly "failure".
// Cancelled and timed out outcomes are not failures.
func (c Conclusion) Failed() bool {
	return c == ConclusionFailure
}

// Repository identifies a repository on the hosting service.
type Repository struct {
	ID    int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Owner string `json:"owner" yaml:"owner"`
	Name  string `json:"name" yaml:"name"`
}

// FullName returns "owner/name".
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Workflow is a workflow definition within a repository.
type Workflow struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Run is one execution of a workflow.
type Run struct {
	ID           int64      `json:"id" yaml:"id"`
	WorkflowID   int64      `json:"workflow_id" yaml:"workflow_id"`
	RunNumber    int        `json:"run_number" yaml:"run_number"`
	RunAttempt   *int       `json:"run_attempt,omitempty" yaml:"run_attempt,omitempty"`
	Event        string     `json:"event" yaml:"event"`
	Name         string     `json:"name" yaml:"name"`
	Path         string     `json:"path" yaml:"path"`
	HTMLURL      string     `json:"html_url" yaml:"html_url"`
	CreatedAt    *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	RunStartedAt *time.Time `json:"run_started_at,omitempty" yaml:"run_started_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	Status       Status     `json:"status" yaml:"status"`
	Conclusion   Conclusion `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`

	// Jobs is only populated by sources that carry the whole history inline.
	Jobs []Job `json:"jobs,omitempty" yaml:"jobs,omitempty"`
}

// Attempt returns the run attempt, treating an absent attempt as the first.
func (r Run) Attempt() int {
	if r.RunAttempt == nil {
		return 1
	}
	return *r.RunAttempt
}

// CompletedAt returns the time the run finished. A run that is not
// completed has no completion time, whatever its conclusion says.
func (r Run) CompletedAt() *time.Time {
	if r.Status != StatusCompleted {
		return nil
	}
	return r.UpdatedAt
}

// DisplayName is the workflow file name without directory or extension,
// e.g. ".github/workflows/ci.yml" becomes "ci". Runs without a path fall
// back to the run name.
func (r Run) DisplayName() string {
	if r.Path == "" {
		return r.Name
	}
	base := path.Base(r.Path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	if base == "" {
		return r.Name
	}
	return base
}

// Job is one unit of work within a run.
type Job struct {
	ID              int64      `json:"id" yaml:"id"`
	RunID           int64      `json:"run_id" yaml:"run_id"`
	Name            string     `json:"name" yaml:"name"`
	RunAttempt      *int64     `json:"run_attempt,omitempty" yaml:"run_attempt,omitempty"`
	Labels          Labels     `json:"labels" yaml:"labels"`
	RunnerGroupID   *int64     `json:"runner_group_id,omitempty" yaml:"runner_group_id,omitempty"`
	RunnerGroupName *string    `json:"runner_group_name,omitempty" yaml:"runner_group_name,omitempty"`
	RunnerName      *string    `json:"runner_name,omitempty" yaml:"runner_name,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Status          Status     `json:"status" yaml:"status"`
	Conclusion      Conclusion `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`
	Steps           []Step     `json:"steps,omitempty" yaml:"steps,omitempty"`

	// Annotations is only populated by sources that carry the whole history inline.
	Annotations []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// Attempt returns the run attempt this job belongs to, treating an absent attempt as the first.
func (j Job) Attempt() int64 {
	if j.RunAttempt == nil {
		return 1
	}
	return *j.RunAttempt
}

// Step is one ordered action within a job.
type Step struct {
	Number      int64      `json:"number" yaml:"number"`
	Name        string     `json:"name" yaml:"name"`
	StartedAt   *time.Time `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Status      Status     `json:"status" yaml:"status"`
	Conclusion  Conclusion `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`
}

// Annotation is a diagnostic note attached to a job's check run.
type Annotation struct {
	Message   string `json:"message" yaml:"message"`
	Level     string `json:"annotation_level" yaml:"annotation_level"`
	Title     string `json:"title" yaml:"title"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	StartLine int    `json:"start_line,omitempty" yaml:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty" yaml:"end_line,omitempty"`
}
