/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubsource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"

	"chainguard.dev/actionstrace/retry"
	"chainguard.dev/actionstrace/workflows"
)

const perPage = 100

// Source reads workflow history through the GitHub REST API.
type Source struct {
	client    *github.Client
	retry     retry.Config
	jobFilter string
	now       func() time.Time
}

var _ workflows.Source = (*Source)(nil)

// Option customizes a Source.
type Option func(*Source)

// WithRetryConfig overrides the rate limit retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(s *Source) { s.retry = cfg }
}

// WithJobFilter selects which attempts' jobs are listed: "latest" (the API
// default) or "all".
func WithJobFilter(filter string) Option {
	return func(s *Source) { s.jobFilter = filter }
}

// New wraps an authenticated go-github client.
func New(client *github.Client, opts ...Option) *Source {
	s := &Source{
		client: client,
		retry:  retry.DefaultConfig(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthenticatedUser returns the login of the user the client authenticates as.
func (s *Source) AuthenticatedUser(ctx context.Context) (string, error) {
	user, err := call(ctx, s, "get_authenticated_user", func() (*github.User, *github.Response, error) {
		return s.client.Users.Get(ctx, "")
	})
	if err != nil {
		return "", fmt.Errorf("getting authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// Repository implements workflows.Source.
func (s *Source) Repository(ctx context.Context, owner, name string) (workflows.Repository, error) {
	repo, err := call(ctx, s, "get_repository", func() (*github.Repository, *github.Response, error) {
		return s.client.Repositories.Get(ctx, owner, name)
	})
	if err != nil {
		if isNotFound(err) {
			return workflows.Repository{}, fmt.Errorf("%w: %s/%s", workflows.ErrRepositoryNotFound, owner, name)
		}
		return workflows.Repository{}, fmt.Errorf("getting repository %s/%s: %w", owner, name, err)
	}
	return workflows.Repository{
		ID:    repo.GetID(),
		Owner: repo.GetOwner().GetLogin(),
		Name:  repo.GetName(),
	}, nil
}

// Workflows implements workflows.Source.
func (s *Source) Workflows(ctx context.Context, repo workflows.Repository) ([]workflows.Workflow, error) {
	var out []workflows.Workflow
	opts := &github.ListOptions{PerPage: perPage}
	for {
		page, resp, err := callPage(ctx, s, "list_workflows", func() (*github.Workflows, *github.Response, error) {
			return s.client.Actions.ListWorkflows(ctx, repo.Owner, repo.Name, opts)
		})
		if err != nil {
			return nil, fmt.Errorf("listing workflows: %w", err)
		}
		for _, wf := range page.Workflows {
			out = append(out, workflows.Workflow{
				ID:   wf.GetID(),
				Name: wf.GetName(),
				Path: wf.GetPath(),
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// Runs implements workflows.Source.
func (s *Source) Runs(ctx context.Context, repo workflows.Repository, wf workflows.Workflow, filter workflows.RunFilter) ([]workflows.Run, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if !filter.IsZero() {
		clog.FromContext(ctx).With("created", filter.Created()).Info("Filtering runs by creation date")
	}

	var out []workflows.Run
	opts := &github.ListWorkflowRunsOptions{
		Created:     filter.Created(),
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	for {
		page, resp, err := callPage(ctx, s, "list_workflow_runs", func() (*github.WorkflowRuns, *github.Response, error) {
			return s.client.Actions.ListWorkflowRunsByID(ctx, repo.Owner, repo.Name, wf.ID, opts)
		})
		if err != nil {
			return nil, fmt.Errorf("listing runs of workflow %d: %w", wf.ID, err)
		}
		for _, r := range page.WorkflowRuns {
			out = append(out, convertRun(r))
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// Jobs implements workflows.Source.
func (s *Source) Jobs(ctx context.Context, repo workflows.Repository, run workflows.Run) ([]workflows.Job, error) {
	var out []workflows.Job
	opts := &github.ListWorkflowJobsOptions{
		Filter:      s.jobFilter,
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	for {
		page, resp, err := callPage(ctx, s, "list_workflow_jobs", func() (*github.Jobs, *github.Response, error) {
			return s.client.Actions.ListWorkflowJobs(ctx, repo.Owner, repo.Name, run.ID, opts)
		})
		if err != nil {
			return nil, fmt.Errorf("listing jobs of run %d: %w", run.ID, err)
		}
		for _, j := range page.Jobs {
			out = append(out, convertJob(j))
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// Annotations implements workflows.Source. A job's id doubles as the id of
// the check run that reports it.
func (s *Source) Annotations(ctx context.Context, repo workflows.Repository, jobID int64) ([]workflows.Annotation, error) {
	checkRun, err := call(ctx, s, "get_check_run", func() (*github.CheckRun, *github.Response, error) {
		return s.client.Checks.GetCheckRun(ctx, repo.Owner, repo.Name, jobID)
	})
	if err != nil {
		return nil, fmt.Errorf("getting check run %d: %w", jobID, err)
	}

	var out []workflows.Annotation
	opts := &github.ListOptions{PerPage: perPage}
	for {
		page, resp, err := callPage(ctx, s, "list_check_run_annotations", func() ([]*github.CheckRunAnnotation, *github.Response, error) {
			return s.client.Checks.ListCheckRunAnnotations(ctx, repo.Owner, repo.Name, checkRun.GetID(), opts)
		})
		if err != nil {
			return nil, fmt.Errorf("listing annotations of check run %d: %w", checkRun.GetID(), err)
		}
		for _, a := range page {
			out = append(out, workflows.Annotation{
				Message:   a.GetMessage(),
				Level:     a.GetAnnotationLevel(),
				Title:     a.GetTitle(),
				Path:      a.GetPath(),
				StartLine: a.GetStartLine(),
				EndLine:   a.GetEndLine(),
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

type page[T any] struct {
	value T
	resp  *github.Response
}

// callPage runs a paginated API call under the retry policy.
func callPage[T any](ctx context.Context, s *Source, operation string, fn func() (T, *github.Response, error)) (T, *github.Response, error) {
	p, err := retry.Do(ctx, s.retry, operation, s.classify, func() (page[T], error) {
		v, resp, err := fn()
		return page[T]{value: v, resp: resp}, err
	})
	return p.value, p.resp, err
}

// call runs a single-object API call under the retry policy.
func call[T any](ctx context.Context, s *Source, operation string, fn func() (T, *github.Response, error)) (T, error) {
	v, _, err := callPage(ctx, s, operation, fn)
	return v, err
}

// classify retries GitHub's rate limits, waiting out the reset or
// Retry-After the API reports, and transient gateway errors.
func (s *Source) classify(err error) retry.Decision {
	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		d := retry.Decision{Retry: true, Reason: "primary rate limit"}
		if reset := rle.Rate.Reset.Time; !reset.IsZero() {
			d.After = max(reset.Sub(s.now()), 0)
		}
		return d
	}
	var arle *github.AbuseRateLimitError
	if errors.As(err, &arle) {
		return retry.Decision{Retry: true, Reason: "secondary rate limit", After: arle.GetRetryAfter()}
	}
	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		switch code := er.Response.StatusCode; code {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return retry.Decision{Retry: true, Reason: fmt.Sprintf("server error %d", code)}
		}
	}
	return retry.Decision{}
}

func isNotFound(err error) bool {
	var er *github.ErrorResponse
	return errors.As(err, &er) && er.Response != nil && er.Response.StatusCode == http.StatusNotFound
}

func convertRun(r *github.WorkflowRun) workflows.Run {
	run := workflows.Run{
		ID:           r.GetID(),
		WorkflowID:   r.GetWorkflowID(),
		RunNumber:    r.GetRunNumber(),
		RunAttempt:   r.RunAttempt,
		Event:        r.GetEvent(),
		Name:         r.GetName(),
		Path:         r.GetPath(),
		HTMLURL:      r.GetHTMLURL(),
		CreatedAt:    timePtr(r.CreatedAt),
		RunStartedAt: timePtr(r.RunStartedAt),
		UpdatedAt:    timePtr(r.UpdatedAt),
		Status:       workflows.Status(r.GetStatus()),
		Conclusion:   workflows.Conclusion(r.GetConclusion()),
	}
	return run
}

func convertJob(j *github.WorkflowJob) workflows.Job {
	job := workflows.Job{
		ID:              j.GetID(),
		RunID:           j.GetRunID(),
		Name:            j.GetName(),
		RunAttempt:      j.RunAttempt,
		Labels:          workflows.NormalizeLabels(j.Labels),
		RunnerGroupID:   j.RunnerGroupID,
		RunnerGroupName: j.RunnerGroupName,
		RunnerName:      j.RunnerName,
		CreatedAt:       timePtr(j.CreatedAt),
		StartedAt:       timePtr(j.StartedAt),
		CompletedAt:     timePtr(j.CompletedAt),
		Status:          workflows.Status(j.GetStatus()),
		Conclusion:      workflows.Conclusion(j.GetConclusion()),
	}
	for _, st := range j.Steps {
		job.Steps = append(job.Steps, workflows.Step{
			Number:      st.GetNumber(),
			Name:        st.GetName(),
			StartedAt:   timePtr(st.StartedAt),
			CompletedAt: timePtr(st.CompletedAt),
			Status:      workflows.Status(st.GetStatus()),
			Conclusion:  workflows.Conclusion(st.GetConclusion()),
		})
	}
	return job
}

func timePtr(ts *github.Timestamp) *time.Time {
	if ts == nil || ts.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}
