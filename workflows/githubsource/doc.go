/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package githubsource implements workflows.Source on top of the GitHub REST API.

# Overview

Source wraps a go-github client and converts Actions and Checks API
responses into the workflows data model:

  - Repository: GET /repos/{owner}/{repo}
  - Workflows: GET /repos/{owner}/{repo}/actions/workflows
  - Runs: GET /repos/{owner}/{repo}/actions/workflows/{id}/runs?created={start}..{end}
  - Jobs: GET /repos/{owner}/{repo}/actions/runs/{id}/jobs
  - Annotations: GET /repos/{owner}/{repo}/check-runs/{job_id}/annotations

Every list call follows pagination to the end. Primary and secondary rate
limit responses, as well as 5xx responses, are retried with backoff.

# Authentication

NewClient builds the underlying go-github client from either a personal
access token (via an oauth2 static token source) or a GitHub App
installation (via ghinstallation):

	gh, err := githubsource.NewClient(ctx, githubsource.Auth{Token: os.Getenv("GITHUB_AUTH_TOKEN")})
	if err != nil {
		return err
	}
	src := githubsource.New(gh)
*/
package githubsource
