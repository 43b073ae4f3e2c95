/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package filesource replays a recorded workflow history instead of calling the
GitHub API.

A history file is YAML (or JSON, chosen by a ".json" extension) holding one
repository, its workflows, and runs with their jobs, steps and annotations
inline:

	repository:
	  owner: chainguard-dev
	  name: driftlessaf
	authenticated_user: octocat
	workflows:
	  - id: 10
	    name: CI
	    path: .github/workflows/ci.yml
	runs:
	  - id: 100
	    workflow_id: 10
	    run_number: 42
	    path: .github/workflows/ci.yml
	    run_started_at: 2024-01-01T12:00:00Z
	    updated_at: 2024-01-01T12:30:00Z
	    status: completed
	    conclusion: success
	    jobs:
	      - id: 500
	        name: build
	        labels: ubuntu-latest
	        steps:
	          - number: 1
	            name: Set up job
	annotation_errors:
	  500: check run unavailable

Entries under annotation_errors make Annotations fail for that job id, which
reproduces partial outages offline.
*/
package filesource
