/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package report renders an emission summary as markdown.

# Overview

Markdown produces a short heading naming the repository, workflow and
execution id, a table with one row per emitted run, and a totals line.
Runs still in progress show "open" in place of a duration.

# Usage

	summary, err := orchestrator.Run(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, report.Markdown(summary))
*/
package report
