/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"chainguard.dev/actionstrace/workflowtrace"
)

var runColumns = []column{
	{header: "Run"},
	{header: "Workflow"},
	{header: "Attempt", numeric: true},
	{header: "Conclusion"},
	{header: "Duration", numeric: true},
	{header: "Jobs", numeric: true},
	{header: "Failed jobs", numeric: true},
	{header: "Steps", numeric: true},
	{header: "Annotation errors", numeric: true},
}

// Markdown renders s as a markdown section.
func Markdown(s *workflowtrace.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s: %s\n\n", s.Repository, s.Workflow)
	fmt.Fprintf(&sb, "Execution ID: `%s`\n\n", s.ExecutionID)

	if len(s.Runs) == 0 {
		sb.WriteString("No runs matched.\n")
		return sb.String()
	}

	var buf bytes.Buffer
	table := newSummaryTable(runColumns, &buf)
	for _, r := range s.Runs {
		steps := strconv.Itoa(r.Steps)
		if s.StepsSkipped {
			steps = "skipped"
		}
		_ = table.Append([]string{
			fmt.Sprintf("#%d", r.RunNumber),
			r.Name,
			strconv.Itoa(r.Attempt),
			conclusion(string(r.Conclusion)),
			duration(r),
			strconv.Itoa(r.Jobs),
			strconv.Itoa(r.FailedJobs),
			steps,
			strconv.Itoa(r.AnnotationErrors),
		})
	}
	_ = table.Render()
	sb.Write(buf.Bytes())

	fmt.Fprintf(&sb, "\n**Totals:** %d runs (%d failed), %d jobs (%d failed)",
		len(s.Runs), s.FailedRuns, s.Jobs, s.FailedJobs)
	if !s.StepsSkipped {
		fmt.Fprintf(&sb, ", %d steps (%d failed)", s.Steps, s.FailedSteps)
	}
	if s.AnnotationErrors > 0 {
		fmt.Fprintf(&sb, ", %d annotation lookups failed", s.AnnotationErrors)
	}
	sb.WriteString("\n")
	return sb.String()
}

func conclusion(c string) string {
	if c == "" {
		return "-"
	}
	return c
}

func duration(r workflowtrace.RunSummary) string {
	if r.Open {
		return "open"
	}
	return r.Duration.Round(time.Second).String()
}
