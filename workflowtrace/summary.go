/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflowtrace

import (
	"time"

	"chainguard.dev/actionstrace/workflows"
)

// RunSummary describes what was emitted for one run.
type RunSummary struct {
	RunID      int64
	RunNumber  int
	Attempt    int
	Name       string
	Conclusion workflows.Conclusion

	// Duration is zero for runs left open.
	Duration time.Duration
	Open     bool

	Jobs             int
	FailedJobs       int
	Steps            int
	FailedSteps      int
	AnnotationErrors int
}

// Summary describes an emission pass.
type Summary struct {
	ExecutionID  string
	Repository   string
	Workflow     string
	StepsSkipped bool

	Runs []RunSummary

	FailedRuns       int
	Jobs             int
	FailedJobs       int
	Steps            int
	FailedSteps      int
	AnnotationErrors int
}

// Summarize tallies emitted records per run by following their parent references.
func Summarize(runs []EmittedRun, jobs []EmittedJob, steps []EmittedStep) *Summary {
	s := &Summary{Runs: make([]RunSummary, 0, len(runs))}
	index := make(map[*EmittedRun]int, len(runs))
	for i := range runs {
		r := &runs[i]
		rs := RunSummary{
			RunID:      r.ID,
			RunNumber:  r.RunNumber,
			Attempt:    r.Attempt(),
			Name:       r.DisplayName(),
			Conclusion: r.Conclusion,
		}
		if completed := r.CompletedAt(); completed != nil {
			rs.Duration = completed.Sub(r.Start)
		} else {
			rs.Open = true
		}
		if r.Conclusion.Failed() {
			s.FailedRuns++
		}
		index[r] = len(s.Runs)
		s.Runs = append(s.Runs, rs)
	}

	for _, j := range jobs {
		s.Jobs++
		rs := runSummary(s, index, j.Parent)
		if rs != nil {
			rs.Jobs++
		}
		if j.Conclusion.Failed() {
			s.FailedJobs++
			if rs != nil {
				rs.FailedJobs++
			}
		}
		if j.AnnotationErr != nil {
			s.AnnotationErrors++
			if rs != nil {
				rs.AnnotationErrors++
			}
		}
	}

	for _, st := range steps {
		s.Steps++
		var rs *RunSummary
		if st.Parent != nil {
			rs = runSummary(s, index, st.Parent.Parent)
		}
		if rs != nil {
			rs.Steps++
		}
		if st.Conclusion.Failed() {
			s.FailedSteps++
			if rs != nil {
				rs.FailedSteps++
			}
		}
	}
	return s
}

func runSummary(s *Summary, index map[*EmittedRun]int, r *EmittedRun) *RunSummary {
	i, ok := index[r]
	if !ok {
		return nil
	}
	return &s.Runs[i]
}
