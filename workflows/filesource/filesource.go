/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package filesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"chainguard.dev/actionstrace/workflows"
)

// History is the on-disk shape of a recorded workflow history.
type History struct {
	Repository        workflows.Repository `json:"repository" yaml:"repository"`
	AuthenticatedUser string               `json:"authenticated_user,omitempty" yaml:"authenticated_user,omitempty"`
	Workflows         []workflows.Workflow `json:"workflows" yaml:"workflows"`
	Runs              []workflows.Run      `json:"runs" yaml:"runs"`
	AnnotationErrors  map[int64]string     `json:"annotation_errors,omitempty" yaml:"annotation_errors,omitempty"`
}

// Source serves a History through the workflows.Source interface.
type Source struct {
	history History
}

var _ workflows.Source = (*Source)(nil)

// Load reads and decodes a history file.
func Load(path string) (*Source, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var h History
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(b, &h)
	} else {
		err = yaml.Unmarshal(b, &h)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding history file %s: %w", path, err)
	}
	if h.Repository.Owner == "" || h.Repository.Name == "" {
		return nil, fmt.Errorf("history file %s: repository owner and name are required", path)
	}
	return New(h), nil
}

// New serves an in-memory history.
func New(h History) *Source {
	return &Source{history: h}
}

// AuthenticatedUser returns the recorded user, falling back to the
// repository owner.
func (s *Source) AuthenticatedUser(context.Context) (string, error) {
	if s.history.AuthenticatedUser != "" {
		return s.history.AuthenticatedUser, nil
	}
	return s.history.Repository.Owner, nil
}

// Repository implements workflows.Source.
func (s *Source) Repository(_ context.Context, owner, name string) (workflows.Repository, error) {
	r := s.history.Repository
	if !strings.EqualFold(r.Owner, owner) || !strings.EqualFold(r.Name, name) {
		return workflows.Repository{}, fmt.Errorf("%w: %s/%s", workflows.ErrRepositoryNotFound, owner, name)
	}
	return r, nil
}

// Workflows implements workflows.Source.
func (s *Source) Workflows(context.Context, workflows.Repository) ([]workflows.Workflow, error) {
	return s.history.Workflows, nil
}

// Runs implements workflows.Source. Runs are matched to the filter by their
// creation time, as the GitHub created qualifier does, or by their start time
// when the history did not record one. A date-only end bound covers the whole day.
func (s *Source) Runs(_ context.Context, _ workflows.Repository, wf workflows.Workflow, filter workflows.RunFilter) ([]workflows.Run, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	var start, end time.Time
	if !filter.IsZero() {
		var err error
		if start, _, err = parseBound(filter.Start); err != nil {
			return nil, fmt.Errorf("parsing start %q: %w", filter.Start, err)
		}
		var dateOnly bool
		if end, dateOnly, err = parseBound(filter.End); err != nil {
			return nil, fmt.Errorf("parsing end %q: %w", filter.End, err)
		}
		if dateOnly {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
	}

	var out []workflows.Run
	for _, r := range s.history.Runs {
		if r.WorkflowID != wf.ID {
			continue
		}
		if !filter.IsZero() {
			created := r.CreatedAt
			if created == nil {
				created = r.RunStartedAt
			}
			if created == nil || created.Before(start) || created.After(end) {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// Jobs implements workflows.Source.
func (s *Source) Jobs(_ context.Context, _ workflows.Repository, run workflows.Run) ([]workflows.Job, error) {
	for _, r := range s.history.Runs {
		if r.ID == run.ID {
			return r.Jobs, nil
		}
	}
	return nil, fmt.Errorf("run %d is not recorded", run.ID)
}

// Annotations implements workflows.Source.
func (s *Source) Annotations(_ context.Context, _ workflows.Repository, jobID int64) ([]workflows.Annotation, error) {
	if msg, ok := s.history.AnnotationErrors[jobID]; ok {
		return nil, errors.New(msg)
	}
	for _, r := range s.history.Runs {
		for _, j := range r.Jobs {
			if j.ID == jobID {
				return j.Annotations, nil
			}
		}
	}
	return nil, fmt.Errorf("check run %d is not recorded", jobID)
}

func parseBound(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t, false, err
}
