/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflows

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestNormalizeLabels(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Labels
	}{{
		name: "nil",
		in:   nil,
		want: Labels{},
	}, {
		name: "nil string slice",
		in:   []string(nil),
		want: Labels{},
	}, {
		name: "scalar",
		in:   "ubuntu-latest",
		want: Labels{"ubuntu-latest"},
	}, {
		name: "list",
		in:   []string{"self-hosted", "linux", "x64"},
		want: Labels{"self-hosted", "linux", "x64"},
	}, {
		name: "untyped list",
		in:   []any{"self-hosted", "arm64"},
		want: Labels{"self-hosted", "arm64"},
	}, {
		name: "labels",
		in:   Labels{"a"},
		want: Labels{"a"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLabels(tt.in)
			if got == nil {
				t.Fatal("NormalizeLabels: got = nil, wanted = non-nil list")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeLabels (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLabelsUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Labels
	}{{
		name: "null",
		doc:  `{"labels": null}`,
		want: Labels{},
	}, {
		name: "string",
		doc:  `{"labels": "ubuntu-22.04"}`,
		want: Labels{"ubuntu-22.04"},
	}, {
		name: "list",
		doc:  `{"labels": ["self-hosted", "gpu"]}`,
		want: Labels{"self-hosted", "gpu"},
	}, {
		name: "empty list",
		doc:  `{"labels": []}`,
		want: Labels{},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var job Job
			if err := json.Unmarshal([]byte(tt.doc), &job); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if diff := cmp.Diff(tt.want, job.Labels); diff != "" {
				t.Errorf("labels (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLabelsUnmarshalJSONRejectsObjects(t *testing.T) {
	var job Job
	if err := json.Unmarshal([]byte(`{"labels": {"a": 1}}`), &job); err == nil {
		t.Error("Unmarshal: got = nil error, wanted = error for object labels")
	}
}

func TestLabelsUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Labels
	}{{
		name: "scalar",
		doc:  "labels: ubuntu-latest\n",
		want: Labels{"ubuntu-latest"},
	}, {
		name: "sequence",
		doc:  "labels: [self-hosted, linux]\n",
		want: Labels{"self-hosted", "linux"},
	}, {
		name: "block sequence",
		doc:  "labels:\n  - macos-14\n",
		want: Labels{"macos-14"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var job Job
			if err := yaml.Unmarshal([]byte(tt.doc), &job); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if diff := cmp.Diff(tt.want, job.Labels); diff != "" {
				t.Errorf("labels (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLabelsJoined(t *testing.T) {
	if got, want := (Labels{"self-hosted", "linux"}).Joined(), "self-hostedlinux"; got != want {
		t.Errorf("Joined: got = %q, wanted = %q", got, want)
	}
	if got := NormalizeLabels(nil).Joined(); got != "" {
		t.Errorf("Joined on empty labels: got = %q, wanted = empty", got)
	}
}
