/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflows

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Labels is the runner label set requested by a job. The API has reported
// it as null, as a single string and as a list; all three decode into a list.
type Labels []string

// NormalizeLabels converts a loosely typed label value into Labels.
// nil becomes an empty list, a string becomes a single entry and a list is
// kept as is. Unsupported values are formatted with %v.
func NormalizeLabels(v any) Labels {
	switch l := v.(type) {
	case nil:
		return Labels{}
	case Labels:
		if l == nil {
			return Labels{}
		}
		return l
	case []string:
		if l == nil {
			return Labels{}
		}
		return Labels(l)
	case string:
		return Labels{l}
	case []any:
		out := make(Labels, 0, len(l))
		for _, e := range l {
			out = append(out, fmt.Sprint(e))
		}
		return out
	default:
		return Labels{fmt.Sprint(l)}
	}
}

// Joined concatenates the labels without a separator.
func (l Labels) Joined() string {
	return strings.Join(l, "")
}

// UnmarshalJSON accepts null, a string or a list of strings.
func (l *Labels) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = Labels{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decoding label: %w", err)
		}
		*l = Labels{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("decoding labels: %w", err)
	}
	*l = NormalizeLabels(list)
	return nil
}

// UnmarshalYAML accepts null, a scalar or a sequence of scalars.
func (l *Labels) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.ShortTag() == "!!null" {
			*l = Labels{}
			return nil
		}
		*l = Labels{value.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return fmt.Errorf("decoding labels: %w", err)
		}
		*l = NormalizeLabels(list)
		return nil
	default:
		return fmt.Errorf("decoding labels: unexpected YAML node kind %d at line %d", value.Kind, value.Line)
	}
}
