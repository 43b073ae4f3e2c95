/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflowtrace

import "time"

// Nanos normalizes a source timestamp to nanoseconds since the Unix epoch.
// It reports false when the timestamp is absent.
func Nanos(t *time.Time) (int64, bool) {
	if t == nil {
		return 0, false
	}
	return t.UnixNano(), true
}

// FromNanos is the inverse of Nanos, in UTC.
func FromNanos(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}

// QueueSeconds is the delay between a job being created and starting.
// It is negative only when the source data is inconsistent, and absent when
// either timestamp is.
func QueueSeconds(created, started *time.Time) (float64, bool) {
	c, ok := Nanos(created)
	if !ok {
		return 0, false
	}
	s, ok := Nanos(started)
	if !ok {
		return 0, false
	}
	return float64(s-c) / 1e9, true
}
