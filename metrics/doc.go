/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package metrics provides OpenTelemetry instruments describing an emission pass.

# Overview

Emission counts the spans written for runs, jobs and steps, the domain
failures among them, and the annotation lookups that succeeded or failed. It
also records job queue time as a histogram so the distribution of queue delay
survives aggregation.

Instrument creation degrades gracefully: an instrument that cannot be created
is replaced by a no-op and a warning is logged.

# Usage

	m := metrics.NewEmission("chainguard.dev/actionstrace")
	m.SetAttributeEnricher(func(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue {
		return append(base, attribute.String("repository", "octo/repo"))
	})
	m.RecordSpan(ctx, metrics.KindJob, "failure", false)
*/
package metrics
