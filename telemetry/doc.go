/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package telemetry installs the global OpenTelemetry tracer and meter providers.

# Overview

Spans are batched and exported with one of three protocols:

  - http/protobuf: OTLP over HTTP (the default, suitable for Honeycomb)
  - grpc: OTLP over gRPC, with TLS unless Insecure is set
  - console: pretty-printed JSON on a writer, for local inspection

Metrics go over OTLP/HTTP to the same endpoint, or, when a Pushgateway URL is
configured, into a Prometheus registry that is pushed once at shutdown. A
short-lived command has no scrape window, so pushing is the only way its
Prometheus metrics are seen.

# Usage

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint:    "api.honeycomb.io:443",
		Protocol:    telemetry.ProtocolHTTP,
		Headers:     map[string]string{"x-honeycomb-team": token},
		ServiceName: "my-service",
	})
	if err != nil {
		return err
	}
	defer shutdown(context.WithoutCancel(ctx))
*/
package telemetry
