/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package telemetry

import (
	"context"
	"fmt"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
)

// pusher bridges OpenTelemetry metrics into a Prometheus registry and pushes
// that registry to a Pushgateway under the job name.
type pusher struct {
	registry *prometheus.Registry
	reader   *otelprom.Exporter
	url      string
	job      string
}

func newPusher(endpoint, job string) (*pusher, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("pushgateway URL %q is not an absolute http(s) URL", endpoint)
	}

	reg := prometheus.NewRegistry()
	reader, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, err
	}
	return &pusher{registry: reg, reader: reader, url: endpoint, job: job}, nil
}

func (p *pusher) push(ctx context.Context) error {
	if err := push.New(p.url, p.job).Gatherer(p.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("telemetry: push metrics to %s: %w", p.url, err)
	}
	return nil
}
