/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc/credentials"
)

// Protocol selects the span exporter.
type Protocol string

const (
	ProtocolHTTP    Protocol = "http/protobuf"
	ProtocolGRPC    Protocol = "grpc"
	ProtocolConsole Protocol = "console"
)

// Config configures Init.
type Config struct {
	// Endpoint is host:port, or a full URL, of the OTLP receiver.
	Endpoint string
	Protocol Protocol
	Insecure bool

	// Headers are sent with every export, e.g. the Honeycomb team key.
	Headers map[string]string

	ServiceName    string
	ServiceVersion string

	// PushgatewayURL, when set, exports metrics through a Prometheus
	// Pushgateway instead of OTLP.
	PushgatewayURL string

	// Writer receives console output. Defaults to os.Stdout.
	Writer io.Writer
}

// Validate checks the protocol and that an endpoint is set where one is needed.
func (c Config) Validate() error {
	switch c.Protocol {
	case ProtocolHTTP, ProtocolGRPC:
		if c.Endpoint == "" {
			return fmt.Errorf("telemetry: an endpoint is required for protocol %q", c.Protocol)
		}
	case ProtocolConsole:
	default:
		return fmt.Errorf("telemetry: unsupported protocol %q (want %q, %q or %q)",
			c.Protocol, ProtocolHTTP, ProtocolGRPC, ProtocolConsole)
	}
	if c.ServiceName == "" {
		return errors.New("telemetry: a service name is required")
	}
	return nil
}

// Shutdown flushes and stops the providers installed by Init.
type Shutdown func(ctx context.Context) error

// Init configures the global tracer and meter providers and returns a
// Shutdown that must be called before the process exits; spans still
// queued in the batcher are lost otherwise.
func Init(ctx context.Context, cfg Config) (Shutdown, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create resource: %w", err)
	}

	traceExp, err := newSpanExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp,
			sdktrace.WithBatchTimeout(5*time.Second),
		),
		sdktrace.WithResource(res),
	)

	metricOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	var push *pusher
	switch {
	case cfg.PushgatewayURL != "":
		push, err = newPusher(cfg.PushgatewayURL, cfg.ServiceName)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("telemetry: create prometheus exporter: %w", err), tp.Shutdown(ctx))
		}
		metricOpts = append(metricOpts, sdkmetric.WithReader(push.reader))
	case cfg.Protocol == ProtocolHTTP:
		metricExp, err := otlpmetrichttp.New(ctx, metricHTTPOptions(cfg)...)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("telemetry: create metric exporter: %w", err), tp.Shutdown(ctx))
		}
		metricOpts = append(metricOpts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExp,
				sdkmetric.WithInterval(15*time.Second),
			),
		))
	}
	mp := sdkmetric.NewMeterProvider(metricOpts...)
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	shutdown := func(ctx context.Context) error {
		var firstErr error
		if err := tp.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		if push != nil {
			if err := push.push(ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if err := mp.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		return firstErr
	}
	return shutdown, nil
}

func newSpanExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.Protocol {
	case ProtocolGRPC:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithHeaders(cfg.Headers)}
		if hasScheme(cfg.Endpoint) {
			opts = append(opts, otlptracegrpc.WithEndpointURL(cfg.Endpoint))
		} else {
			opts = append(opts, otlptracegrpc.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		} else {
			opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
		}
		return otlptracegrpc.New(ctx, opts...)

	case ProtocolConsole:
		w := cfg.Writer
		if w == nil {
			w = os.Stdout
		}
		return stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())

	default:
		opts := []otlptracehttp.Option{otlptracehttp.WithHeaders(cfg.Headers)}
		if hasScheme(cfg.Endpoint) {
			opts = append(opts, otlptracehttp.WithEndpointURL(cfg.Endpoint))
		} else {
			opts = append(opts, otlptracehttp.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	}
}

func metricHTTPOptions(cfg Config) []otlpmetrichttp.Option {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithHeaders(cfg.Headers)}
	if hasScheme(cfg.Endpoint) {
		opts = append(opts, otlpmetrichttp.WithEndpointURL(cfg.Endpoint))
	} else {
		opts = append(opts, otlpmetrichttp.WithEndpoint(cfg.Endpoint))
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	return opts
}

func hasScheme(endpoint string) bool {
	return strings.Contains(endpoint, "://")
}
