/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"

	"chainguard.dev/actionstrace/telemetry"
	"chainguard.dev/actionstrace/workflows"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg, err := loadEnv(context.Background(), envconfig.MapLookuper(nil))
	require.NoError(t, err)

	want := envConfig{
		GitHubMaxRetries: 3,
		OTLPEndpoint:     "api.honeycomb.io:443",
		OTLPProtocol:     "http/protobuf",
		ServiceName:      "my-service",
		LogLevel:         "info",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("loadEnv (-want +got):\n%s", diff)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	cfg, err := loadEnv(context.Background(), envconfig.MapLookuper(map[string]string{
		"GITHUB_AUTH_TOKEN":           "ghp_x",
		"GITHUB_APP_ID":               "12",
		"HC_TEAM_TOKEN":               "hc-key",
		"OTEL_EXPORTER_OTLP_PROTOCOL": "grpc",
		"OTEL_EXPORTER_OTLP_INSECURE": "true",
		"OTEL_SERVICE_NAME":           "actions",
		"GITHUB_MAX_RETRIES":          "0",
	}))
	require.NoError(t, err)
	require.Equal(t, "ghp_x", cfg.auth().Token)
	require.Equal(t, int64(12), cfg.auth().AppID)
	require.Zero(t, cfg.retryConfig().MaxRetries)

	tc := cfg.telemetry()
	require.Equal(t, telemetry.ProtocolGRPC, tc.Protocol)
	require.True(t, tc.Insecure)
	require.Equal(t, "actions", tc.ServiceName)
	require.Equal(t, map[string]string{"x-honeycomb-team": "hc-key"}, tc.Headers)
}

func TestLoadEnvRejectsBadValues(t *testing.T) {
	_, err := loadEnv(context.Background(), envconfig.MapLookuper(map[string]string{
		"GITHUB_APP_ID": "not-a-number",
	}))
	require.Error(t, err)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    options
		wantErr error
	}{{
		name: "minimal",
		opts: options{Repo: "repo", Workflow: "CI"},
	}, {
		name: "date range",
		opts: options{Repo: "repo", Workflow: "CI", Start: "2024-01-01", End: "2024-01-31"},
	}, {
		name:    "missing repo",
		opts:    options{Workflow: "CI"},
		wantErr: errMissingFlag,
	}, {
		name:    "missing workflow",
		opts:    options{Repo: "repo"},
		wantErr: errMissingFlag,
	}, {
		name:    "start only",
		opts:    options{Repo: "repo", Workflow: "CI", Start: "2024-01-01"},
		wantErr: workflows.ErrHalfOpenRange,
	}, {
		name:    "end only",
		opts:    options{Repo: "repo", Workflow: "CI", End: "2024-01-31"},
		wantErr: workflows.ErrHalfOpenRange,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := parseLevel(in)
		require.NoError(t, err)
		require.Equal(t, want, got, "parseLevel(%q)", in)
	}
	_, err := parseLevel("loud")
	require.Error(t, err)
}
