/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sethvargo/go-envconfig"

	"chainguard.dev/actionstrace/retry"
	"chainguard.dev/actionstrace/telemetry"
	"chainguard.dev/actionstrace/workflows"
	"chainguard.dev/actionstrace/workflows/githubsource"
)

// envConfig is read from the environment, after an optional .env file.
type envConfig struct {
	GitHubToken             string `env:"GITHUB_AUTH_TOKEN"`
	GitHubAppID             int64  `env:"GITHUB_APP_ID"`
	GitHubAppInstallationID int64  `env:"GITHUB_APP_INSTALLATION_ID"`
	GitHubAppPrivateKeyPath string `env:"GITHUB_APP_PRIVATE_KEY_PATH"`
	GitHubAPIURL            string `env:"GITHUB_API_URL"`
	GitHubMaxRetries        int    `env:"GITHUB_MAX_RETRIES,default=3"`

	HoneycombTeam  string `env:"HC_TEAM_TOKEN"`
	OTLPEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT,default=api.honeycomb.io:443"`
	OTLPProtocol   string `env:"OTEL_EXPORTER_OTLP_PROTOCOL,default=http/protobuf"`
	OTLPInsecure   bool   `env:"OTEL_EXPORTER_OTLP_INSECURE,default=false"`
	ServiceName    string `env:"OTEL_SERVICE_NAME,default=my-service"`
	PushgatewayURL string `env:"PUSHGATEWAY_URL"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func loadEnv(ctx context.Context, lookuper envconfig.Lookuper) (envConfig, error) {
	var cfg envConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return envConfig{}, fmt.Errorf("processing config: %w", err)
	}
	return cfg, nil
}

func (c envConfig) auth() githubsource.Auth {
	return githubsource.Auth{
		Token:          c.GitHubToken,
		AppID:          c.GitHubAppID,
		InstallationID: c.GitHubAppInstallationID,
		PrivateKeyPath: c.GitHubAppPrivateKeyPath,
		BaseURL:        c.GitHubAPIURL,
	}
}

func (c envConfig) retryConfig() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxRetries = c.GitHubMaxRetries
	return cfg
}

func (c envConfig) telemetry() telemetry.Config {
	cfg := telemetry.Config{
		Endpoint:       c.OTLPEndpoint,
		Protocol:       telemetry.Protocol(c.OTLPProtocol),
		Insecure:       c.OTLPInsecure,
		ServiceName:    c.ServiceName,
		ServiceVersion: version,
		PushgatewayURL: c.PushgatewayURL,
	}
	if c.HoneycombTeam != "" {
		cfg.Headers = map[string]string{"x-honeycomb-team": c.HoneycombTeam}
	}
	return cfg
}

// options are the command line flags.
type options struct {
	Org       string
	Repo      string
	Workflow  string
	Start     string
	End       string
	SkipSteps bool
	FromFile  string
	LogLevel  string
	Summary   bool
}

var errMissingFlag = errors.New("missing required flag")

// validate rejects bad flags before anything contacts GitHub.
func (o options) validate() error {
	if o.Repo == "" {
		return fmt.Errorf("%w: --repo", errMissingFlag)
	}
	if o.Workflow == "" {
		return fmt.Errorf("%w: --workflow", errMissingFlag)
	}
	if err := o.filter().Validate(); err != nil {
		return fmt.Errorf("--start and --end: %w", err)
	}
	return nil
}

func (o options) filter() workflows.RunFilter {
	return workflows.RunFilter{Start: o.Start, End: o.End}
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("parsing log level %q: %w", s, err)
	}
	return l, nil
}
