/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"chainguard.dev/actionstrace/metrics"
	"chainguard.dev/actionstrace/report"
	"chainguard.dev/actionstrace/telemetry"
	"chainguard.dev/actionstrace/workflows"
	"chainguard.dev/actionstrace/workflows/filesource"
	"chainguard.dev/actionstrace/workflows/githubsource"
	"chainguard.dev/actionstrace/workflowtrace"
)

const instrumentationName = "chainguard.dev/actionstrace"

func newRootCmd(lookuper envconfig.Lookuper) *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "actionstrace",
		Short: "Replay GitHub Actions workflow history as OpenTelemetry traces",
		Long: `actionstrace fetches the runs of a GitHub Actions workflow and emits one
trace per run: a span for the run, a child span for each job and a grandchild
span for each step, all carrying their recorded start and completion times.

Credentials and the telemetry destination come from the environment
(GITHUB_AUTH_TOKEN, HC_TEAM_TOKEN, OTEL_EXPORTER_OTLP_*), optionally loaded
from a .env file.

Example:
  actionstrace --repo driftlessaf --workflow CI --org chainguard-dev \
    --start 2024-01-01 --end 2024-01-31`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), o, lookuper, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	// Flag parsing fails before RunE, so report those errors here.
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return configError(c.ErrOrStderr(), err)
	})

	flags := cmd.Flags()
	flags.StringVar(&o.Repo, "repo", "", "repository name (required)")
	flags.StringVar(&o.Workflow, "workflow", "", "workflow name as shown in the Actions tab (required)")
	flags.StringVar(&o.Org, "org", "", "repository owner; defaults to the authenticated user")
	flags.StringVar(&o.Start, "start", "", "only runs created on or after this date (requires --end)")
	flags.StringVar(&o.End, "end", "", "only runs created on or before this date (requires --start)")
	flags.BoolVar(&o.SkipSteps, "skip-steps", false, "emit runs and jobs only")
	flags.BoolVar(&o.SkipSteps, "skipsteps", false, "alias for --skip-steps")
	_ = flags.MarkHidden("skipsteps")
	flags.StringVar(&o.FromFile, "from-file", "", "replay a recorded history file instead of calling GitHub")
	flags.StringVar(&o.LogLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	flags.BoolVar(&o.Summary, "summary", true, "print a markdown summary when done")
	return cmd
}

// userSource is implemented by sources that know who they authenticate as.
type userSource interface {
	workflows.Source
	AuthenticatedUser(ctx context.Context) (string, error)
}

func run(ctx context.Context, o options, lookuper envconfig.Lookuper, stdout, stderr io.Writer) error {
	env, err := loadEnv(ctx, lookuper)
	if err != nil {
		return configError(stderr, err)
	}
	if o.LogLevel == "" {
		o.LogLevel = env.LogLevel
	}
	level, err := parseLevel(o.LogLevel)
	if err != nil {
		return configError(stderr, err)
	}
	ctx = clog.WithLogger(ctx, clog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	log := clog.FromContext(ctx)

	if err := o.validate(); err != nil {
		log.Errorf("Invalid configuration: %v", err)
		return err
	}
	tcfg := env.telemetry()
	if tcfg.Protocol == telemetry.ProtocolConsole {
		tcfg.Writer = stdout
	}
	if err := tcfg.Validate(); err != nil {
		log.Errorf("Invalid configuration: %v", err)
		return err
	}

	src, err := newSource(ctx, o, env)
	if err != nil {
		log.Errorf("Invalid configuration: %v", err)
		return err
	}

	owner := o.Org
	if owner == "" {
		if owner, err = src.AuthenticatedUser(ctx); err != nil {
			log.Errorf("Resolving the repository owner: %v", err)
			return err
		}
		log.Infof("No --org given, using %s", owner)
	}

	shutdown, err := telemetry.Init(ctx, tcfg)
	if err != nil {
		log.Errorf("Initializing telemetry: %v", err)
		return err
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Warnf("Flushing telemetry: %v", err)
		}
	}()

	executionID := uuid.NewString()
	log.Infof("Execution ID: %s", executionID)

	em := metrics.NewEmission(instrumentationName)
	em.SetAttributeEnricher(metrics.Static(
		attribute.String("repository", owner+"/"+o.Repo),
		attribute.String("workflow", o.Workflow),
	))
	tracer := otel.Tracer(instrumentationName, trace.WithInstrumentationVersion(version))
	emitter := workflowtrace.New(tracer, executionID, src, workflowtrace.WithMetrics(em))

	summary, err := workflowtrace.NewOrchestrator(emitter).Run(ctx, workflowtrace.Request{
		Owner:     owner,
		Repo:      o.Repo,
		Workflow:  o.Workflow,
		Filter:    o.filter(),
		SkipSteps: o.SkipSteps,
	})
	if err != nil {
		log.Errorf("Emitting workflow history: %v", err)
		return err
	}

	if o.Summary {
		fmt.Fprint(stdout, report.Markdown(summary))
	}
	log.Info("All done")
	return nil
}

func newSource(ctx context.Context, o options, env envConfig) (userSource, error) {
	if o.FromFile != "" {
		src, err := filesource.Load(o.FromFile)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	if err := env.retryConfig().Validate(); err != nil {
		return nil, fmt.Errorf("GITHUB_MAX_RETRIES: %w", err)
	}
	client, err := githubsource.NewClient(ctx, env.auth())
	if err != nil {
		return nil, err
	}
	return githubsource.New(client, githubsource.WithRetryConfig(env.retryConfig())), nil
}

// configError reports errors raised before the logger exists.
func configError(w io.Writer, err error) error {
	fmt.Fprintf(w, "Configuration error: %v\n", err)
	return err
}
