/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements actionstrace, which replays the history of a GitHub
// Actions workflow as OpenTelemetry traces with the original timing.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := newRootCmd(envconfig.OsLookuper()).ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
