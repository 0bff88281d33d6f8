/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs one pairloop agent mode inside CI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/chainguard-dev/terraform-infra-common/pkg/httpmetrics"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer httpmetrics.SetupTracer(ctx)()

	if err := newRootCmd(run).ExecuteContext(ctx); err != nil {
		clog.FatalContextf(ctx, "pairloop: %v", err)
	}
}
