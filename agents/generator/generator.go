/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chainguard.dev/pairloop/agents/executor/retry"
	"chainguard.dev/pairloop/agents/metrics"
	"chainguard.dev/pairloop/agents/provider"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Request is a single generation: one prompt, an ordered list of candidate
// models and the total number of attempts allowed.
type Request struct {
	Prompt      string
	Models      []string
	MaxAttempts int
}

// Validate reports malformed requests.
func (r Request) Validate() error {
	if len(r.Models) == 0 {
		return errors.New("at least one model is required")
	}
	for i, m := range r.Models {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("model %d is empty", i)
		}
	}
	if r.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", r.MaxAttempts)
	}
	return nil
}

// AttemptHook observes every attempt outcome.
type AttemptHook func(ctx context.Context, model string, err error)

// Generator executes requests against a remote client with cyclic model
// fallback, a per-attempt timeout and overload-aware backoff.
// It is not safe for concurrent use; generation is strictly sequential.
type Generator struct {
	client  provider.Client
	timeout time.Duration
	backoff retry.BackoffFunc
	sleep   retry.SleepFunc
	metrics *metrics.GenAI
	hooks   []AttemptHook
}

// New creates a generator around a long-lived client.
func New(client provider.Client, opts ...Option) (*Generator, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
	g := &Generator{
		client:  client,
		timeout: retry.DefaultTimeout,
		backoff: retry.OverloadAwareBackoff,
		sleep:   retry.Sleep,
		metrics: metrics.NewGenAI("chainguard.dev/pairloop"),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return g, nil
}

// Generate returns the first successful response. When every attempt fails,
// the error from the final attempt is returned unchanged.
func (g *Generator) Generate(ctx context.Context, req Request) (text string, err error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("invalid generation request: %w", err)
	}

	tr := otel.Tracer("chainguard.dev/pairloop/generator",
		oteltrace.WithInstrumentationVersion("1.0.0"))
	ctx, span := tr.Start(ctx, "generation", oteltrace.WithAttributes(
		attribute.StringSlice("models", req.Models),
		attribute.Int("max_attempts", req.MaxAttempts),
		attribute.Int("prompt_length", len(req.Prompt)),
	))
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("response_length", len(text)))
		}
		span.End()
	}()

	cfg := retry.Config{
		MaxAttempts: req.MaxAttempts,
		Timeout:     g.timeout,
		Sleep:       g.sleep,
	}
	var lastModel string
	cfg.Backoff = func(attempt int, err error) time.Duration {
		wait := g.backoff(attempt, err)
		g.metrics.RecordBackoff(ctx, lastModel, wait, retry.IsOverloaded(err))
		return wait
	}

	return retry.Cycle(ctx, cfg, "generate", req.Models, func(ctx context.Context, model string) (string, error) {
		lastModel = model
		text, err := g.client.Generate(ctx, model, req.Prompt)
		g.metrics.RecordAttempt(ctx, model, err)
		for _, hook := range g.hooks {
			hook(ctx, model, err)
		}
		span.AddEvent("attempt", oteltrace.WithAttributes(
			attribute.String("model", model),
			attribute.Bool("success", err == nil),
		))
		return text, err
	})
}
