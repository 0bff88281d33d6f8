/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// GenAI provides OpenTelemetry metrics for remote generation calls.
// It counts attempts by model and outcome and accumulates the time spent
// waiting between attempts, with graceful degradation if metric creation fails.
type GenAI struct {
	attempts     metric.Int64Counter
	backoff      metric.Float64Counter
	attrEnricher AttributeEnricher
}

// NewGenAI creates a new GenAI metrics instance with the specified meter name.
// If any instrument fails to initialize a warning is logged and a no-op
// instrument is used instead of failing entirely.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	attempts, err := meter.Int64Counter("genai.generation.attempts",
		metric.WithDescription("The number of remote generation attempts"),
		metric.WithUnit("{attempts}"))
	if err != nil {
		slog.Warn("Failed to create attempts counter, metrics will be disabled", "error", err, "meter", meterName)
		attempts = noop.Int64Counter{}
	}

	backoff, err := meter.Float64Counter("genai.generation.backoff",
		metric.WithDescription("Time spent waiting between generation attempts"),
		metric.WithUnit("s"))
	if err != nil {
		slog.Warn("Failed to create backoff counter, metrics will be disabled", "error", err, "meter", meterName)
		backoff = noop.Float64Counter{}
	}

	return &GenAI{
		attempts: attempts,
		backoff:  backoff,
	}
}

// SetAttributeEnricher sets the attribute enricher for this metrics instance.
func (m *GenAI) SetAttributeEnricher(enricher AttributeEnricher) {
	m.attrEnricher = enricher
}

// RecordAttempt records one generation attempt against model.
// A nil err is recorded as outcome "success", anything else as "failure".
func (m *GenAI) RecordAttempt(ctx context.Context, model string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	attrs := m.attributes(ctx,
		attribute.String("model", model),
		attribute.String("outcome", outcome),
	)
	m.attempts.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordBackoff records a wait taken after a failed attempt against model.
func (m *GenAI) RecordBackoff(ctx context.Context, model string, wait time.Duration, overloaded bool) {
	attrs := m.attributes(ctx,
		attribute.String("model", model),
		attribute.Bool("overloaded", overloaded),
	)
	m.backoff.Add(ctx, wait.Seconds(), metric.WithAttributes(attrs...))
}

func (m *GenAI) attributes(ctx context.Context, base ...attribute.KeyValue) []attribute.KeyValue {
	if m.attrEnricher != nil {
		return m.attrEnricher(ctx, base)
	}
	return base
}
