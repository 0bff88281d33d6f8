/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// Tracer receives completed traces.
type Tracer interface {
	RecordTrace(*Trace)
}

// ByCode adapts a callback to a Tracer.
type ByCode func(*Trace)

// RecordTrace implements Tracer.
func (f ByCode) RecordTrace(t *Trace) {
	f(t)
}

type tracerKey struct{}

// WithTracer attaches a tracer to ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, t)
}

// TracerFromContext returns the tracer in ctx, or one that logs completed
// traces with the context's logger.
func TracerFromContext(ctx context.Context) Tracer {
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return NewDefaultTracer(ctx)
}

// NewDefaultTracer logs each completed trace.
func NewDefaultTracer(ctx context.Context) Tracer {
	logger := clog.FromContext(ctx)
	return ByCode(func(t *Trace) {
		logger.With(
			"trace_id", t.ID,
			"duration_ms", t.Duration().Milliseconds(),
			"steps", len(t.Steps),
		).Info("Agent run completed", "trace", t.String())
	})
}
