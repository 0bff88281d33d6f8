/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// RunContext identifies what a run is working on.
type RunContext struct {
	Mode       string `json:"mode"`
	TaskID     string `json:"task_id,omitempty"`
	PRNumber   string `json:"pr_number,omitempty"`
	Repository string `json:"repository,omitempty"` // owner/name
}

// EnrichAttributes appends the run's identifying attributes to baseAttrs.
// Empty fields are omitted.
func (r RunContext) EnrichAttributes(baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(baseAttrs), len(baseAttrs)+4)
	copy(attrs, baseAttrs)

	if r.Mode != "" {
		attrs = append(attrs, attribute.String("mode", r.Mode))
	}
	if r.TaskID != "" {
		attrs = append(attrs, attribute.String("task_id", r.TaskID))
	}
	if r.Repository != "" {
		attrs = append(attrs, attribute.String("repository", r.Repository))
	}
	return attrs
}

type contextKey string

const runContextKey contextKey = "run_context"

// WithRunContext attaches a RunContext to ctx.
func WithRunContext(ctx context.Context, rc RunContext) context.Context {
	return context.WithValue(ctx, runContextKey, rc)
}

// GetRunContext returns the RunContext attached to ctx, or the zero value.
func GetRunContext(ctx context.Context) RunContext {
	if rc, ok := ctx.Value(runContextKey).(RunContext); ok {
		return rc
	}
	return RunContext{}
}

// EnrichFromContext is a metrics attribute enricher that tags measurements
// with the RunContext carried by ctx.
func EnrichFromContext(ctx context.Context, baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	return GetRunContext(ctx).EnrichAttributes(baseAttrs)
}
