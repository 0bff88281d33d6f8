/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package agenttrace records the steps of an agent run.
//
// A Trace covers one run from mode selection to its final side effect. Each
// step (assembling context, generating, parsing, writing, submitting) is a
// Step with its own OpenTelemetry span. When the trace completes, the Tracer
// found in the context receives it; by default it is logged with clog.
//
//	ctx = agenttrace.WithRunContext(ctx, agenttrace.RunContext{Mode: "coder", TaskID: "03"})
//	trace := agenttrace.StartTrace(ctx)
//	step := trace.StartStep("generate", map[string]any{"models": models})
//	text, err := gen.Generate(step.Context(), req)
//	step.Complete(err)
//	trace.Complete("wrote 3 files", err)
package agenttrace
