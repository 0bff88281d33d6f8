/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentation = "chainguard.dev/pairloop/agenttrace"

// Step is one phase of a run.
type Step struct {
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Error      error          `json:"error,omitempty"`
	StartTime  time.Time      `json:"start_time"`
	EndTime    time.Time      `json:"end_time"`
	trace      *Trace
	mu         sync.Mutex
	ctx        context.Context
	span       oteltrace.Span
}

// Trace is a complete run.
type Trace struct {
	ID        string     `json:"id"`
	Run       RunContext `json:"run"`
	Steps     []*Step    `json:"steps"`
	Result    string     `json:"result"`
	Error     error      `json:"error,omitempty"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	tracer    Tracer
	mu        sync.Mutex
	ctx       context.Context
	span      oteltrace.Span
}

// StartTrace begins a trace for the run described by ctx. Completed traces
// are delivered to the Tracer in ctx.
func StartTrace(ctx context.Context) *Trace {
	rc := GetRunContext(ctx)
	tr := otel.Tracer(instrumentation, oteltrace.WithInstrumentationVersion("1.0.0"))
	ctx, span := tr.Start(ctx, "agent.run",
		oteltrace.WithAttributes(rc.EnrichAttributes(nil)...))

	return &Trace{
		ID:        generateTraceID(),
		Run:       rc,
		Steps:     []*Step{},
		StartTime: time.Now(),
		tracer:    TracerFromContext(ctx),
		ctx:       ctx,
		span:      span,
	}
}

// Context returns the context carrying the run span.
func (t *Trace) Context() context.Context {
	return t.ctx
}

// StartStep begins a step as a child span of the run.
func (t *Trace) StartStep(name string, attrs map[string]any) *Step {
	tr := otel.Tracer(instrumentation, oteltrace.WithInstrumentationVersion("1.0.0"))
	ctx, span := tr.Start(t.ctx, "agent.step."+name, oteltrace.WithAttributes(
		attribute.String("step.name", name),
	))
	if attrs == nil {
		attrs = map[string]any{}
	}
	return &Step{
		Name:       name,
		Attributes: attrs,
		StartTime:  time.Now(),
		trace:      t,
		ctx:        ctx,
		span:       span,
	}
}

// Context returns the context carrying the step span.
func (s *Step) Context() context.Context {
	return s.ctx
}

// Complete ends the step and appends it to its trace.
func (s *Step) Complete(err error) {
	s.mu.Lock()
	s.Error = err
	s.EndTime = time.Now()
	span := s.span
	s.mu.Unlock()

	if span != nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}

	s.trace.mu.Lock()
	defer s.trace.mu.Unlock()
	s.trace.Steps = append(s.trace.Steps, s)
}

// Duration returns how long the step took, or has taken so far.
func (s *Step) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Complete ends the trace and hands it to the tracer.
func (t *Trace) Complete(result string, err error) {
	t.mu.Lock()
	t.Result = result
	t.Error = err
	t.EndTime = time.Now()
	t.mu.Unlock()

	if t.span != nil {
		t.span.SetAttributes(attribute.Int("steps", len(t.Steps)))
		if err != nil {
			t.span.RecordError(err)
			t.span.SetStatus(codes.Error, err.Error())
		} else {
			t.span.SetStatus(codes.Ok, "")
		}
		t.span.End()
	}

	if t.tracer != nil {
		t.tracer.RecordTrace(t)
	}
}

// Duration returns how long the run took, or has taken so far.
func (t *Trace) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.EndTime.IsZero() {
		return time.Since(t.StartTime)
	}
	return t.EndTime.Sub(t.StartTime)
}

// String renders a one-line-per-step summary of the trace.
func (t *Trace) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "run %s mode=%s", t.ID, t.Run.Mode)
	if t.Run.TaskID != "" {
		fmt.Fprintf(&b, " task=%s", t.Run.TaskID)
	}
	if t.Run.PRNumber != "" {
		fmt.Fprintf(&b, " pr=%s", t.Run.PRNumber)
	}
	for _, s := range t.Steps {
		fmt.Fprintf(&b, "\n  %s (%s)", s.Name, s.EndTime.Sub(s.StartTime).Round(time.Millisecond))
		if s.Error != nil {
			fmt.Fprintf(&b, " error: %v", s.Error)
		}
	}
	if t.Error != nil {
		fmt.Fprintf(&b, "\n  failed: %v", t.Error)
	} else if t.Result != "" {
		fmt.Fprintf(&b, "\n  result: %s", t.Result)
	}
	return b.String()
}

func generateTraceID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("trace-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
