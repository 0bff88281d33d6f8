/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/pairloop/agents/agenttrace"
	"chainguard.dev/pairloop/agents/codecontext"
	"chainguard.dev/pairloop/agents/config"
	"chainguard.dev/pairloop/agents/role"
	"chainguard.dev/pairloop/reconcilers/review"
	"github.com/chainguard-dev/clog"
)

func (o *Orchestrator) runReviewer(ctx context.Context, trace *agenttrace.Trace) (string, error) {
	if strings.TrimSpace(o.cfg.PRNumber) == "" {
		return "", config.ErrMissingPRNumber
	}

	step := trace.StartStep("context", map[string]any{"task_id": o.cfg.TaskID})
	instruction, err := o.assembler.Instruction(ctx, o.cfg.TaskID)
	if err != nil {
		step.Complete(err)
		return "", fmt.Errorf("loading instruction: %w", err)
	}
	meta := codecontext.ParseTaskMetadata(instruction)
	codebase, err := o.assembler.Codebase(ctx, meta.TargetFiles)
	step.Complete(err)
	if err != nil {
		return "", fmt.Errorf("assembling context: %w", err)
	}

	prompt, err := role.Reviewer(role.ReviewerRequest{
		Instruction: instruction,
		Code:        codebase,
	})
	if err != nil {
		return "", err
	}

	text, err := o.generate(ctx, trace, prompt)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(o.out, "\n=== REVIEW CONTENT ===\n%s\n=== END REVIEW ===\n", text)

	verdict := review.Derive(text)
	step = trace.StartStep("submit", map[string]any{"pr": o.cfg.PRNumber, "event": string(verdict.Event)})
	err = o.submitter.Submit(ctx, o.cfg.PRNumber, verdict)
	step.Complete(err)
	if err != nil {
		return "", fmt.Errorf("submitting review: %w", err)
	}
	clog.InfoContextf(ctx, "Submitted %s on pull request %s", verdict.Event, o.cfg.PRNumber)
	return string(verdict.Event), nil
}
