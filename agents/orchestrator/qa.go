/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"chainguard.dev/pairloop/agents/agenttrace"
	"chainguard.dev/pairloop/agents/role"
	"github.com/chainguard-dev/clog"
)

func (o *Orchestrator) runQA(ctx context.Context, trace *agenttrace.Trace) (string, error) {
	step := trace.StartStep("context", map[string]any{"base_branch": o.cfg.BaseBranch})
	rules := o.assembler.Overview(ctx)
	codebase, err := o.qaContext(ctx)
	step.Complete(err)
	if err != nil {
		return "", err
	}

	req := role.QARequest{
		Rules:    rules,
		Context:  codebase,
		Question: o.cfg.Question,
		Locator: role.Locator{
			Path:      o.cfg.CommentPath,
			StartLine: o.cfg.CommentStartLine,
			EndLine:   o.cfg.CommentEndLine,
		},
	}
	if o.cfg.AnalysisPass {
		if _, extra := o.analyze(ctx, trace, role.AnalysisQA, rules, req.Request(), codebase); len(extra) > 0 {
			full := o.assembler.ReadFiles(ctx, extra)
			for _, p := range extra {
				req.Context += fmt.Sprintf("\n--- File: %s ---\n%s", p, full[p])
			}
		}
	}

	prompt, err := role.QA(req)
	if err != nil {
		return "", err
	}
	text, err := o.generate(ctx, trace, prompt)
	if err != nil {
		return "", err
	}

	step = trace.StartStep("answer", nil)
	path := o.answerPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		step.Complete(err)
		return "", fmt.Errorf("creating answer directory: %w", err)
	}
	err = os.WriteFile(path, []byte(text), 0o644)
	step.Complete(err)
	if err != nil {
		return "", fmt.Errorf("writing answer: %w", err)
	}
	clog.FromContext(ctx).With("path", path).With("bytes", len(text)).Info("Wrote answer")
	return "answered", nil
}

// qaContext prefers the changes against the base branch and falls back to
// the plain codebase excerpt.
func (o *Orchestrator) qaContext(ctx context.Context) (string, error) {
	if o.cfg.BaseBranch != "" {
		changes, err := o.assembler.Diff(ctx, o.cfg.BaseBranch)
		if err == nil {
			return changes.Render(o.cfg.CommentPath), nil
		}
		clog.WarnContextf(ctx, "Could not diff against %s, using the codebase context: %v", o.cfg.BaseBranch, err)
	}
	codebase, err := o.assembler.Codebase(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("assembling context: %w", err)
	}
	return codebase, nil
}
