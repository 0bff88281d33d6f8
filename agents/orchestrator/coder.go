/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"fmt"
	"slices"

	"chainguard.dev/pairloop/agents/agenttrace"
	"chainguard.dev/pairloop/agents/artifact"
	"chainguard.dev/pairloop/agents/codecontext"
	"chainguard.dev/pairloop/agents/role"
	"github.com/chainguard-dev/clog"
)

func (o *Orchestrator) runCoder(ctx context.Context, trace *agenttrace.Trace) (string, error) {
	step := trace.StartStep("context", map[string]any{"task_id": o.cfg.TaskID})
	rules := o.assembler.Overview(ctx)
	instruction, err := o.assembler.Instruction(ctx, o.cfg.TaskID)
	if err != nil {
		step.Complete(err)
		return "", fmt.Errorf("loading instruction: %w", err)
	}

	meta := codecontext.ParseTaskMetadata(instruction)
	if meta.Language != "" {
		step.Attributes["language"] = meta.Language
	}
	full := meta.TargetFiles
	if len(full) > 0 {
		clog.InfoContextf(ctx, "Including target files in full: %v", full)
	}
	dependent := o.assembler.Dependent(ctx, meta.DependsOn)

	codebase, err := o.assembler.Codebase(ctx, full)
	if err != nil {
		step.Complete(err)
		return "", fmt.Errorf("assembling context: %w", err)
	}
	step.Complete(nil)

	var plan *role.Plan
	if o.cfg.AnalysisPass {
		var extra []string
		if plan, extra = o.analyze(ctx, trace, role.AnalysisCoder, rules, instruction, codebase); len(extra) > 0 {
			full = append(full, extra...)
			if codebase, err = o.assembler.Codebase(ctx, full); err != nil {
				return "", fmt.Errorf("assembling context: %w", err)
			}
		}
	}

	prompt, err := role.Coder(role.CoderRequest{
		Rules:       rules,
		Context:     codebase,
		Instruction: instruction,
		Dependent:   dependent,
		Feedback:    o.cfg.Feedback,
		Plan:        plan,
	})
	if err != nil {
		return "", err
	}

	text, err := o.generate(ctx, trace, prompt)
	if err != nil {
		return "", err
	}

	step = trace.StartStep("write", nil)
	files := artifact.Parse(text)
	if len(files) == 0 {
		clog.WarnContextf(ctx, "No files found in the response")
		step.Complete(nil)
		return "no files written", nil
	}
	if off := untargeted(meta, files); len(off) > 0 {
		clog.WarnContextf(ctx, "Writing files outside TARGET FILES: %v", off)
		step.Attributes["untargeted_files"] = off
		o.run.SetUntargetedFiles(len(off))
	}
	n, err := o.writer.Write(ctx, files)
	o.run.SetFilesWritten(n)
	step.Complete(err)
	if err != nil {
		return "", fmt.Errorf("writing files: %w", err)
	}
	if err := artifact.Summarize(o.out, files); err != nil {
		clog.WarnContextf(ctx, "Could not print summary: %v", err)
	}
	return fmt.Sprintf("wrote %d files", n), nil
}

// untargeted returns the sorted paths in files that the task did not list as
// targets. A task without TARGET FILES constrains nothing.
func untargeted(meta codecontext.TaskMetadata, files artifact.Files) []string {
	if len(meta.TargetFiles) == 0 {
		return nil
	}
	var off []string
	for path := range files {
		if !meta.IsTargetFile(path) {
			off = append(off, path)
		}
	}
	slices.Sort(off)
	return off
}

// analyze runs the planning pass and returns the plan with the existing
// paths it asks to see in full. Failures are logged and yield no plan.
func (o *Orchestrator) analyze(ctx context.Context, trace *agenttrace.Trace, mode role.AnalysisMode, rules, task, codebase string) (*role.Plan, []string) {
	prompt, err := role.Analysis(role.AnalysisRequest{
		Mode:    mode,
		Rules:   rules,
		Task:    task,
		Context: codebase,
	})
	if err != nil {
		clog.WarnContextf(ctx, "Skipping analysis: %v", err)
		return nil, nil
	}
	text, err := o.generate(ctx, trace, prompt)
	if err != nil {
		clog.WarnContextf(ctx, "Analysis failed, continuing without it: %v", err)
		return nil, nil
	}
	plan, err := role.ParsePlan(text)
	if err != nil {
		clog.WarnContextf(ctx, "Analysis failed, continuing without it: %v", err)
		return nil, nil
	}

	// Paths are cleaned by the plan, so they match the keys ReadFiles uses.
	paths := plan.Paths()
	existing := o.assembler.ReadFiles(ctx, paths)
	out := make([]string, 0, len(existing))
	for _, p := range paths {
		if _, ok := existing[p]; ok {
			out = append(out, p)
		}
	}
	clog.FromContext(ctx).With("requested", len(paths)).With("found", len(out)).Info("Analysis complete")
	return &plan, out
}
