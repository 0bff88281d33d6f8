/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package role

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"chainguard.dev/pairloop/agents/promptbuilder"
	"chainguard.dev/pairloop/agents/result"
	"chainguard.dev/pairloop/agents/schema"
)

// FileAction is one entry of an analysis plan.
type FileAction struct {
	Path     string   `json:"path" yaml:"path" jsonschema:"required,description=Repository-relative file path"`
	Sections []string `json:"sections,omitempty" yaml:"sections,omitempty" jsonschema:"description=Functions or types of interest"`
	Reason   string   `json:"reason" yaml:"reason" jsonschema:"required"`
}

// Plan is the analysis pass response: which files the next step needs.
type Plan struct {
	FilesToModify []FileAction `json:"files_to_modify,omitempty" yaml:"files_to_modify,omitempty"`
	FilesToCreate []FileAction `json:"files_to_create,omitempty" yaml:"files_to_create,omitempty"`
	FilesToRead   []FileAction `json:"files_to_read,omitempty" yaml:"files_to_read,omitempty"`
}

// Paths returns the existing files the plan asks to see in full, cleaned,
// in order and without duplicates. Files to create are not included.
func (p Plan) Paths() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, group := range [][]FileAction{p.FilesToModify, p.FilesToRead} {
		for _, f := range group {
			if strings.TrimSpace(f.Path) == "" {
				continue
			}
			clean := strings.TrimPrefix(path.Clean(filepath.ToSlash(strings.TrimSpace(f.Path))), "./")
			if _, ok := seen[clean]; ok {
				continue
			}
			seen[clean] = struct{}{}
			out = append(out, clean)
		}
	}
	return out
}

// Empty reports whether the plan names no files at all.
func (p Plan) Empty() bool {
	return len(p.FilesToModify) == 0 && len(p.FilesToCreate) == 0 && len(p.FilesToRead) == 0
}

// AnalysisMode selects what the analysis pass plans for.
type AnalysisMode string

const (
	AnalysisCoder AnalysisMode = "coder"
	AnalysisQA    AnalysisMode = "qa"
)

// AnalysisRequest holds the materials for a planning pass.
type AnalysisRequest struct {
	Mode  AnalysisMode
	Rules string
	// Task is the instruction document (coder) or the question (qa).
	Task    string
	Context string
}

var coderAnalysisPrompt = promptbuilder.MustNewPrompt(`You are a Senior Engineer analyzing a codebase.

GLOBAL PROJECT RULES:
{{rules}}

TASK INSTRUCTIONS:
{{task}}

CODEBASE CONTEXT:
{{context}}

INSTRUCTIONS:
1. Analyze the task requirements.
2. Review the files shown in full and the truncated excerpts.
3. Identify which additional files need full content to complete the task.

RULES:
- Do NOT include files already shown with full content.
- Only request files that likely need modification.
- Be conservative: only request files you truly need.

Respond with a single JSON object, no markdown, matching this schema:
{{schema}}
`)

var qaAnalysisPrompt = promptbuilder.MustNewPrompt(`You are a Senior Engineer analyzing a codebase.

GLOBAL PROJECT RULES:
{{rules}}

USER QUESTION:
{{task}}

CONTEXT:
{{context}}

INSTRUCTIONS:
1. Analyze what the user is asking.
2. Review the changed files and the truncated excerpts.
3. Identify which additional files need full content to answer accurately,
   listing them under files_to_read.

RULES:
- Do NOT include files already shown with full content.
- Consider files that implement related logic, define types used or show patterns.
- Be conservative: only request files you truly need.

Respond with a single JSON object, no markdown, matching this schema:
{{schema}}
`)

var planSchema = sync.OnceValue(schema.ForPrompt[Plan])

// Analysis builds the planning prompt. The expected response shape is
// described by the JSON schema of Plan.
func Analysis(req AnalysisRequest) (string, error) {
	var tmpl *promptbuilder.Prompt
	switch req.Mode {
	case AnalysisCoder:
		tmpl = coderAnalysisPrompt
	case AnalysisQA:
		tmpl = qaAnalysisPrompt
	default:
		return "", fmt.Errorf("unknown analysis mode %q", req.Mode)
	}

	p, err := tmpl.BindDocument("rules", req.Rules)
	if err != nil {
		return "", err
	}
	if p, err = p.BindDocument("task", req.Task); err != nil {
		return "", err
	}
	if p, err = p.BindDocument("context", req.Context); err != nil {
		return "", err
	}
	if p, err = p.BindJSON("schema", planSchema()); err != nil {
		return "", err
	}
	out, err := p.Build()
	if err != nil {
		return "", fmt.Errorf("building analysis prompt: %w", err)
	}
	return out, nil
}

// ParsePlan decodes an analysis response.
func ParsePlan(text string) (Plan, error) {
	plan, err := result.Extract[Plan](text)
	if err != nil {
		return Plan{}, fmt.Errorf("parsing analysis plan: %w", err)
	}
	return plan, nil
}
