/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package role

import (
	"fmt"
	"strings"

	"chainguard.dev/pairloop/agents/promptbuilder"
)

var coderPrompt = promptbuilder.MustNewPrompt(`You are a Senior Go Engineer. Implement the following task.

GLOBAL PROJECT RULES (MUST FOLLOW):
{{rules}}

CONTEXT:
{{context}}
{{dependent}}{{plan}}
TASK INSTRUCTIONS:
{{instruction}}

REQUIREMENTS:
1. Output the FULL content of any file you create or modify.
2. Format:
   ### File: path/to/file
   ` + "```" + `
   // content
   ` + "```" + `
3. FIX issues from the FEEDBACK below (if any).

PREVIOUS REVIEWER FEEDBACK:
{{feedback}}
`)

// CoderRequest holds the materials for a refactoring task.
type CoderRequest struct {
	Rules       string
	Context     string
	Instruction string
	// Dependent is the rendered context of prerequisite tasks, if any.
	Dependent string
	// Feedback is the previous reviewer's critique, if any.
	Feedback string
	// Plan is the analysis pass result, if one ran.
	Plan *Plan
}

var planSection = promptbuilder.MustNewPrompt(`
ANALYSIS PLAN (files identified before this step):
{{plan}}`)

// Coder builds the refactoring prompt. Missing feedback is rendered as "None.".
func Coder(req CoderRequest) (string, error) {
	p, err := coderPrompt.BindDocument("rules", req.Rules)
	if err != nil {
		return "", err
	}
	if p, err = p.BindDocument("context", req.Context); err != nil {
		return "", err
	}
	if p, err = p.BindDocument("instruction", req.Instruction); err != nil {
		return "", err
	}
	if dep := strings.TrimSpace(req.Dependent); dep != "" {
		p, err = p.BindDocument("dependent", "\n"+dep+"\n")
	} else {
		p, err = p.BindStringLiteral("dependent", "")
	}
	if err != nil {
		return "", err
	}
	if p, err = bindPlan(p, req.Plan); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.Feedback) == "" {
		p, err = p.BindStringLiteral("feedback", "None.")
	} else {
		p, err = p.BindDocument("feedback", req.Feedback)
	}
	if err != nil {
		return "", err
	}
	out, err := p.Build()
	if err != nil {
		return "", fmt.Errorf("building coder prompt: %w", err)
	}
	return out, nil
}

// bindPlan renders a non-empty plan as YAML under its own heading.
func bindPlan(p *promptbuilder.Prompt, plan *Plan) (*promptbuilder.Prompt, error) {
	if plan == nil || plan.Empty() {
		return p.BindStringLiteral("plan", "")
	}
	section, err := planSection.BindYAML("plan", plan)
	if err != nil {
		return nil, err
	}
	text, err := section.Build()
	if err != nil {
		return nil, fmt.Errorf("rendering analysis plan: %w", err)
	}
	return p.BindDocument("plan", text)
}
