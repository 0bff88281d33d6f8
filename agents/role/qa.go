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

var qaPrompt = promptbuilder.MustNewPrompt(`You are a Helpful Senior Engineer Assistant.

GLOBAL PROJECT RULES:
{{rules}}

CONTEXT:
{{context}}

USER REQUEST:
{{request}}

INSTRUCTIONS:
- If asking for explanation, explain clearly.
- If asking for code changes, output the FULL file content.
- Use format: ### File: path/to/file.go
`)

// Locator points a question at a file and line range in a pull request.
// Line numbers are kept as the raw strings the review comment supplied.
type Locator struct {
	Path      string
	StartLine string
	EndLine   string
}

// Lines renders the line locator. A range is used only when a start line is
// present, is not the literal "None", and differs from the end line.
// It returns "" when the locator has no path or no end line.
func (l Locator) Lines() string {
	if l.Path == "" || l.EndLine == "" {
		return ""
	}
	if l.StartLine != "" && l.StartLine != "None" && l.StartLine != l.EndLine {
		return fmt.Sprintf("TARGET LINES: %s-%s", l.StartLine, l.EndLine)
	}
	return "TARGET LINE: " + l.EndLine
}

// QARequest holds a free-form question about the pull request.
type QARequest struct {
	Rules    string
	Context  string
	Question string
	Locator  Locator
}

// Request renders the user request: the question with the "/ask" command
// removed, prefixed by the target file and lines when a locator is present.
func (r QARequest) Request() string {
	q := strings.TrimSpace(strings.ReplaceAll(r.Question, "/ask", ""))
	lines := r.Locator.Lines()
	if lines == "" {
		return q
	}
	return fmt.Sprintf("TARGET FILE: %s\n%s\nQUESTION: %s", r.Locator.Path, lines, q)
}

// QA builds the question-answering prompt.
func QA(req QARequest) (string, error) {
	p, err := qaPrompt.BindDocument("rules", req.Rules)
	if err != nil {
		return "", err
	}
	if p, err = p.BindDocument("context", req.Context); err != nil {
		return "", err
	}
	if p, err = p.BindDocument("request", req.Request()); err != nil {
		return "", err
	}
	out, err := p.Build()
	if err != nil {
		return "", fmt.Errorf("building question prompt: %w", err)
	}
	return out, nil
}
