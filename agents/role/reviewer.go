/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package role

import (
	"fmt"

	"chainguard.dev/pairloop/agents/promptbuilder"
)

const (
	// StatusPass is the first line of an approving review.
	StatusPass = "STATUS: PASS"
	// StatusFail is the first line of a rejecting review.
	StatusFail = "STATUS: FAIL"
)

var reviewerPrompt = promptbuilder.MustNewPrompt(`You are a Strict Code Reviewer (Principal Engineer).

Verify the code below against instructions:
{{instruction}}

GENERATED CODE:
{{code}}

OUTPUT FORMAT:
First line: exactly "STATUS: PASS" or "STATUS: FAIL"
Subsequent lines: Bullet points of critique.
`)

// ReviewerRequest holds the task and the code under review.
type ReviewerRequest struct {
	Instruction string
	Code        string
}

// Reviewer builds the review prompt.
func Reviewer(req ReviewerRequest) (string, error) {
	p, err := reviewerPrompt.BindDocument("instruction", req.Instruction)
	if err != nil {
		return "", err
	}
	if p, err = p.BindDocument("code", req.Code); err != nil {
		return "", err
	}
	out, err := p.Build()
	if err != nil {
		return "", fmt.Errorf("building reviewer prompt: %w", err)
	}
	return out, nil
}
