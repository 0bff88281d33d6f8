/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package review turns reviewer output into a formal pull request review and
// submits it, either through the gh CLI or the GitHub REST API.
package review

import (
	"context"
	"strings"
)

// Event is the kind of review submitted.
type Event string

const (
	Approve        Event = "APPROVE"
	RequestChanges Event = "REQUEST_CHANGES"
)

// PassMarker is the literal whose presence approves a review.
const PassMarker = "STATUS: PASS"

const (
	passHeading = "## AI Review: PASS ✅\n\n"
	failHeading = "## AI Review: CHANGES REQUESTED ❌\n\n"
)

// Verdict is a review outcome and the body posted with it.
type Verdict struct {
	Event Event
	Body  string
}

// Approved reports whether the verdict approves the pull request.
func (v Verdict) Approved() bool {
	return v.Event == Approve
}

// Derive maps reviewer output to a verdict. Only text containing PassMarker
// approves; anything else, including a missing marker, requests changes.
func Derive(text string) Verdict {
	if strings.Contains(text, PassMarker) {
		return Verdict{Event: Approve, Body: passHeading + text}
	}
	return Verdict{Event: RequestChanges, Body: failHeading + text}
}

// Submitter posts a verdict on a pull request.
type Submitter interface {
	Submit(ctx context.Context, pr string, v Verdict) error
}
