/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package orchestrator sequences a single agent run.
//
// The mode is resolved once from the configuration. Each mode assembles its
// context, renders its role prompt, generates with model fallback and then
// performs exactly one kind of side effect:
//
//   - coder: parses "### File:" sections from the response and writes them
//     under the workspace root
//   - reviewer: derives an approve/request-changes verdict and submits it on
//     the pull request
//   - qa: writes the response verbatim to the answer file
//
// Any failure before the side effect aborts the run with an error; nothing is
// written or submitted in that case.
package orchestrator
