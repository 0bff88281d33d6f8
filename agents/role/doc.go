/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package role builds the prompts for each agent persona: the coder in its
// refactor and question-answering forms, the reviewer, and the optional
// analysis pass that plans which files the coder needs to see in full.
//
// Every builder is deterministic: identical inputs produce identical prompts.
package role
