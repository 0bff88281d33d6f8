/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package providertest provides a scripted provider.Client for tests.
package providertest

import (
	"context"
	"fmt"
	"sync"
)

// Call records one Generate invocation.
type Call struct {
	Model  string
	Prompt string
}

// Reply is one scripted outcome.
type Reply struct {
	Text string
	Err  error
}

// Scripted replays replies in order and records every call.
// Once the script is exhausted the last reply repeats.
type Scripted struct {
	mu      sync.Mutex
	replies []Reply
	calls   []Call
}

// New returns a client that replays the given replies.
func New(replies ...Reply) *Scripted {
	return &Scripted{replies: replies}
}

// Text returns a client that always succeeds with text.
func Text(text string) *Scripted {
	return New(Reply{Text: text})
}

// Failing returns a client that always fails with err.
func Failing(err error) *Scripted {
	return New(Reply{Err: err})
}

// Generate implements provider.Client.
func (s *Scripted) Generate(_ context.Context, model, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{Model: model, Prompt: prompt})
	if len(s.replies) == 0 {
		return "", fmt.Errorf("no scripted reply for call %d", len(s.calls))
	}
	idx := min(len(s.calls)-1, len(s.replies)-1)
	r := s.replies[idx]
	return r.Text, r.Err
}

// Calls returns a copy of the recorded calls.
func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Models returns the model used by each recorded call.
func (s *Scripted) Models() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.Model)
	}
	return out
}
