/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"errors"
	"io"

	"chainguard.dev/pairloop/agents/generator"
	"chainguard.dev/pairloop/reconcilers/review"
)

// Option is a functional option for configuring an Orchestrator.
type Option func(*Orchestrator) error

// WithSubmitter sets where reviewer verdicts are submitted.
func WithSubmitter(s review.Submitter) Option {
	return func(o *Orchestrator) error {
		if s == nil {
			return errors.New("submitter cannot be nil")
		}
		o.submitter = s
		return nil
	}
}

// WithOutput sets where the review text and the written-files summary are
// printed (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) error {
		if w == nil {
			return errors.New("output cannot be nil")
		}
		o.out = w
		return nil
	}
}

// WithGeneratorOptions passes options through to the generator.
func WithGeneratorOptions(opts ...generator.Option) Option {
	return func(o *Orchestrator) error {
		o.genOpts = append(o.genOpts, opts...)
		return nil
	}
}
