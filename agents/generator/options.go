/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package generator

import (
	"errors"
	"fmt"
	"time"

	"chainguard.dev/pairloop/agents/executor/retry"
	"chainguard.dev/pairloop/agents/metrics"
)

// Option is a functional option for configuring a Generator.
type Option func(*Generator) error

// WithTimeout sets the per-attempt request timeout (default 600,000 ms).
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		g.timeout = d
		return nil
	}
}

// WithBackoff overrides the wait policy between attempts.
func WithBackoff(fn retry.BackoffFunc) Option {
	return func(g *Generator) error {
		if fn == nil {
			return errors.New("backoff function cannot be nil")
		}
		g.backoff = fn
		return nil
	}
}

// WithSleep overrides how waits are performed. Tests use it to record waits
// instead of blocking.
func WithSleep(fn retry.SleepFunc) Option {
	return func(g *Generator) error {
		if fn == nil {
			return errors.New("sleep function cannot be nil")
		}
		g.sleep = fn
		return nil
	}
}

// WithAttributeEnricher tags generation metrics with caller context.
func WithAttributeEnricher(enricher metrics.AttributeEnricher) Option {
	return func(g *Generator) error {
		g.metrics.SetAttributeEnricher(enricher)
		return nil
	}
}

// WithAttemptHook registers a callback invoked after every attempt.
func WithAttemptHook(hook AttemptHook) Option {
	return func(g *Generator) error {
		if hook == nil {
			return errors.New("attempt hook cannot be nil")
		}
		g.hooks = append(g.hooks, hook)
		return nil
	}
}
