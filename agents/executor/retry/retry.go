/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
)

const (
	// DefaultTimeout bounds a single remote generation call.
	DefaultTimeout = 600_000 * time.Millisecond

	// OverloadBackoff is the fixed wait after a server-overload failure.
	OverloadBackoff = 30 * time.Second

	// LinearStep is multiplied by (attempt+1) for every other failure.
	LinearStep = 15 * time.Second

	// DefaultMaxAttempts is used when no explicit attempt bound is configured.
	DefaultMaxAttempts = 5
)

// BackoffFunc returns how long to wait after the given 0-based attempt failed with err.
type BackoffFunc func(attempt int, err error) time.Duration

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config configures the cyclic model-fallback loop used for remote generation calls.
type Config struct {
	// MaxAttempts is the total number of calls made before giving up (must be >= 1).
	MaxAttempts int
	// Timeout bounds each individual attempt. Zero disables the per-attempt deadline.
	Timeout time.Duration
	// Backoff picks the wait between attempts (default: OverloadAwareBackoff).
	Backoff BackoffFunc
	// Sleep performs the wait (default: Sleep). Tests swap this out.
	Sleep SleepFunc
}

// Validate checks that the retry configuration has valid values.
func (c Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	return nil
}

// DefaultConfig returns the configuration used against the hosted generation APIs:
// five attempts, a ten minute request timeout and overload-aware linear backoff.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: DefaultMaxAttempts,
		Timeout:     DefaultTimeout,
		Backoff:     OverloadAwareBackoff,
		Sleep:       Sleep,
	}
}

// IsOverloaded reports whether err looks like a server overload ("503" or "overloaded").
func IsOverloaded(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "503") ||
		strings.Contains(strings.ToLower(msg), "overloaded")
}

// OverloadAwareBackoff waits OverloadBackoff after an overload failure and
// LinearStep*(attempt+1) after anything else.
func OverloadAwareBackoff(attempt int, err error) time.Duration {
	if IsOverloaded(err) {
		return OverloadBackoff
	}
	return LinearStep * time.Duration(attempt+1)
}

// Sleep waits for d, returning early with the context error if ctx is done first.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Cycle calls fn once per attempt until it succeeds or the attempts run out.
// Attempt i is made against models[i % len(models)], so fallback rotates through
// every model rather than exhausting the first one.
//
// Every failure is retried. The last failure is returned exactly as fn produced
// it, without wrapping, and no wait follows the final attempt.
func Cycle[T any](ctx context.Context, cfg Config, operation string, models []string, fn func(ctx context.Context, model string) (T, error)) (T, error) {
	var zero T
	if len(models) == 0 {
		return zero, errors.New("at least one model is required")
	}
	if err := cfg.Validate(); err != nil {
		return zero, err
	}
	backoff := cfg.Backoff
	if backoff == nil {
		backoff = OverloadAwareBackoff
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		model := models[attempt%len(models)]
		log := clog.FromContext(ctx).With("operation", operation).
			With("model", model).
			With("attempt", attempt+1).
			With("max_attempts", cfg.MaxAttempts)
		log.Info("Generating")

		result, err := once(ctx, cfg.Timeout, model, fn)
		if err == nil {
			return result, nil
		}
		lastErr = err
		log.With("error", err.Error()).Error("Attempt failed")

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		wait := backoff(attempt, err)
		if IsOverloaded(err) {
			log.With("backoff", wait).Warn("Server overloaded, waiting")
		} else {
			log.With("backoff", wait).Warn("Waiting before next attempt")
		}
		if err := sleep(ctx, wait); err != nil {
			return zero, err
		}
	}

	return zero, lastErr
}

// once runs a single attempt under its own deadline.
func once[T any](ctx context.Context, timeout time.Duration, model string, fn func(ctx context.Context, model string) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return fn(ctx, model)
}
