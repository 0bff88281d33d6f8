/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/chainguard-dev/clog"
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// CLI submits reviews with `gh pr review`.
type CLI struct {
	binary string
	run    Runner
}

// CLIOption configures a CLI submitter.
type CLIOption func(*CLI)

// WithBinary overrides the gh executable.
func WithBinary(path string) CLIOption {
	return func(c *CLI) { c.binary = path }
}

// WithRunner overrides how the command is executed.
func WithRunner(r Runner) CLIOption {
	return func(c *CLI) { c.run = r }
}

// NewCLI returns a submitter that shells out to gh.
func NewCLI(opts ...CLIOption) *CLI {
	c := &CLI{binary: "gh", run: ExecRunner}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit implements Submitter. A non-zero exit is returned as an error.
func (c *CLI) Submit(ctx context.Context, pr string, v Verdict) error {
	flag := "--request-changes"
	if v.Approved() {
		flag = "--approve"
	}
	out, err := c.run(ctx, c.binary, "pr", "review", pr, flag, "--body", v.Body)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("gh pr review %s %s: %w: %s", pr, flag, err, msg)
		}
		return fmt.Errorf("gh pr review %s %s: %w", pr, flag, err)
	}
	clog.FromContext(ctx).With("pr", pr).With("event", string(v.Event)).Info("Submitted review")
	return nil
}
