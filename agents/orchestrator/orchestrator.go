/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"chainguard.dev/pairloop/agents/agenttrace"
	"chainguard.dev/pairloop/agents/artifact"
	"chainguard.dev/pairloop/agents/codecontext"
	"chainguard.dev/pairloop/agents/config"
	"chainguard.dev/pairloop/agents/generator"
	"chainguard.dev/pairloop/agents/metrics"
	"chainguard.dev/pairloop/agents/provider"
	"chainguard.dev/pairloop/reconcilers/review"
	"github.com/chainguard-dev/clog"
)

// Orchestrator runs one mode end to end. It is built once per process.
type Orchestrator struct {
	cfg       config.Config
	mode      config.Mode
	assembler *codecontext.Assembler
	generator *generator.Generator
	writer    *artifact.Writer
	submitter review.Submitter
	run       *metrics.Run
	out       io.Writer
	genOpts   []generator.Option
}

// New wires the collaborators for the configured mode around client.
func New(cfg config.Config, client provider.Client, opts ...Option) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ctxOpts := []codecontext.Option{
		codecontext.WithDocsDir(cfg.DocsDir),
		codecontext.WithMaxLines(cfg.ContextMaxLines),
		codecontext.WithExtensions(cfg.ContextExtensions...),
	}
	// Unset exclusion lists keep the assembler defaults.
	if len(cfg.ContextExcludeDirs) > 0 {
		ctxOpts = append(ctxOpts, codecontext.WithExcludeDirs(cfg.ContextExcludeDirs...))
	}
	if len(cfg.ContextSkipFiles) > 0 {
		ctxOpts = append(ctxOpts, codecontext.WithSkipFiles(cfg.ContextSkipFiles...))
	}

	mode := cfg.ResolvedMode()
	o := &Orchestrator{
		cfg:       cfg,
		mode:      mode,
		assembler: codecontext.New(cfg.Root, ctxOpts...),
		writer: artifact.NewWriter(cfg.Root, artifact.WithStaging(cfg.StageChanges)),
		run:    metrics.NewRun(string(mode)),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	if mode == config.Reviewer && o.submitter == nil {
		return nil, errors.New("reviewer mode requires a review submitter")
	}

	genOpts := append([]generator.Option{
		generator.WithTimeout(cfg.RequestTimeout),
		generator.WithAttributeEnricher(agenttrace.EnrichFromContext),
		generator.WithAttemptHook(o.run.ObserveAttempt),
	}, o.genOpts...)
	gen, err := generator.New(client, genOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}
	o.generator = gen
	return o, nil
}

// Mode returns the mode this orchestrator runs.
func (o *Orchestrator) Mode() config.Mode {
	return o.mode
}

// Metrics returns the run summary, complete once Run returns.
func (o *Orchestrator) Metrics() *metrics.Run {
	return o.run
}

// Run executes the resolved mode.
func (o *Orchestrator) Run(ctx context.Context) (err error) {
	ctx = agenttrace.WithRunContext(ctx, agenttrace.RunContext{
		Mode:       string(o.mode),
		TaskID:     o.cfg.TaskID,
		PRNumber:   o.cfg.PRNumber,
		Repository: o.cfg.GitHubRepository,
	})
	ctx = clog.WithLogger(ctx, clog.FromContext(ctx).With("mode", o.mode))

	trace := agenttrace.StartTrace(ctx)
	ctx = trace.Context()
	start := time.Now()

	var result string
	defer func() {
		trace.Complete(result, err)
		o.run.Finish(time.Since(start), err)
	}()

	clog.InfoContextf(ctx, "Starting %s run (models=%v, max_retries=%d)", o.mode, o.cfg.Models, o.cfg.MaxRetries)
	switch o.mode {
	case config.Reviewer:
		result, err = o.runReviewer(ctx, trace)
	case config.QA:
		result, err = o.runQA(ctx, trace)
	default:
		result, err = o.runCoder(ctx, trace)
	}
	return err
}

func (o *Orchestrator) generate(ctx context.Context, trace *agenttrace.Trace, prompt string) (string, error) {
	step := trace.StartStep("generate", map[string]any{
		"models":       o.cfg.Models,
		"max_attempts": o.cfg.MaxRetries,
	})
	text, err := o.generator.Generate(step.Context(), generator.Request{
		Prompt:      prompt,
		Models:      o.cfg.Models,
		MaxAttempts: o.cfg.MaxRetries,
	})
	step.Complete(err)
	return text, err
}

// answerPath resolves the answer file against the workspace root.
func (o *Orchestrator) answerPath() string {
	if filepath.IsAbs(o.cfg.AnswerPath) {
		return o.cfg.AnswerPath
	}
	return filepath.Join(o.cfg.Root, o.cfg.AnswerPath)
}
