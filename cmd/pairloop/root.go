/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"

	"chainguard.dev/pairloop/agents/config"
	"chainguard.dev/pairloop/agents/orchestrator"
	"chainguard.dev/pairloop/reconcilers/review"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"github.com/spf13/cobra"
)

// flags override the environment when set on the command line.
type flags struct {
	mode       string
	task       string
	models     []string
	maxRetries int
	root       string
}

// newRootCmd builds the command; runFn receives the merged configuration.
func newRootCmd(runFn func(context.Context, config.Config) error) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "pairloop",
		Short: "Run the coder, reviewer or question-answering agent once",
		Long: `pairloop runs a single agent mode against the current workspace.

The coder writes the files of a task, the reviewer submits a verdict on a
pull request and a question (PR_QUESTION) is answered into ANSWER_PATH.
Configuration comes from the environment; flags take precedence.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			f.apply(cmd, &cfg)
			return runFn(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&f.mode, "mode", "", "Agent mode: coder or reviewer (overrides MODE)")
	cmd.Flags().StringVar(&f.task, "task", "", "Task identifier (overrides TASK_ID)")
	cmd.Flags().StringSliceVar(&f.models, "models", nil, "Ordered model fallback list (overrides MODELS)")
	cmd.Flags().IntVar(&f.maxRetries, "max-retries", 0, "Total generation attempts (overrides MAX_RETRIES)")
	cmd.Flags().StringVar(&f.root, "root", "", "Workspace root (overrides WORKSPACE_ROOT)")
	return cmd
}

func (f flags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("mode") {
		cfg.Mode = f.mode
	}
	if cmd.Flags().Changed("task") {
		cfg.TaskID = f.task
	}
	if cmd.Flags().Changed("models") {
		cfg.Models = f.models
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.MaxRetries = f.maxRetries
	}
	if cmd.Flags().Changed("root") {
		cfg.Root = f.root
	}
}

func run(ctx context.Context, cfg config.Config) error {
	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	ctx = clog.WithLogger(ctx, logger)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	router, err := newRouter(ctx, cfg)
	if err != nil {
		return err
	}

	opts := []orchestrator.Option{}
	if cfg.ResolvedMode() == config.Reviewer {
		sub, err := newSubmitter(ctx, cfg)
		if err != nil {
			return err
		}
		opts = append(opts, orchestrator.WithSubmitter(sub))
	}

	o, err := orchestrator.New(cfg, router, opts...)
	if err != nil {
		return err
	}

	runErr := o.Run(ctx)
	if cfg.PushgatewayURL != "" {
		if err := o.Metrics().Push(cfg.PushgatewayURL, "pairloop"); err != nil {
			clog.WarnContextf(ctx, "Could not push run metrics: %v", err)
		}
	}
	return runErr
}

func newSubmitter(ctx context.Context, cfg config.Config) (review.Submitter, error) {
	if !cfg.UsesAPIReviews() {
		clog.InfoContextf(ctx, "Submitting reviews with the gh CLI")
		return review.NewCLI(), nil
	}

	if cfg.GitHubToken != "" {
		clog.InfoContextf(ctx, "Submitting reviews to %s with a token", cfg.GitHubRepository)
		return newAPI(review.TokenClient(ctx, cfg.GitHubToken), cfg.GitHubRepository)
	}
	clog.InfoContextf(ctx, "Submitting reviews to %s as GitHub App %d", cfg.GitHubRepository, cfg.GitHubAppID)
	client, err := review.AppClient(cfg.GitHubAppID, cfg.GitHubInstallationID, cfg.GitHubAppPrivateKeyPath)
	if err != nil {
		return nil, err
	}
	return newAPI(client, cfg.GitHubRepository)
}

func newAPI(client *github.Client, repository string) (review.Submitter, error) {
	api, err := review.NewAPI(client, repository)
	if err != nil {
		return nil, err
	}
	return api, nil
}
