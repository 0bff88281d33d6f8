/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package config holds the immutable run configuration, read once from the
// environment at process start.
package config

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Mode selects what a run does.
type Mode string

const (
	Coder    Mode = "coder"
	Reviewer Mode = "reviewer"
	QA       Mode = "qa"
)

// ErrMissingPRNumber is returned when reviewer mode has no pull request.
var ErrMissingPRNumber = errors.New("PR_NUMBER is required in reviewer mode")

// Config is the full set of run inputs.
type Config struct {
	Mode     string `env:"MODE,default=coder"`
	TaskID   string `env:"TASK_ID,default=01"`
	PRNumber string `env:"PR_NUMBER"`
	Feedback string `env:"FEEDBACK"`

	// Question, when set, forces question-answering mode.
	Question         string `env:"PR_QUESTION"`
	CommentPath      string `env:"COMMENT_PATH"`
	CommentStartLine string `env:"COMMENT_START_LINE"`
	CommentEndLine   string `env:"COMMENT_END_LINE"`

	MaxRetries     int           `env:"MAX_RETRIES,default=5"`
	Models         []string      `env:"MODELS,default=gemini-3-pro-preview,gemini-2.5-pro"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=600s"`

	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
	GeminiBaseURL    string `env:"GEMINI_BASE_URL"`
	GoogleProject    string `env:"GOOGLE_CLOUD_PROJECT"`
	GoogleLocation   string `env:"GOOGLE_CLOUD_LOCATION,default=us-central1"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`

	Root               string   `env:"WORKSPACE_ROOT,default=."`
	DocsDir            string   `env:"DOCS_DIR,default=docs/refactoring"`
	AnswerPath         string   `env:"ANSWER_PATH,default=answer.md"`
	ContextMaxLines    int      `env:"CONTEXT_MAX_LINES,default=80"`
	ContextExtensions  []string `env:"CONTEXT_EXTENSIONS,default=.go,.md,.tf"`
	ContextExcludeDirs []string `env:"CONTEXT_EXCLUDE_DIRS,default=.git,.github,node_modules,vendor,dist,bin"`
	ContextSkipFiles   []string `env:"CONTEXT_SKIP_FILES,default=go.sum,go.mod,package-lock.json"`

	ReviewBackend           string `env:"REVIEW_BACKEND,default=gh"`
	GitHubRepository        string `env:"GITHUB_REPOSITORY"`
	GitHubToken             string `env:"GITHUB_TOKEN"`
	GitHubAppID             int64  `env:"GITHUB_APP_ID"`
	GitHubInstallationID    int64  `env:"GITHUB_INSTALLATION_ID"`
	GitHubAppPrivateKeyPath string `env:"GITHUB_APP_PRIVATE_KEY_PATH"`

	AnalysisPass bool   `env:"ANALYSIS_PASS,default=false"`
	BaseBranch   string `env:"BASE_BRANCH"`
	StageChanges bool   `env:"STAGE_CHANGES,default=false"`

	PushgatewayURL string `env:"PUSHGATEWAY_URL"`
	LogLevel       string `env:"LOG_LEVEL,default=info"`
	LogFormat      string `env:"LOG_FORMAT,default=text"`
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("processing environment: %w", err)
	}
	return cfg, nil
}

// LoadFrom reads the configuration from an explicit lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return Config{}, fmt.Errorf("processing environment: %w", err)
	}
	return cfg, nil
}

// ResolvedMode returns the mode for this run. A question forces QA; otherwise
// "reviewer" selects the reviewer and any other value the coder.
func (c Config) ResolvedMode() Mode {
	if strings.TrimSpace(c.Question) != "" {
		return QA
	}
	if Mode(strings.ToLower(strings.TrimSpace(c.Mode))) == Reviewer {
		return Reviewer
	}
	return Coder
}

// UsesAPIReviews reports whether reviews go through the REST API.
func (c Config) UsesAPIReviews() bool {
	return c.ReviewBackend == "api"
}

// Validate checks the inputs required by the resolved mode.
func (c Config) Validate() error {
	var errs []error
	if c.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("MAX_RETRIES must be at least 1, got %d", c.MaxRetries))
	}
	if len(c.Models) == 0 {
		errs = append(errs, errors.New("MODELS must list at least one model"))
	}
	for i, m := range c.Models {
		if strings.TrimSpace(m) == "" {
			errs = append(errs, fmt.Errorf("MODELS entry %d is empty", i))
		}
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %v", c.RequestTimeout))
	}
	if c.ContextMaxLines < 1 {
		errs = append(errs, fmt.Errorf("CONTEXT_MAX_LINES must be at least 1, got %d", c.ContextMaxLines))
	}
	if !slices.Contains([]string{"text", "json", "gcp"}, c.LogFormat) {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text, json or gcp, got %q", c.LogFormat))
	}

	switch c.ResolvedMode() {
	case Coder:
		if strings.TrimSpace(c.TaskID) == "" {
			errs = append(errs, errors.New("TASK_ID is required in coder mode"))
		}
	case Reviewer:
		if strings.TrimSpace(c.PRNumber) == "" {
			errs = append(errs, ErrMissingPRNumber)
		}
		if strings.TrimSpace(c.TaskID) == "" {
			errs = append(errs, errors.New("TASK_ID is required in reviewer mode"))
		}
		errs = append(errs, c.validateReviewBackend()...)
	case QA:
		if strings.TrimSpace(c.AnswerPath) == "" {
			errs = append(errs, errors.New("ANSWER_PATH is required in qa mode"))
		}
	}
	return errors.Join(errs...)
}

func (c Config) validateReviewBackend() []error {
	switch c.ReviewBackend {
	case "gh":
		return nil
	case "api":
		var errs []error
		if c.GitHubRepository == "" {
			errs = append(errs, errors.New("GITHUB_REPOSITORY is required for the api review backend"))
		}
		app := c.GitHubAppID != 0 && c.GitHubInstallationID != 0 && c.GitHubAppPrivateKeyPath != ""
		if c.GitHubToken == "" && !app {
			errs = append(errs, errors.New("the api review backend needs GITHUB_TOKEN or GitHub App credentials"))
		}
		return errs
	default:
		return []error{fmt.Errorf("REVIEW_BACKEND must be gh or api, got %q", c.ReviewBackend)}
	}
}
