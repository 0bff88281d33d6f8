/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"chainguard.dev/pairloop/agents/config"
	"github.com/google/go-cmp/cmp"
	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadFrom() = %v", err)
	}
	if cfg.Mode != "coder" || cfg.TaskID != "01" || cfg.MaxRetries != 5 {
		t.Errorf("defaults: got mode=%q task=%q retries=%d", cfg.Mode, cfg.TaskID, cfg.MaxRetries)
	}
	if diff := cmp.Diff([]string{"gemini-3-pro-preview", "gemini-2.5-pro"}, cfg.Models); diff != "" {
		t.Errorf("Models (-want +got): %s", diff)
	}
	if diff := cmp.Diff([]string{".go", ".md", ".tf"}, cfg.ContextExtensions); diff != "" {
		t.Errorf("ContextExtensions (-want +got): %s", diff)
	}
	if diff := cmp.Diff([]string{".git", ".github", "node_modules", "vendor", "dist", "bin"}, cfg.ContextExcludeDirs); diff != "" {
		t.Errorf("ContextExcludeDirs (-want +got): %s", diff)
	}
	if diff := cmp.Diff([]string{"go.sum", "go.mod", "package-lock.json"}, cfg.ContextSkipFiles); diff != "" {
		t.Errorf("ContextSkipFiles (-want +got): %s", diff)
	}
	if cfg.RequestTimeout != 600*time.Second {
		t.Errorf("RequestTimeout: got = %v", cfg.RequestTimeout)
	}
	if cfg.DocsDir != "docs/refactoring" || cfg.AnswerPath != "answer.md" || cfg.ContextMaxLines != 80 {
		t.Errorf("context defaults: got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("MODE", "reviewer")
	t.Setenv("PR_NUMBER", "17")
	t.Setenv("MAX_RETRIES", "2")
	t.Setenv("MODELS", "claude-sonnet-4-5,gpt-4.1")
	t.Setenv("ANALYSIS_PASS", "true")
	t.Setenv("CONTEXT_EXCLUDE_DIRS", "generated,.git")
	t.Setenv("CONTEXT_SKIP_FILES", "secrets.go")

	cfg, err := config.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.ResolvedMode() != config.Reviewer || cfg.PRNumber != "17" || cfg.MaxRetries != 2 || !cfg.AnalysisPass {
		t.Errorf("Load(): got %+v", cfg)
	}
	if diff := cmp.Diff([]string{"claude-sonnet-4-5", "gpt-4.1"}, cfg.Models); diff != "" {
		t.Errorf("Models (-want +got): %s", diff)
	}
	if diff := cmp.Diff([]string{"generated", ".git"}, cfg.ContextExcludeDirs); diff != "" {
		t.Errorf("ContextExcludeDirs (-want +got): %s", diff)
	}
	if diff := cmp.Diff([]string{"secrets.go"}, cfg.ContextSkipFiles); diff != "" {
		t.Errorf("ContextSkipFiles (-want +got): %s", diff)
	}
}

func TestLoad_Malformed(t *testing.T) {
	_, err := config.LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"MAX_RETRIES": "many"}))
	if err == nil {
		t.Error("LoadFrom() with a non-numeric MAX_RETRIES: expected error")
	}
}

func TestResolvedMode(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		question string
		want     config.Mode
	}{
		{name: "default", mode: "coder", want: config.Coder},
		{name: "reviewer", mode: "reviewer", want: config.Reviewer},
		{name: "reviewer mixed case", mode: " Reviewer ", want: config.Reviewer},
		{name: "unknown falls back to coder", mode: "tester", want: config.Coder},
		{name: "question wins over reviewer", mode: "reviewer", question: "/ask why?", want: config.QA},
		{name: "blank question ignored", mode: "reviewer", question: "  ", want: config.Reviewer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Config{Mode: tt.mode, Question: tt.question}
			if got := cfg.ResolvedMode(); got != tt.want {
				t.Errorf("ResolvedMode(): got = %s, wanted = %s", got, tt.want)
			}
		})
	}
}

func valid() config.Config {
	return config.Config{
		Mode:            "coder",
		TaskID:          "01",
		MaxRetries:      5,
		Models:          []string{"gemini-2.5-pro"},
		RequestTimeout:  time.Minute,
		ContextMaxLines: 80,
		AnswerPath:      "answer.md",
		ReviewBackend:   "gh",
		LogFormat:       "text",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
		is      error
	}{{
		name:   "valid coder",
		mutate: func(*config.Config) {},
	}, {
		name:    "reviewer without PR",
		mutate:  func(c *config.Config) { c.Mode = "reviewer" },
		wantErr: true,
		is:      config.ErrMissingPRNumber,
	}, {
		name:   "reviewer with PR",
		mutate: func(c *config.Config) { c.Mode = "reviewer"; c.PRNumber = "3" },
	}, {
		name: "question ignores missing PR",
		mutate: func(c *config.Config) {
			c.Mode = "reviewer"
			c.Question = "/ask what?"
		},
	}, {
		name:    "zero retries",
		mutate:  func(c *config.Config) { c.MaxRetries = 0 },
		wantErr: true,
	}, {
		name:    "no models",
		mutate:  func(c *config.Config) { c.Models = nil },
		wantErr: true,
	}, {
		name:    "blank model",
		mutate:  func(c *config.Config) { c.Models = []string{"a", ""} },
		wantErr: true,
	}, {
		name:    "zero timeout",
		mutate:  func(c *config.Config) { c.RequestTimeout = 0 },
		wantErr: true,
	}, {
		name:    "bad log format",
		mutate:  func(c *config.Config) { c.LogFormat = "xml" },
		wantErr: true,
	}, {
		name:    "coder without task",
		mutate:  func(c *config.Config) { c.TaskID = "" },
		wantErr: true,
	}, {
		name: "api backend without credentials",
		mutate: func(c *config.Config) {
			c.Mode, c.PRNumber, c.ReviewBackend, c.GitHubRepository = "reviewer", "3", "api", "o/r"
		},
		wantErr: true,
	}, {
		name: "api backend with token",
		mutate: func(c *config.Config) {
			c.Mode, c.PRNumber, c.ReviewBackend, c.GitHubRepository, c.GitHubToken = "reviewer", "3", "api", "o/r", "t"
		},
	}, {
		name: "api backend with app",
		mutate: func(c *config.Config) {
			c.Mode, c.PRNumber, c.ReviewBackend, c.GitHubRepository = "reviewer", "3", "api", "o/r"
			c.GitHubAppID, c.GitHubInstallationID, c.GitHubAppPrivateKeyPath = 1, 2, "key.pem"
		},
	}, {
		name: "unknown backend",
		mutate: func(c *config.Config) {
			c.Mode, c.PRNumber, c.ReviewBackend = "reviewer", "3", "email"
		},
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("Validate() error: got = %v, wanted errors.Is %v", err, tt.is)
			}
		})
	}
}
