/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"slices"

	"chainguard.dev/pairloop/agents/config"
	"chainguard.dev/pairloop/agents/provider"
	"chainguard.dev/pairloop/agents/provider/claudeprovider"
	"chainguard.dev/pairloop/agents/provider/googleprovider"
	"chainguard.dev/pairloop/agents/provider/openaiprovider"
	"cloud.google.com/go/compute/metadata"
	"github.com/chainguard-dev/clog"
)

// newRouter creates one long-lived client per provider family that has
// credentials, then checks that every configured model can be served.
func newRouter(ctx context.Context, cfg config.Config) (*provider.Router, error) {
	router := provider.NewRouter()
	families := make([]provider.Family, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		families = append(families, provider.FamilyOf(m))
	}

	if cfg.GoogleProject == "" && cfg.GeminiAPIKey == "" && needsGoogleProject(cfg, families) && metadata.OnGCE() {
		projectID, err := metadata.ProjectIDWithContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("detecting Google Cloud project: %w", err)
		}
		clog.FromContext(ctx).With("project_id", projectID).Info("Detected Google Cloud project")
		cfg.GoogleProject = projectID
	}

	if cfg.GeminiAPIKey != "" || cfg.GoogleProject != "" {
		p, err := googleprovider.New(ctx, googleprovider.Config{
			APIKey:   cfg.GeminiAPIKey,
			Project:  cfg.GoogleProject,
			Location: cfg.GoogleLocation,
			BaseURL:  cfg.GeminiBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("creating Gemini client: %w", err)
		}
		router.Register(provider.FamilyGoogle, p)
	}

	// Claude is served from Vertex AI when no API key is present, but only
	// when a claude model is actually requested.
	if cfg.AnthropicAPIKey != "" || (cfg.GoogleProject != "" && slices.Contains(families, provider.FamilyAnthropic)) {
		p, err := claudeprovider.New(ctx, claudeprovider.Config{
			APIKey:  cfg.AnthropicAPIKey,
			Project: cfg.GoogleProject,
			Region:  cfg.GoogleLocation,
			BaseURL: cfg.AnthropicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("creating Claude client: %w", err)
		}
		router.Register(provider.FamilyAnthropic, p)
	}

	if cfg.OpenAIAPIKey != "" {
		p, err := openaiprovider.New(openaiprovider.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("creating OpenAI client: %w", err)
		}
		router.Register(provider.FamilyOpenAI, p)
	}

	if err := router.Supports(cfg.Models...); err != nil {
		return nil, err
	}
	clog.InfoContextf(ctx, "Configured providers %v for models %v", router.Families(), cfg.Models)
	return router, nil
}

// needsGoogleProject reports whether a requested family has no credentials
// other than a Vertex AI project.
func needsGoogleProject(cfg config.Config, families []provider.Family) bool {
	return slices.Contains(families, provider.FamilyGoogle) ||
		(cfg.AnthropicAPIKey == "" && slices.Contains(families, provider.FamilyAnthropic))
}
