/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googleprovider serves gemini-* models through Google's Generative AI SDK.
package googleprovider

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

// Config selects the backend. An APIKey selects the Gemini API; otherwise
// Project and Location select Vertex AI with application default credentials.
// BaseURL optionally points either backend at a proxy.
type Config struct {
	APIKey   string
	Project  string
	Location string
	BaseURL  string
}

// Provider is a long-lived handle around a genai client.
type Provider struct {
	client      *genai.Client
	temperature float32
}

// New creates the genai client for the configured backend.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	cc := &genai.ClientConfig{}
	switch {
	case cfg.APIKey != "":
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	case cfg.Project != "":
		cc.Project = cfg.Project
		cc.Location = cfg.Location
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, errors.New("either an API key or a Google Cloud project is required")
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating Google AI client: %w", err)
	}
	return &Provider{client: client, temperature: 0.1}, nil
}

// Generate implements provider.Client.
func (p *Provider) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: &p.temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("no content generated - no candidates")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content found in response (finish reason %q)", resp.Candidates[0].FinishReason)
	}
	if resp.UsageMetadata != nil {
		clog.FromContext(ctx).With("model", model).
			With("prompt_tokens", resp.UsageMetadata.PromptTokenCount).
			With("completion_tokens", resp.UsageMetadata.CandidatesTokenCount).
			Info("Received response from model")
	}
	return text, nil
}
