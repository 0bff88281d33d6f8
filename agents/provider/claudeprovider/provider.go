/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudeprovider serves claude-* models through Anthropic's SDK.
package claudeprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"github.com/chainguard-dev/clog"
)

// Config selects direct API access (APIKey) or Vertex AI (Project + Region).
type Config struct {
	APIKey    string
	Project   string
	Region    string
	BaseURL   string
	MaxTokens int64
}

// Provider is a long-lived handle around an Anthropic client.
type Provider struct {
	client    anthropic.Client
	maxTokens int64
}

// New creates the Anthropic client.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	var opts []option.RequestOption
	switch {
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	case cfg.Project != "":
		opts = append(opts, vertex.WithGoogleAuth(ctx, cfg.Region, cfg.Project))
	default:
		return nil, errors.New("either an API key or a Google Cloud project is required")
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 32000
	}
	return &Provider{
		client:    anthropic.NewClient(opts...),
		maxTokens: maxTokens,
	}, nil
}

// Generate implements provider.Client. Responses are streamed and accumulated
// because long generations exceed the SDK's non-streaming limits.
func (p *Provider) Generate(ctx context.Context, model, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(0.1),
	}

	stream := p.client.Messages.NewStreaming(ctx, params)
	var msg anthropic.Message
	for stream.Next() {
		if err := msg.Accumulate(stream.Current()); err != nil {
			return "", fmt.Errorf("failed to accumulate event: %w", err)
		}
	}
	if err := stream.Err(); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, content := range msg.Content {
		if content.Type == "text" {
			sb.WriteString(content.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content found in response (stop reason %q)", msg.StopReason)
	}

	clog.FromContext(ctx).With("model", model).
		With("prompt_tokens", msg.Usage.InputTokens).
		With("completion_tokens", msg.Usage.OutputTokens).
		Info("Received response from model")
	return sb.String(), nil
}
