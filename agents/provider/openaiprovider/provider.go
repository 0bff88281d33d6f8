/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaiprovider serves gpt-* and o-series models through OpenAI's SDK.
package openaiprovider

import (
	"context"
	"errors"

	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Config holds the OpenAI credentials. BaseURL is optional and allows
// OpenAI-compatible gateways.
type Config struct {
	APIKey  string
	BaseURL string
}

// Provider is a long-lived handle around an OpenAI client.
type Provider struct {
	client openai.Client
}

// New creates the OpenAI client.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("an OpenAI API key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Provider{client: openai.NewClient(opts...)}, nil
}

// Generate implements provider.Client.
func (p *Provider) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("no text content found in response")
	}

	clog.FromContext(ctx).With("model", model).
		With("prompt_tokens", resp.Usage.PromptTokens).
		With("completion_tokens", resp.Usage.CompletionTokens).
		Info("Received response from model")
	return resp.Choices[0].Message.Content, nil
}
