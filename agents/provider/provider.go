/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package provider

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Client is a remote text-generation service.
// Model identifiers are opaque; a call either returns the full text or an error.
type Client interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, model, prompt string) (string, error)

// Generate implements Client.
func (f ClientFunc) Generate(ctx context.Context, model, prompt string) (string, error) {
	return f(ctx, model, prompt)
}

// Family identifies which SDK serves a model.
type Family string

const (
	FamilyGoogle    Family = "google"
	FamilyAnthropic Family = "anthropic"
	FamilyOpenAI    Family = "openai"
	FamilyUnknown   Family = "unknown"
)

// FamilyOf derives the provider family from the model name:
//   - "gemini-*" is served by Google's Generative AI SDK
//   - "claude-*" is served by Anthropic's SDK
//   - "gpt-*", "chatgpt-*" and the "o<digit>" reasoning models are served by OpenAI's SDK
func FamilyOf(model string) Family {
	m := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(m, "gemini-"):
		return FamilyGoogle
	case strings.HasPrefix(m, "claude-"):
		return FamilyAnthropic
	case strings.HasPrefix(m, "gpt-"), strings.HasPrefix(m, "chatgpt-"):
		return FamilyOpenAI
	case len(m) > 1 && m[0] == 'o' && m[1] >= '0' && m[1] <= '9':
		return FamilyOpenAI
	default:
		return FamilyUnknown
	}
}

// Router dispatches each call to the client registered for the model's family.
// It is constructed once per process and shared by every generation.
type Router struct {
	clients map[Family]Client
}

// NewRouter returns an empty router; register clients with Register.
func NewRouter() *Router {
	return &Router{clients: make(map[Family]Client)}
}

// Register installs the client used for a family, replacing any previous one.
func (r *Router) Register(family Family, client Client) *Router {
	r.clients[family] = client
	return r
}

// Families lists the registered families in a stable order.
func (r *Router) Families() []Family {
	out := make([]Family, 0, len(r.clients))
	for f := range r.clients {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Supports returns an error naming the first model no registered client can serve.
func (r *Router) Supports(models ...string) error {
	for _, m := range models {
		if _, ok := r.clients[FamilyOf(m)]; !ok {
			return fmt.Errorf("no client configured for model %q (family %s)", m, FamilyOf(m))
		}
	}
	return nil
}

// Generate implements Client.
func (r *Router) Generate(ctx context.Context, model, prompt string) (string, error) {
	client, ok := r.clients[FamilyOf(model)]
	if !ok {
		return "", fmt.Errorf("no client configured for model %q (family %s)", model, FamilyOf(model))
	}
	return client.Generate(ctx, model, prompt)
}
