/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiprovider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chainguard.dev/pairloop/agents/executor/retry"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return p
}

func TestGenerate(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var path, auth string
	var body []byte
	p := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		body, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "### File: a.go\n"}}],
  "usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`)
	})

	text, err := p.Generate(context.Background(), "gpt-4o", "write a.go")
	require.NoError(t, err)
	require.Equal(t, "### File: a.go\n", text)
	require.Equal(t, "/chat/completions", path)
	require.Equal(t, "Bearer sk-test", auth)
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, "gpt-4o", got.Model)
	require.Len(t, got.Messages, 1)
	require.Equal(t, "user", got.Messages[0].Role)
	require.Equal(t, "write a.go", got.Messages[0].Content)
}

func TestGenerate_EmptyChoices(t *testing.T) {
	p := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id": "x", "object": "chat.completion", "model": "gpt-4o", "choices": []}`)
	})

	_, err := p.Generate(context.Background(), "gpt-4o", "hi")
	require.ErrorContains(t, err, "no text content")
}

func TestGenerate_OverloadedIsClassified(t *testing.T) {
	p := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After-Ms", "1")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error": {"message": "The server is overloaded", "type": "server_error"}}`)
	})

	_, err := p.Generate(context.Background(), "gpt-4o", "hi")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "503"), err.Error())
	require.True(t, retry.IsOverloaded(err))
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}
