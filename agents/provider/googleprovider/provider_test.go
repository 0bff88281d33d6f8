/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleprovider

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
	p, err := New(context.Background(), Config{APIKey: "gm-test", BaseURL: srv.URL})
	require.NoError(t, err)
	return p
}

func TestGenerate(t *testing.T) {
	var got struct {
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
		GenerationConfig struct {
			Temperature float64 `json:"temperature"`
		} `json:"generationConfig"`
	}
	var path, key string
	var body []byte
	p := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.Header.Get("x-goog-api-key")
		body, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
  "candidates": [{"content": {"role": "model", "parts": [{"text": "### File: a.go\n"}]}, "finishReason": "STOP"}],
  "usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 5, "totalTokenCount": 15}
}`)
	})

	text, err := p.Generate(context.Background(), "gemini-2.5-pro", "write a.go")
	require.NoError(t, err)
	require.Equal(t, "### File: a.go\n", text)
	require.True(t, strings.HasSuffix(path, "/models/gemini-2.5-pro:generateContent"), path)
	require.Equal(t, "gm-test", key)
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got.Contents, 1)
	require.Equal(t, "user", got.Contents[0].Role)
	require.Len(t, got.Contents[0].Parts, 1)
	require.Equal(t, "write a.go", got.Contents[0].Parts[0].Text)
	require.InDelta(t, 0.1, got.GenerationConfig.Temperature, 1e-6)
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	p := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates": []}`)
	})

	_, err := p.Generate(context.Background(), "gemini-2.5-pro", "hi")
	require.ErrorContains(t, err, "no candidates")
}

func TestGenerate_NoText(t *testing.T) {
	p := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates": [{"content": {"role": "model", "parts": []}, "finishReason": "SAFETY"}]}`)
	})

	_, err := p.Generate(context.Background(), "gemini-2.5-pro", "hi")
	require.ErrorContains(t, err, "SAFETY")
}

func TestGenerate_OverloadedIsClassified(t *testing.T) {
	p := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error": {"code": 503, "message": "The model is overloaded. Please try again later.", "status": "UNAVAILABLE"}}`)
	})

	_, err := p.Generate(context.Background(), "gemini-2.5-pro", "hi")
	require.Error(t, err)
	require.True(t, retry.IsOverloaded(err), err.Error())
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{Location: "us-central1"})
	require.Error(t, err)
}
