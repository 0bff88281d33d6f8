/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package result recovers structured values from free-text model responses.
package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when a response contains nothing that looks like a
// JSON object.
var ErrNoJSON = errors.New("no JSON object in response")

// ExtractJSON returns the JSON object embedded in a response. It prefers the
// first ```json fenced block, then a response wrapped in a bare fence, then
// the span from the first '{' to the last '}'.
func ExtractJSON(text string) (string, error) {
	var (
		buf     []string
		inBlock bool
		found   bool
	)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !inBlock && trimmed == "```json" {
			inBlock, found = true, true
			continue
		}
		if inBlock && trimmed == "```" {
			break
		}
		if inBlock {
			buf = append(buf, line)
		}
	}
	if found {
		if s := strings.TrimSpace(strings.Join(buf, "\n")); s != "" {
			return s, nil
		}
		return "", ErrNoJSON
	}

	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return "", ErrNoJSON
	}
	return text[start : end+1], nil
}

// Extract unmarshals the JSON object embedded in text into a T.
func Extract[T any](text string) (T, error) {
	var out T
	raw, err := ExtractJSON(text)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("decoding response JSON: %w", err)
	}
	return out, nil
}
