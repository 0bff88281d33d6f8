/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema_test

import (
	"encoding/json"
	"strings"
	"testing"

	"chainguard.dev/pairloop/agents/schema"
)

type action struct {
	Path   string `json:"path" jsonschema:"required,description=Repository-relative path"`
	Reason string `json:"reason,omitempty"`
}

type plan struct {
	Modify []action `json:"files_to_modify" jsonschema:"required"`
}

func TestReflect(t *testing.T) {
	s := schema.Reflect[plan]()
	if s.Type != "object" {
		t.Errorf("Type: got = %q, wanted = object", s.Type)
	}
	if len(s.Required) != 1 || s.Required[0] != "files_to_modify" {
		t.Errorf("Required: got = %v", s.Required)
	}
	prop, ok := s.Properties.Get("files_to_modify")
	if !ok {
		t.Fatal("files_to_modify property missing")
	}
	if prop.Items == nil || prop.Items.Type != "object" {
		t.Errorf("items should be inlined objects, got %+v", prop.Items)
	}
}

func TestForPrompt(t *testing.T) {
	b, err := json.MarshalIndent(schema.ForPrompt[plan](), "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent() = %v", err)
	}
	got := string(b)
	if strings.Contains(got, "$schema") || strings.Contains(got, "$ref") {
		t.Errorf("ForPrompt() should be self-contained:\n%s", got)
	}
	if !strings.Contains(got, "Repository-relative path") {
		t.Errorf("ForPrompt() lost field descriptions:\n%s", got)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Errorf("ForPrompt() is not valid JSON: %v", err)
	}
}
