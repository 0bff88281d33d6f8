/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package role_test

import (
	"strings"
	"testing"

	"chainguard.dev/pairloop/agents/role"
	"github.com/google/go-cmp/cmp"
)

func TestAnalysis(t *testing.T) {
	for _, mode := range []role.AnalysisMode{role.AnalysisCoder, role.AnalysisQA} {
		t.Run(string(mode), func(t *testing.T) {
			got, err := role.Analysis(role.AnalysisRequest{Mode: mode, Rules: "r", Task: "the task", Context: "c"})
			if err != nil {
				t.Fatalf("Analysis() = %v", err)
			}
			for _, want := range []string{"the task", `"files_to_modify"`, `"files_to_read"`, "Repository-relative file path"} {
				if !strings.Contains(got, want) {
					t.Errorf("Analysis() missing %q:\n%s", want, got)
				}
			}
			if strings.Contains(got, `"$schema"`) {
				t.Errorf("Analysis() embedded the $schema header:\n%s", got)
			}
		})
	}

	if _, err := role.Analysis(role.AnalysisRequest{Mode: "summary"}); err == nil {
		t.Error("Analysis() with an unknown mode: expected error")
	}
}

func TestParsePlan(t *testing.T) {
	text := "```json\n" + `{
  "files_to_modify": [{"path": "a.go", "sections": ["Run"], "reason": "entry point"}],
  "files_to_create": [{"path": "new.go", "reason": "new type"}],
  "files_to_read": [{"path": "b.go", "reason": "types"}, {"path": "a.go", "reason": "dup"}]
}` + "\n```"

	plan, err := role.ParsePlan(text)
	if err != nil {
		t.Fatalf("ParsePlan() = %v", err)
	}
	if diff := cmp.Diff([]string{"a.go", "b.go"}, plan.Paths()); diff != "" {
		t.Errorf("Paths() (-want +got): %s", diff)
	}
	if diff := cmp.Diff([]string{"Run"}, plan.FilesToModify[0].Sections); diff != "" {
		t.Errorf("Sections (-want +got): %s", diff)
	}

	if !(role.Plan{}).Empty() || plan.Empty() {
		t.Errorf("Empty(): got = %v for a parsed plan", plan.Empty())
	}

	if _, err := role.ParsePlan("I think you should edit main.go"); err == nil {
		t.Error("ParsePlan() without JSON: expected error")
	}
}

func TestPlan_PathsCleaned(t *testing.T) {
	plan := role.Plan{
		FilesToModify: []role.FileAction{{Path: "./deep.go"}, {Path: "pkg//run.go"}},
		FilesToRead:   []role.FileAction{{Path: "deep.go"}, {Path: "  "}},
	}
	if diff := cmp.Diff([]string{"deep.go", "pkg/run.go"}, plan.Paths()); diff != "" {
		t.Errorf("Paths() (-want +got): %s", diff)
	}
}
