/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder_test

import (
	"strings"
	"testing"

	"chainguard.dev/pairloop/agents/promptbuilder"
	"github.com/google/go-cmp/cmp"
)

func TestNewPrompt(t *testing.T) {
	t.Run("no bindings", func(t *testing.T) {
		p, err := promptbuilder.NewPrompt("plain text")
		if err != nil {
			t.Fatalf("NewPrompt() error = %v", err)
		}
		if got := p.Bindings(); len(got) != 0 {
			t.Errorf("Bindings(): got = %v, wanted none", got)
		}
	})

	t.Run("repeated binding", func(t *testing.T) {
		p, err := promptbuilder.NewPrompt("{{data}} and {{data}} and {{ other }}")
		if err != nil {
			t.Fatalf("NewPrompt() error = %v", err)
		}
		if diff := cmp.Diff([]string{"data", "other"}, p.Bindings()); diff != "" {
			t.Errorf("Bindings() (-want +got): %s", diff)
		}
	})

	t.Run("unclosed", func(t *testing.T) {
		if _, err := promptbuilder.NewPrompt("Hello {{name"); err == nil {
			t.Error("NewPrompt(): expected error")
		}
	})

	t.Run("invalid identifier", func(t *testing.T) {
		if _, err := promptbuilder.NewPrompt("Hello {{1name}}"); err == nil {
			t.Error("NewPrompt(): expected error")
		}
	})

	t.Run("empty identifier", func(t *testing.T) {
		if _, err := promptbuilder.NewPrompt("Hello {{}}"); err == nil {
			t.Error("NewPrompt(): expected error")
		}
	})
}

func TestBuild(t *testing.T) {
	p := promptbuilder.MustNewPrompt("Rules:\n{{rules}}\n\nFeedback: {{feedback}}\nPlan:\n{{plan}}")

	p, err := p.BindDocument("rules", "Use clog.")
	if err != nil {
		t.Fatalf("BindDocument() = %v", err)
	}
	p, err = p.BindStringLiteral("feedback", "None.")
	if err != nil {
		t.Fatalf("BindStringLiteral() = %v", err)
	}
	p, err = p.BindJSON("plan", map[string][]string{"files": {"a.go"}})
	if err != nil {
		t.Fatalf("BindJSON() = %v", err)
	}

	got, err := p.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	want := "Rules:\nUse clog.\n\nFeedback: None.\nPlan:\n{\n  \"files\": [\n    \"a.go\"\n  ]\n}"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() (-want +got): %s", diff)
	}
}

func TestBuild_NoTransitiveSubstitution(t *testing.T) {
	p := promptbuilder.MustNewPrompt("Code:\n{{code}}\nTask: {{task}}")
	p, err := p.BindDocument("code", "tmpl := `{{task}}`")
	if err != nil {
		t.Fatalf("BindDocument() = %v", err)
	}
	p, err = p.BindDocument("task", "refactor")
	if err != nil {
		t.Fatalf("BindDocument() = %v", err)
	}
	got, err := p.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if !strings.Contains(got, "tmpl := `{{task}}`") {
		t.Errorf("Build(): placeholder inside a document was expanded: %q", got)
	}
}

func TestBuild_YAML(t *testing.T) {
	p := promptbuilder.MustNewPrompt("{{files}}")
	p, err := p.BindYAML("files", []string{"a.go", "b.go"})
	if err != nil {
		t.Fatalf("BindYAML() = %v", err)
	}
	got, err := p.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if want := "- a.go\n- b.go\n"; got != want {
		t.Errorf("Build(): got = %q, wanted = %q", got, want)
	}
}

func TestBind_Errors(t *testing.T) {
	p := promptbuilder.MustNewPrompt("Hello {{name}}")

	if _, err := p.BindDocument("missing", "x"); err == nil {
		t.Error("BindDocument(missing): expected error")
	}
	bound, err := p.BindDocument("name", "world")
	if err != nil {
		t.Fatalf("BindDocument() = %v", err)
	}
	if _, err := bound.BindDocument("name", "again"); err == nil {
		t.Error("rebinding: expected error")
	}
	if _, err := p.Build(); err == nil || !strings.Contains(err.Error(), "unbound placeholder: name") {
		t.Errorf("Build() on the original: got = %v, wanted unbound error", err)
	}
	if diff := cmp.Diff([]string{"name"}, p.Unbound()); diff != "" {
		t.Errorf("Unbound() (-want +got): %s", diff)
	}
	if got := bound.Unbound(); len(got) != 0 {
		t.Errorf("Unbound() after binding: got = %v", got)
	}
	bad, err := p.BindJSON("name", make(chan int))
	if err != nil {
		t.Fatalf("BindJSON() = %v", err)
	}
	if _, err := bad.Build(); err == nil {
		t.Error("Build() with unmarshalable JSON: expected error")
	}
}

func TestMustNewPrompt_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNewPrompt: expected panic")
		}
	}()
	promptbuilder.MustNewPrompt("{{unclosed")
}
