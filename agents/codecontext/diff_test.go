/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codecontext_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chainguard.dev/pairloop/agents/codecontext"
	"github.com/google/go-cmp/cmp"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func commitAll(t *testing.T, wt *gogit.Worktree, msg string) plumbing.Hash {
	t.Helper()
	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		t.Fatalf("Add() = %v", err)
	}
	h, err := wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{Name: "dev", Email: "dev@example.com", When: time.Unix(1700000000, 0)},
	})
	if err != nil {
		t.Fatalf("Commit() = %v", err)
	}
	return h
}

// newBranchRepo creates a repository with a "base" branch and a HEAD commit
// that modifies one file and adds another.
func newBranchRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	repo, err := gogit.PlainInit(root, false)
	if err != nil {
		t.Fatalf("PlainInit() = %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree() = %v", err)
	}

	writeTree(t, root, map[string]string{
		"main.go":   "package main\n\nfunc main() {}\n",
		"stable.go": "package main\n",
	})
	base := commitAll(t, wt, "initial")
	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("base"), base)); err != nil {
		t.Fatalf("SetReference() = %v", err)
	}

	writeTree(t, root, map[string]string{
		"main.go":    "package main\n\nfunc main() { run() }\n",
		"pkg/run.go": "package main\n\nfunc run() {}\n",
	})
	commitAll(t, wt, "change")
	return root
}

func TestDiff(t *testing.T) {
	root := newBranchRepo(t)

	c, err := codecontext.New(root).Diff(context.Background(), "base")
	if err != nil {
		t.Fatalf("Diff() = %v", err)
	}

	if diff := cmp.Diff([]string{"main.go", "pkg/run.go"}, c.Files); diff != "" {
		t.Errorf("Files (-want +got): %s", diff)
	}
	if got, want := c.Before["main.go"], "package main\n\nfunc main() {}\n"; got != want {
		t.Errorf("Before[main.go]: got = %q, wanted = %q", got, want)
	}
	if got, want := c.After["main.go"], "package main\n\nfunc main() { run() }\n"; got != want {
		t.Errorf("After[main.go]: got = %q, wanted = %q", got, want)
	}
	if _, ok := c.Before["pkg/run.go"]; ok {
		t.Error("Before: added file should have no base content")
	}

	full := c.Render("")
	for _, want := range []string{"BRANCH: master (base branch: base)", "=== CHANGED FILES ===\n- main.go\n- pkg/run.go\n", "=== FULL DIFF ===", "+func main() { run() }"} {
		if !strings.Contains(full, want) {
			t.Errorf("Render(\"\") missing %q:\n%s", want, full)
		}
	}

	target := c.Render("./main.go")
	for _, want := range []string{"=== TARGET FILE: main.go ===", "--- BEFORE (original) ---", "--- AFTER (current) ---", "--- DIFF ---", "-func main() {}"} {
		if !strings.Contains(target, want) {
			t.Errorf("Render(main.go) missing %q:\n%s", want, target)
		}
	}
	if strings.Contains(target, "pkg/run.go") {
		t.Errorf("Render(main.go) leaked another file's diff:\n%s", target)
	}
}

func TestDiff_Errors(t *testing.T) {
	if _, err := codecontext.New(t.TempDir()).Diff(context.Background(), "main"); err == nil {
		t.Error("Diff() outside a repository: expected error")
	}

	root := newBranchRepo(t)
	if _, err := codecontext.New(root).Diff(context.Background(), "no-such-branch"); err == nil {
		t.Error("Diff() with an unknown base: expected error")
	}
}

func TestDiff_Subdirectory(t *testing.T) {
	root := newBranchRepo(t)
	sub := filepath.Join(root, "pkg")

	c, err := codecontext.New(sub).Diff(context.Background(), "base")
	if err != nil {
		t.Fatalf("Diff() from a subdirectory = %v", err)
	}
	if diff := cmp.Diff([]string{"main.go", "pkg/run.go"}, c.Files); diff != "" {
		t.Errorf("Files (-want +got): %s", diff)
	}
}
