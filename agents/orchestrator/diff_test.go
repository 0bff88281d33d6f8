/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator_test

import (
	"testing"
	"time"

	"chainguard.dev/pairloop/agents/provider/providertest"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestRun_QADiffContext(t *testing.T) {
	root := t.TempDir()
	repo, err := gogit.PlainInit(root, false)
	if err != nil {
		t.Fatalf("PlainInit() = %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree() = %v", err)
	}

	commit := func(msg string) plumbing.Hash {
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

	writeTree(t, root, taskTree())
	base := commit("initial")
	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("trunk"), base)); err != nil {
		t.Fatalf("SetReference() = %v", err)
	}
	writeTree(t, root, map[string]string{"main.go": "package main\n\nfunc main() { run() }\n"})
	commit("call run")

	cfg := qaConfig(root)
	cfg.BaseBranch = "trunk"
	client := providertest.Text("It now calls run.")
	run(t, mustNew(t, cfg, client, noSleep()))

	wantContains(t, client.Calls()[0].Prompt,
		"(base branch: trunk)",
		"=== TARGET FILE: main.go ===",
		"--- AFTER (current) ---\npackage main\n\nfunc main() { run() }\n",
	)
}
