/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codecontext

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/chainguard-dev/clog"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
)

// Changes describes how HEAD differs from a base branch.
type Changes struct {
	Base    string
	Branch  string
	Files   []string
	Before  map[string]string
	After   map[string]string
	patches map[string]fdiff.FilePatch
	patch   string
}

// Diff compares HEAD of the repository containing the root against the merge
// base with base. The base may be a local branch, a remote branch or any
// revision go-git can resolve.
func (a *Assembler) Diff(ctx context.Context, base string) (*Changes, error) {
	repo, err := gogit.PlainOpenWithOptions(a.root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	headRef, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	head, err := repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("loading HEAD commit: %w", err)
	}

	baseHash, err := resolve(repo, base)
	if err != nil {
		return nil, err
	}
	baseCommit, err := repo.CommitObject(*baseHash)
	if err != nil {
		return nil, fmt.Errorf("loading base commit: %w", err)
	}
	if mb, err := head.MergeBase(baseCommit); err == nil && len(mb) > 0 {
		baseCommit = mb[0]
	}

	fromTree, err := baseCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("loading base tree: %w", err)
	}
	toTree, err := head.Tree()
	if err != nil {
		return nil, fmt.Errorf("loading HEAD tree: %w", err)
	}
	changes, err := fromTree.DiffContext(ctx, toTree)
	if err != nil {
		return nil, fmt.Errorf("diffing trees: %w", err)
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing patch: %w", err)
	}

	c := &Changes{
		Base:    base,
		Branch:  headRef.Name().Short(),
		Before:  make(map[string]string),
		After:   make(map[string]string),
		patches: make(map[string]fdiff.FilePatch),
		patch:   patch.String(),
	}
	for _, fp := range patch.FilePatches() {
		from, to := fp.Files()
		name := ""
		if to != nil {
			name = to.Path()
		} else if from != nil {
			name = from.Path()
		}
		c.patches[name] = fp
	}
	for _, ch := range changes {
		name := ch.To.Name
		if name == "" {
			name = ch.From.Name
		}
		c.Files = append(c.Files, name)
		if f, err := fromTree.File(name); err == nil {
			if s, err := f.Contents(); err == nil {
				c.Before[name] = s
			}
		}
		if f, err := toTree.File(name); err == nil {
			if s, err := f.Contents(); err == nil {
				c.After[name] = s
			}
		}
	}
	slices.Sort(c.Files)

	clog.FromContext(ctx).With("base", base).With("changed", len(c.Files)).Info("Computed branch diff")
	return c, nil
}

func resolve(repo *gogit.Repository, base string) (*plumbing.Hash, error) {
	var firstErr error
	for _, rev := range []string{base, "origin/" + base, "refs/remotes/origin/" + base} {
		h, err := repo.ResolveRevision(plumbing.Revision(rev))
		if err == nil {
			return h, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("resolving base %q: %w", base, firstErr)
}

// Render formats the changes for a question. With a target file the file's
// before and after content and its own diff are shown; otherwise the list of
// changed files and the full diff.
func (c *Changes) Render(target string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "BRANCH: %s (base branch: %s)\n\n", c.Branch, c.Base)

	if target == "" {
		b.WriteString("=== CHANGED FILES ===\n")
		for _, f := range c.Files {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n=== FULL DIFF ===\n")
		b.WriteString(c.patch)
		b.WriteString("\n")
		return b.String()
	}

	target = normalize(target)
	fmt.Fprintf(&b, "=== TARGET FILE: %s ===\n\n", target)
	if before, ok := c.Before[target]; ok {
		fmt.Fprintf(&b, "--- BEFORE (original) ---\n%s\n\n", before)
	}
	if after, ok := c.After[target]; ok {
		fmt.Fprintf(&b, "--- AFTER (current) ---\n%s\n\n", after)
	}
	b.WriteString("--- DIFF ---\n")
	if fp, ok := c.patches[target]; ok {
		var pb strings.Builder
		if err := fdiff.NewUnifiedEncoder(&pb, fdiff.DefaultContextLines).Encode(filePatch{fp}); err == nil {
			b.WriteString(pb.String())
		}
	}
	b.WriteString("\n\n")
	return b.String()
}

// filePatch narrows a patch to a single file for encoding.
type filePatch struct {
	fp fdiff.FilePatch
}

func (p filePatch) FilePatches() []fdiff.FilePatch { return []fdiff.FilePatch{p.fp} }
func (p filePatch) Message() string { return "" }

var _ fdiff.Patch = filePatch{}
