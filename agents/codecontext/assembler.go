/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package codecontext assembles the textual materials fed to role prompts:
// project rules, task instructions and a truncated excerpt of the codebase.
package codecontext

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chainguard-dev/clog"
)

const (
	// DefaultDocsDir holds the overview and per-task instruction documents.
	DefaultDocsDir = "docs/refactoring"

	// DefaultMaxLines is how many lines of each file the excerpt includes.
	DefaultMaxLines = 80

	overviewName = "00_overview.md"
	header       = "Current Project Structure & Key Files:\n"
	truncated    = "\n... (truncated)\n"
)

// ErrInstructionNotFound is returned when no instruction document matches a task.
var ErrInstructionNotFound = errors.New("instruction document not found")

var (
	// DefaultExtensions are the file extensions included in the excerpt.
	DefaultExtensions = []string{".go", ".md", ".tf"}

	// DefaultExcludeDirs are never descended into.
	DefaultExcludeDirs = []string{".git", ".github", "node_modules", "vendor", "dist", "bin"}

	// DefaultSkipFiles are skipped wherever they appear.
	DefaultSkipFiles = []string{"go.sum", "go.mod", "package-lock.json"}
)

// Assembler reads context from a working tree.
type Assembler struct {
	root        string
	docsDir     string
	maxLines    int
	extensions  []string
	excludeDirs []string
	skipFiles   []string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithDocsDir sets the documents directory, relative to the root.
func WithDocsDir(dir string) Option {
	return func(a *Assembler) { a.docsDir = dir }
}

// WithMaxLines sets the per-file line limit of the excerpt.
func WithMaxLines(n int) Option {
	return func(a *Assembler) { a.maxLines = n }
}

// WithExtensions replaces the set of included file extensions.
func WithExtensions(exts ...string) Option {
	return func(a *Assembler) { a.extensions = exts }
}

// WithExcludeDirs replaces the set of excluded directory names.
func WithExcludeDirs(dirs ...string) Option {
	return func(a *Assembler) { a.excludeDirs = dirs }
}

// WithSkipFiles replaces the set of skipped file names.
func WithSkipFiles(names ...string) Option {
	return func(a *Assembler) { a.skipFiles = names }
}

// New returns an Assembler over the tree at root.
func New(root string, opts ...Option) *Assembler {
	a := &Assembler{
		root:        root,
		docsDir:     DefaultDocsDir,
		maxLines:    DefaultMaxLines,
		extensions:  DefaultExtensions,
		excludeDirs: DefaultExcludeDirs,
		skipFiles:   DefaultSkipFiles,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Root returns the directory the assembler reads from.
func (a *Assembler) Root() string {
	return a.root
}

// Overview returns the global project rules, or "" when the document is absent.
func (a *Assembler) Overview(ctx context.Context) string {
	path := filepath.Join(a.root, a.docsDir, overviewName)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			clog.WarnContextf(ctx, "Could not read %s: %v", path, err)
		}
		return ""
	}
	return string(data)
}

// Instruction returns the instruction document for taskID. When several
// documents match, one without the "_completed" suffix is preferred.
func (a *Assembler) Instruction(_ context.Context, taskID string) (string, error) {
	matches, err := a.glob(taskID + "_*.md")
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("task %s: %w", taskID, ErrInstructionNotFound)
	}
	path := matches[0]
	for _, m := range matches {
		if !strings.Contains(filepath.Base(m), "_completed") {
			path = m
			break
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading instruction for task %s: %w", taskID, err)
	}
	return string(data), nil
}

// Completed returns the completion summary written for taskID.
func (a *Assembler) Completed(_ context.Context, taskID string) (string, error) {
	matches, err := a.glob(taskID + "_*_completed.md")
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no completed document for task %s", taskID)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		return "", fmt.Errorf("reading completed document for task %s: %w", taskID, err)
	}
	return string(data), nil
}

// Dependent renders the documents of the tasks this one depends on. A task's
// completion summary is used when present, its instructions otherwise. Tasks
// with neither are skipped.
func (a *Assembler) Dependent(ctx context.Context, taskIDs []string) string {
	if len(taskIDs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("=== DEPENDENT TASKS CONTEXT ===\n\n")
	for _, id := range taskIDs {
		if doc, err := a.Completed(ctx, id); err == nil {
			fmt.Fprintf(&b, "--- Task %s (Completed) ---\n%s\n\n", id, doc)
			continue
		}
		if doc, err := a.Instruction(ctx, id); err == nil {
			fmt.Fprintf(&b, "--- Task %s (Instructions Only) ---\n%s\n\n", id, doc)
			continue
		}
		clog.WarnContextf(ctx, "No documents found for dependent task %s", id)
	}
	return b.String()
}

func (a *Assembler) glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(a.root, a.docsDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", pattern, err)
	}
	return matches, nil
}

// Codebase renders an excerpt of every matching file under the root: a header
// line, then for each file its path and first lines, with an explicit marker
// when the file was cut. Files named in full are included without truncation.
// Unreadable files are skipped with a warning.
func (a *Assembler) Codebase(ctx context.Context, full []string) (string, error) {
	wanted := make(map[string]struct{}, len(full))
	for _, p := range full {
		wanted[normalize(p)] = struct{}{}
	}

	var b strings.Builder
	b.WriteString(header)

	files := 0
	err := filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == a.root {
				return err
			}
			clog.WarnContextf(ctx, "Could not read %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if path != a.root && slices.Contains(a.excludeDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !a.include(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(a.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		data, err := os.ReadFile(path)
		if err != nil {
			clog.WarnContextf(ctx, "Could not read %s: %v", rel, err)
			return nil
		}

		fmt.Fprintf(&b, "\n--- File: %s ---\n", rel)
		if _, ok := wanted[rel]; ok {
			b.Write(data)
		} else {
			b.WriteString(head(string(data), a.maxLines))
		}
		files++
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking %s: %w", a.root, err)
	}

	clog.FromContext(ctx).With("files", files).With("full", len(wanted)).Info("Assembled codebase context")
	return b.String(), nil
}

// ReadFiles returns the full content of each path that exists under the root.
// Paths that escape the root or cannot be read are skipped.
func (a *Assembler) ReadFiles(ctx context.Context, paths []string) map[string]string {
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		rel := normalize(p)
		full := filepath.Join(a.root, filepath.FromSlash(rel))
		if r, err := filepath.Rel(a.root, full); err != nil || strings.HasPrefix(r, "..") {
			clog.WarnContextf(ctx, "Skipping %s: outside the working tree", p)
			continue
		}
		data, err := os.ReadFile(full)
		if err != nil {
			clog.WarnContextf(ctx, "Could not read %s: %v", p, err)
			continue
		}
		out[rel] = string(data)
	}
	return out
}

func (a *Assembler) include(name string) bool {
	if slices.Contains(a.skipFiles, name) || strings.Contains(name, overviewName) {
		return false
	}
	return slices.Contains(a.extensions, filepath.Ext(name))
}

// head returns the first n lines of content, line endings preserved, followed
// by the truncation marker when lines were dropped.
func head(content string, n int) string {
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) <= n {
		return content
	}
	return strings.Join(lines[:n], "") + truncated
}

func normalize(p string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(p)), "./")
}
