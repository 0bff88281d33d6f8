/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chainguard-dev/clog"
	gogit "github.com/go-git/go-git/v5"
)

// ErrPathEscapesRoot is returned for a declared path that resolves outside the
// working tree.
var ErrPathEscapesRoot = errors.New("path escapes root")

// Writer persists parsed files under a root directory.
type Writer struct {
	root  string
	mode  os.FileMode
	stage bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithFileMode sets the permissions for written files (default 0644).
func WithFileMode(mode os.FileMode) WriterOption {
	return func(w *Writer) { w.mode = mode }
}

// WithStaging adds every written file to the index of the git repository
// containing root.
func WithStaging(stage bool) WriterOption {
	return func(w *Writer) { w.stage = stage }
}

// NewWriter returns a Writer rooted at root.
func NewWriter(root string, opts ...WriterOption) *Writer {
	w := &Writer{root: root, mode: 0o644}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write creates missing parent directories and writes each file, overwriting
// existing content. Every path is validated before anything touches the disk.
// It returns the number of files written.
func (w *Writer) Write(ctx context.Context, files Files) (int, error) {
	root, err := filepath.Abs(w.root)
	if err != nil {
		return 0, fmt.Errorf("resolving root %q: %w", w.root, err)
	}

	resolved := make(map[string]string, len(files))
	for _, path := range files.Paths() {
		full, err := validatePath(root, path)
		if err != nil {
			return 0, err
		}
		resolved[path] = full
	}

	written := 0
	for _, path := range files.Paths() {
		full := resolved[path]
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return written, fmt.Errorf("creating directory for %s: %w", path, err)
		}
		if err := os.WriteFile(full, []byte(files[path]), w.mode); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		clog.FromContext(ctx).With("path", path).Info("Wrote file")
		written++
	}

	if w.stage && written > 0 {
		if err := stage(ctx, root, resolved); err != nil {
			return written, err
		}
	}
	return written, nil
}

// validatePath resolves path under root, rejecting anything that escapes it.
func validatePath(root, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("empty path: %w", ErrPathEscapesRoot)
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("path %q is absolute: %w", path, ErrPathEscapesRoot)
	}
	full := filepath.Join(root, filepath.Clean(path))
	rel, err := filepath.Rel(root, full)
	if err != nil {
		return "", fmt.Errorf("path %q: %w", path, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q: %w", path, ErrPathEscapesRoot)
	}
	return full, nil
}

// stage adds the written files to the index of the enclosing repository.
func stage(ctx context.Context, root string, resolved map[string]string) error {
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("opening repository at %s: %w", root, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	base := wt.Filesystem.Root()
	for path, full := range resolved {
		rel, err := filepath.Rel(base, full)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", path, err)
		}
		if _, err := wt.Add(filepath.ToSlash(rel)); err != nil {
			return fmt.Errorf("staging %s: %w", path, err)
		}
	}
	clog.FromContext(ctx).With("files", len(resolved)).Info("Staged written files")
	return nil
}
