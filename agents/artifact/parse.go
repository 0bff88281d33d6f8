/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package artifact

import (
	"maps"
	"slices"
	"strings"
)

const (
	// Marker opens a file section. The path follows the first colon.
	Marker = "### File:"

	fence = "```"
)

// Files maps a relative path to its full content.
type Files map[string]string

// Paths returns the declared paths in sorted order.
func (f Files) Paths() []string {
	return slices.Sorted(maps.Keys(f))
}

// Parse extracts the files declared in text. A response without any marker
// yields an empty map. When a path is declared twice the later section wins.
// A marker with an empty path opens nothing.
func Parse(text string) Files {
	files := make(Files)

	var (
		current string
		open    bool
		inFence bool
		buf     []string
	)
	commit := func() {
		if open && len(buf) > 0 {
			files[current] = strings.TrimSpace(strings.Join(buf, "\n"))
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, Marker):
			commit()
			_, path, _ := strings.Cut(trimmed, ":")
			current = strings.TrimSpace(path)
			open, buf = current != "", nil
		case strings.HasPrefix(trimmed, fence):
			inFence = !inFence
		case inFence || open:
			buf = append(buf, line)
		}
	}
	commit()

	return files
}

// Format renders files back into the marker grammar, one fenced section per
// path in sorted order. Parse(Format(f)) returns f for any f produced by Parse.
func Format(files Files) string {
	var b strings.Builder
	for i, path := range files.Paths() {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(Marker)
		b.WriteString(" ")
		b.WriteString(path)
		b.WriteString("\n")
		b.WriteString(fence)
		b.WriteString("\n")
		b.WriteString(files[path])
		b.WriteString("\n")
		b.WriteString(fence)
	}
	return b.String()
}
