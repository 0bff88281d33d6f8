/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codecontext

import (
	"bufio"
	"strings"
)

// TaskMetadata is the machine-readable header of an instruction document.
//
//	LANGUAGE: go
//	DEPENDS_ON: 01, 02
//	TARGET FILES:
//	- internal/server/server.go  # entry point
//	- `cmd/main.go`
type TaskMetadata struct {
	// TargetFiles are included in full rather than truncated.
	TargetFiles []string
	// DependsOn lists task identifiers whose documents are prepended.
	DependsOn []string
	Language  string
}

// ParseTaskMetadata extracts metadata from an instruction document. Unknown
// content is ignored.
func ParseTaskMetadata(doc string) TaskMetadata {
	var meta TaskMetadata
	inTargets := false

	scanner := bufio.NewScanner(strings.NewReader(doc))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())

		if rest, ok := cutPrefixFold(trimmed, "LANGUAGE:"); ok {
			meta.Language = strings.TrimSpace(rest)
			continue
		}
		if rest, ok := cutPrefixFold(trimmed, "DEPENDS_ON:"); ok {
			meta.DependsOn = append(meta.DependsOn, splitIDs(rest)...)
			continue
		}
		if _, ok := cutPrefixFold(trimmed, "TARGET FILES:"); ok {
			inTargets = true
			continue
		}

		if !inTargets {
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "#"):
			inTargets = false
		case strings.HasPrefix(trimmed, "-"):
			path := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
			if idx := strings.Index(path, "#"); idx > 0 {
				path = strings.TrimSpace(path[:idx])
			}
			if path = strings.Trim(path, "`"); path != "" {
				meta.TargetFiles = append(meta.TargetFiles, path)
			}
		case trimmed == "" && len(meta.TargetFiles) > 0:
			inTargets = false
		}
	}
	return meta
}

// IsTargetFile reports whether path is one of the target files.
func (m TaskMetadata) IsTargetFile(path string) bool {
	path = normalize(path)
	for _, t := range m.TargetFiles {
		if normalize(t) == path {
			return true
		}
	}
	return false
}

// cutPrefixFold is strings.CutPrefix ignoring case. prefix must be ASCII.
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

func splitIDs(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.Trim(f, "`"); f != "" {
			ids = append(ids, f)
		}
	}
	return ids
}
