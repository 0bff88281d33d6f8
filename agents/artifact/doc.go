/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package artifact recovers file contents from free-text model responses and
// persists them under a working tree.
//
// A response declares files with a marker line followed by the content,
// usually inside a fenced code block:
//
//	### File: internal/server/server.go
//	```go
//	package server
//	```
//
// Parsing is lenient: lines under an open marker are captured even without a
// fence. Prose the model places between sections therefore becomes part of the
// preceding file.
package artifact
