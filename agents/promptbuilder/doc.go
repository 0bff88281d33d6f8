/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder composes role prompts from developer-authored templates.

Templates are untyped string constants containing {{name}} placeholders. Because
NewPrompt only accepts an unexported string type, a template can only come from
a literal in the calling package, never from a runtime value:

	var coder = promptbuilder.MustNewPrompt(`Task:
	{{instruction}}

	Feedback: {{feedback}}`)

Values are attached with one of the Bind methods, each of which returns a new
Prompt and leaves the receiver untouched:

  - BindStringLiteral for developer-controlled text
  - BindDocument for repository content (rules, task docs, source excerpts)
    inserted verbatim
  - BindJSON and BindYAML for structured data

Build walks the template exactly once. Placeholders that appear inside bound
values are therefore never expanded, so a source file containing {{ }} cannot
reach into the template.
*/
package promptbuilder
