/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package schema derives JSON schemas from Go types so prompts can describe
// the exact response shape they expect.
package schema

import (
	"github.com/invopop/jsonschema"
)

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
}

// Reflect returns the schema for a zero T.
func Reflect[T any]() *jsonschema.Schema {
	var zero T
	return reflector().Reflect(&zero)
}

// ForPrompt returns the schema for T without the $schema header, ready to
// embed in a prompt with promptbuilder's BindJSON.
func ForPrompt[T any]() *jsonschema.Schema {
	s := Reflect[T]()
	s.Version = ""
	return s
}
