/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"fmt"
	"maps"
	"slices"
)

// stringLiteral only accepts untyped string constants from callers.
type stringLiteral string

// Prompt is an immutable template with named placeholders.
type Prompt struct {
	template string
	bindings map[string]binding
}

// NewPrompt parses template and registers every placeholder as unbound.
func NewPrompt(template stringLiteral) (*Prompt, error) {
	bindings := make(map[string]binding)
	tmpl, err := walkTemplate(string(template), func(name string) (string, error) {
		if _, exists := bindings[name]; !exists {
			bindings[name] = &unboundBinding{name: name}
		}
		return "{{" + name + "}}", nil
	})
	if err != nil {
		return nil, err
	}
	return &Prompt{template: tmpl, bindings: bindings}, nil
}

// Bindings returns the sorted placeholder names in the template.
func (p *Prompt) Bindings() []string {
	return slices.Sorted(maps.Keys(p.bindings))
}

// Unbound returns the sorted placeholder names that still need a value.
func (p *Prompt) Unbound() []string {
	var out []string
	for _, name := range p.Bindings() {
		if _, ok := p.bindings[name].(*unboundBinding); ok {
			out = append(out, name)
		}
	}
	return out
}

func (p *Prompt) bind(name string, b binding) (*Prompt, error) {
	if err := existsAndUnbound(p.bindings, name); err != nil {
		return nil, err
	}
	np := &Prompt{
		template: p.template,
		bindings: maps.Clone(p.bindings),
	}
	np.bindings[name] = b
	return np, nil
}

// BindStringLiteral binds developer-controlled text.
func (p *Prompt) BindStringLiteral(name string, value stringLiteral) (*Prompt, error) {
	return p.bind(name, &literalBinding{val: string(value)})
}

// BindDocument binds repository text verbatim. Use it for rules, task
// instructions, questions and source excerpts.
func (p *Prompt) BindDocument(name, text string) (*Prompt, error) {
	return p.bind(name, &documentBinding{text: text})
}

// BindJSON binds data marshaled as indented JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.bind(name, &jsonBinding{data: data})
}

// BindYAML binds data marshaled as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, &yamlBinding{data: data})
}

// Build renders the prompt. Every placeholder must be bound.
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.bindings))
	for _, name := range p.Bindings() {
		val, err := p.bindings[name].value()
		if err != nil {
			return "", err
		}
		values[name] = val
	}
	return walkTemplate(p.template, func(name string) (string, error) {
		val, ok := values[name]
		if !ok {
			return "", fmt.Errorf("internal error: binding %q not found in values map", name)
		}
		return val, nil
	})
}
