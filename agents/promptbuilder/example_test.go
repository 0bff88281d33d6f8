/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder_test

import (
	"fmt"
	"log"

	"chainguard.dev/pairloop/agents/promptbuilder"
)

func ExamplePrompt_BindDocument() {
	p := promptbuilder.MustNewPrompt(`Question: {{question}}`)

	p, err := p.BindDocument("question", "Why does {{this}} stay literal?")
	if err != nil {
		log.Fatal(err)
	}
	out, err := p.Build()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)
	// Output: Question: Why does {{this}} stay literal?
}
