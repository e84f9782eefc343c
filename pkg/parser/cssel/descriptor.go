package cssel

import (
	"github.com/yaklabco/fllint/pkg/flast"
	"github.com/yaklabco/fllint/pkg/lint"
)

// Grammar is the name this sub-grammar registers under.
const Grammar = "css"

// HostSelector matches the primary-grammar nodes carrying this grammar.
const HostSelector = "CosmeticRule"

// Descriptor wires this grammar into the engine: cosmetic rule bodies are
// parsed as CSS selector lists and walked transparently.
func Descriptor() lint.ParserDescriptor {
	return lint.ParserDescriptor{
		Grammar:     Grammar,
		Parse:       Parse,
		TypeKey:     TypeKey,
		ChildKey:    ChildKey,
		StartOffset: bodyOffset("bodyStart"),
		EndOffset:   bodyOffset("bodyEnd"),
	}
}

func bodyOffset(key string) func(host *flast.Node) (int, bool) {
	return func(host *flast.Node) (int, bool) {
		v := host.Int(key, -1)
		return v, v >= 0
	}
}
