package rules

import (
	"github.com/yaklabco/fllint/pkg/flast"
	"github.com/yaklabco/fllint/pkg/lint"
)

func init() {
	lint.DefaultRegistry.MustRegister(unknownPreProcessorDirectives{})
}

// directivesBySyntax maps each filter-list syntax to the pre-processor
// directive names its platform understands.
var directivesBySyntax = map[string][]string{
	"adg": {"if", "else", "endif", "include", "safari_cb_affinity"},
	"ubo": {"if", "endif", "include"},
	"abp": {"include"},
}

// knownDirectivesFor resolves the directive set for the configured syntaxes.
// With no constraint, or any syntax this rule has no table for, the union of
// every platform's directives applies.
func knownDirectivesFor(syntaxes []string) map[string]bool {
	known := make(map[string]bool)
	if len(syntaxes) == 0 {
		for _, names := range directivesBySyntax {
			for _, name := range names {
				known[name] = true
			}
		}
		return known
	}
	for _, syntax := range syntaxes {
		names, ok := directivesBySyntax[syntax]
		if !ok {
			return knownDirectivesFor(nil)
		}
		for _, name := range names {
			known[name] = true
		}
	}
	return known
}

// unknownPreProcessorDirectives flags !# directives the targeted platforms do
// not recognize, which are silently ignored by adblockers and usually
// indicate a typo.
type unknownPreProcessorDirectives struct{}

func (unknownPreProcessorDirectives) Meta() lint.Meta {
	return lint.Meta{
		ID:          "unknown-preprocessor-directives",
		Category:    lint.CategoryProblem,
		Description: "Flags unknown pre-processor directives",
		URL:         docURL("unknown-preprocessor-directives"),
		Messages: map[string]string{
			"unknown": "unknown pre-processor directive \"{{name}}\"",
		},
	}
}

func (unknownPreProcessorDirectives) Create(ctx *lint.RuleContext) lint.VisitorMap {
	known := knownDirectivesFor(ctx.Syntax())
	return lint.VisitorMap{
		"PreProcessorDirective": func(node, _ *flast.Node, _ []*flast.Node) {
			name := node.String("name")
			if !known[name] {
				ctx.Report(lint.Report{
					Node:      node,
					MessageID: "unknown",
					Data:      map[string]string{"name": name},
				})
			}
		},
	}
}
