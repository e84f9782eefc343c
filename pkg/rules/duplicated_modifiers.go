package rules

import (
	"strings"

	"github.com/yaklabco/fllint/pkg/fix"
	"github.com/yaklabco/fllint/pkg/flast"
	"github.com/yaklabco/fllint/pkg/lint"
)

func init() {
	lint.DefaultRegistry.MustRegister(duplicatedModifiers{})
}

// duplicatedModifiers flags network rule modifiers that repeat an earlier
// modifier of the same name, and removes the repetition.
type duplicatedModifiers struct{}

func (duplicatedModifiers) Meta() lint.Meta {
	return lint.Meta{
		ID:          "duplicated-modifiers",
		Category:    lint.CategoryProblem,
		Description: "Flags network rule modifiers that occur more than once",
		URL:         docURL("duplicated-modifiers"),
		Messages: map[string]string{
			"duplicated": "the modifier \"{{name}}\" is used multiple times",
		},
		Fixable: true,
	}
}

func (duplicatedModifiers) Create(ctx *lint.RuleContext) lint.VisitorMap {
	return lint.VisitorMap{
		"NetworkRule": func(node, _ *flast.Node, _ []*flast.Node) {
			raw, ok := node.Get("modifiers")
			if !ok {
				return
			}
			modifiers, ok := raw.([]*flast.Node)
			if !ok {
				return
			}

			seen := make(map[string]bool, len(modifiers))
			for _, m := range modifiers {
				name := m.String("name")
				if !seen[name] {
					seen[name] = true
					continue
				}

				start, end, ok := m.Span()
				if !ok {
					continue
				}
				removeFrom := separatorStart(ctx.Source(), start)

				ctx.Report(lint.Report{
					Node:      m,
					MessageID: "duplicated",
					Data:      map[string]string{"name": name},
					Fix: func(b *fix.Builder) *fix.Command {
						return b.Remove(removeFrom, end)
					},
				})
			}
		},
	}
}

// separatorStart walks back over the comma and surrounding spaces that
// separate a modifier from its predecessor, so the fix removes the list
// entry cleanly.
func separatorStart(source string, start int) int {
	i := start
	for i > 0 && (source[i-1] == ' ' || source[i-1] == '\t') {
		i--
	}
	if i > 0 && source[i-1] == ',' {
		i--
	}
	for i > 0 && strings.IndexByte(" \t", source[i-1]) >= 0 {
		i--
	}
	return i
}
