package rules

import (
	"strconv"
	"strings"

	"github.com/yaklabco/fllint/pkg/fix"
	"github.com/yaklabco/fllint/pkg/flast"
	"github.com/yaklabco/fllint/pkg/lint"
	"github.com/yaklabco/fllint/pkg/parser/cssel"
)

func init() {
	lint.DefaultRegistry.MustRegister(singleSelector{})
}

// singleSelector flags cosmetic rules whose CSS selector list holds more
// than one selector. Multi-selector rules are harder to maintain and to
// exempt per site, so the rule suggests splitting them into one rule per
// selector. It operates entirely on the embedded CSS sub-tree.
type singleSelector struct{}

func (singleSelector) Meta() lint.Meta {
	return lint.Meta{
		ID:          "single-selector",
		Category:    lint.CategorySuggestion,
		Description: "Prefers one CSS selector per cosmetic rule",
		URL:         docURL("single-selector"),
		Messages: map[string]string{
			"multiple": "the rule combines {{count}} selectors; prefer one selector per rule",
		},
		HasSuggestions: true,
	}
}

func (singleSelector) Create(ctx *lint.RuleContext) lint.VisitorMap {
	return lint.VisitorMap{
		"SelectorList": func(node, parent *flast.Node, _ []*flast.Node) {
			selectors := node.ChildList(cssel.ChildKey)
			if len(selectors) < 2 {
				return
			}

			// The parent is the hosting cosmetic rule from the primary
			// grammar.
			hostStart, hostEnd, ok := parent.Span()
			bodyStart := parent.Int("bodyStart", -1)
			if !ok || bodyStart < 0 {
				return
			}

			prefix := ctx.Source()[hostStart:bodyStart]
			lines := make([]string, 0, len(selectors))
			for _, sel := range selectors {
				lines = append(lines, prefix+sel.String("value"))
			}
			split := strings.Join(lines, "\n")

			ctx.Report(lint.Report{
				Node:      node,
				MessageID: "multiple",
				Data:      map[string]string{"count": strconv.Itoa(len(selectors))},
				Suggestions: []lint.SuggestionReport{{
					Message: "split into one rule per selector",
					Fix: func(b *fix.Builder) *fix.Command {
						return b.Replace(hostStart, hostEnd, split)
					},
				}},
			})
		},
	}
}
