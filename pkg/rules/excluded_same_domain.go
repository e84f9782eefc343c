package rules

import (
	"github.com/yaklabco/fllint/pkg/flast"
	"github.com/yaklabco/fllint/pkg/lint"
)

func init() {
	lint.DefaultRegistry.MustRegister(excludedSameDomain{})
}

// excludedSameDomain flags cosmetic rules listing the same domain both as
// included and as excluded (example.org,~example.org##...). Such a rule
// never applies on that domain and is almost always an editing mistake.
type excludedSameDomain struct{}

func (excludedSameDomain) Meta() lint.Meta {
	return lint.Meta{
		ID:          "excluded-same-domain",
		Category:    lint.CategoryProblem,
		Description: "Flags domains listed as both included and excluded in one rule",
		URL:         docURL("excluded-same-domain"),
		Messages: map[string]string{
			"contradiction": "\"{{domain}}\" is both included and excluded",
		},
	}
}

func (excludedSameDomain) Create(ctx *lint.RuleContext) lint.VisitorMap {
	return lint.VisitorMap{
		"CosmeticRule": func(node, _ *flast.Node, _ []*flast.Node) {
			raw, ok := node.Get("domains")
			if !ok {
				return
			}
			domains, ok := raw.([]*flast.Node)
			if !ok {
				return
			}

			included := make(map[string]bool)
			for _, d := range domains {
				if !d.Bool("exception") {
					included[d.String("value")] = true
				}
			}
			for _, d := range domains {
				if d.Bool("exception") && included[d.String("value")] {
					ctx.Report(lint.Report{
						Node:      d,
						MessageID: "contradiction",
						Data:      map[string]string{"domain": d.String("value")},
					})
				}
			}
		},
	}
}
