package rules

import (
	"github.com/yaklabco/fllint/pkg/flast"
	"github.com/yaklabco/fllint/pkg/lint"
)

func init() {
	lint.DefaultRegistry.MustRegister(ifClosed{})
}

// ifClosed checks that every !#if directive is closed by a matching !#endif
// and that no !#endif appears without an open !#if. The open-directive stack
// is reset when the walk enters the list root, so one rule instance can lint
// any number of files.
type ifClosed struct{}

func (ifClosed) Meta() lint.Meta {
	return lint.Meta{
		ID:          "if-closed",
		Category:    lint.CategoryProblem,
		Description: "Checks that !#if directives have matching !#endif directives",
		URL:         docURL("if-closed"),
		Messages: map[string]string{
			"unclosed": "the !#if directive is never closed",
			"stray":    "!#endif has no matching !#if directive",
		},
	}
}

func (ifClosed) Create(ctx *lint.RuleContext) lint.VisitorMap {
	var open []*flast.Node

	return lint.VisitorMap{
		"FilterList": func(_, _ *flast.Node, _ []*flast.Node) {
			open = open[:0]
		},
		"PreProcessorDirective": func(node, _ *flast.Node, _ []*flast.Node) {
			switch node.String("name") {
			case "if":
				open = append(open, node)
			case "endif":
				if len(open) == 0 {
					ctx.Report(lint.Report{Node: node, MessageID: "stray"})
					return
				}
				open = open[:len(open)-1]
			}
		},
		"FilterList:exit": func(_, _ *flast.Node, _ []*flast.Node) {
			for _, node := range open {
				ctx.Report(lint.Report{Node: node, MessageID: "unclosed"})
			}
			open = open[:0]
		},
	}
}
