package rules

import (
	"fmt"
	"strconv"

	"github.com/yaklabco/fllint/pkg/flast"
	"github.com/yaklabco/fllint/pkg/lint"
)

func init() {
	lint.DefaultRegistry.MustRegister(noShortRules{})
}

// defaultMinRuleLength matches what most list maintainers consider the
// shortest pattern that cannot accidentally match half the web.
const defaultMinRuleLength = 4

// noShortRules flags network rule patterns and cosmetic rule bodies shorter
// than a configurable minimum. Options: a single integer, or a mapping with
// a "minLength" key.
type noShortRules struct{}

func (noShortRules) Meta() lint.Meta {
	return lint.Meta{
		ID:          "no-short-rules",
		Category:    lint.CategoryProblem,
		Description: "Flags suspiciously short rules",
		URL:         docURL("no-short-rules"),
		Messages: map[string]string{
			"short": "rule is shorter than {{min}} characters",
		},
		Schema: validateMinLength,
	}
}

func validateMinLength(opts []any) error {
	if len(opts) == 0 {
		return nil
	}
	if len(opts) > 1 {
		return fmt.Errorf("expected at most one option, got %d", len(opts))
	}
	_, err := minLengthOf(opts)
	return err
}

// minLengthOf extracts the configured minimum from the options array.
func minLengthOf(opts []any) (int, error) {
	if len(opts) == 0 {
		return defaultMinRuleLength, nil
	}

	switch v := opts[0].(type) {
	case int:
		return checkMin(v)
	case float64:
		return checkMin(int(v))
	case map[string]any:
		raw, ok := v["minLength"]
		if !ok {
			return 0, fmt.Errorf("option object needs a minLength key")
		}
		switch n := raw.(type) {
		case int:
			return checkMin(n)
		case float64:
			return checkMin(int(n))
		default:
			return 0, fmt.Errorf("minLength must be a number, got %T", raw)
		}
	default:
		return 0, fmt.Errorf("option must be a number or an object, got %T", opts[0])
	}
}

func checkMin(n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("minimum length must be positive, got %d", n)
	}
	return n, nil
}

func (noShortRules) Create(ctx *lint.RuleContext) lint.VisitorMap {
	check := func(node *flast.Node, text string) {
		// Options are re-read on every visit so mid-file reconfiguration
		// takes effect immediately.
		minLen, err := minLengthOf(ctx.Options())
		if err != nil {
			return
		}
		if len(text) < minLen {
			ctx.Report(lint.Report{
				Node:      node,
				MessageID: "short",
				Data:      map[string]string{"min": strconv.Itoa(minLen)},
			})
		}
	}

	return lint.VisitorMap{
		"NetworkRule": func(node, _ *flast.Node, _ []*flast.Node) {
			check(node, node.String("pattern"))
		},
		"CosmeticRule": func(node, _ *flast.Node, _ []*flast.Node) {
			check(node, node.String("body"))
		},
	}
}
