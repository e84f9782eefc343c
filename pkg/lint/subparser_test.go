package lint

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/fllint/pkg/config"
	"github.com/yaklabco/fllint/pkg/flast"
	"github.com/yaklabco/fllint/pkg/parser/adblock"
)

// Sub-grammar attribute keys used by the stub parser below.
const (
	subTypeKey  = "kind"
	subChildKey = "selectors"
)

// parseSelectorList is a minimal selector-list parser: it splits on commas
// into Selector children and rejects unbalanced brackets. The production
// sub-grammar lives in pkg/parser/cssel, which imports this package, so
// in-package tests bring their own parser; cross-package wiring is covered
// in subparser_ext_test.go.
func parseSelectorList(source string, absOffset, line, _ int) (*flast.Node, error) {
	if strings.Count(source, "[") != strings.Count(source, "]") {
		return nil, fmt.Errorf("unbalanced brackets at line %d", line+1)
	}

	root := flast.New(map[string]any{
		subTypeKey:     "SelectorList",
		flast.StartKey: absOffset,
		flast.EndKey:   absOffset + len(source),
	})

	start := 0
	for start <= len(source) {
		end := strings.Index(source[start:], ",")
		if end < 0 {
			end = len(source)
		} else {
			end += start
		}
		text := strings.TrimSpace(source[start:end])
		if text == "" {
			return nil, fmt.Errorf("empty selector at line %d", line+1)
		}
		local := start + strings.Index(source[start:end], text)
		root.AppendChild(subChildKey, flast.New(map[string]any{
			subTypeKey:     "Selector",
			flast.StartKey: absOffset + local,
			flast.EndKey:   absOffset + local + len(text),
			"value":        text,
		}))
		start = end + 1
	}

	return root, nil
}

// cssDescriptor wraps the stub parser for cosmetic rule bodies, counting
// parses so tests can assert the once-per-host guarantee.
func cssDescriptor(parseCount *int) ParserDescriptor {
	return ParserDescriptor{
		Grammar: "css",
		Parse: func(source string, absOffset, line, lineStart int) (*flast.Node, error) {
			*parseCount++
			return parseSelectorList(source, absOffset, line, lineStart)
		},
		TypeKey:     subTypeKey,
		ChildKey:    subChildKey,
		StartOffset: bodyStart,
		EndOffset:   bodyEnd,
	}
}

func TestSubParserWalksEmbeddedTree(t *testing.T) {
	var seen []string
	rule := stubRule{
		meta: Meta{ID: "sel"},
		create: func(ctx *RuleContext) VisitorMap {
			return VisitorMap{
				// The selector crosses the grammar boundary: the cosmetic
				// rule is the host, the list lives in the sub-tree.
				"CosmeticRule SelectorList": func(node, parent *flast.Node, ancestry []*flast.Node) {
					seen = append(seen, ctx.Snapshot().TextOf(node))
					assert.Equal(t, "CosmeticRule", parent.Type(flast.DefaultTypeKey))
					ctx.Report(Report{Node: node, Message: "selector list"})
				},
			}
		},
	}

	cfg := config.NewConfig()
	cfg.Rules["sel"] = config.RuleSetting{Severity: config.SeverityWarning}
	l := newLinter(t, cfg, rule)

	var parses int
	require.NoError(t, l.RegisterSubParser("CosmeticRule", cssDescriptor(&parses)))

	content := "example.org##.ad, .banner\nexample.net##div\n"
	res, err := l.Lint(context.Background(), "list.txt", content)
	require.NoError(t, err)

	assert.Equal(t, []string{".ad, .banner", "div"}, seen)
	assert.Equal(t, 2, parses)

	// Positions resolve against the main source without any per-grammar math.
	require.Len(t, res.Problems, 2)
	assert.Equal(t, 1, res.Problems[0].Position.StartLine)
	assert.Equal(t, strings.Index(content, ".ad")+1, res.Problems[0].Position.StartColumn)
	assert.Equal(t, 2, res.Problems[1].Position.StartLine)
}

func TestSubParserParsesOncePerHostNode(t *testing.T) {
	// Two distinct selectors both land on nodes of the same sub-tree; the
	// parse must still happen once per host node.
	rule := stubRule{
		meta: Meta{ID: "multi"},
		create: func(ctx *RuleContext) VisitorMap {
			return VisitorMap{
				"SelectorList": func(_, _ *flast.Node, _ []*flast.Node) {},
				"Selector":     func(_, _ *flast.Node, _ []*flast.Node) {},
			}
		},
	}

	cfg := config.NewConfig()
	cfg.Rules["multi"] = config.RuleSetting{Severity: config.SeverityError}
	l := newLinter(t, cfg, rule)

	var parses int
	require.NoError(t, l.RegisterSubParser("CosmeticRule", cssDescriptor(&parses)))

	_, err := l.Lint(context.Background(), "list.txt", "example.org##.a, .b\n")
	require.NoError(t, err)
	assert.Equal(t, 1, parses)
}

func TestSubParserFailureIsFatalAndLintContinues(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Rules["net"] = config.RuleSetting{Severity: config.SeverityError}
	l := newLinter(t, cfg, networkReporter("net"))

	var parses int
	require.NoError(t, l.RegisterSubParser("CosmeticRule", cssDescriptor(&parses)))

	// Line 1 has an unbalanced selector; line 2 must still be linted.
	content := "example.org##div[data-ad\n||ads.example^\n"
	res, err := l.Lint(context.Background(), "list.txt", content)
	require.NoError(t, err)

	require.Len(t, res.Problems, 2)
	assert.True(t, res.Problems[0].Fatal)
	assert.Contains(t, res.Problems[0].Message, "css")
	assert.Equal(t, "net", res.Problems[1].RuleID)
	assert.Equal(t, 1, res.FatalErrorCount)
	assert.Equal(t, 2, res.ErrorCount)
}

func TestRegisterSubParserValidation(t *testing.T) {
	l := New(adblock.New(), config.NewConfig())

	err := l.RegisterSubParser("[bad", ParserDescriptor{Grammar: "x", Parse: parseSelectorList})
	require.Error(t, err)

	err = l.RegisterSubParser("CosmeticRule", ParserDescriptor{})
	require.Error(t, err)
}
