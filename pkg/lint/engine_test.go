package lint

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/fllint/pkg/config"
	"github.com/yaklabco/fllint/pkg/fix"
	"github.com/yaklabco/fllint/pkg/flast"
	"github.com/yaklabco/fllint/pkg/parser/adblock"
)

type stubRule struct {
	meta   Meta
	create func(ctx *RuleContext) VisitorMap
}

func (r stubRule) Meta() Meta { return r.meta }

func (r stubRule) Create(ctx *RuleContext) VisitorMap { return r.create(ctx) }

func registryWith(t *testing.T, rules ...Rule) *Registry {
	t.Helper()
	reg := NewRegistry()
	for _, rule := range rules {
		require.NoError(t, reg.Register(rule))
	}
	return reg
}

func newLinter(t *testing.T, cfg *config.Config, rules ...Rule) *Linter {
	t.Helper()
	l := New(adblock.New(), cfg)
	require.NoError(t, l.LoadRules(context.Background(), registryWith(t, rules...).Loader()))
	return l
}

// networkReporter reports every network rule under the given severity
// mapping in the config.
func networkReporter(id string) Rule {
	return stubRule{
		meta: Meta{ID: id, Category: CategoryProblem, Description: "flags network rules"},
		create: func(ctx *RuleContext) VisitorMap {
			return VisitorMap{
				"NetworkRule": func(node, _ *flast.Node, _ []*flast.Node) {
					ctx.Report(Report{Node: node, Message: "network rule found"})
				},
			}
		},
	}
}

func TestLintReportsProblems(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Rules["net"] = config.RuleSetting{Severity: config.SeverityError}
	l := newLinter(t, cfg, networkReporter("net"))

	res, err := l.Lint(context.Background(), "list.txt", "||ads.example^\n! comment\n||track.example^\n")
	require.NoError(t, err)

	require.Len(t, res.Problems, 2)
	assert.Equal(t, 2, res.ErrorCount)
	assert.Equal(t, 0, res.WarningCount)
	assert.Equal(t, "net", res.Problems[0].RuleID)
	assert.Equal(t, 1, res.Problems[0].Position.StartLine)
	assert.Equal(t, 3, res.Problems[1].Position.StartLine)
}

func TestLintSeverityOffSkipsRegistration(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Rules["net"] = config.RuleSetting{Severity: config.SeverityOff}
	l := newLinter(t, cfg, networkReporter("net"))

	assert.Empty(t, l.Instances())
	res, err := l.Lint(context.Background(), "list.txt", "||ads.example^\n")
	require.NoError(t, err)
	assert.False(t, res.HasProblems())
}

func TestLintMessageIDExpansion(t *testing.T) {
	rule := stubRule{
		meta: Meta{
			ID:       "mod",
			Messages: map[string]string{"dup": "modifier {{name}} repeated {{count}} times"},
		},
		create: func(ctx *RuleContext) VisitorMap {
			return VisitorMap{
				"Modifier": func(node, _ *flast.Node, _ []*flast.Node) {
					ctx.Report(Report{
						Node:      node,
						MessageID: "dup",
						Data:      map[string]string{"name": node.String("name"), "count": "2"},
					})
				},
			}
		},
	}

	cfg := config.NewConfig()
	cfg.Rules["mod"] = config.RuleSetting{Severity: config.SeverityWarning}
	l := newLinter(t, cfg, rule)

	res, err := l.Lint(context.Background(), "list.txt", "||ads.example^$script\n")
	require.NoError(t, err)
	require.Len(t, res.Problems, 1)
	assert.Equal(t, "modifier script repeated 2 times", res.Problems[0].Message)
	assert.Equal(t, 1, res.WarningCount)
}

func TestLintReportContractViolationsPanic(t *testing.T) {
	tests := []struct {
		name   string
		report Report
	}{
		{name: "no location", report: Report{Message: "x"}},
		{name: "no message", report: Report{Pos: &flast.SourcePosition{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 1}}},
		{name: "both messages", report: Report{
			Pos:       &flast.SourcePosition{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 1},
			Message:   "x",
			MessageID: "y",
		}},
		{name: "undeclared fix", report: Report{
			Pos:     &flast.SourcePosition{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 1},
			Message: "x",
			Fix:     func(b *fix.Builder) *fix.Command { return b.Remove(0, 1) },
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := stubRule{
				meta: Meta{ID: "bad"},
				create: func(ctx *RuleContext) VisitorMap {
					return VisitorMap{
						"FilterList": func(_, _ *flast.Node, _ []*flast.Node) {
							ctx.Report(tt.report)
						},
					}
				},
			}
			cfg := config.NewConfig()
			cfg.Rules["bad"] = config.RuleSetting{Severity: config.SeverityError}
			l := newLinter(t, cfg, rule)

			assert.Panics(t, func() {
				_, _ = l.Lint(context.Background(), "list.txt", "||a^\n")
			})
		})
	}
}

func TestLoadRulesUnknownRule(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Rules["missing"] = config.RuleSetting{Severity: config.SeverityError}

	l := New(adblock.New(), cfg)
	err := l.LoadRules(context.Background(), NewRegistry().Loader())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestLoadRulesLoaderFailureAborts(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Rules["a"] = config.RuleSetting{Severity: config.SeverityError}
	cfg.Rules["b"] = config.RuleSetting{Severity: config.SeverityError}

	loader := func(_ context.Context, id string) (Rule, error) {
		if id == "b" {
			return nil, errors.New("boom")
		}
		return networkReporter(id), nil
	}

	l := New(adblock.New(), cfg)
	err := l.LoadRules(context.Background(), loader)
	require.Error(t, err)
	assert.Empty(t, l.Instances())
}

func TestLoadRulesRejectsOptionsWithoutSchema(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Rules["net"] = config.RuleSetting{
		Severity: config.SeverityError,
		Options:  []any{map[string]any{"max": 3}},
	}

	l := New(adblock.New(), cfg)
	err := l.LoadRules(context.Background(), registryWith(t, networkReporter("net")).Loader())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "options")
}

func TestLintInlineSeverityOffMidFile(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Rules["net"] = config.RuleSetting{Severity: config.SeverityError}
	l := newLinter(t, cfg, networkReporter("net"))

	content := "||one.example^\n! fllint net: off\n||two.example^\n"
	res, err := l.Lint(context.Background(), "list.txt", content)
	require.NoError(t, err)

	// Only the rule before the inline comment is reported.
	require.Len(t, res.Problems, 1)
	assert.Equal(t, 1, res.Problems[0].Position.StartLine)

	// The baseline is restored for the next invocation.
	res, err = l.Lint(context.Background(), "list.txt", "||one.example^\n")
	require.NoError(t, err)
	assert.Len(t, res.Problems, 1)
}

func TestLintInlineConfigUnknownRuleIsFatal(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Rules["net"] = config.RuleSetting{Severity: config.SeverityError}
	l := newLinter(t, cfg, networkReporter("net"))

	res, err := l.Lint(context.Background(), "list.txt", "! fllint nope: error\n")
	require.NoError(t, err)
	require.Len(t, res.Problems, 1)
	assert.True(t, res.Problems[0].Fatal)
	assert.Equal(t, 1, res.FatalErrorCount)
	assert.Contains(t, res.Problems[0].Message, "nope")
}

func TestLintInlineConfigDisabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.AllowInlineConfig = false
	cfg.Rules["net"] = config.RuleSetting{Severity: config.SeverityError}
	l := newLinter(t, cfg, networkReporter("net"))

	content := "! fllint-disable\n||ads.example^\n"
	res, err := l.Lint(context.Background(), "list.txt", content)
	require.NoError(t, err)
	assert.Len(t, res.Problems, 1)
}

func TestLintDisableDirectives(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Rules["net"] = config.RuleSetting{Severity: config.SeverityError}

	tests := []struct {
		name      string
		content   string
		wantLines []int
	}{
		{
			name:      "disable all from line",
			content:   "||a^\n! fllint-disable\n||b^\n||c^\n",
			wantLines: []int{1},
		},
		{
			name:      "disable then enable",
			content:   "! fllint-disable\n||a^\n! fllint-enable\n||b^\n",
			wantLines: []int{4},
		},
		{
			name:      "disable specific rule",
			content:   "! fllint-disable net\n||a^\n",
			wantLines: nil,
		},
		{
			name:      "disable other rule",
			content:   "! fllint-disable other\n||a^\n",
			wantLines: []int{2},
		},
		{
			name:      "disable next line",
			content:   "! fllint-disable-next-line net\n||a^\n||b^\n",
			wantLines: []int{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLinter(t, cfg, networkReporter("net"))
			res, err := l.Lint(context.Background(), "list.txt", tt.content)
			require.NoError(t, err)

			var lines []int
			for _, p := range res.Problems {
				lines = append(lines, p.Position.StartLine)
			}
			assert.Equal(t, tt.wantLines, lines)
		})
	}
}

func TestLintUnusedDirectiveReported(t *testing.T) {
	cfg := config.NewConfig()
	cfg.ReportUnusedDisableDirectives = true
	cfg.Rules["net"] = config.RuleSetting{Severity: config.SeverityError}
	l := newLinter(t, cfg, networkReporter("net"))

	res, err := l.Lint(context.Background(), "list.txt", "! fllint-disable-next-line net\n! nothing here\n")
	require.NoError(t, err)
	require.Len(t, res.Problems, 1)
	assert.Contains(t, res.Problems[0].Message, "unused")
	assert.Equal(t, 1, res.Problems[0].Position.StartLine)
}

func TestLintFatalSurvivesDisable(t *testing.T) {
	rule := stubRule{
		meta: Meta{ID: "sub"},
		create: func(ctx *RuleContext) VisitorMap {
			return VisitorMap{}
		},
	}
	cfg := config.NewConfig()
	cfg.Rules["sub"] = config.RuleSetting{Severity: config.SeverityError}

	l := newLinter(t, cfg, rule)
	require.NoError(t, l.RegisterSubParser("CosmeticRule", ParserDescriptor{
		Grammar: "css",
		Parse: func(_ string, _, line, _ int) (*flast.Node, error) {
			return nil, fmt.Errorf("bad selector at line %d", line+1)
		},
		StartOffset: bodyStart,
		EndOffset:   bodyEnd,
	}))

	content := "! fllint-disable\nexample.org##.ad\n"
	res, err := l.Lint(context.Background(), "list.txt", content)
	require.NoError(t, err)
	require.Len(t, res.Problems, 1)
	assert.True(t, res.Problems[0].Fatal)
}

func bodyStart(host *flast.Node) (int, bool) {
	v := host.Int("bodyStart", -1)
	return v, v >= 0
}

func bodyEnd(host *flast.Node) (int, bool) {
	v := host.Int("bodyEnd", -1)
	return v, v >= 0
}
