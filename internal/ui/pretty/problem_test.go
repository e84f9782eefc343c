package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/fllint/internal/ui/pretty"
	"github.com/yaklabco/fllint/pkg/config"
	"github.com/yaklabco/fllint/pkg/flast"
	"github.com/yaklabco/fllint/pkg/lint"
)

func TestFormatProblem_Basic(t *testing.T) {
	styles := pretty.NewStyles(false) // No colors for easier testing

	p := &lint.Problem{
		RuleID:   "duplicated-modifiers",
		Message:  `the modifier "script" is used multiple times`,
		Severity: config.SeverityError,
		Position: flast.SourcePosition{StartLine: 10, StartColumn: 1, EndLine: 10, EndColumn: 15},
	}

	result := styles.FormatProblem("list.txt", p, false, "")

	assert.Contains(t, result, "list.txt:10:1")
	assert.Contains(t, result, "error")
	assert.Contains(t, result, `the modifier "script" is used multiple times`)
	assert.Contains(t, result, "(duplicated-modifiers)")
}

func TestFormatProblem_WithContext(t *testing.T) {
	styles := pretty.NewStyles(false)

	p := &lint.Problem{
		RuleID:   "no-short-rules",
		Message:  "rule is too short",
		Severity: config.SeverityWarning,
		Position: flast.SourcePosition{StartLine: 5, StartColumn: 3},
	}

	sourceLine := "||a^"
	result := styles.FormatProblem("list.txt", p, true, sourceLine)

	assert.Contains(t, result, "||a^")
	assert.Contains(t, result, "^\n") // Caret marker line
}

func TestFormatProblem_WithSuggestion(t *testing.T) {
	styles := pretty.NewStyles(false)

	p := &lint.Problem{
		RuleID:   "single-selector",
		Message:  "cosmetic rule lists 2 selectors",
		Severity: config.SeverityWarning,
		Position: flast.SourcePosition{StartLine: 1, StartColumn: 1},
		Suggestions: []lint.Suggestion{
			{Message: "split into one rule per selector"},
		},
	}

	result := styles.FormatProblem("list.txt", p, false, "")

	assert.Contains(t, result, "Suggestion:")
	assert.Contains(t, result, "split into one rule per selector")
}

func TestFormatProblem_FatalHasNoRuleTag(t *testing.T) {
	styles := pretty.NewStyles(false)

	p := &lint.Problem{
		Message:  "parse error: unexpected end of input",
		Severity: config.SeverityError,
		Position: flast.SourcePosition{StartLine: 1, StartColumn: 1},
		Fatal:    true,
	}

	result := styles.FormatProblem("list.txt", p, false, "")

	assert.Contains(t, result, "parse error")
	assert.NotContains(t, result, "(")
}

func TestFormatSeverity_AllLevels(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		severity config.Severity
		expected string
	}{
		{config.SeverityError, "error"},
		{config.SeverityWarning, "warning"},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			result := styles.FormatSeverity(tt.severity)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFormatSourceContext_WithCaret(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSourceContext("||example.com^", 5)

	lines := strings.Split(result, "\n")
	assert.GreaterOrEqual(t, len(lines), 2) // Source line and caret line

	// Check caret position
	assert.Contains(t, result, "^\n")
}

func TestFormatSourceContext_ZeroColumn(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSourceContext("||example.com^", 0)

	// With column 0, no caret line should be shown
	assert.Contains(t, result, "||example.com^")
	assert.Equal(t, 1, strings.Count(result, "\n"))
}

func TestFormatFileHeader_WithProblems(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatFileHeader("lists/base.txt", 5)

	assert.Contains(t, result, "lists/base.txt")
	assert.Contains(t, result, "(5 problems)")
}

func TestFormatFileHeader_NoProblems(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatFileHeader("lists/base.txt", 0)

	assert.Contains(t, result, "lists/base.txt")
	assert.NotContains(t, result, "problems")
}
