package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/fllint/pkg/config"
	"github.com/yaklabco/fllint/pkg/lint"
)

// FormatProblem formats a single lint problem for terminal output.
func (s *Styles) FormatProblem(path string, p *lint.Problem, showContext bool, sourceLine string) string {
	var builder strings.Builder

	// Location: path:line:col
	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(path),
		p.Position.StartLine,
		p.Position.StartColumn,
	)

	severity := s.FormatSeverity(p.Severity)

	// Fatal parse errors carry no rule ID.
	ruleDisplay := ""
	if p.RuleID != "" {
		ruleDisplay = "  " + s.RuleID.Render("("+p.RuleID+")")
	}

	// Main line: location  severity  message  (rule-id)
	builder.WriteString(fmt.Sprintf("  %s  %s  %s%s\n",
		location,
		severity,
		s.Message.Render(p.Message),
		ruleDisplay,
	))

	// Source context
	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, p.Position.StartColumn))
	}

	// Suggestions
	for _, sug := range p.Suggestions {
		builder.WriteString("    " + s.Dim.Render("Suggestion:") + " " +
			s.Suggestion.Render(sug.Message) + "\n")
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	default:
		return string(sev)
	}
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	// Indent to align with problem output
	const indent = "        "

	// Source line
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	// Caret marker
	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, problemCount int) string {
	header := s.FilePath.Render(path)
	if problemCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d problems)", problemCount))
	}
	return header
}
