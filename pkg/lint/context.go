package lint

import (
	"fmt"
	"strings"

	"github.com/yaklabco/fllint/pkg/config"
	"github.com/yaklabco/fllint/pkg/fix"
	"github.com/yaklabco/fllint/pkg/flast"
)

// Report is what a visitor hands to the reporter: a location plus a message,
// optionally with a fix and suggestions.
//
// Exactly one of Node and Pos must locate the report, and exactly one of
// Message and MessageID must describe it. Violations are programmer errors
// in the rule and panic.
type Report struct {
	// Node locates the report at the node's byte range.
	Node *flast.Node

	// Pos locates the report explicitly, overriding Node.
	Pos *flast.SourcePosition

	// Message is a literal message text.
	Message string

	// MessageID names a template in the rule's Meta.Messages.
	MessageID string

	// Data fills {{placeholder}} slots in the selected template.
	Data map[string]string

	// Fix builds the fix command for this report. Returning nil drops the
	// fix silently. Requires Meta.Fixable.
	Fix func(b *fix.Builder) *fix.Command

	// Suggestions are optional alternative fixes. Requires
	// Meta.HasSuggestions.
	Suggestions []SuggestionReport
}

// SuggestionReport is one suggested fix with its own message.
type SuggestionReport struct {
	Message   string
	MessageID string
	Data      map[string]string
	Fix       func(b *fix.Builder) *fix.Command
}

// RuleContext is the rule's handle to one lint invocation: its own
// configuration plus the reporting channel. One context is created per rule
// instance; the engine keeps it valid across fix rounds.
type RuleContext struct {
	instance *RuleInstance
	linter   *Linter
}

// ID returns the rule's ID.
func (c *RuleContext) ID() string {
	return c.instance.ID()
}

// Severity returns the rule's current effective severity.
func (c *RuleContext) Severity() config.Severity {
	return c.instance.Severity()
}

// Options returns the rule's current effective options.
func (c *RuleContext) Options() []any {
	return c.instance.Options()
}

// Syntax returns the configured filter-list syntax constraint. Empty means
// rules should accept every platform's dialect.
func (c *RuleContext) Syntax() []string {
	return c.linter.cfg.Syntax
}

// Snapshot returns the snapshot being linted.
func (c *RuleContext) Snapshot() *flast.Snapshot {
	return c.linter.run.snapshot
}

// Source returns the full source text being linted.
func (c *RuleContext) Source() string {
	return c.linter.run.snapshot.Content
}

// Report records a problem. Reports made while the instance's effective
// severity is off are dropped.
func (c *RuleContext) Report(r Report) {
	run := c.linter.run
	if run == nil {
		panic(fmt.Sprintf("rule %q: Report called outside a lint invocation", c.ID()))
	}

	severity := c.instance.Severity()
	if severity == config.SeverityOff {
		return
	}

	pos := c.resolvePosition(r)
	message := c.resolveMessage(r.MessageID, r.Message, r.Data)

	problem := Problem{
		RuleID:   c.ID(),
		Severity: severity,
		Position: pos,
		Message:  message,
		Category: c.instance.meta.Category,
	}

	if r.Fix != nil {
		if !c.instance.meta.Fixable {
			panic(fmt.Sprintf("rule %q reports a fix but is not declared fixable", c.ID()))
		}
		problem.Fix = r.Fix(fix.NewBuilder(len(run.snapshot.Content)))
	}

	if len(r.Suggestions) > 0 {
		if !c.instance.meta.HasSuggestions {
			panic(fmt.Sprintf("rule %q reports suggestions but does not declare them", c.ID()))
		}
		for _, s := range r.Suggestions {
			sug := Suggestion{Message: c.resolveMessage(s.MessageID, s.Message, s.Data)}
			if s.Fix != nil {
				sug.Fix = s.Fix(fix.NewBuilder(len(run.snapshot.Content)))
			}
			problem.Suggestions = append(problem.Suggestions, sug)
		}
	}

	run.problems = append(run.problems, problem)
}

func (c *RuleContext) resolvePosition(r Report) flast.SourcePosition {
	if r.Pos != nil {
		return *r.Pos
	}
	if r.Node != nil {
		if pos := c.linter.run.snapshot.PositionOf(r.Node); pos.IsValid() {
			return pos
		}
	}
	panic(fmt.Sprintf("rule %q: report has no resolvable position", c.ID()))
}

func (c *RuleContext) resolveMessage(messageID, message string, data map[string]string) string {
	if (messageID == "") == (message == "") {
		panic(fmt.Sprintf("rule %q: report must set exactly one of message and messageId", c.ID()))
	}
	if messageID == "" {
		return message
	}

	template, ok := c.instance.meta.Messages[messageID]
	if !ok {
		panic(fmt.Sprintf("rule %q: unknown messageId %q", c.ID(), messageID))
	}
	return expandTemplate(template, data)
}

// expandTemplate substitutes {{name}} placeholders from data. Placeholders
// without a value are left verbatim.
func expandTemplate(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
