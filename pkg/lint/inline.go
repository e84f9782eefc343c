package lint

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/fllint/pkg/config"
	"github.com/yaklabco/fllint/pkg/flast"
)

// Inline command words recognized in comment rules.
const (
	wordDisable         = "fllint-disable"
	wordEnable          = "fllint-enable"
	wordDisableNextLine = "fllint-disable-next-line"
	wordConfigure       = "fllint"
)

type directiveKind int

const (
	directiveDisable directiveKind = iota
	directiveEnable
	directiveDisableNextLine
)

// directive is one positional suppression command collected during the walk.
type directive struct {
	kind directiveKind

	// rules limits the directive to specific rule IDs; empty means all.
	rules []string

	// line is the 1-based line the comment sits on.
	line int

	pos  flast.SourcePosition
	used bool
}

func (d *directive) appliesTo(ruleID string) bool {
	if len(d.rules) == 0 {
		return true
	}
	for _, id := range d.rules {
		if id == ruleID {
			return true
		}
	}
	return false
}

// inlineVisitor returns the internal comment visitor that recognizes disable
// directives and inline configuration. It is registered under the comment
// node type when inline config is enabled.
func (l *Linter) inlineVisitor() Visitor {
	return func(node, _ *flast.Node, _ []*flast.Node) {
		text := strings.TrimSpace(node.String("text"))
		word, rest, _ := strings.Cut(text, " ")

		switch word {
		case wordDisable:
			l.run.addDirective(directiveDisable, rest, node)
		case wordEnable:
			l.run.addDirective(directiveEnable, rest, node)
		case wordDisableNextLine:
			l.run.addDirective(directiveDisableNextLine, rest, node)
		case wordConfigure:
			l.applyInlineConfig(rest, node)
		}
	}
}

func (r *lintRun) addDirective(kind directiveKind, rest string, node *flast.Node) {
	pos := r.snapshot.PositionOf(node)
	r.directives = append(r.directives, &directive{
		kind:  kind,
		rules: splitRuleList(rest),
		line:  pos.StartLine,
		pos:   pos,
	})
}

// splitRuleList splits a directive's trailing rule list on commas and
// whitespace.
func splitRuleList(rest string) []string {
	return strings.FieldsFunc(rest, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// applyInlineConfig handles a `fllint "rule-id": <value>` comment: the rest
// of the comment is a YAML mapping from rule ID to a rule setting in the
// same scalar-or-list shape the config file uses. Bad references or values
// become fatal problems rather than aborting the lint.
func (l *Linter) applyInlineConfig(rest string, node *flast.Node) {
	run := l.run

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal([]byte(rest), &raw); err != nil || len(raw) == 0 {
		run.addFatal(run.snapshot.PositionOf(node),
			fmt.Sprintf("malformed inline configuration %q", rest))
		return
	}

	for id, valueNode := range raw {
		var setting config.RuleSetting
		if err := valueNode.Decode(&setting); err != nil {
			run.addFatal(run.snapshot.PositionOf(node),
				fmt.Sprintf("invalid inline setting for rule %q: %v", id, err))
			continue
		}

		instance, ok := l.instances[id]
		if !ok {
			run.addFatal(run.snapshot.PositionOf(node),
				fmt.Sprintf("inline configuration references unloaded rule %q", id))
			continue
		}
		if err := instance.configure(setting); err != nil {
			run.addFatal(run.snapshot.PositionOf(node),
				fmt.Sprintf("invalid inline configuration: %v", err))
		}
	}
}
