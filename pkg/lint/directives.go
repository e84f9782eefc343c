package lint

import (
	"fmt"
	"sort"

	"github.com/yaklabco/fllint/pkg/config"
)

// applyDirectives filters problems through the collected disable directives.
// Fatal problems always survive. Directives mark themselves used when they
// suppress at least one problem.
func applyDirectives(problems []Problem, directives []*directive) []Problem {
	if len(directives) == 0 {
		return problems
	}

	// Suppression depends on document order of the directives, not on the
	// order the walker happened to collect them in.
	sort.SliceStable(directives, func(i, j int) bool {
		return directives[i].line < directives[j].line
	})

	kept := problems[:0]
	for i := range problems {
		p := problems[i]
		if p.Fatal || !suppressed(&p, directives) {
			kept = append(kept, p)
		}
	}
	return kept
}

// suppressed decides whether one problem is silenced. A disable directive on
// or before the problem's line opens a suppressed region for the matching
// rules until a later enable closes it; a disable-next-line directive covers
// exactly the following line.
func suppressed(p *Problem, directives []*directive) bool {
	var suppressor *directive
	for _, d := range directives {
		switch d.kind {
		case directiveDisable:
			if d.line <= p.Position.StartLine && d.appliesTo(p.RuleID) {
				suppressor = d
			}
		case directiveEnable:
			if d.line <= p.Position.StartLine && d.appliesTo(p.RuleID) {
				suppressor = nil
			}
		case directiveDisableNextLine:
			if d.line == p.Position.StartLine-1 && d.appliesTo(p.RuleID) {
				d.used = true
				return true
			}
		}
	}
	if suppressor != nil {
		suppressor.used = true
		return true
	}
	return false
}

// unusedDirectiveProblems reports disable directives that silenced nothing.
func unusedDirectiveProblems(directives []*directive) []Problem {
	var problems []Problem
	for _, d := range directives {
		if d.used || d.kind == directiveEnable {
			continue
		}
		word := wordDisable
		if d.kind == directiveDisableNextLine {
			word = wordDisableNextLine
		}
		problems = append(problems, Problem{
			Severity: config.SeverityWarning,
			Position: d.pos,
			Message:  fmt.Sprintf("unused %s directive (no problems were reported)", word),
		})
	}
	return problems
}
