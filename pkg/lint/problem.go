package lint

import (
	"cmp"
	"slices"

	"github.com/yaklabco/fllint/pkg/config"
	"github.com/yaklabco/fllint/pkg/fix"
	"github.com/yaklabco/fllint/pkg/flast"
)

// Problem is a single normalized finding.
type Problem struct {
	// RuleID identifies the rule that produced the problem. Empty for
	// synthetic problems such as fatal parse errors.
	RuleID string

	// Severity is the resolved severity at report time.
	Severity config.Severity

	// Position is the line/column range of the finding (1-based, both ends).
	Position flast.SourcePosition

	// Message is the fully expanded, human-readable message.
	Message string

	// Category is the reporting rule's category, if any.
	Category Category

	// Fatal marks parse errors. Fatal problems are never suppressed by
	// disable directives.
	Fatal bool

	// Fix is the attached fix command, if the rule supplied one.
	Fix *fix.Command

	// Suggestions are optional alternative fixes with their own messages.
	Suggestions []Suggestion
}

// Suggestion is a described, optional fix attached to a problem.
type Suggestion struct {
	Message string
	Fix     *fix.Command
}

// HasFix returns true when the problem carries an applicable fix.
func (p *Problem) HasFix() bool {
	return p.Fix != nil
}

// compareProblems orders problems by source position, then rule ID.
func compareProblems(a, b Problem) int {
	if c := cmp.Compare(a.Position.StartLine, b.Position.StartLine); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Position.StartColumn, b.Position.StartColumn); c != 0 {
		return c
	}
	return cmp.Compare(a.RuleID, b.RuleID)
}

// Result is the outcome of one lint invocation.
type Result struct {
	// Problems contains all findings, sorted by position.
	Problems []Problem

	// Snapshot is the parsed source the problems refer to. Reporters use it
	// to render source-line context. Nil when parsing failed outright.
	Snapshot *flast.Snapshot

	// WarningCount is the number of warning-severity problems.
	WarningCount int

	// ErrorCount is the number of error-severity problems, fatal included.
	ErrorCount int

	// FatalErrorCount is the number of fatal parse-error problems.
	FatalErrorCount int
}

// HasProblems returns true if any problems were found.
func (r *Result) HasProblems() bool {
	return len(r.Problems) > 0
}

// FixableCount returns the number of problems carrying a fix.
func (r *Result) FixableCount() int {
	count := 0
	for i := range r.Problems {
		if r.Problems[i].HasFix() {
			count++
		}
	}
	return count
}

// newResult sorts problems and computes the counters.
func newResult(problems []Problem) *Result {
	slices.SortStableFunc(problems, compareProblems)
	res := &Result{Problems: problems}
	for i := range problems {
		switch problems[i].Severity {
		case config.SeverityWarning:
			res.WarningCount++
		case config.SeverityError:
			res.ErrorCount++
		}
		if problems[i].Fatal {
			res.FatalErrorCount++
		}
	}
	return res
}

// FixResult is the outcome of a fixer convergence run.
type FixResult struct {
	// Result is the final verification lint against FixedSource.
	*Result

	// AppliedFixCount is the total number of fixes applied across rounds.
	AppliedFixCount int

	// RemainingFixCount is the number of fixes still deferred when the
	// loop stopped.
	RemainingFixCount int

	// FixRounds is the number of lint+apply rounds performed.
	FixRounds int

	// FixedSource is the final text after all applied fixes.
	FixedSource string
}
