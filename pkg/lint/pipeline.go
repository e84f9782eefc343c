package lint

import (
	"context"
	"slices"

	"github.com/yaklabco/fllint/internal/logging"
	"github.com/yaklabco/fllint/pkg/fix"
)

// DefaultMaxFixRounds bounds the fix convergence loop when the caller does
// not override it.
const DefaultMaxFixRounds = 10

// FixerOptions narrows which problems the fixer acts on.
type FixerOptions struct {
	// MaxRounds bounds the lint-and-apply loop. Zero means
	// DefaultMaxFixRounds.
	MaxRounds int

	// Rules limits fixing to specific rule IDs. Empty means all rules.
	Rules []string

	// Categories limits fixing to rules of specific categories. Empty means
	// all categories.
	Categories []Category
}

func (o FixerOptions) wants(p *Problem) bool {
	if len(o.Rules) > 0 && !slices.Contains(o.Rules, p.RuleID) {
		return false
	}
	if len(o.Categories) > 0 && !slices.Contains(o.Categories, p.Category) {
		return false
	}
	return true
}

// LintAndFix repeatedly lints and applies the resulting fixes until no fixes
// remain or the round budget runs out. Fixes deferred by the applier for
// overlapping an earlier edit are retried in the next round against the
// updated text. The returned result is always a fresh verification lint of
// the final text.
func (l *Linter) LintAndFix(ctx context.Context, path, content string, opts FixerOptions) (*FixResult, error) {
	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxFixRounds
	}

	out := &FixResult{FixedSource: content}
	source := content

	for round := 0; round < maxRounds; round++ {
		res, err := l.Lint(ctx, path, source)
		if err != nil {
			return nil, err
		}

		var cmds []fix.Command
		for i := range res.Problems {
			p := &res.Problems[i]
			if p.HasFix() && opts.wants(p) {
				cmds = append(cmds, *p.Fix)
			}
		}
		if len(cmds) == 0 {
			// A previous round may have deferred fixes that this lint no
			// longer reports; nothing is outstanding anymore.
			out.RemainingFixCount = 0
			break
		}

		applied := fix.Apply(source, cmds)
		out.FixRounds++
		out.AppliedFixCount += len(applied.Applied)
		out.RemainingFixCount = len(applied.Remaining)

		if len(applied.Applied) == 0 {
			// Every fix was deferred; another round would not make progress.
			break
		}
		source = applied.Output
	}

	out.FixedSource = source

	// The last lint ran against pre-fix text (or fixes were filtered), so
	// verify the final text explicitly.
	final, err := l.Lint(ctx, path, source)
	if err != nil {
		return nil, err
	}
	out.Result = final

	l.logger.Debug("fix loop finished",
		logging.FieldPath, path,
		logging.FieldRounds, out.FixRounds,
		logging.FieldFixesApplied, out.AppliedFixCount)
	return out, nil
}
