package fix

import (
	"sort"
	"strings"
)

// ApplyResult is the outcome of reconciling a batch of commands.
type ApplyResult struct {
	// Output is the edited text.
	Output string

	// Applied contains the commands that made it into Output, in
	// application order.
	Applied []Command

	// Remaining contains commands deferred because they conflicted with an
	// earlier applied command. They are not failures: a later convergence
	// round may apply them against the re-linted text.
	Remaining []Command
}

// Apply reconciles a batch of fix commands into one edited text.
//
// Commands are stable-sorted by (Start, End) and applied in a single linear
// pass with a monotonic cursor over the original text: the unchanged slice
// up to each command's start is copied, then its replacement text, and the
// cursor jumps to the command's end. A command starting before the cursor
// overlaps an already-applied command and is deferred to Remaining. Shifting
// both the cursor and the command range by the cumulative length delta of
// earlier replacements cancels out of that comparison, so the pass works
// entirely in original-text offsets.
//
// Tie-break for edits meeting at one offset: a zero-width insert whose start
// equals the cursor applies (start == cursor is not a conflict), and the
// stable sort keeps same-position inserts in submission order.
func Apply(source string, cmds []Command) ApplyResult {
	if len(cmds) == 0 {
		return ApplyResult{Output: source}
	}

	sorted := make([]Command, len(cmds))
	copy(sorted, cmds)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	var out strings.Builder
	out.Grow(len(source))

	var result ApplyResult
	cursor := 0

	for _, cmd := range sorted {
		if cmd.Start < cursor || cmd.End < cmd.Start || cmd.End > len(source) {
			result.Remaining = append(result.Remaining, cmd)
			continue
		}

		out.WriteString(source[cursor:cmd.Start])
		out.WriteString(cmd.Text)
		cursor = cmd.End
		result.Applied = append(result.Applied, cmd)
	}

	out.WriteString(source[cursor:])
	result.Output = out.String()
	return result
}
