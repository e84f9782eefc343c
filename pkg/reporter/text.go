package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/fllint/internal/ui/pretty"
	"github.com/yaklabco/fllint/pkg/flast"
	"github.com/yaklabco/fllint/pkg/runner"
)

// defaultContextWidth bounds source context lines when the output is not a
// terminal.
const defaultContextWidth = 120

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
	width  int
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
		width:  pretty.TerminalWidth(opts.Writer, defaultContextWidth),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	if r.opts.GroupByFile {
		total = r.reportGrouped(ctx, result)
	} else {
		total = r.reportFlat(ctx, result)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// reportGrouped writes problems grouped by file.
func (r *TextReporter) reportGrouped(_ context.Context, result *runner.Result) int {
	var total int

	for _, file := range result.Files {
		// Handle file errors
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(file.Path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if file.Result == nil || len(file.Result.Problems) == 0 {
			continue
		}
		problems := file.Result.Problems

		// File header
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(file.Path, len(problems)))

		for i := range problems {
			p := &problems[i]
			var sourceLine string
			if r.opts.ShowContext {
				sourceLine = r.getSourceLine(file.Result.Snapshot, p.Position.StartLine)
			}
			fmt.Fprint(r.bw, r.styles.FormatProblem(file.Path, p, r.opts.ShowContext, sourceLine))
			total++
		}

		// Blank line between files
		fmt.Fprintln(r.bw)
	}

	return total
}

// reportFlat writes problems without grouping.
func (r *TextReporter) reportFlat(_ context.Context, result *runner.Result) int {
	var total int

	for _, file := range result.Files {
		// Handle file errors
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(file.Path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if file.Result == nil {
			continue
		}

		for i := range file.Result.Problems {
			p := &file.Result.Problems[i]
			var sourceLine string
			if r.opts.ShowContext {
				sourceLine = r.getSourceLine(file.Result.Snapshot, p.Position.StartLine)
			}
			fmt.Fprint(r.bw, r.styles.FormatProblem(file.Path, p, r.opts.ShowContext, sourceLine))
			total++
		}
	}

	return total
}

// getSourceLine extracts one line from a snapshot using its pre-computed
// line index, truncated to the output width.
func (r *TextReporter) getSourceLine(snapshot *flast.Snapshot, lineNum int) string {
	if snapshot == nil {
		return ""
	}
	line := snapshot.LineContent(lineNum)
	if r.width > 3 && len(line) > r.width {
		line = line[:r.width-3] + "..."
	}
	return line
}
