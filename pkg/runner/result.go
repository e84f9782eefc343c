package runner

import "github.com/yaklabco/fllint/pkg/lint"

// FileOutcome is the result of processing one file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result contains the lint result for this file. Nil when the file
	// could not be processed at all.
	Result *lint.Result

	// Written reports whether fixes were written back to the file.
	Written bool

	// FixesApplied is the number of fixes applied to this file.
	FixesApplied int

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesProcessed is the number of files successfully processed.
	FilesProcessed int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// FilesWithProblems is the number of files with at least one problem.
	FilesWithProblems int

	// FilesModified is the number of files rewritten by fixes.
	FilesModified int

	// Problems is the total problem count across all files.
	Problems int

	// Warnings and Errors split Problems by severity. Errors includes
	// fatal parse errors.
	Warnings int
	Errors   int

	// Fixable is the number of remaining problems that carry a fix.
	Fixable int

	// FixesApplied is the total number of fixes applied across all files.
	FixesApplied int
}

// Result is the overall runner result. Files are ordered by input position
// regardless of worker completion order.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether the run should fail: any error-severity
// problem or any file-level processing error.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.Errors > 0 || r.Stats.FilesErrored > 0
}

// HasProblems reports whether any problems were found.
func (r *Result) HasProblems() bool {
	if r == nil {
		return false
	}
	return r.Stats.Problems > 0
}

// accumulate updates the aggregate stats with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++
	if outcome.Written {
		r.Stats.FilesModified++
	}
	r.Stats.FixesApplied += outcome.FixesApplied

	res := outcome.Result
	if res.HasProblems() {
		r.Stats.FilesWithProblems++
	}
	r.Stats.Problems += len(res.Problems)
	r.Stats.Warnings += res.WarningCount
	r.Stats.Errors += res.ErrorCount
	r.Stats.Fixable += res.FixableCount()
}
