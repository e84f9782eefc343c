package cli

import "github.com/yaklabco/fllint/pkg/runner"

// Exit codes for fllint.
const (
	// ExitSuccess indicates successful execution with no problems.
	ExitSuccess = 0

	// ExitLintErrors indicates lint completed but found errors.
	ExitLintErrors = 1

	// ExitLintWarnings indicates lint completed but found warnings (when strict mode).
	ExitLintWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
// File-level processing errors count as errors.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.Stats.Errors > 0 || result.Stats.FilesErrored > 0 {
		return ExitLintErrors
	}

	if strict && result.Stats.Warnings > 0 {
		return ExitLintWarnings
	}

	return ExitSuccess
}
