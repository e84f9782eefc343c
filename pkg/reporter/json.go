package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/fllint/pkg/fix"
	"github.com/yaklabco/fllint/pkg/lint"
	"github.com/yaklabco/fllint/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path     string        `json:"path"`
	Problems []JSONProblem `json:"problems"`
	Modified bool          `json:"modified,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// JSONProblem represents a single problem.
type JSONProblem struct {
	RuleID      string           `json:"ruleId,omitempty"`
	Severity    string           `json:"severity"`
	Message     string           `json:"message"`
	StartLine   int              `json:"startLine"`
	StartColumn int              `json:"startColumn"`
	EndLine     int              `json:"endLine"`
	EndColumn   int              `json:"endColumn"`
	Fatal       bool             `json:"fatal,omitempty"`
	Fixable     bool             `json:"fixable"`
	Fix         *JSONFix         `json:"fix,omitempty"`
	Suggestions []JSONSuggestion `json:"suggestions,omitempty"`
}

// JSONFix represents a proposed fix.
type JSONFix struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// JSONSuggestion represents an optional described fix.
type JSONSuggestion struct {
	Message string   `json:"message"`
	Fix     *JSONFix `json:"fix,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked      int            `json:"filesChecked"`
	FilesWithProblems int            `json:"filesWithProblems"`
	FilesModified     int            `json:"filesModified"`
	FilesErrored      int            `json:"filesErrored"`
	TotalProblems     int            `json:"totalProblems"`
	Fixable           int            `json:"fixable"`
	FixesApplied      int            `json:"fixesApplied"`
	BySeverity        map[string]int `json:"bySeverity"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalProblems, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			BySeverity: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	if len(result.Files) > 0 {
		output.Files = make([]JSONFileResult, 0, len(result.Files))
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:     file.Path,
			Problems: make([]JSONProblem, 0),
			Modified: file.Written,
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
			output.Summary.FilesErrored++
		}

		if file.Result != nil {
			for i := range file.Result.Problems {
				p := &file.Result.Problems[i]
				fileResult.Problems = append(fileResult.Problems, jsonProblem(p))
				output.Summary.TotalProblems++
				output.Summary.BySeverity[string(p.Severity)]++
				if p.HasFix() {
					output.Summary.Fixable++
				}
			}
		}

		if len(fileResult.Problems) > 0 {
			output.Summary.FilesWithProblems++
		}
		if fileResult.Modified {
			output.Summary.FilesModified++
		}
		output.Summary.FixesApplied += file.FixesApplied

		output.Files = append(output.Files, fileResult)
		output.Summary.FilesChecked++
	}

	return output
}

func jsonProblem(p *lint.Problem) JSONProblem {
	jp := JSONProblem{
		RuleID:      p.RuleID,
		Severity:    string(p.Severity),
		Message:     p.Message,
		StartLine:   p.Position.StartLine,
		StartColumn: p.Position.StartColumn,
		EndLine:     p.Position.EndLine,
		EndColumn:   p.Position.EndColumn,
		Fatal:       p.Fatal,
		Fixable:     p.HasFix(),
		Fix:         jsonFix(p.Fix),
	}
	for _, sug := range p.Suggestions {
		jp.Suggestions = append(jp.Suggestions, JSONSuggestion{
			Message: sug.Message,
			Fix:     jsonFix(sug.Fix),
		})
	}
	return jp
}

func jsonFix(cmd *fix.Command) *JSONFix {
	if cmd == nil {
		return nil
	}
	return &JSONFix{
		StartOffset: cmd.Start,
		EndOffset:   cmd.End,
		NewText:     cmd.Text,
	}
}
