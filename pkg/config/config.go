// Package config defines core configuration types for fllint.
// These types are pure data structures; config-file discovery and preset
// resolution live outside the engine and hand it an already-flattened Config.
package config

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a lint problem.
type Severity string

const (
	SeverityOff     Severity = "off"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// IsValid returns true if the severity is one of the known levels.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityOff, SeverityWarning, SeverityError:
		return true
	default:
		return false
	}
}

// ParseSeverity converts a string or numeric severity value to a Severity.
// Numeric values follow the common linter convention: 0=off, 1=warning, 2=error.
func ParseSeverity(v any) (Severity, error) {
	switch val := v.(type) {
	case string:
		s := Severity(strings.ToLower(val))
		if !s.IsValid() {
			return "", fmt.Errorf("unknown severity %q", val)
		}
		return s, nil
	case int:
		return severityFromInt(val)
	case int64:
		return severityFromInt(int(val))
	case float64:
		return severityFromInt(int(val))
	default:
		return "", fmt.Errorf("severity must be a string or number, got %T", v)
	}
}

func severityFromInt(n int) (Severity, error) {
	switch n {
	case 0:
		return SeverityOff, nil
	case 1:
		return SeverityWarning, nil
	case 2:
		return SeverityError, nil
	default:
		return "", fmt.Errorf("numeric severity must be 0, 1, or 2, got %d", n)
	}
}

// RuleSetting holds the configured severity and options for a single rule.
//
// In YAML a rule setting is either a bare severity ("error", 2) or a list
// whose first element is the severity and whose remaining elements are
// rule-specific options: ["error", {"max": 3}].
type RuleSetting struct {
	Severity Severity
	Options  []any
}

// OutputFormat specifies the output format for problems.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid returns true if the format is one of the supported outputs.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// Config is the flattened configuration handed to the lint engine.
type Config struct {
	// Rules contains per-rule settings keyed by rule ID.
	Rules map[string]RuleSetting `yaml:"rules"`

	// AllowInlineConfig enables inline configuration comments
	// (disable directives and mid-file rule reconfiguration).
	AllowInlineConfig bool `yaml:"allow_inline_config"`

	// Syntax optionally restricts linting to the named filter-list syntaxes
	// (e.g. "adg", "ubo"). Empty means no constraint.
	Syntax []string `yaml:"syntax"`

	// ReportUnusedDisableDirectives reports disable directives that
	// suppressed nothing.
	ReportUnusedDisableDirectives bool `yaml:"report_unused_disable_directives"`

	// CLI-level options (not persisted to config files).

	// Fix enables auto-fixing of problems.
	Fix bool `yaml:"-"`

	// MaxFixRounds bounds the fixer convergence loop. Zero means the
	// engine default.
	MaxFixRounds int `yaml:"-"`

	// FixRules limits auto-fixing to specific rule IDs.
	FixRules []string `yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers for multi-file runs.
	Jobs int `yaml:"-"`
}

// NewConfig returns a Config with engine defaults.
func NewConfig() *Config {
	return &Config{
		Rules:             make(map[string]RuleSetting),
		AllowInlineConfig: true,
		Format:            FormatText,
	}
}

// Setting returns the configured setting for a rule ID, if present.
func (c *Config) Setting(ruleID string) (RuleSetting, bool) {
	if c == nil || c.Rules == nil {
		return RuleSetting{}, false
	}
	s, ok := c.Rules[ruleID]
	return s, ok
}
