// Package rules contains the built-in fllint rules. Each rule registers
// itself into lint.DefaultRegistry from init(), so importing this package is
// enough to make the full built-in set loadable.
package rules

import (
	"github.com/yaklabco/fllint/pkg/lint"
)

// DefaultLoader resolves rule IDs against the built-in registry.
func DefaultLoader() lint.RuleLoader {
	return lint.DefaultRegistry.Loader()
}

// docURL builds the documentation link for a built-in rule.
func docURL(id string) string {
	return "https://github.com/yaklabco/fllint/blob/main/docs/rules/" + id + ".md"
}
