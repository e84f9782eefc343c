// Package lint implements the fllint execution engine: the selector-indexed
// tree walker, the sub-parser coordinator for embedded grammars, the rule
// registry, the problem reporter, and the fix convergence loop.
package lint

import (
	"context"

	"github.com/yaklabco/fllint/pkg/flast"
)

// Category classifies what kind of concern a rule addresses.
type Category string

const (
	CategoryProblem    Category = "problem"
	CategorySuggestion Category = "suggestion"
	CategoryLayout     Category = "layout"
)

// OptionsSchema validates a rule's configured options array. A nil schema
// means the rule accepts no options.
type OptionsSchema func(opts []any) error

// Meta is the static metadata of a rule.
type Meta struct {
	// ID is the unique rule identifier (e.g. "if-closed").
	ID string

	// Category classifies the rule.
	Category Category

	// Description explains what the rule checks.
	Description string

	// URL points at the rule's documentation, if any.
	URL string

	// Messages maps message IDs to templates with {{placeholder}} slots.
	Messages map[string]string

	// Fixable declares that the rule may attach fixes to its reports.
	Fixable bool

	// HasSuggestions declares that the rule may attach suggestions.
	HasSuggestions bool

	// Schema validates configured options. nil means no options accepted.
	Schema OptionsSchema
}

// Visitor is a callback bound to a selector. It receives the matched node,
// its parent (nil for the root), and the ancestry ordered
// nearest-ancestor-first.
type Visitor func(node, parent *flast.Node, ancestry []*flast.Node)

// VisitorMap binds raw selector strings to visitors. A ":exit" suffix on the
// selector marks a leave-phase visitor.
type VisitorMap map[string]Visitor

// Rule is a named check: static metadata plus a factory that binds the
// rule's behavior to one lint invocation.
type Rule interface {
	// Meta returns the rule's static metadata.
	Meta() Meta

	// Create builds the rule's selector-to-visitor bindings for one lint
	// invocation. Visitors report through the supplied context.
	Create(ctx *RuleContext) VisitorMap
}

// RuleLoader resolves a rule ID to its implementation. The engine never
// knows where rules are stored; loaders may hit disk or the network, so they
// are invoked concurrently during registration.
type RuleLoader func(ctx context.Context, ruleID string) (Rule, error)

// ExitSuffix marks leave-phase visitors in a VisitorMap key.
const ExitSuffix = ":exit"
