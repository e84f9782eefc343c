package lint

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yaklabco/fllint/pkg/config"
)

// Registry stores rule definitions by ID. It is safe for concurrent use;
// built-in rules register themselves into DefaultRegistry from init().
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// DefaultRegistry is the process-wide registry of built-in rules.
//
//nolint:gochecknoglobals // Package-level registry enables init() self-registration
var DefaultRegistry = NewRegistry()

// Register adds a rule definition. Duplicate or empty IDs are rejected.
func (r *Registry) Register(rule Rule) error {
	id := rule.Meta().ID
	if id == "" {
		return fmt.Errorf("rule has empty ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[id]; exists {
		return fmt.Errorf("rule %q already registered", id)
	}
	r.rules[id] = rule
	return nil
}

// MustRegister adds a rule definition and panics on conflict. Intended for
// init()-time registration of built-ins.
func (r *Registry) MustRegister(rule Rule) {
	if err := r.Register(rule); err != nil {
		panic(err)
	}
}

// Get returns the rule registered under id.
func (r *Registry) Get(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// IDs returns all registered rule IDs, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Loader returns a RuleLoader backed by this registry.
func (r *Registry) Loader() RuleLoader {
	return func(_ context.Context, ruleID string) (Rule, error) {
		rule, ok := r.Get(ruleID)
		if !ok {
			return nil, fmt.Errorf("unknown rule %q", ruleID)
		}
		return rule, nil
	}
}

// RuleInstance is one configured activation of a rule. Visitors created for
// the rule capture the instance pointer, so mid-file reconfiguration through
// ApplyInlineConfig is observed by subsequent reports without re-registering
// anything.
type RuleInstance struct {
	rule Rule
	meta Meta

	// Configured baseline, restored at the start of every lint invocation.
	baseSeverity config.Severity
	baseOptions  []any

	// Current effective state, mutated by inline configuration comments.
	severity config.Severity
	options  []any
}

// newInstance validates a rule setting and binds it to a rule.
func newInstance(rule Rule, setting config.RuleSetting) (*RuleInstance, error) {
	meta := rule.Meta()
	if err := validateSetting(meta, setting); err != nil {
		return nil, fmt.Errorf("rule %q: %w", meta.ID, err)
	}
	return &RuleInstance{
		rule:         rule,
		meta:         meta,
		baseSeverity: setting.Severity,
		baseOptions:  setting.Options,
		severity:     setting.Severity,
		options:      setting.Options,
	}, nil
}

func validateSetting(meta Meta, setting config.RuleSetting) error {
	if !setting.Severity.IsValid() {
		return fmt.Errorf("invalid severity %q", setting.Severity)
	}
	if len(setting.Options) > 0 && meta.Schema == nil {
		return fmt.Errorf("rule accepts no options")
	}
	if meta.Schema != nil {
		if err := meta.Schema(setting.Options); err != nil {
			return fmt.Errorf("invalid options: %w", err)
		}
	}
	return nil
}

// ID returns the instance's rule ID.
func (ri *RuleInstance) ID() string {
	return ri.meta.ID
}

// Meta returns the instance's rule metadata.
func (ri *RuleInstance) Meta() Meta {
	return ri.meta
}

// Severity returns the current effective severity.
func (ri *RuleInstance) Severity() config.Severity {
	return ri.severity
}

// Options returns the current effective options.
func (ri *RuleInstance) Options() []any {
	return ri.options
}

// configure revalidates and applies a new setting in place.
func (ri *RuleInstance) configure(setting config.RuleSetting) error {
	if err := validateSetting(ri.meta, setting); err != nil {
		return fmt.Errorf("rule %q: %w", ri.meta.ID, err)
	}
	ri.severity = setting.Severity
	ri.options = setting.Options
	return nil
}

// reset restores the configured baseline.
func (ri *RuleInstance) reset() {
	ri.severity = ri.baseSeverity
	ri.options = ri.baseOptions
}
