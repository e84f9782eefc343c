package selector

import (
	"fmt"
	"strings"

	"github.com/yaklabco/fllint/pkg/flast"
)

// Selector is an immutable compiled predicate over AST nodes.
type Selector struct {
	raw    string
	chains []chain

	// candidates is the set of node types this selector can possibly match;
	// nil means universal (any node type).
	candidates []string
}

// Parse compiles a raw selector string.
func Parse(raw string) (*Selector, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty selector")
	}

	tokens, err := NewLexer(trimmed).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", raw, err)
	}
	chains, err := newParser(tokens).parse()
	if err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", raw, err)
	}

	sel := &Selector{raw: raw, chains: chains}
	sel.candidates = extractCandidates(chains)
	return sel, nil
}

// MustParse compiles a selector and panics on error. Intended for static
// selectors in rule definitions and tests.
func MustParse(raw string) *Selector {
	sel, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return sel
}

// Raw returns the original selector string.
func (s *Selector) Raw() string {
	return s.raw
}

// Candidates returns the node types this selector can possibly match.
// nil means the selector is universal. The returned slice must not be
// mutated.
func (s *Selector) Candidates() []string {
	return s.candidates
}

// extractCandidates performs the static candidate-type analysis: each chain
// contributes the type constraint of its rightmost compound. Any chain
// without one makes the whole selector universal.
func extractCandidates(chains []chain) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ch := range chains {
		last := ch.compounds[len(ch.compounds)-1]
		if last.nodeType == "" {
			return nil
		}
		if !seen[last.nodeType] {
			seen[last.nodeType] = true
			out = append(out, last.nodeType)
		}
	}
	return out
}

// TypeOf resolves a node's type tag. Walks over mixed-grammar trees pass a
// resolver that knows which attribute key each node's grammar uses.
type TypeOf func(*flast.Node) string

// KeyType returns a resolver reading the type tag under a single key.
func KeyType(typeKey string) TypeOf {
	return func(n *flast.Node) string { return n.Type(typeKey) }
}

// Matches tests the selector against a node plus its ancestry. Ancestry is
// ordered nearest-ancestor-first. typeKey is the attribute key holding the
// node type tag in the node's grammar.
func (s *Selector) Matches(node *flast.Node, ancestry []*flast.Node, typeKey string) bool {
	return s.MatchesFunc(node, ancestry, KeyType(typeKey))
}

// MatchesFunc is Matches with an explicit type resolver, for ancestries that
// cross a grammar boundary.
func (s *Selector) MatchesFunc(node *flast.Node, ancestry []*flast.Node, typeOf TypeOf) bool {
	for _, ch := range s.chains {
		if matchChain(ch, node, ancestry, typeOf) {
			return true
		}
	}
	return false
}

func matchChain(ch chain, node *flast.Node, ancestry []*flast.Node, typeOf TypeOf) bool {
	last := len(ch.compounds) - 1
	if !matchCompound(ch.compounds[last], node, typeOf) {
		return false
	}
	return matchAncestors(ch, last-1, ancestry, 0, typeOf)
}

// matchAncestors matches compounds [0..compIdx] right-to-left against the
// ancestry starting at ancIdx. Descendant combinators may skip ancestors, so
// the search backtracks across skip positions.
func matchAncestors(ch chain, compIdx int, ancestry []*flast.Node, ancIdx int, typeOf TypeOf) bool {
	if compIdx < 0 {
		return true
	}

	comb := ch.combinators[compIdx]
	comp := ch.compounds[compIdx]

	switch comb {
	case combChild:
		if ancIdx >= len(ancestry) {
			return false
		}
		if !matchCompound(comp, ancestry[ancIdx], typeOf) {
			return false
		}
		return matchAncestors(ch, compIdx-1, ancestry, ancIdx+1, typeOf)

	default: // descendant
		for i := ancIdx; i < len(ancestry); i++ {
			if matchCompound(comp, ancestry[i], typeOf) &&
				matchAncestors(ch, compIdx-1, ancestry, i+1, typeOf) {
				return true
			}
		}
		return false
	}
}

func matchCompound(comp compound, node *flast.Node, typeOf TypeOf) bool {
	if node == nil {
		return false
	}
	if comp.nodeType != "" && typeOf(node) != comp.nodeType {
		return false
	}
	for _, attr := range comp.attrs {
		if !matchAttr(attr, node) {
			return false
		}
	}
	return true
}

func matchAttr(attr attrTest, node *flast.Node) bool {
	v, ok := node.Get(attr.key)
	switch attr.op {
	case opExists:
		return ok
	case opEquals:
		return ok && attrString(v) == attr.value
	case opNotEquals:
		// Absent attributes count as "not equal", matching CSS semantics
		// where [k!=v] is shorthand for :not([k=v]).
		return !ok || attrString(v) != attr.value
	default:
		return false
	}
}

// attrString normalizes attribute values for comparison against selector
// literals.
func attrString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return fmt.Sprintf("%d", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
